package marginal

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// Pool represents a Marginal v1 pool contract
type Pool struct {
	contract *bind.BoundContract
	address  common.Address
	poolABI  abi.ABI
}

// Metadata holds the pool parameters that are fixed for the pool's lifetime.
// They are read once at worker start and cached.
type Metadata struct {
	Token0      common.Address
	Token1      common.Address
	Maintenance *big.Int
	Oracle      common.Address
}

// Pool contract ABI (read surface used by the bot)
const poolABIJson = `[{
	"constant": true,
	"inputs": [],
	"name": "state",
	"outputs": [
		{"name": "sqrtPriceX96", "type": "uint160"},
		{"name": "totalPositions", "type": "uint96"},
		{"name": "liquidity", "type": "uint128"},
		{"name": "tick", "type": "int24"},
		{"name": "blockTimestamp", "type": "uint32"},
		{"name": "tickCumulative", "type": "int56"},
		{"name": "feeProtocol", "type": "uint8"},
		{"name": "initialized", "type": "bool"}
	],
	"payable": false,
	"stateMutability": "view",
	"type": "function"
}, {
	"constant": true,
	"inputs": [],
	"name": "token0",
	"outputs": [{"name": "", "type": "address"}],
	"payable": false,
	"stateMutability": "view",
	"type": "function"
}, {
	"constant": true,
	"inputs": [],
	"name": "token1",
	"outputs": [{"name": "", "type": "address"}],
	"payable": false,
	"stateMutability": "view",
	"type": "function"
}, {
	"constant": true,
	"inputs": [],
	"name": "maintenance",
	"outputs": [{"name": "", "type": "uint24"}],
	"payable": false,
	"stateMutability": "view",
	"type": "function"
}, {
	"constant": true,
	"inputs": [],
	"name": "oracle",
	"outputs": [{"name": "", "type": "address"}],
	"payable": false,
	"stateMutability": "view",
	"type": "function"
}]`

// NewPool creates a new Pool instance
func NewPool(address common.Address, backend bind.ContractBackend) (*Pool, error) {
	parsedABI, err := abi.JSON(strings.NewReader(poolABIJson))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool ABI: %w", err)
	}

	contract := bind.NewBoundContract(address, parsedABI, backend, backend, backend)

	return &Pool{
		contract: contract,
		address:  address,
		poolABI:  parsedABI,
	}, nil
}

// Address returns the pool contract address
func (p *Pool) Address() common.Address {
	return p.address
}

// SqrtPriceX96 returns the pool's current square-root price from state()
func (p *Pool) SqrtPriceX96(ctx context.Context) (*big.Int, error) {
	var out []interface{}
	err := p.contract.Call(&bind.CallOpts{Context: ctx}, &out, "state")
	if err != nil {
		return nil, fmt.Errorf("failed to get pool state: %w", err)
	}

	price, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("failed to parse sqrtPriceX96")
	}

	return price, nil
}

// Token0 returns the address of token0
func (p *Pool) Token0(ctx context.Context) (common.Address, error) {
	return p.callAddress(ctx, "token0")
}

// Token1 returns the address of token1
func (p *Pool) Token1(ctx context.Context) (common.Address, error) {
	return p.callAddress(ctx, "token1")
}

// Oracle returns the address of the Uniswap v3 pool the pool oracles against
func (p *Pool) Oracle(ctx context.Context) (common.Address, error) {
	return p.callAddress(ctx, "oracle")
}

// Maintenance returns the pool's minimum maintenance margin requirement
func (p *Pool) Maintenance(ctx context.Context) (*big.Int, error) {
	var out []interface{}
	err := p.contract.Call(&bind.CallOpts{Context: ctx}, &out, "maintenance")
	if err != nil {
		return nil, fmt.Errorf("failed to get maintenance: %w", err)
	}

	m, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("failed to parse maintenance")
	}

	return m, nil
}

// FetchMetadata reads the pool's lifetime-fixed parameters in one pass
func (p *Pool) FetchMetadata(ctx context.Context) (*Metadata, error) {
	token0, err := p.Token0(ctx)
	if err != nil {
		return nil, err
	}
	token1, err := p.Token1(ctx)
	if err != nil {
		return nil, err
	}
	maintenance, err := p.Maintenance(ctx)
	if err != nil {
		return nil, err
	}
	oracle, err := p.Oracle(ctx)
	if err != nil {
		return nil, err
	}

	return &Metadata{
		Token0:      token0,
		Token1:      token1,
		Maintenance: maintenance,
		Oracle:      oracle,
	}, nil
}

func (p *Pool) callAddress(ctx context.Context, method string) (common.Address, error) {
	var out []interface{}
	err := p.contract.Call(&bind.CallOpts{Context: ctx}, &out, method)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to get %s: %w", method, err)
	}

	addr, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("failed to parse %s address", method)
	}

	return addr, nil
}
