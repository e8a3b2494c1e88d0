package uniswap

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// V3Pool represents a Uniswap V3 pool contract
type V3Pool struct {
	contract *bind.BoundContract
	address  common.Address
	poolABI  abi.ABI
}

// Pool contract ABI (slot0 only; the pool is used purely as a price reference)
const v3PoolABIJson = `[{
	"constant": true,
	"inputs": [],
	"name": "slot0",
	"outputs": [
		{"name": "sqrtPriceX96", "type": "uint160"},
		{"name": "tick", "type": "int24"},
		{"name": "observationIndex", "type": "uint16"},
		{"name": "observationCardinality", "type": "uint16"},
		{"name": "observationCardinalityNext", "type": "uint16"},
		{"name": "feeProtocol", "type": "uint8"},
		{"name": "unlocked", "type": "bool"}
	],
	"payable": false,
	"stateMutability": "view",
	"type": "function"
}]`

// NewV3Pool creates a new V3Pool instance
func NewV3Pool(address common.Address, backend bind.ContractBackend) (*V3Pool, error) {
	parsedABI, err := abi.JSON(strings.NewReader(v3PoolABIJson))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool ABI: %w", err)
	}

	contract := bind.NewBoundContract(address, parsedABI, backend, backend, backend)

	return &V3Pool{
		contract: contract,
		address:  address,
		poolABI:  parsedABI,
	}, nil
}

// Address returns the pool contract address
func (p *V3Pool) Address() common.Address {
	return p.address
}

// SqrtPriceX96 returns the pool's current square-root price from slot0
func (p *V3Pool) SqrtPriceX96(ctx context.Context) (*big.Int, error) {
	var out []interface{}
	err := p.contract.Call(&bind.CallOpts{Context: ctx}, &out, "slot0")
	if err != nil {
		return nil, fmt.Errorf("failed to get slot0: %w", err)
	}

	price, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("failed to parse sqrtPriceX96")
	}

	return price, nil
}
