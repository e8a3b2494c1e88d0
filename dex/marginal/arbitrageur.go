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

// Arbitrageur represents the pair arbitrageur contract that executes the
// atomic two-venue arbitrage swap on-chain.
type Arbitrageur struct {
	contract *bind.BoundContract
	address  common.Address
	arbABI   abi.ABI
}

// ExecuteParams is the ordered argument tuple of the arbitrageur's execute
// call. Field order and types mirror the on-chain struct exactly.
type ExecuteParams struct {
	Token0          common.Address
	Token1          common.Address
	Maintenance     *big.Int
	Oracle          common.Address
	Recipient       common.Address
	WETH9           common.Address
	AmountOutMin    *big.Int
	SqrtPriceLimit0 *big.Int
	SqrtPriceLimit1 *big.Int
	Deadline        *big.Int
	SweepAsETH      bool
}

const arbitrageurABIJson = `[{
	"constant": true,
	"inputs": [],
	"name": "WETH9",
	"outputs": [{"name": "", "type": "address"}],
	"payable": false,
	"stateMutability": "view",
	"type": "function"
}, {
	"constant": false,
	"inputs": [{
		"name": "params",
		"type": "tuple",
		"components": [
			{"name": "token0", "type": "address"},
			{"name": "token1", "type": "address"},
			{"name": "maintenance", "type": "uint24"},
			{"name": "oracle", "type": "address"},
			{"name": "recipient", "type": "address"},
			{"name": "WETH9", "type": "address"},
			{"name": "amountOutMin", "type": "uint256"},
			{"name": "sqrtPriceLimit0", "type": "uint160"},
			{"name": "sqrtPriceLimit1", "type": "uint160"},
			{"name": "deadline", "type": "uint256"},
			{"name": "sweepAsETH", "type": "bool"}
		]
	}],
	"name": "execute",
	"outputs": [],
	"payable": false,
	"stateMutability": "nonpayable",
	"type": "function"
}]`

// NewArbitrageur creates a new Arbitrageur instance
func NewArbitrageur(address common.Address, backend bind.ContractBackend) (*Arbitrageur, error) {
	parsedABI, err := abi.JSON(strings.NewReader(arbitrageurABIJson))
	if err != nil {
		return nil, fmt.Errorf("failed to parse arbitrageur ABI: %w", err)
	}

	contract := bind.NewBoundContract(address, parsedABI, backend, backend, backend)

	return &Arbitrageur{
		contract: contract,
		address:  address,
		arbABI:   parsedABI,
	}, nil
}

// Address returns the arbitrageur contract address
func (a *Arbitrageur) Address() common.Address {
	return a.address
}

// WETH9 returns the wrapped native token address the contract sweeps into
func (a *Arbitrageur) WETH9(ctx context.Context) (common.Address, error) {
	var out []interface{}
	err := a.contract.Call(&bind.CallOpts{Context: ctx}, &out, "WETH9")
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to get WETH9: %w", err)
	}

	addr, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("failed to parse WETH9 address")
	}

	return addr, nil
}

// PackExecute encodes the execute call with the given parameter tuple
func (a *Arbitrageur) PackExecute(params ExecuteParams) ([]byte, error) {
	data, err := a.arbABI.Pack("execute", params)
	if err != nil {
		return nil, fmt.Errorf("failed to pack execute call: %w", err)
	}
	return data, nil
}
