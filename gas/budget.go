package gas

import (
	"math/big"
)

// Budget computes the fee reserved out of the arbitrage output to cover the
// transaction cost. The gas price is a fixed configured constant rather than
// a live quote, so the budget is deterministic across blocks; the buffer
// absorbs moderate price movement instead.
type Budget struct {
	gasPrice    *big.Int
	gasEstimate uint64
	feeBuffer   float64
}

// NewBudget creates a fee budget from the configured cost model
func NewBudget(gasPrice *big.Int, gasEstimate uint64, feeBuffer float64) *Budget {
	return &Budget{
		gasPrice:    new(big.Int).Set(gasPrice),
		gasEstimate: gasEstimate,
		feeBuffer:   feeBuffer,
	}
}

// Fee returns gasPrice * gasEstimate * (1 + feeBuffer). The buffer product
// rounds toward the ceiling so the budget never underfunds the transaction.
func (b *Budget) Fee() *big.Int {
	base := new(big.Int).Mul(b.gasPrice, new(big.Int).SetUint64(b.gasEstimate))

	buffered := new(big.Float).Mul(new(big.Float).SetInt(base), big.NewFloat(b.feeBuffer))
	extra, acc := buffered.Int(nil)
	if acc == big.Below {
		extra.Add(extra, big.NewInt(1))
	}

	return base.Add(base, extra)
}
