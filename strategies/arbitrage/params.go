package arbitrage

import (
	"math/big"

	"github.com/cespare/xxhash/v2"
	"github.com/ethereum/go-ethereum/common"

	"github.com/mrgl-labs/arbbot/dex/marginal"
	"github.com/mrgl-labs/arbbot/gas"
)

// maxUint160 caps the sqrt price limit at the widest value the contract's
// uint160 slot can represent.
var maxUint160 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 160), big.NewInt(1))

// Decision is the per-block arbitrage decision. It is built fresh each cycle
// and never retained across blocks.
type Decision struct {
	RelDiff        float64
	Triggered      bool
	SqrtPriceLimit *big.Int
	Deadline       uint64
	FeeBudget      *big.Int
}

// Builder derives the transaction parameters for a triggered block. It
// performs no I/O and is fully deterministic given its inputs.
type Builder struct {
	slippage       float64
	amountOutMin   *big.Int
	deadlineWindow uint64
	budget         *gas.Budget
}

// NewBuilder creates a parameter builder from the configured trade settings
func NewBuilder(slippage float64, amountOutMin *big.Int, deadlineWindow uint64, budget *gas.Budget) *Builder {
	return &Builder{
		slippage:       slippage,
		amountOutMin:   new(big.Int).Set(amountOutMin),
		deadlineWindow: deadlineWindow,
		budget:         budget,
	}
}

// Build derives the decision and the ordered execute tuple for one block.
//
// The price limit widens the oracle price in the direction of expected
// movement, limit = oraclePrice * (1 ± slippage), and is clamped to the
// maximum uint160. Only the limit slot matching relDiff's sign is populated;
// the other stays zero. The minimum output covers both the configured profit
// floor and the fee budget, so a fill that cannot pay for its own gas reverts
// on-chain instead of executing at a loss.
func (b *Builder) Build(
	state *SessionState,
	recipient common.Address,
	relDiff float64,
	oraclePrice *big.Int,
	blockTimestamp uint64,
) (*Decision, marginal.ExecuteParams) {
	deadline := blockTimestamp + b.deadlineWindow
	feeBudget := b.budget.Fee()

	slip := 1 + b.slippage
	if relDiff < 0 {
		slip = 1 - b.slippage
	}
	limit, _ := new(big.Float).Mul(new(big.Float).SetInt(oraclePrice), big.NewFloat(slip)).Int(nil)
	if limit.Cmp(maxUint160) > 0 {
		limit = new(big.Int).Set(maxUint160)
	}

	var limit0, limit1 *big.Int
	if relDiff > 0 {
		limit0, limit1 = limit, big.NewInt(0)
	} else {
		limit0, limit1 = big.NewInt(0), limit
	}

	decision := &Decision{
		RelDiff:        relDiff,
		Triggered:      true,
		SqrtPriceLimit: limit,
		Deadline:       deadline,
		FeeBudget:      feeBudget,
	}

	params := marginal.ExecuteParams{
		Token0:          state.Token0,
		Token1:          state.Token1,
		Maintenance:     state.Maintenance,
		Oracle:          state.Oracle,
		Recipient:       recipient,
		WETH9:           state.WETH9,
		AmountOutMin:    new(big.Int).Add(b.amountOutMin, feeBudget),
		SqrtPriceLimit0: limit0,
		SqrtPriceLimit1: limit1,
		Deadline:        new(big.Int).SetUint64(deadline),
		SweepAsETH:      true,
	}

	return decision, params
}

// ParamsDigest fingerprints an execute tuple for log correlation across the
// submit/confirm lifecycle.
func ParamsDigest(p marginal.ExecuteParams) uint64 {
	d := xxhash.New()
	d.Write(p.Token0.Bytes())
	d.Write(p.Token1.Bytes())
	d.Write(p.Maintenance.Bytes())
	d.Write(p.Oracle.Bytes())
	d.Write(p.Recipient.Bytes())
	d.Write(p.WETH9.Bytes())
	d.Write(p.AmountOutMin.Bytes())
	d.Write(p.SqrtPriceLimit0.Bytes())
	d.Write(p.SqrtPriceLimit1.Bytes())
	d.Write(p.Deadline.Bytes())
	return d.Sum64()
}
