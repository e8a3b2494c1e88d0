package arbitrage

import (
	"math"
	"math/big"
)

// Evaluate computes the relative difference between the two venues' square
// root prices and tests it against the divergence tolerance.
//
// relDiff = oraclePrice/poolPrice - 1. The float conversion loses precision,
// which is acceptable here: it only gates the boolean trigger, never an
// on-chain amount. A positive sign means the oracle venue is priced higher,
// so the trade pushes the pool price up toward it; the sign selects which
// directional price limit the builder populates.
//
// The comparison is strict: a difference exactly equal to the tolerance does
// not trigger.
func Evaluate(oraclePrice, poolPrice *big.Int, tolerance float64) (relDiff float64, triggered bool) {
	q := new(big.Float).Quo(
		new(big.Float).SetInt(oraclePrice),
		new(big.Float).SetInt(poolPrice),
	)
	qf, _ := q.Float64()
	relDiff = qf - 1

	return relDiff, math.Abs(relDiff) > tolerance
}
