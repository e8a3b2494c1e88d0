package types

import (
	"math/big"
)

// BlockEvent is the per-block trigger delivered to the engine. Events arrive
// one at a time, in ascending block order.
type BlockEvent struct {
	Number    uint64
	Timestamp uint64
}

// Report is the structured record returned after every processed block,
// whether or not a trade was attempted.
type Report struct {
	BlockCount    uint64   `json:"block_count"`
	ArbCount      uint64   `json:"arb_count"`
	SignerBalance *big.Int `json:"signer_balance"`

	// Last observed sqrtPriceX96 values of the two venues.
	OraclePrice *big.Int `json:"univ3_sqrt_price_x96"`
	PoolPrice   *big.Int `json:"mrglv1_sqrt_price_x96"`
}
