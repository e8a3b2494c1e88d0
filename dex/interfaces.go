package dex

import (
	"context"
	"math/big"
)

// PriceSource reads the current square-root price of a venue.
//
// Prices are sqrtPriceX96 values: the square root of the token1/token0 price
// scaled by 2^96, matching the fixed-point representation both venues store
// on-chain.
type PriceSource interface {
	// SqrtPriceX96 returns the venue's current square-root price.
	SqrtPriceX96(ctx context.Context) (*big.Int, error)
}
