package arbitrage

import (
	"context"
	"fmt"
	"math/big"

	"golang.org/x/time/rate"

	"github.com/mrgl-labs/arbbot/dex"
)

// PriceReader reads the two venues' current square-root prices. Reads are
// rate limited so a fast chain cannot starve the RPC quota shared with the
// submission path.
type PriceReader struct {
	oracle  dex.PriceSource
	pool    dex.PriceSource
	limiter *rate.Limiter
}

// NewPriceReader creates a reader over the oracle (Uniswap v3) and pool
// (Marginal v1) price sources.
func NewPriceReader(oracle, pool dex.PriceSource, limiter *rate.Limiter) *PriceReader {
	return &PriceReader{
		oracle:  oracle,
		pool:    pool,
		limiter: limiter,
	}
}

// Read returns the oracle and pool sqrtPriceX96 values. A failed read or a
// non-positive price surfaces as ErrVenueUnavailable; the caller skips the
// block, it is not retried here.
func (r *PriceReader) Read(ctx context.Context) (oraclePrice, poolPrice *big.Int, err error) {
	oraclePrice, err = r.readOne(ctx, "univ3", r.oracle)
	if err != nil {
		return nil, nil, err
	}
	poolPrice, err = r.readOne(ctx, "mrglv1", r.pool)
	if err != nil {
		return nil, nil, err
	}
	return oraclePrice, poolPrice, nil
}

func (r *PriceReader) readOne(ctx context.Context, venue string, src dex.PriceSource) (*big.Int, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s price read: %w: %w", venue, ErrVenueUnavailable, err)
	}
	price, err := src.SqrtPriceX96(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s price read: %w: %w", venue, ErrVenueUnavailable, err)
	}
	if price == nil || price.Sign() <= 0 {
		return nil, fmt.Errorf("%s price read: %w: zero or invalid sqrtPriceX96", venue, ErrVenueUnavailable)
	}
	return price, nil
}
