// Package arbitrage implements the per-block decision-and-execution engine:
// read both venue prices, test their divergence, and when triggered submit a
// single atomic arbitrage transaction and wait for it to confirm.
package arbitrage

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"

	"github.com/mrgl-labs/arbbot/types"
	"github.com/mrgl-labs/arbbot/utils/metrics"
)

// seenBlockCap bounds the replay cache. Replays arrive close to the original
// delivery, so a small window is enough.
const seenBlockCap = 128

// BalanceReader reads the executing account's balance. *ethclient.Client
// satisfies it. The balance is observability only; a failed refresh never
// fails the cycle.
type BalanceReader interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// EngineConfig wires the engine's collaborators.
type EngineConfig struct {
	Tolerance float64
	Reader    *PriceReader
	Builder   *Builder
	Executor  *Executor
	State     *SessionState
	Balance   BalanceReader
	Recipient common.Address
	Logger    *zap.Logger
	Metrics   *metrics.BotMetrics
}

// Engine processes block events strictly one at a time, in order. It owns
// the SessionState for the worker's lifetime; there is no internal
// concurrency.
type Engine struct {
	tolerance float64
	reader    *PriceReader
	builder   *Builder
	executor  *Executor
	state     *SessionState
	balance   BalanceReader
	recipient common.Address

	seen *lru.Cache

	logger  *zap.Logger
	metrics *metrics.BotMetrics
}

// NewEngine creates the block-processing engine
func NewEngine(cfg EngineConfig) (*Engine, error) {
	seen, err := lru.New(seenBlockCap)
	if err != nil {
		return nil, fmt.Errorf("failed to create replay cache: %w", err)
	}

	return &Engine{
		tolerance: cfg.Tolerance,
		reader:    cfg.Reader,
		builder:   cfg.Builder,
		executor:  cfg.Executor,
		state:     cfg.State,
		balance:   cfg.Balance,
		recipient: cfg.Recipient,
		seen:      seen,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
	}, nil
}

// State exposes the session counters for lifecycle reporting.
func (e *Engine) State() *SessionState {
	return e.state
}

// ProcessBlock runs one block cycle and returns the per-cycle report.
//
// A replayed block number returns the cached report without re-processing,
// so replays cannot double-count. A venue read failure skips the trade but
// still advances the counters. A transaction-level failure is absorbed by
// the executor. Anything else propagates and the cycle's counters are not
// advanced.
func (e *Engine) ProcessBlock(ctx context.Context, ev types.BlockEvent) (*types.Report, error) {
	if cached, ok := e.seen.Get(ev.Number); ok {
		e.logger.Debug("Replayed block, returning cached report", zap.Uint64("block", ev.Number))
		return cached.(*types.Report), nil
	}

	oraclePrice, poolPrice, err := e.reader.Read(ctx)
	switch {
	case err == nil:
		relDiff, triggered := Evaluate(oraclePrice, poolPrice, e.tolerance)
		e.logger.Info("Venue prices",
			zap.Uint64("block", ev.Number),
			zap.String("univ3_sqrt_price_x96", oraclePrice.String()),
			zap.String("mrglv1_sqrt_price_x96", poolPrice.String()),
			zap.Float64("relative_diff", relDiff),
		)
		metrics.SetBig(e.metrics.OracleSqrtPrice, oraclePrice)
		metrics.SetBig(e.metrics.PoolSqrtPrice, poolPrice)
		e.metrics.SqrtPriceDiff.Set(relDiff)

		if triggered {
			decision, params := e.builder.Build(e.state, e.recipient, relDiff, oraclePrice, ev.Timestamp)
			e.logger.Info("Divergence beyond tolerance",
				zap.Uint64("block", ev.Number),
				zap.Float64("relative_diff", decision.RelDiff),
				zap.String("sqrt_price_limit", decision.SqrtPriceLimit.String()),
				zap.Uint64("deadline", decision.Deadline),
				zap.String("fee_budget", decision.FeeBudget.String()),
			)
			if err := e.executor.Execute(ctx, e.state, params); err != nil {
				return nil, err
			}
		}

	case errors.Is(err, ErrVenueUnavailable):
		e.logger.Warn("Skipping block, venue unavailable",
			zap.Uint64("block", ev.Number),
			zap.Error(err),
		)
		e.metrics.SkippedBlocks.Inc()

	default:
		return nil, err
	}

	e.state.BlockCount++
	e.metrics.BlocksProcessed.Inc()
	e.refreshBalance(ctx)

	report := &types.Report{
		BlockCount:    e.state.BlockCount,
		ArbCount:      e.state.ArbCount,
		SignerBalance: e.state.SignerBalance,
		OraclePrice:   oraclePrice,
		PoolPrice:     poolPrice,
	}
	e.seen.Add(ev.Number, report)
	return report, nil
}

// refreshBalance updates the cached signer balance, best effort.
func (e *Engine) refreshBalance(ctx context.Context) {
	bal, err := e.balance.BalanceAt(ctx, e.recipient, nil)
	if err != nil {
		e.logger.Warn("Failed to refresh signer balance", zap.Error(err))
		return
	}
	e.state.SignerBalance = bal
	metrics.SetBig(e.metrics.SignerBalance, bal)
}
