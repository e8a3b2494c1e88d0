package arbitrage

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/mrgl-labs/arbbot/dex/marginal"
	"github.com/mrgl-labs/arbbot/utils/metrics"
)

// TxSender submits a built execute tuple and waits for the configured number
// of confirmations. Failures on the transaction path must be returned as
// *TxError; anything else is treated as fatal by the caller.
type TxSender interface {
	Send(ctx context.Context, params marginal.ExecuteParams) (common.Hash, error)
}

// Executor coordinates the submit/confirm/report lifecycle of a triggered
// block.
type Executor struct {
	sender  TxSender
	logger  *zap.Logger
	metrics *metrics.BotMetrics
}

// NewExecutor creates a new execution coordinator
func NewExecutor(sender TxSender, logger *zap.Logger, m *metrics.BotMetrics) *Executor {
	return &Executor{
		sender:  sender,
		logger:  logger,
		metrics: m,
	}
}

// Execute submits the arbitrage call and waits for it to confirm. On success
// arbCount is incremented. A transaction-level failure is logged prominently
// and swallowed: the cycle continues, the submission is not retried, and the
// next divergence check is the only retry path. Any other failure propagates
// and is fatal to the cycle.
func (e *Executor) Execute(ctx context.Context, state *SessionState, params marginal.ExecuteParams) error {
	digest := ParamsDigest(params)

	e.logger.Info("Submitting arbitrage transaction",
		zap.Uint64("params_digest", digest),
		zap.String("amount_out_min", params.AmountOutMin.String()),
		zap.String("sqrt_price_limit0", params.SqrtPriceLimit0.String()),
		zap.String("sqrt_price_limit1", params.SqrtPriceLimit1.String()),
		zap.String("deadline", params.Deadline.String()),
	)

	hash, err := e.sender.Send(ctx, params)
	if err != nil {
		var txErr *TxError
		if errors.As(err, &txErr) {
			e.logger.Error("Transaction error",
				zap.Uint64("params_digest", digest),
				zap.String("kind", txErr.Kind.String()),
				zap.Error(txErr.Err),
			)
			e.metrics.TxFailures.WithLabelValues(txErr.Kind.String()).Inc()
			return nil
		}
		return err
	}

	state.ArbCount++
	e.metrics.ArbsExecuted.Inc()
	e.logger.Info("Arbitrage confirmed",
		zap.Uint64("params_digest", digest),
		zap.String("tx_hash", hash.Hex()),
		zap.Uint64("arb_count", state.ArbCount),
	)
	return nil
}
