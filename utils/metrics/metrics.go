package metrics

import (
	"math/big"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BotMetrics exposes the engine's audit trail: the running counters reported
// after every block plus failure classification.
type BotMetrics struct {
	BlocksProcessed prometheus.Counter
	ArbsExecuted    prometheus.Counter
	SkippedBlocks   prometheus.Counter
	TxFailures      *prometheus.CounterVec

	SignerBalance   prometheus.Gauge
	OracleSqrtPrice prometheus.Gauge
	PoolSqrtPrice   prometheus.Gauge
	SqrtPriceDiff   prometheus.Gauge
}

// NewBotMetrics registers the bot metrics with the given registerer
func NewBotMetrics(namespace string, reg prometheus.Registerer) *BotMetrics {
	factory := promauto.With(reg)

	return &BotMetrics{
		BlocksProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_processed_total",
			Help:      "Total number of block events processed",
		}),
		ArbsExecuted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "arbs_executed_total",
			Help:      "Total number of confirmed arbitrage executions",
		}),
		SkippedBlocks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skipped_blocks_total",
			Help:      "Blocks skipped because a venue price read failed",
		}),
		TxFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tx_failures_total",
			Help:      "Transaction-level failures by kind",
		}, []string{"kind"}),
		SignerBalance: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "signer_balance_wei",
			Help:      "Last observed balance of the executing account",
		}),
		OracleSqrtPrice: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "univ3_sqrt_price_x96",
			Help:      "Last observed Uniswap v3 sqrtPriceX96",
		}),
		PoolSqrtPrice: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mrglv1_sqrt_price_x96",
			Help:      "Last observed Marginal v1 sqrtPriceX96",
		}),
		SqrtPriceDiff: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sqrt_price_relative_diff",
			Help:      "Relative difference between the venue sqrt prices",
		}),
	}
}

// SetBig sets a gauge from a big integer, saturating at the float64 range
func SetBig(g prometheus.Gauge, v *big.Int) {
	if v == nil {
		return
	}
	f, _ := new(big.Float).SetInt(v).Float64()
	g.Set(f)
}
