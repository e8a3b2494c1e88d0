package metrics

import (
	"math/big"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gatherValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		m := mf.GetMetric()[0]
		switch mf.GetType() {
		case dto.MetricType_COUNTER:
			return m.GetCounter().GetValue()
		case dto.MetricType_GAUGE:
			return m.GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestBotMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBotMetrics("arbbot", reg)

	m.BlocksProcessed.Inc()
	m.BlocksProcessed.Inc()
	m.ArbsExecuted.Inc()
	m.TxFailures.WithLabelValues("revert").Inc()

	assert.Equal(t, 2.0, gatherValue(t, reg, "arbbot_blocks_processed_total"))
	assert.Equal(t, 1.0, gatherValue(t, reg, "arbbot_arbs_executed_total"))
	assert.Equal(t, 1.0, gatherValue(t, reg, "arbbot_tx_failures_total"))
}

func TestSetBig(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBotMetrics("arbbot", reg)

	bal, ok := new(big.Int).SetString("2500000000000000000", 10) // 2.5 ETH
	require.True(t, ok)
	SetBig(m.SignerBalance, bal)
	assert.InEpsilon(t, 2.5e18, gatherValue(t, reg, "arbbot_signer_balance_wei"), 1e-9)

	// nil leaves the gauge untouched
	SetBig(m.SignerBalance, nil)
	assert.InEpsilon(t, 2.5e18, gatherValue(t, reg, "arbbot_signer_balance_wei"), 1e-9)
}
