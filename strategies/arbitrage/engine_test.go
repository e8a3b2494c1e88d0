package arbitrage

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mrgl-labs/arbbot/dex/marginal"
	"github.com/mrgl-labs/arbbot/gas"
	"github.com/mrgl-labs/arbbot/types"
	"github.com/mrgl-labs/arbbot/utils/metrics"
)

type fakeSource struct {
	price *big.Int
	err   error
}

func (f *fakeSource) SqrtPriceX96(ctx context.Context) (*big.Int, error) {
	return f.price, f.err
}

type fakeSender struct {
	calls int
	err   error
	last  marginal.ExecuteParams
}

func (f *fakeSender) Send(ctx context.Context, params marginal.ExecuteParams) (common.Hash, error) {
	f.calls++
	f.last = params
	if f.err != nil {
		return common.Hash{}, f.err
	}
	return common.HexToHash("0xabc123"), nil
}

type fakeBalance struct {
	bal *big.Int
	err error
}

func (f *fakeBalance) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	return f.bal, f.err
}

func newTestEngine(t *testing.T, oracle, pool *fakeSource, sender *fakeSender, bal *fakeBalance) *Engine {
	t.Helper()

	state := testState(t)
	m := metrics.NewBotMetrics("test", prometheus.NewRegistry())
	budget := gas.NewBudget(big.NewInt(10_000_000_000), 250000, 0.125)

	engine, err := NewEngine(EngineConfig{
		Tolerance: 0.0025,
		Reader:    NewPriceReader(oracle, pool, rate.NewLimiter(rate.Inf, 0)),
		Builder:   NewBuilder(0.005, big.NewInt(0), 600, budget),
		Executor:  NewExecutor(sender, zap.NewNop(), m),
		State:     state,
		Balance:   bal,
		Recipient: testSigner,
		Logger:    zap.NewNop(),
		Metrics:   m,
	})
	require.NoError(t, err)
	return engine
}

func TestProcessBlockNotTriggered(t *testing.T) {
	sender := &fakeSender{}
	engine := newTestEngine(t,
		&fakeSource{price: big.NewInt(100)},
		&fakeSource{price: big.NewInt(100)},
		sender,
		&fakeBalance{bal: big.NewInt(5)},
	)

	report, err := engine.ProcessBlock(context.Background(), types.BlockEvent{Number: 1, Timestamp: 1_700_000_000})
	require.NoError(t, err)

	assert.Equal(t, uint64(1), report.BlockCount)
	assert.Equal(t, uint64(0), report.ArbCount)
	assert.Equal(t, 0, sender.calls, "no divergence, no submission")
	assert.Equal(t, 0, report.OraclePrice.Cmp(big.NewInt(100)))
	assert.Equal(t, 0, report.PoolPrice.Cmp(big.NewInt(100)))
}

func TestProcessBlockTriggeredAndConfirmed(t *testing.T) {
	sender := &fakeSender{}
	engine := newTestEngine(t,
		&fakeSource{price: big.NewInt(103)},
		&fakeSource{price: big.NewInt(100)},
		sender,
		&fakeBalance{bal: big.NewInt(42)},
	)

	report, err := engine.ProcessBlock(context.Background(), types.BlockEvent{Number: 1, Timestamp: 1_700_000_000})
	require.NoError(t, err)

	assert.Equal(t, 1, sender.calls)
	assert.Equal(t, uint64(1), report.BlockCount)
	assert.Equal(t, uint64(1), report.ArbCount)
	assert.Equal(t, 0, report.SignerBalance.Cmp(big.NewInt(42)), "report carries refreshed balance")

	// direction positive: limit0 populated, limit1 zero
	assert.Equal(t, 1, sender.last.SqrtPriceLimit0.Sign())
	assert.Equal(t, 0, sender.last.SqrtPriceLimit1.Sign())
	assert.Equal(t, 0, sender.last.Deadline.Cmp(big.NewInt(1_700_000_600)))
}

func TestProcessBlockTransactionFailureIsRecoverable(t *testing.T) {
	sender := &fakeSender{err: &TxError{Kind: TxRevert, Err: errors.New("execution reverted on-chain")}}
	engine := newTestEngine(t,
		&fakeSource{price: big.NewInt(103)},
		&fakeSource{price: big.NewInt(100)},
		sender,
		&fakeBalance{bal: big.NewInt(5)},
	)

	report, err := engine.ProcessBlock(context.Background(), types.BlockEvent{Number: 1, Timestamp: 1_700_000_000})
	require.NoError(t, err, "transaction failure must not fail the cycle")
	assert.Equal(t, uint64(1), report.BlockCount, "counters still advance")
	assert.Equal(t, uint64(0), report.ArbCount, "failed arb is not counted")

	// the next block is processed normally
	sender.err = nil
	report, err = engine.ProcessBlock(context.Background(), types.BlockEvent{Number: 2, Timestamp: 1_700_000_012})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), report.BlockCount)
	assert.Equal(t, uint64(1), report.ArbCount)
	assert.Equal(t, 2, sender.calls)
}

func TestProcessBlockUnexpectedErrorPropagates(t *testing.T) {
	sender := &fakeSender{err: errors.New("abi: cannot use params")}
	engine := newTestEngine(t,
		&fakeSource{price: big.NewInt(103)},
		&fakeSource{price: big.NewInt(100)},
		sender,
		&fakeBalance{bal: big.NewInt(5)},
	)

	report, err := engine.ProcessBlock(context.Background(), types.BlockEvent{Number: 1, Timestamp: 1_700_000_000})
	assert.Error(t, err)
	assert.Nil(t, report)
	assert.Equal(t, uint64(0), engine.State().BlockCount, "fatal cycle does not advance counters")
}

func TestProcessBlockVenueUnavailable(t *testing.T) {
	sender := &fakeSender{}
	engine := newTestEngine(t,
		&fakeSource{err: errors.New("connection reset")},
		&fakeSource{price: big.NewInt(100)},
		sender,
		&fakeBalance{bal: big.NewInt(5)},
	)

	report, err := engine.ProcessBlock(context.Background(), types.BlockEvent{Number: 1, Timestamp: 1_700_000_000})
	require.NoError(t, err, "unavailable venue skips the block, not the worker")
	assert.Equal(t, uint64(1), report.BlockCount)
	assert.Equal(t, uint64(0), report.ArbCount)
	assert.Equal(t, 0, sender.calls)
	assert.Nil(t, report.OraclePrice)
	assert.Nil(t, report.PoolPrice)
}

func TestProcessBlockZeroPriceIsUnavailable(t *testing.T) {
	sender := &fakeSender{}
	engine := newTestEngine(t,
		&fakeSource{price: big.NewInt(0)},
		&fakeSource{price: big.NewInt(100)},
		sender,
		&fakeBalance{bal: big.NewInt(5)},
	)

	report, err := engine.ProcessBlock(context.Background(), types.BlockEvent{Number: 1, Timestamp: 1_700_000_000})
	require.NoError(t, err)
	assert.Equal(t, 0, sender.calls)
	assert.Equal(t, uint64(1), report.BlockCount)
}

func TestProcessBlockReplayReturnsCachedReport(t *testing.T) {
	sender := &fakeSender{}
	engine := newTestEngine(t,
		&fakeSource{price: big.NewInt(103)},
		&fakeSource{price: big.NewInt(100)},
		sender,
		&fakeBalance{bal: big.NewInt(5)},
	)

	first, err := engine.ProcessBlock(context.Background(), types.BlockEvent{Number: 7, Timestamp: 1_700_000_000})
	require.NoError(t, err)

	replay, err := engine.ProcessBlock(context.Background(), types.BlockEvent{Number: 7, Timestamp: 1_700_000_000})
	require.NoError(t, err)

	assert.Same(t, first, replay, "replayed block returns the cached report")
	assert.Equal(t, 1, sender.calls, "replay cannot double-submit")
	assert.Equal(t, uint64(1), engine.State().BlockCount, "replay cannot double-count")
}

func TestProcessBlockBalanceRefreshBestEffort(t *testing.T) {
	sender := &fakeSender{}
	engine := newTestEngine(t,
		&fakeSource{price: big.NewInt(100)},
		&fakeSource{price: big.NewInt(100)},
		sender,
		&fakeBalance{err: errors.New("balance query failed")},
	)

	report, err := engine.ProcessBlock(context.Background(), types.BlockEvent{Number: 1, Timestamp: 1_700_000_000})
	require.NoError(t, err, "balance refresh is observability only")
	assert.Equal(t, 0, report.SignerBalance.Sign(), "stale balance retained")
}
