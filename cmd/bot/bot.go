// Package bot wires the chain clients, signer, venue bindings, and the
// arbitrage engine into a single worker, and feeds it one block at a time.
package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mrgl-labs/arbbot/config"
	"github.com/mrgl-labs/arbbot/dex/marginal"
	"github.com/mrgl-labs/arbbot/dex/uniswap"
	"github.com/mrgl-labs/arbbot/flashbots"
	"github.com/mrgl-labs/arbbot/gas"
	"github.com/mrgl-labs/arbbot/signer"
	"github.com/mrgl-labs/arbbot/strategies/arbitrage"
	bottypes "github.com/mrgl-labs/arbbot/types"
	"github.com/mrgl-labs/arbbot/utils/metrics"
)

// RPC read budget shared by the per-block price reads.
const (
	readsPerSecond = 10
	readBurst      = 20
)

// Bot is the single-worker arbitrage agent.
type Bot struct {
	cfg      *config.Config
	client   *ethclient.Client
	wsClient *ethclient.Client
	engine   *arbitrage.Engine
	logger   *zap.Logger
}

// New dials the node, loads the signer, reads the pool metadata once, and
// builds the engine. A pool whose tokens do not include the arbitrageur's
// WETH9 fails here with a configuration error.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Bot, error) {
	client, err := ethclient.DialContext(ctx, cfg.RPCEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}
	wsClient, err := ethclient.DialContext(ctx, cfg.WSEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to WS endpoint: %w", err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	keyHex, err := config.GetRequiredEnv(config.EnvPrivateKey)
	if err != nil {
		return nil, err
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(keyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	sig := signer.New(key, chainID)

	arb, err := marginal.NewArbitrageur(cfg.ArbitrageurAddress, client)
	if err != nil {
		return nil, err
	}
	pool, err := marginal.NewPool(cfg.PoolAddress, client)
	if err != nil {
		return nil, err
	}

	meta, err := pool.FetchMetadata(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read pool metadata: %w", err)
	}
	weth9, err := arb.WETH9(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read arbitrageur WETH9: %w", err)
	}

	state, err := arbitrage.NewSessionState(meta, weth9)
	if err != nil {
		return nil, err
	}

	oraclePool, err := uniswap.NewV3Pool(meta.Oracle, client)
	if err != nil {
		return nil, err
	}

	var relay arbitrage.PrivateSubmitter
	if cfg.TxPrivate {
		relay = flashbots.NewClient(cfg.FlashbotsRelay, key)
	}

	m := metrics.NewBotMetrics("arbbot", prometheus.DefaultRegisterer)
	budget := gas.NewBudget(cfg.GasPriceWei, cfg.GasEstimate, cfg.FeeBuffer)
	sender := arbitrage.NewSender(
		client, arb, sig,
		cfg.GasPriceWei, cfg.GasCeiling, cfg.Confirmations,
		cfg.TxPrivate, relay, logger,
	)

	engine, err := arbitrage.NewEngine(arbitrage.EngineConfig{
		Tolerance: cfg.SqrtPriceTolerance,
		Reader: arbitrage.NewPriceReader(
			oraclePool, pool,
			rate.NewLimiter(rate.Limit(readsPerSecond), readBurst),
		),
		Builder:   arbitrage.NewBuilder(cfg.SqrtPriceSlippage, cfg.AmountOutMinWei, cfg.SecondsToDeadline, budget),
		Executor:  arbitrage.NewExecutor(sender, logger, m),
		State:     state,
		Balance:   client,
		Recipient: sig.Address(),
		Logger:    logger,
		Metrics:   m,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Worker started",
		zap.String("signer", sig.Address().Hex()),
		zap.String("pool", cfg.PoolAddress.Hex()),
		zap.String("oracle", meta.Oracle.Hex()),
		zap.String("arbitrageur", cfg.ArbitrageurAddress.Hex()),
		zap.Bool("private", cfg.TxPrivate),
	)

	return &Bot{
		cfg:      cfg,
		client:   client,
		wsClient: wsClient,
		engine:   engine,
		logger:   logger,
	}, nil
}

// Run subscribes to new heads and processes them strictly in order until the
// context is cancelled or the subscription fails. A failed cycle is logged
// and the next block is still attempted.
func (b *Bot) Run(ctx context.Context) error {
	heads := make(chan *types.Header, 16)
	sub, err := b.wsClient.SubscribeNewHead(ctx, heads)
	if err != nil {
		return fmt.Errorf("failed to subscribe to new heads: %w", err)
	}
	defer sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			b.shutdown()
			return nil
		case err := <-sub.Err():
			b.shutdown()
			return fmt.Errorf("head subscription failed: %w", err)
		case head := <-heads:
			ev := bottypes.BlockEvent{
				Number:    head.Number.Uint64(),
				Timestamp: head.Time,
			}
			report, err := b.engine.ProcessBlock(ctx, ev)
			if err != nil {
				b.logger.Error("Block processing failed",
					zap.Uint64("block", ev.Number),
					zap.Error(err),
				)
				continue
			}
			b.logger.Info("Block processed",
				zap.Uint64("block", ev.Number),
				zap.Uint64("block_count", report.BlockCount),
				zap.Uint64("arb_count", report.ArbCount),
				zap.String("signer_balance", report.SignerBalance.String()),
			)
		}
	}
}

// Close releases the chain clients.
func (b *Bot) Close() {
	b.client.Close()
	b.wsClient.Close()
}

func (b *Bot) shutdown() {
	state := b.engine.State()
	b.logger.Info("Worker stopped",
		zap.Uint64("blocks_handled", state.BlockCount),
		zap.Uint64("arbs_executed", state.ArbCount),
	)
}
