package arbitrage

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/mrgl-labs/arbbot/dex/marginal"
	"github.com/mrgl-labs/arbbot/signer"
)

// EthBackend is the node surface the sender needs. *ethclient.Client
// satisfies it.
type EthBackend interface {
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// PrivateSubmitter routes a raw signed transaction through a private relay.
type PrivateSubmitter interface {
	SendPrivateTransaction(ctx context.Context, rawTx []byte) (common.Hash, error)
}

// Sender builds, signs, submits, and confirms the arbitrage transaction.
// The gas ceiling bounds worst-case execution; it is distinct from the gas
// estimate that sizes the fee budget.
type Sender struct {
	backend EthBackend
	arb     *marginal.Arbitrageur
	signer  *signer.Signer

	gasPrice      *big.Int
	gasCeiling    uint64
	confirmations uint64
	private       bool
	relay         PrivateSubmitter
	pollInterval  time.Duration

	logger *zap.Logger
}

// NewSender creates a transaction sender. relay may be nil when private
// submission is disabled.
func NewSender(
	backend EthBackend,
	arb *marginal.Arbitrageur,
	sig *signer.Signer,
	gasPrice *big.Int,
	gasCeiling uint64,
	confirmations uint64,
	private bool,
	relay PrivateSubmitter,
	logger *zap.Logger,
) *Sender {
	return &Sender{
		backend:       backend,
		arb:           arb,
		signer:        sig,
		gasPrice:      new(big.Int).Set(gasPrice),
		gasCeiling:    gasCeiling,
		confirmations: confirmations,
		private:       private,
		relay:         relay,
		pollInterval:  2 * time.Second,
		logger:        logger,
	}
}

// Send submits the execute call and blocks until the transaction has the
// required confirmations. Submission failures come back as *TxError; a
// cancelled context or an encoding failure propagates as-is.
func (s *Sender) Send(ctx context.Context, params marginal.ExecuteParams) (common.Hash, error) {
	data, err := s.arb.PackExecute(params)
	if err != nil {
		return common.Hash{}, err
	}

	nonce, err := s.backend.PendingNonceAt(ctx, s.signer.Address())
	if err != nil {
		return common.Hash{}, classifyTxError(err)
	}

	to := s.arb.Address()
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Gas:      s.gasCeiling,
		GasPrice: s.gasPrice,
		Data:     data,
	})

	signed, err := s.signer.SignTx(tx)
	if err != nil {
		return common.Hash{}, classifyTxError(err)
	}

	if s.private {
		raw, err := signed.MarshalBinary()
		if err != nil {
			return common.Hash{}, err
		}
		if _, err := s.relay.SendPrivateTransaction(ctx, raw); err != nil {
			return common.Hash{}, classifyTxError(err)
		}
	} else {
		if err := s.backend.SendTransaction(ctx, signed); err != nil {
			return common.Hash{}, classifyTxError(err)
		}
	}

	s.logger.Debug("Transaction submitted",
		zap.String("tx_hash", signed.Hash().Hex()),
		zap.Uint64("nonce", nonce),
		zap.Bool("private", s.private),
	)

	if err := s.waitConfirmed(ctx, signed.Hash()); err != nil {
		return common.Hash{}, err
	}
	return signed.Hash(), nil
}

// waitConfirmed polls for the receipt, then waits for the chain head to
// advance past the inclusion block by the required confirmation count.
// Inclusion counts as the first confirmation. There is no engine-level
// deadline here: the transaction's own on-chain deadline reverts the call if
// it is mined too late, and the context bounds the wait on shutdown.
func (s *Sender) waitConfirmed(ctx context.Context, txHash common.Hash) error {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	var receipt *types.Receipt
	for receipt == nil {
		r, err := s.backend.TransactionReceipt(ctx, txHash)
		switch {
		case err == nil:
			receipt = r
		case errors.Is(err, ethereum.NotFound):
			// not mined yet
		default:
			s.logger.Debug("Receipt poll failed", zap.Error(err))
		}

		if receipt == nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
	}

	if receipt.Status == types.ReceiptStatusFailed {
		return &TxError{Kind: TxRevert, Err: errors.New("execution reverted on-chain")}
	}

	target := receipt.BlockNumber.Uint64() + s.confirmations - 1
	for {
		head, err := s.backend.BlockNumber(ctx)
		if err == nil && head >= target {
			return nil
		}
		if err != nil {
			s.logger.Debug("Head poll failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
