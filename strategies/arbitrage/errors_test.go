package arbitrage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyTxError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind TxErrorKind
	}{
		{"revert", errors.New("execution reverted: STF"), TxRevert},
		{"underpriced", errors.New("transaction underpriced"), TxUnderpriced},
		{"replacement underpriced", errors.New("replacement transaction underpriced"), TxUnderpriced},
		{"nonce too low", errors.New("nonce too low"), TxNonce},
		{"nonce too high", errors.New("nonce too high"), TxNonce},
		{"already known", errors.New("already known"), TxNonce},
		{"transport", errors.New("connection refused"), TxRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txErr := classifyTxError(tt.err)
			assert.Equal(t, tt.kind, txErr.Kind)
			assert.ErrorIs(t, txErr, tt.err)
		})
	}
}

func TestTxErrorUnwrapsThroughWrapping(t *testing.T) {
	inner := classifyTxError(errors.New("nonce too low"))
	wrapped := fmt.Errorf("submit failed: %w", inner)

	var txErr *TxError
	require.ErrorAs(t, wrapped, &txErr)
	assert.Equal(t, TxNonce, txErr.Kind)
}

func TestVenueUnavailableWrapping(t *testing.T) {
	err := fmt.Errorf("univ3 price read: %w: %w", ErrVenueUnavailable, errors.New("timeout"))
	assert.ErrorIs(t, err, ErrVenueUnavailable)
}
