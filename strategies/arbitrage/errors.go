package arbitrage

import (
	"errors"
	"fmt"
	"strings"
)

// ErrVenueUnavailable marks a failed or invalid price read. The block is
// skipped and reported; counters still advance.
var ErrVenueUnavailable = errors.New("venue unavailable")

// ConfigError is a fatal startup error: the pool, arbitrageur, and token
// wiring do not form a tradable configuration.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// TxErrorKind classifies transaction-level failures.
type TxErrorKind int

const (
	// TxRevert is an execution that was mined but reverted.
	TxRevert TxErrorKind = iota
	// TxUnderpriced is a transaction the pool rejected on gas price.
	TxUnderpriced
	// TxNonce is a nonce conflict with a pending or mined transaction.
	TxNonce
	// TxRejected covers remaining signer and transport failures.
	TxRejected
)

func (k TxErrorKind) String() string {
	switch k {
	case TxRevert:
		return "revert"
	case TxUnderpriced:
		return "underpriced"
	case TxNonce:
		return "nonce"
	default:
		return "rejected"
	}
}

// TxError is a transaction-level failure of the submit/confirm path. It is
// recoverable: the cycle logs it and moves on to the next block without
// retrying. Anything not wrapped in a TxError propagates as fatal to the
// cycle.
type TxError struct {
	Kind TxErrorKind
	Err  error
}

func (e *TxError) Error() string {
	return fmt.Sprintf("transaction error (%s): %v", e.Kind, e.Err)
}

func (e *TxError) Unwrap() error {
	return e.Err
}

// classifyTxError wraps a submission failure in a TxError with the kind
// inferred from the node's error message. Every error on the submit path is
// transaction-level; only the confirmation wait can surface fatal errors.
func classifyTxError(err error) *TxError {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "execution reverted"):
		return &TxError{Kind: TxRevert, Err: err}
	case strings.Contains(msg, "underpriced"):
		return &TxError{Kind: TxUnderpriced, Err: err}
	case strings.Contains(msg, "nonce too low"), strings.Contains(msg, "nonce too high"),
		strings.Contains(msg, "already known"):
		return &TxError{Kind: TxNonce, Err: err}
	default:
		return &TxError{Kind: TxRejected, Err: err}
	}
}
