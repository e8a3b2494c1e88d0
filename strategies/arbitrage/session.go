package arbitrage

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mrgl-labs/arbbot/dex/marginal"
)

// SessionState holds the per-worker counters and the venue metadata fixed at
// worker start. It is owned exclusively by the single processing cycle;
// cycles are serialized, so no locking is needed.
type SessionState struct {
	BlockCount    uint64
	ArbCount      uint64
	SignerBalance *big.Int

	Token0      common.Address
	Token1      common.Address
	Maintenance *big.Int
	Oracle      common.Address
	WETH9       common.Address
}

// NewSessionState builds the session from the pool metadata and the
// arbitrageur's wrapped native token. One of the pool tokens must be WETH9 so
// profits can be swept out as the native asset; anything else is a fatal
// configuration error.
func NewSessionState(meta *marginal.Metadata, weth9 common.Address) (*SessionState, error) {
	if meta.Token0 != weth9 && meta.Token1 != weth9 {
		return nil, &ConfigError{Reason: "one of the pool tokens must be WETH9"}
	}

	return &SessionState{
		SignerBalance: big.NewInt(0),
		Token0:        meta.Token0,
		Token1:        meta.Token1,
		Maintenance:   meta.Maintenance,
		Oracle:        meta.Oracle,
		WETH9:         weth9,
	}, nil
}
