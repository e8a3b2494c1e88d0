package marginal

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackExecute(t *testing.T) {
	arb, err := NewArbitrageur(common.HexToAddress("0x5555555555555555555555555555555555555555"), nil)
	require.NoError(t, err)

	params := ExecuteParams{
		Token0:          common.HexToAddress("0x1111111111111111111111111111111111111111"),
		Token1:          common.HexToAddress("0x2222222222222222222222222222222222222222"),
		Maintenance:     big.NewInt(250000),
		Oracle:          common.HexToAddress("0x3333333333333333333333333333333333333333"),
		Recipient:       common.HexToAddress("0x4444444444444444444444444444444444444444"),
		WETH9:           common.HexToAddress("0x1111111111111111111111111111111111111111"),
		AmountOutMin:    big.NewInt(1_000_000),
		SqrtPriceLimit0: big.NewInt(1_005_000),
		SqrtPriceLimit1: big.NewInt(0),
		Deadline:        big.NewInt(1_700_000_600),
		SweepAsETH:      true,
	}

	data, err := arb.PackExecute(params)
	require.NoError(t, err)

	sig := []byte("execute((address,address,uint24,address,address,address,uint256,uint160,uint160,uint256,bool))")
	assert.Equal(t, crypto.Keccak256(sig)[:4], data[:4], "selector mismatch")

	// 11 static tuple fields, one word each, after the selector
	assert.Len(t, data, 4+11*32)
}

func TestPoolABIParses(t *testing.T) {
	pool, err := NewPool(common.HexToAddress("0x2222222222222222222222222222222222222222"), nil)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x2222222222222222222222222222222222222222"), pool.Address())
}
