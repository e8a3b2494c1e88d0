package flashbots

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendPrivateTransaction(t *testing.T) {
	authKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	authAddr := crypto.PubkeyToAddress(authKey.PublicKey)

	wantHash := common.HexToHash("0x45df1bc3de765927b053ec029fc9d15d6321945b23cac0614eb0b5e61f3a2f2a")

	var gotMethod string
	var gotHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		gotHeader = r.Header.Get("X-Flashbots-Signature")

		var req struct {
			Method string          `json:"method"`
			Params json.RawMessage `json:"params"`
		}
		require.NoError(t, json.Unmarshal(body, &req))
		gotMethod = req.Method

		// signature must recover to the auth signer
		parts := strings.SplitN(gotHeader, ":", 2)
		require.Len(t, parts, 2)
		sig, err := hexutil.Decode(parts[1])
		require.NoError(t, err)
		pub, err := crypto.SigToPub(accounts.TextHash([]byte(hexutil.Encode(crypto.Keccak256(body)))), sig)
		require.NoError(t, err)
		assert.Equal(t, authAddr, crypto.PubkeyToAddress(*pub))

		w.Header().Set("Content-Type", contentTypeJSON)
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":"` + wantHash.Hex() + `"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, authKey)
	hash, err := client.SendPrivateTransaction(context.Background(), []byte{0x02, 0xf8, 0x6f})
	require.NoError(t, err)

	assert.Equal(t, methodSendPrivateTransaction, gotMethod)
	assert.Equal(t, wantHash, hash)
	assert.True(t, strings.HasPrefix(gotHeader, authAddr.Hex()+":"))
}

func TestSendPrivateTransactionRelayError(t *testing.T) {
	authKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentTypeJSON)
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"invalid transaction"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, authKey)
	_, err = client.SendPrivateTransaction(context.Background(), []byte{0x01})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid transaction")
}

func TestSendPrivateTransactionHTTPError(t *testing.T) {
	authKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "relay unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, authKey)
	_, err = client.SendPrivateTransaction(context.Background(), []byte{0x01})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "relay unavailable")
}
