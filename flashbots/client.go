package flashbots

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	contentTypeJSON  = "application/json"
	flashbotsXHeader = "X-Flashbots-Signature"

	methodSendPrivateTransaction = "eth_sendPrivateTransaction"
)

// Client represents a Flashbots RPC client used for private transaction
// submission. Requests are signed with the auth key so the relay can
// attribute reputation to the sender.
type Client struct {
	httpClient *http.Client
	relayURL   string
	authSigner *ecdsa.PrivateKey
}

// NewClient creates a new Flashbots client
func NewClient(relayURL string, authKey *ecdsa.PrivateKey) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Second * 3,
		},
		relayURL:   relayURL,
		authSigner: authKey,
	}
}

// SendPrivateTransaction submits a single raw signed transaction through the
// private relay and returns the transaction hash the relay reports.
func (c *Client) SendPrivateTransaction(ctx context.Context, rawTx []byte) (common.Hash, error) {
	params := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  methodSendPrivateTransaction,
		"params": []interface{}{
			map[string]interface{}{
				"tx": hexutil.Encode(rawTx),
			},
		},
	}

	payload, err := json.Marshal(params)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to marshal private transaction: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.relayURL, bytes.NewBuffer(payload))
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to create request: %w", err)
	}

	signature, err := crypto.Sign(
		accounts.TextHash([]byte(hexutil.Encode(crypto.Keccak256(payload)))),
		c.authSigner,
	)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to sign request: %w", err)
	}

	header := fmt.Sprintf("%s:%s",
		crypto.PubkeyToAddress(c.authSigner.PublicKey).Hex(),
		hexutil.Encode(signature),
	)

	req.Header.Add("Content-Type", contentTypeJSON)
	req.Header.Add("Accept", contentTypeJSON)
	req.Header.Add(flashbotsXHeader, header)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return common.Hash{}, fmt.Errorf("flashbots request failed: %s", string(body))
	}

	var result struct {
		Result string `json:"result"`
		Error  *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return common.Hash{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if result.Error != nil {
		return common.Hash{}, fmt.Errorf("flashbots relay error %d: %s", result.Error.Code, result.Error.Message)
	}

	return common.HexToHash(result.Result), nil
}
