// Package chain implements the settlement port against the on-chain gateway
// service that fronts the Gold Road contract.
package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"goldroad/internal/ports"
)

// TokenSource mints the bearer token attached to every gateway request.
type TokenSource interface {
	GenerateToken(gameID, action string) (string, error)
}

// Gateway talks JSON over HTTP to the settlement gateway.
type Gateway struct {
	baseURL string
	client  *http.Client
	tokens  TokenSource
}

// NewGateway constructs a gateway client. tokens may be nil when the gateway
// runs without authentication (local development).
func NewGateway(baseURL string, tokens TokenSource) *Gateway {
	return &Gateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		tokens:  tokens,
	}
}

type joinRequest struct {
	Player string `json:"player"`
}

type settleRequest struct {
	Winners []string `json:"winners"`
	Payouts []int64  `json:"payouts"`
}

type settleResponse struct {
	TxHash string `json:"txHash"`
}

type entryFeeResponse struct {
	EntryFee int64 `json:"entryFee"`
}

// JoinOnChain claims the entrance fee for one player joining a game.
func (g *Gateway) JoinOnChain(ctx context.Context, gameID, playerAddress string) error {
	url := fmt.Sprintf("%s/games/%s/join", g.baseURL, gameID)
	if _, err := g.post(ctx, url, gameID, "join", joinRequest{Player: playerAddress}); err != nil {
		return fmt.Errorf("join game %s for %s: %w", gameID, playerAddress, err)
	}
	return nil
}

// SettleOnChain distributes the pot to winners and returns the transaction
// hash reported by the gateway.
func (g *Gateway) SettleOnChain(ctx context.Context, gameID string, winners []string, payouts []int64) (string, error) {
	if len(winners) != len(payouts) {
		return "", fmt.Errorf("winners/payouts length mismatch: %d != %d", len(winners), len(payouts))
	}
	url := fmt.Sprintf("%s/games/%s/settle", g.baseURL, gameID)
	body, err := g.post(ctx, url, gameID, "settle", settleRequest{Winners: winners, Payouts: payouts})
	if err != nil {
		return "", fmt.Errorf("settle game %s: %w", gameID, err)
	}

	var resp settleResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode settle response: %w", err)
	}
	return resp.TxHash, nil
}

// EntryFee reports the fee the contract currently charges per join.
func (g *Gateway) EntryFee(ctx context.Context) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/entry-fee", nil)
	if err != nil {
		return 0, err
	}

	res, err := g.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch entry fee: %w", err)
	}
	defer res.Body.Close()

	body, err := readResponse(res)
	if err != nil {
		return 0, fmt.Errorf("fetch entry fee: %w", err)
	}
	var resp entryFeeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("decode entry fee response: %w", err)
	}
	return resp.EntryFee, nil
}

// post sends an authorized JSON request and returns the response body.
func (g *Gateway) post(ctx context.Context, url, gameID, action string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	if g.tokens != nil {
		token, err := g.tokens.GenerateToken(gameID, action)
		if err != nil {
			return nil, fmt.Errorf("mint gateway token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	return readResponse(res)
}

func readResponse(res *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<16))
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("gateway returned %d: %s", res.StatusCode, bytes.TrimSpace(body))
	}
	return body, nil
}

var _ ports.SettlementPort = (*Gateway)(nil)
