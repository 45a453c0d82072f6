package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const defaultTimeout = 10 * time.Second

// HTTPClient talks to a remote wallet service over its REST API.
type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPClient creates a wallet client for the service at baseURL.
// token is the internal service bearer token; pass "" when the wallet
// endpoint is unauthenticated.
func NewHTTPClient(baseURL, token string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) GetAccount(ctx context.Context, id uuid.UUID) (*Account, error) {
	var account Account
	path := fmt.Sprintf("/api/accounts/%s", id)
	if err := c.do(ctx, http.MethodGet, path, nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *HTTPClient) GetAccountByOwner(ctx context.Context, ownerID uuid.UUID, currency string) (*Account, error) {
	var account Account
	path := fmt.Sprintf("/api/accounts/owner/%s?currency=%s", ownerID, currency)
	if err := c.do(ctx, http.MethodGet, path, nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *HTTPClient) ApplyTransaction(ctx context.Context, req *ApplyRequest) (*Transaction, error) {
	var tx Transaction
	if err := c.do(ctx, http.MethodPost, "/api/ledger/transactions", req, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type dataEnvelope struct {
	Data json.RawMessage `json:"data"`
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		// Covers timeouts, refused connections and broken pipes. A POST
		// may or may not have been applied, so the outcome is unknown.
		return &AmbiguousError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &AmbiguousError{Err: err}
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return &AmbiguousError{Err: fmt.Errorf("wallet returned %d: %s", resp.StatusCode, raw)}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return mapErrorBody(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	var envelope dataEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("failed to decode wallet response: %w", err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to decode wallet response: %w", err)
	}
	return nil
}

func mapErrorBody(status int, raw []byte) error {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return fmt.Errorf("wallet returned %d: %s", status, raw)
	}
	switch body.Code {
	case "ACCOUNT_NOT_FOUND":
		return ErrAccountNotFound
	case "ACCOUNT_FROZEN":
		return ErrAccountFrozen
	case "INSUFFICIENT_FUNDS":
		return ErrInsufficientFunds
	case "LEDGER_IMBALANCE":
		return ErrLedgerImbalance
	}
	return fmt.Errorf("wallet returned %d: %s", status, body.Error)
}
