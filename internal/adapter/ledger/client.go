package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kindfi-org/kindfi-sub007/config"
	"github.com/kindfi-org/kindfi-sub007/internal/core/ports"

	"github.com/rs/zerolog"
)

// Client implements ports.LedgerClient against the escrow ledger HTTP API.
// Transient failures (network errors, 5xx, 429) are retried with backoff up
// to the configured count; ledger-side rejections are surfaced as
// *ports.LedgerError and never retried.
type Client struct {
	baseURL    string
	apiKey     string
	maxRetries int
	backoff    time.Duration
	httpClient HTTPDoer
	log        zerolog.Logger
}

// HTTPDoer interface for testability.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewClient creates a ledger API client from configuration.
func NewClient(cfg config.LedgerConfig, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.RetryBackoff,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		log:        log,
	}
}

// NewClientWithDoer creates a client with a custom HTTP doer, for tests.
func NewClientWithDoer(cfg config.LedgerConfig, doer HTTPDoer, log zerolog.Logger) *Client {
	c := NewClient(cfg, log)
	c.httpClient = doer
	return c
}

// errorBody is the ledger API's error envelope.
type errorBody struct {
	Code       string `json:"code"`
	Diagnostic string `json:"diagnostic"`
}

// InitializeContract deploys a new escrow contract on the ledger.
func (c *Client) InitializeContract(ctx context.Context, params ports.InitializeContractParams) (*ports.InitializeContractResult, error) {
	var result ports.InitializeContractResult
	if err := c.do(ctx, http.MethodPost, "/escrow/deploy", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Simulate dry-runs the envelope and returns its authorization requirements.
func (c *Client) Simulate(ctx context.Context, envelope ports.UnsignedEnvelope) (*ports.SimulationResult, error) {
	var result ports.SimulationResult
	if err := c.do(ctx, http.MethodPost, "/transactions/simulate", envelope, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Assemble folds simulation output into the envelope, readying it for signing.
func (c *Client) Assemble(ctx context.Context, envelope ports.UnsignedEnvelope, sim *ports.SimulationResult) (*ports.AssembledEnvelope, error) {
	body := struct {
		Envelope   ports.UnsignedEnvelope  `json:"envelope"`
		Simulation *ports.SimulationResult `json:"simulation"`
	}{Envelope: envelope, Simulation: sim}

	var result ports.AssembledEnvelope
	if err := c.do(ctx, http.MethodPost, "/transactions/assemble", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Submit sends a signed envelope to the ledger.
func (c *Client) Submit(ctx context.Context, signed ports.SignedEnvelope) (*ports.SubmitResult, error) {
	var result ports.SubmitResult
	if err := c.do(ctx, http.MethodPost, "/transactions", signed, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// QueryByContractAddress fetches the authoritative contract snapshot.
func (c *Client) QueryByContractAddress(ctx context.Context, contractAddress string) (*ports.LedgerContractState, error) {
	var result ports.LedgerContractState
	if err := c.do(ctx, http.MethodGet, "/escrow/"+contractAddress, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// QueryByHash resolves the fate of a previously submitted transaction.
// Returns nil, nil when the ledger has no record of the hash.
func (c *Client) QueryByHash(ctx context.Context, txHash string) (*ports.SubmitResult, error) {
	var result ports.SubmitResult
	err := c.do(ctx, http.MethodGet, "/transactions/"+txHash, nil, &result)
	if err != nil {
		var lerr *ports.LedgerError
		if errors.As(err, &lerr) && lerr.Code == "tx_not_found" {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

// ResolveDispute builds the unsigned resolution envelope for the given split.
func (c *Client) ResolveDispute(ctx context.Context, contractAddress, resolverAddress string, approverFunds, serviceProviderFunds int64) (*ports.UnsignedEnvelope, error) {
	body := struct {
		ResolverAddress      string `json:"resolver_address"`
		ApproverFunds        int64  `json:"approver_funds"`
		ServiceProviderFunds int64  `json:"service_provider_funds"`
	}{resolverAddress, approverFunds, serviceProviderFunds}

	var result ports.UnsignedEnvelope
	if err := c.do(ctx, http.MethodPost, "/escrow/"+contractAddress+"/resolve", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ReleaseFunds submits the fund-release transaction for a milestone, or for
// the whole contract when milestoneRef is empty.
func (c *Client) ReleaseFunds(ctx context.Context, contractAddress, milestoneRef string) (*ports.SubmitResult, error) {
	body := struct {
		MilestoneRef string `json:"milestone_ref,omitempty"`
	}{milestoneRef}

	var result ports.SubmitResult
	if err := c.do(ctx, http.MethodPost, "/escrow/"+contractAddress+"/release", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CancelContract voids a deployed contract. Used to compensate a creation
// whose local persistence failed.
func (c *Client) CancelContract(ctx context.Context, contractAddress string) error {
	return c.do(ctx, http.MethodPost, "/escrow/"+contractAddress+"/cancel", nil, nil)
}

// do runs one API call with transient-failure retries. out may be nil when
// the response body is not needed.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal ledger request: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff * time.Duration(attempt)):
			}
		}

		err := c.doOnce(ctx, method, path, body, out)
		if err == nil {
			return nil
		}
		var lerr *ports.LedgerError
		if errors.As(err, &lerr) && !lerr.Transient {
			return err
		}
		lastErr = err
		c.log.Warn().Err(err).Str("method", method).Str("path", path).
			Int("attempt", attempt+1).Msg("ledger call failed")
	}
	return lastErr
}

func (c *Client) doOnce(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create ledger request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ports.LedgerError{Code: "network_error", Diagnostic: err.Error(), Transient: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return classifyError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode ledger response: %w", err)
	}
	return nil
}

// classifyError maps HTTP status codes to retryability. 5xx and 429 are
// transient; everything else carries the ledger's diagnostic verbatim.
func classifyError(resp *http.Response) *ports.LedgerError {
	var eb errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &eb); err != nil || eb.Code == "" {
		eb.Code = fmt.Sprintf("http_%d", resp.StatusCode)
		eb.Diagnostic = string(raw)
	}
	return &ports.LedgerError{
		Code:       eb.Code,
		Diagnostic: eb.Diagnostic,
		Transient:  resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests,
	}
}
