package kyc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kindfi-org/kindfi-sub007/config"

	"github.com/rs/zerolog"
)

// Client implements ports.KYCChecker against the identity-verification
// vendor's HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a KYC vendor client.
func NewClient(cfg config.KYCConfig, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

type eligibilityResponse struct {
	Eligible bool `json:"eligible"`
}

// IsEligible asks the vendor whether the address may hold escrowed funds.
func (c *Client) IsEligible(ctx context.Context, address string) (bool, error) {
	endpoint := c.baseURL + "/verifications/" + url.PathEscape(address)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("create kyc request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("kyc vendor call: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// Unknown address: never verified.
		return false, nil
	case resp.StatusCode >= 400:
		return false, fmt.Errorf("kyc vendor returned status %d", resp.StatusCode)
	}

	var body eligibilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("decode kyc response: %w", err)
	}
	return body.Eligible, nil
}

// AllowAll is a pass-through checker for environments without a KYC vendor.
type AllowAll struct{}

// IsEligible always reports eligibility.
func (AllowAll) IsEligible(context.Context, string) (bool, error) {
	return true, nil
}
