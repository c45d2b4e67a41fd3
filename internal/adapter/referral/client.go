package referral

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/CJPJ007/ar-properties-identity/internal/domain"
)

// Client posts referral completion events to the backend.
type Client interface {
	Post(ctx context.Context, event domain.ReferralEvent) error
}

// HTTPClient is the default HTTP implementation.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient constructs the default referral client.
func NewHTTPClient(baseURL string, client *http.Client) *HTTPClient {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{baseURL: baseURL, httpClient: client}
}

// Post delivers a completion event. The response body is not inspected
// beyond the status class.
func (c *HTTPClient) Post(ctx context.Context, event domain.ReferralEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode referral event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/referrals", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build referral request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("referral request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode >= 300 {
		return fmt.Errorf("referral post failed: status=%d", resp.StatusCode)
	}
	return nil
}
