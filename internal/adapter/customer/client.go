package customer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/CJPJ007/ar-properties-identity/internal/domain"
)

// Client encapsulates outbound HTTP calls to the customer store.
type Client interface {
	Upsert(ctx context.Context, in domain.CustomerUpsert) error
	Lookup(ctx context.Context, identifier string) (*domain.CustomerRecord, error)
}

// HTTPClient is the default HTTP implementation.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient constructs the default customer store client.
func NewHTTPClient(baseURL string, client *http.Client) *HTTPClient {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{baseURL: baseURL, httpClient: client}
}

// Upsert creates or updates the customer record at login. Any 2xx is success.
func (c *HTTPClient) Upsert(ctx context.Context, in domain.CustomerUpsert) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode upsert: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/customer", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build upsert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upsert request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode >= 300 {
		return fmt.Errorf("upsert failed: status=%d", resp.StatusCode)
	}
	return nil
}

// Lookup fetches the canonical record by mobile number or email. The
// identifier is sent as-is, URL-encoded; an empty identifier still issues
// the request and resolves however the backend answers it.
func (c *HTTPClient) Lookup(ctx context.Context, identifier string) (*domain.CustomerRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/customer/"+url.PathEscape(identifier), nil)
	if err != nil {
		return nil, fmt.Errorf("build lookup request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read lookup response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("lookup failed: status=%d", resp.StatusCode)
	}

	var record domain.CustomerRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("decode lookup response: %w", err)
	}
	return &record, nil
}
