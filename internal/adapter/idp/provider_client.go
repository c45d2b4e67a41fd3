package idp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	gojose "github.com/go-jose/go-jose/v4"

	"github.com/CJPJ007/ar-properties-identity/internal/domain"
)

// ProviderClient encapsulates outbound HTTP calls to the identity provider.
type ProviderClient interface {
	Keys(ctx context.Context) (*gojose.JSONWebKeySet, error)
	FetchProfile(ctx context.Context, subjectID string) (*domain.IdentityClaims, error)
}

const keysTTL = time.Hour

// HTTPProviderClient is the default HTTP implementation. It caches the
// provider JWKS for keysTTL to keep assertion verification off the network
// on the hot path.
type HTTPProviderClient struct {
	jwksURL    string
	profileURL string
	httpClient *http.Client

	mu        sync.Mutex
	keys      *gojose.JSONWebKeySet
	fetchedAt time.Time
}

// NewHTTPProviderClient constructs the default ProviderClient.
func NewHTTPProviderClient(jwksURL, profileURL string, client *http.Client) *HTTPProviderClient {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPProviderClient{jwksURL: jwksURL, profileURL: profileURL, httpClient: client}
}

// Keys returns the provider's signing keys, refetching when the cache is stale.
func (c *HTTPProviderClient) Keys(ctx context.Context) (*gojose.JSONWebKeySet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.keys != nil && time.Since(c.fetchedAt) < keysTTL {
		return c.keys, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.jwksURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build jwks request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jwks request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read jwks: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("jwks fetch failed: status=%d", resp.StatusCode)
	}

	var set gojose.JSONWebKeySet
	if err := json.Unmarshal(body, &set); err != nil {
		return nil, fmt.Errorf("decode jwks: %w", err)
	}
	if len(set.Keys) == 0 {
		return nil, fmt.Errorf("jwks empty")
	}

	c.keys = &set
	c.fetchedAt = time.Now()
	return c.keys, nil
}

// FetchProfile loads the canonical profile for a subject. The assertion may
// omit fields such as the phone number; this lookup supplies the full set.
func (c *HTTPProviderClient) FetchProfile(ctx context.Context, subjectID string) (*domain.IdentityClaims, error) {
	if strings.TrimSpace(c.profileURL) == "" {
		return nil, fmt.Errorf("profile url missing")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.profileURL+"/"+url.PathEscape(subjectID), nil)
	if err != nil {
		return nil, fmt.Errorf("build profile request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("profile fetch failed: status=%d", resp.StatusCode)
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}

	return &domain.IdentityClaims{
		SubjectID:   stringValue(coalesce(raw["sub"], raw["uid"], raw["localId"])),
		Email:       stringValue(raw["email"]),
		PhoneNumber: stringValue(coalesce(raw["phone_number"], raw["phoneNumber"])),
		DisplayName: stringValue(coalesce(raw["name"], raw["displayName"])),
		PhotoURL:    stringValue(coalesce(raw["picture"], raw["photoUrl"], raw["avatar_url"])),
	}, nil
}

func stringValue(input any) string {
	switch v := input.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

func coalesce(values ...any) any {
	for _, v := range values {
		switch val := v.(type) {
		case string:
			if strings.TrimSpace(val) != "" {
				return v
			}
		case nil:
			continue
		default:
			return v
		}
	}
	return nil
}
