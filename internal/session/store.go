package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/CJPJ007/ar-properties-identity/internal/domain"
)

// Store persists mutable session tokens server-side. Get returns (nil, nil)
// when the session is missing or expired. Concurrent saves for the same id
// are last-write-wins; the pipeline relies on no stronger guarantee.
type Store interface {
	Save(ctx context.Context, id string, token domain.SessionToken, ttl time.Duration) error
	Get(ctx context.Context, id string) (*domain.SessionToken, error)
	Delete(ctx context.Context, id string) error
}

// NewID mints an opaque session identifier.
func NewID() string {
	return uuid.NewString()
}
