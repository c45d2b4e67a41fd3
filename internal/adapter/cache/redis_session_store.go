package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/CJPJ007/ar-properties-identity/internal/domain"
	"github.com/CJPJ007/ar-properties-identity/internal/session"
)

const sessionPrefix = "identity:session:"

// RedisSessionStore implements session.Store backed by Redis.
type RedisSessionStore struct {
	client redis.UniversalClient
}

var _ session.Store = (*RedisSessionStore)(nil)

// NewRedisSessionStore constructs a Redis-backed session store.
func NewRedisSessionStore(client redis.UniversalClient) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

// Save stores the encoded token under the session id with TTL. A concurrent
// Save for the same id simply overwrites: last write wins.
func (s *RedisSessionStore) Save(ctx context.Context, id string, token domain.SessionToken, ttl time.Duration) error {
	payload, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, sessionPrefix+id, payload, ttl).Err(); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// Get loads and decodes the token. Missing sessions return (nil, nil).
func (s *RedisSessionStore) Get(ctx context.Context, id string) (*domain.SessionToken, error) {
	bytes, err := s.client.Get(ctx, sessionPrefix+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	var token domain.SessionToken
	if err := json.Unmarshal(bytes, &token); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &token, nil
}

// Delete removes the session key.
func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionPrefix+id).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
