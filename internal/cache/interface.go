package cache

import (
	"context"
	"time"

	"github.com/andreybutenko/formalwear-server/internal/domain"
)

// SessionCacheResult wraps a cached user resolved from a session token.
type SessionCacheResult struct {
	User domain.User `json:"user"`
}

// SessionCache caches token-to-user lookups for the authorization gate.
// Entries must be invalidated whenever the user's token or profile changes.
type SessionCache interface {
	Get(ctx context.Context, key string) (*SessionCacheResult, error)
	Set(ctx context.Context, key string, result *SessionCacheResult, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	BuildKeyByToken(token string) string
	Close() error
}
