package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// NoopSessionCache satisfies SessionCache without caching anything. Every
// Get is a miss, so token resolution always hits the store.
type NoopSessionCache struct{}

func NewNoopSessionCache() *NoopSessionCache {
	return &NoopSessionCache{}
}

func (c *NoopSessionCache) BuildKeyByToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("session:token:%s", hex.EncodeToString(sum[:]))
}

func (c *NoopSessionCache) Get(ctx context.Context, key string) (*SessionCacheResult, error) {
	return nil, ErrCacheMiss
}

func (c *NoopSessionCache) Set(ctx context.Context, key string, result *SessionCacheResult, ttl time.Duration) error {
	return nil
}

func (c *NoopSessionCache) Delete(ctx context.Context, keys ...string) error {
	return nil
}

func (c *NoopSessionCache) Close() error {
	return nil
}

var (
	_ SessionCache = (*RedisSessionCache)(nil)
	_ SessionCache = (*NoopSessionCache)(nil)
)
