package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/brachiGH/firedns-dashboard/internal/types"
)

// CacheService caches settings reads so the resolver-facing endpoints do not
// hit Postgres on every query. Writes always invalidate; a short TTL bounds
// staleness if an invalidation is lost.
type CacheService struct {
	redis *RedisCache
	ttl   time.Duration
}

// NewCacheService creates a new cache service
func NewCacheService(redis *RedisCache, ttl time.Duration) *CacheService {
	return &CacheService{
		redis: redis,
		ttl:   ttl,
	}
}

// SettingsKey generates the cache key for a settings group.
// Format: settings:<group>:<userId>
func SettingsKey(group types.SettingsGroup, userID string) string {
	return fmt.Sprintf("settings:%s:%s", group, userID)
}

// ListKey generates the cache key for an allow or deny list.
// Format: list:<kind>:<userId>
func ListKey(kind types.ListKind, userID string) string {
	return fmt.Sprintf("list:%s:%s", kind, userID)
}

// Set stores a raw JSON payload with the configured TTL.
func (c *CacheService) Set(ctx context.Context, key string, payload []byte) error {
	return c.redis.Set(ctx, key, payload, c.ttl)
}

// Get retrieves a raw JSON payload. A miss returns (nil, nil).
func (c *CacheService) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.redis.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get from cache: %w", err)
	}
	return []byte(data), nil
}

// Invalidate removes one or more keys from cache
func (c *CacheService) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.redis.Del(ctx, keys...)
}

// InvalidateUser removes every cached entry for one user.
func (c *CacheService) InvalidateUser(ctx context.Context, userID string) error {
	for _, pattern := range []string{
		fmt.Sprintf("settings:*:%s", userID),
		fmt.Sprintf("list:*:%s", userID),
	} {
		keys, err := c.redis.Keys(ctx, pattern)
		if err != nil {
			return fmt.Errorf("failed to find keys matching pattern: %w", err)
		}
		if len(keys) == 0 {
			continue
		}
		if err := c.redis.Del(ctx, keys...); err != nil {
			return err
		}
	}
	return nil
}

// TTL returns the configured TTL for this cache service
func (c *CacheService) TTL() time.Duration {
	return c.ttl
}
