// Package cache adapts Redis to the resolution cache port.
package cache

import (
	"context"
	"fmt"
	"time"

	"skincheck_server/core/domain"
	"skincheck_server/core/port/out"
	"skincheck_server/pkg/cache"
	"skincheck_server/pkg/metrics"
)

var _ out.ResolutionCache = (*ResolutionCache)(nil)

const keyPrefix = "skincheck:resolve:"

// DefaultTTL bounds how long a catalog edit can stay invisible to resolution.
const DefaultTTL = time.Hour

// ResolutionCache stores resolutions in Redis as JSON.
type ResolutionCache struct {
	redis   *cache.RedisCache
	ttl     time.Duration
	metrics *metrics.Metrics
}

// NewResolutionCache creates a cache. A non-positive ttl uses DefaultTTL.
func NewResolutionCache(redis *cache.RedisCache, ttl time.Duration, m *metrics.Metrics) *ResolutionCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ResolutionCache{redis: redis, ttl: ttl, metrics: m}
}

// Key returns the Redis key for a skin type and normalized name.
func Key(skinType domain.SkinType, name string) string {
	return fmt.Sprintf("%s%s:%s", keyPrefix, skinType, name)
}

// Get implements out.ResolutionCache.
func (c *ResolutionCache) Get(ctx context.Context, skinType domain.SkinType, name string) (*domain.ResolvedIngredient, bool, error) {
	var resolved domain.ResolvedIngredient
	found, err := c.redis.GetJSON(ctx, Key(skinType, name), &resolved)
	switch {
	case err != nil:
		c.metrics.RecordCacheLookup(metrics.CacheError)
		return nil, false, fmt.Errorf("resolution cache get: %w", err)
	case !found:
		c.metrics.RecordCacheLookup(metrics.CacheMiss)
		return nil, false, nil
	}
	c.metrics.RecordCacheLookup(metrics.CacheHit)
	return &resolved, true, nil
}

// Set implements out.ResolutionCache.
func (c *ResolutionCache) Set(ctx context.Context, skinType domain.SkinType, name string, resolved *domain.ResolvedIngredient) error {
	if resolved == nil {
		return nil
	}
	if err := c.redis.SetJSON(ctx, Key(skinType, name), resolved, c.ttl); err != nil {
		return fmt.Errorf("resolution cache set: %w", err)
	}
	return nil
}

// Flush drops every cached resolution, e.g. after a catalog import.
func (c *ResolutionCache) Flush(ctx context.Context) (int, error) {
	return c.redis.DeletePrefix(ctx, keyPrefix)
}
