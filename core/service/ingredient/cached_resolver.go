package ingredient

import (
	"context"
	"strings"

	"skincheck_server/core/domain"
	"skincheck_server/core/port/out"
	"skincheck_server/pkg/logger"
)

// CachedResolver puts a read-through cache in front of a resolver.
// Cache failures degrade to a direct lookup.
type CachedResolver struct {
	next  NameResolver
	cache out.ResolutionCache
}

// NewCachedResolver wraps next. A nil cache returns next unchanged.
func NewCachedResolver(next NameResolver, cache out.ResolutionCache) NameResolver {
	if cache == nil {
		return next
	}
	return &CachedResolver{next: next, cache: cache}
}

// Resolve implements NameResolver.
func (c *CachedResolver) Resolve(ctx context.Context, raw string, skinType domain.SkinType) (*domain.ResolvedIngredient, error) {
	key := Normalize(raw).Lower
	if key == "" {
		return nil, ErrEmptyName
	}
	skin := skinType.Normalize()
	raw = strings.TrimSpace(raw)

	cached, ok, err := c.cache.Get(ctx, skin, key)
	if err != nil {
		logger.WithContext(ctx).WithError(err).Warn("resolution cache read failed")
	} else if ok && cached != nil {
		// The cached entry may have been stored for a differently spelled raw name.
		hit := *cached
		hit.RawName = raw
		if hit.Tier == domain.TierUnresolved {
			return domain.NewUnresolved(raw), nil
		}
		return &hit, nil
	}

	resolved, err := c.next.Resolve(ctx, raw, skinType)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, skin, key, resolved); err != nil {
		logger.WithContext(ctx).WithError(err).Warn("resolution cache write failed")
	}
	return resolved, nil
}
