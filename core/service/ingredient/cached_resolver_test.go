package ingredient

import (
	"context"
	"errors"
	"sync"
	"testing"

	"skincheck_server/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	mu      sync.Mutex
	entries map[string]domain.ResolvedIngredient
	getErr  error
	setErr  error
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]domain.ResolvedIngredient)}
}

func (c *memCache) Get(_ context.Context, skin domain.SkinType, name string) (*domain.ResolvedIngredient, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	v, ok := c.entries[string(skin)+"|"+name]
	if !ok {
		return nil, false, nil
	}
	return &v, true, nil
}

func (c *memCache) Set(_ context.Context, skin domain.SkinType, name string, r *domain.ResolvedIngredient) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[string(skin)+"|"+name] = *r
	return nil
}

type stubResolver struct {
	calls int
	rec   *domain.Ingredient
	err   error
}

func (s *stubResolver) Resolve(_ context.Context, raw string, _ domain.SkinType) (*domain.ResolvedIngredient, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.rec == nil {
		return domain.NewUnresolved(raw), nil
	}
	return domain.NewResolved(raw, s.rec, domain.TierExactSkin), nil
}

func TestCachedResolver_NilCacheReturnsNext(t *testing.T) {
	next := &stubResolver{}
	assert.Same(t, next, NewCachedResolver(next, nil))
}

func TestCachedResolver_ReadThrough(t *testing.T) {
	next := &stubResolver{rec: &domain.Ingredient{ID: 9, Name: "Niacinamide", Verdict: "Good"}}
	r := NewCachedResolver(next, newMemCache())
	ctx := context.Background()

	first, err := r.Resolve(ctx, "Niacinamide", "Oily")
	require.NoError(t, err)
	second, err := r.Resolve(ctx, "  NIACINAMIDE ", "oily")
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, int64(9), second.Record.ID)
	assert.Equal(t, domain.TierExactSkin, second.Tier)
	assert.Equal(t, "NIACINAMIDE", second.RawName)
	assert.Equal(t, "Niacinamide", first.RawName)
}

func TestCachedResolver_UnresolvedCarriesNewRawName(t *testing.T) {
	next := &stubResolver{}
	r := NewCachedResolver(next, newMemCache())
	ctx := context.Background()

	_, err := r.Resolve(ctx, "mystery oil", "dry")
	require.NoError(t, err)
	got, err := r.Resolve(ctx, "Mystery Oil", "dry")
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, domain.TierUnresolved, got.Tier)
	assert.Equal(t, "Mystery Oil", got.Record.Name)
}

func TestCachedResolver_SkinTypesAreSeparate(t *testing.T) {
	next := &stubResolver{rec: &domain.Ingredient{ID: 1, Name: "Glycerin"}}
	r := NewCachedResolver(next, newMemCache())
	ctx := context.Background()

	_, _ = r.Resolve(ctx, "glycerin", "dry")
	_, _ = r.Resolve(ctx, "glycerin", "oily")

	assert.Equal(t, 2, next.calls)
}

func TestCachedResolver_CacheFailuresDegrade(t *testing.T) {
	cache := newMemCache()
	cache.getErr = errors.New("redis unavailable")
	cache.setErr = errors.New("redis unavailable")
	next := &stubResolver{rec: &domain.Ingredient{ID: 1, Name: "Glycerin"}}
	r := NewCachedResolver(next, cache)

	got, err := r.Resolve(context.Background(), "glycerin", "dry")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Record.ID)
	assert.Equal(t, 1, next.calls)
}

func TestCachedResolver_ErrorsNotCached(t *testing.T) {
	cache := newMemCache()
	next := &stubResolver{err: errors.New("db down")}
	r := NewCachedResolver(next, cache)

	_, err := r.Resolve(context.Background(), "glycerin", "dry")
	require.Error(t, err)
	assert.Empty(t, cache.entries)
}

func TestCachedResolver_EmptyName(t *testing.T) {
	r := NewCachedResolver(&stubResolver{}, newMemCache())
	_, err := r.Resolve(context.Background(), " ", "dry")
	assert.ErrorIs(t, err, ErrEmptyName)
}
