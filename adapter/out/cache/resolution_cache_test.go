package cache

import (
	"context"
	"testing"
	"time"

	"skincheck_server/core/domain"
	"skincheck_server/pkg/cache"
	"skincheck_server/pkg/metrics"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolutionCache(t *testing.T, m *metrics.Metrics) (*ResolutionCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewResolutionCache(cache.NewRedisCache(client), 10*time.Minute, m), mr
}

func TestResolutionCache_RoundTrip(t *testing.T) {
	m := metrics.New()
	c, mr := newTestResolutionCache(t, m)
	ctx := context.Background()

	_, found, err := c.Get(ctx, "oily", "glycerin")
	require.NoError(t, err)
	assert.False(t, found)

	resolved := domain.NewResolved("Glycerin", &domain.Ingredient{ID: 4, Name: "Glycerin", SkinTypes: []string{"oily"}, Verdict: "Moderate"}, domain.TierExactSkin)
	require.NoError(t, c.Set(ctx, "oily", "glycerin", resolved))

	got, found, err := c.Get(ctx, "oily", "glycerin")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, resolved, got)
	assert.Equal(t, 10*time.Minute, mr.TTL("skincheck:resolve:oily:glycerin"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues(metrics.CacheHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues(metrics.CacheMiss)))
}

func TestResolutionCache_UnresolvedSurvivesRoundTrip(t *testing.T) {
	c, _ := newTestResolutionCache(t, nil)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "dry", "xyzzy", domain.NewUnresolved("xyzzy")))

	got, found, err := c.Get(ctx, "dry", "xyzzy")
	require.NoError(t, err)
	require.True(t, found)
	assert.False(t, got.Resolved())
	assert.Equal(t, domain.TierUnresolved, got.Tier)
}

func TestResolutionCache_SkinTypesAreSeparate(t *testing.T) {
	c, _ := newTestResolutionCache(t, nil)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "oily", "glycerin", domain.NewUnresolved("glycerin")))

	_, found, err := c.Get(ctx, "dry", "glycerin")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResolutionCache_ErrorIsReported(t *testing.T) {
	m := metrics.New()
	c, mr := newTestResolutionCache(t, m)
	mr.SetError("server down")

	_, _, err := c.Get(context.Background(), "oily", "water")
	assert.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues(metrics.CacheError)))
}

func TestResolutionCache_Flush(t *testing.T) {
	c, mr := newTestResolutionCache(t, nil)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "oily", "a", domain.NewUnresolved("a")))
	require.NoError(t, c.Set(ctx, "dry", "b", domain.NewUnresolved("b")))
	require.NoError(t, mr.Set("other", "keep"))

	n, err := c.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, mr.Exists("other"))
}
