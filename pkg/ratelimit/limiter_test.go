package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlidingWindowLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := base
	l := NewSlidingWindowLimiter(client, 3, time.Minute)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		now = base.Add(time.Duration(i) * time.Second)
		ok, _ := l.Allow(ctx, "1.2.3.4")
		require.True(t, ok, "request %d", i)
	}

	now = base.Add(10 * time.Second)
	ok, wait := l.Allow(ctx, "1.2.3.4")
	assert.False(t, ok)
	assert.Equal(t, 50*time.Second, wait)

	ok, _ = l.Allow(ctx, "5.6.7.8")
	assert.True(t, ok, "keys are independent")

	now = base.Add(61 * time.Second)
	ok, _ = l.Allow(ctx, "1.2.3.4")
	assert.True(t, ok, "oldest request left the window")
}

func TestSlidingWindowLimiter_FailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	mr.SetError("boom")

	l := NewSlidingWindowLimiter(client, 1, time.Minute)
	for i := 0; i < 3; i++ {
		ok, _ := l.Allow(context.Background(), "k")
		assert.True(t, ok)
	}

	ok, _ := NewSlidingWindowLimiter(nil, 1, time.Minute).Allow(context.Background(), "k")
	assert.True(t, ok)
}

func TestMemoryLimiter(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := base
	l := NewMemoryLimiter(2, time.Minute)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	ok, _ := l.Allow(ctx, "a")
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "a")
	assert.True(t, ok)

	now = base.Add(15 * time.Second)
	ok, wait := l.Allow(ctx, "a")
	assert.False(t, ok)
	assert.Equal(t, 45*time.Second, wait)

	ok, _ = l.Allow(ctx, "b")
	assert.True(t, ok)

	now = base.Add(2 * time.Minute)
	ok, _ = l.Allow(ctx, "a")
	assert.True(t, ok)
	assert.Len(t, l.requests, 1, "expired windows are swept")
}

func TestLimiters_ZeroLimitDisables(t *testing.T) {
	ok, _ := NewMemoryLimiter(0, time.Minute).Allow(context.Background(), "k")
	assert.True(t, ok)
}
