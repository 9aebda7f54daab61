package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, requests int, window time.Duration) (*RateLimitService, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRateLimitService(client, requests, window), mr
}

func TestRateLimitService_AllowsUnderLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t, 10, 15*time.Minute)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		result, err := limiter.Limit(ctx, "203.0.113.7")
		require.NoError(t, err)
		assert.True(t, result.Allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 10, result.Limit)
		assert.Equal(t, 10-(i+1), result.Remaining)
	}
}

func TestRateLimitService_DeniesOverLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t, 10, 15*time.Minute)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		result, err := limiter.Limit(ctx, "203.0.113.7")
		require.NoError(t, err)
		require.True(t, result.Allowed)
	}

	result, err := limiter.Limit(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, 0, result.Remaining)
	assert.True(t, result.Reset.After(time.Now()))
}

func TestRateLimitService_KeysAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, 15*time.Minute)
	ctx := context.Background()

	first, err := limiter.Limit(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, first.Allowed)

	blocked, err := limiter.Limit(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, blocked.Allowed)

	other, err := limiter.Limit(ctx, "198.51.100.4")
	require.NoError(t, err)
	assert.True(t, other.Allowed)
}

func TestRateLimitService_WindowSlides(t *testing.T) {
	limiter, _ := newTestLimiter(t, 2, 100*time.Millisecond)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		result, err := limiter.Limit(ctx, "203.0.113.7")
		require.NoError(t, err)
		require.True(t, result.Allowed)
	}

	blocked, err := limiter.Limit(ctx, "203.0.113.7")
	require.NoError(t, err)
	require.False(t, blocked.Allowed)

	// Entries older than the window are pruned by score on the next check,
	// so waiting out the window frees the quota.
	time.Sleep(150 * time.Millisecond)

	result, err := limiter.Limit(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestRateLimitService_DisabledWithoutRedis(t *testing.T) {
	limiter := NewRateLimitService(nil, 10, 15*time.Minute)

	assert.False(t, limiter.Enabled())

	result, err := limiter.Limit(context.Background(), "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, 10, result.Remaining)
}

func TestRateLimitService_ErrorWhenRedisDown(t *testing.T) {
	limiter, mr := newTestLimiter(t, 10, 15*time.Minute)
	mr.Close()

	_, err := limiter.Limit(context.Background(), "203.0.113.7")
	assert.Error(t, err)
}
