package ratelimit

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdaptiveLimiter_UsesPrimary(t *testing.T) {
	limiter := NewAdaptiveLimiter(
		NewRedisLimiter(setupTestRedis(t), testLogger()),
		NewMemoryLimiter(testLogger()),
		testLogger(),
	)

	result, err := limiter.Check(context.Background(), "user:1", 5, time.Minute)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, 4, result.Remaining)
}

func TestAdaptiveLimiter_FallsBackOnPrimaryFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close() // primary now errors on every call

	limiter := NewAdaptiveLimiter(
		NewRedisLimiter(client, testLogger()),
		NewMemoryLimiter(testLogger()),
		testLogger(),
	)
	ctx := context.Background()

	// The fallback halves the limit: 4 becomes 2 per window.
	for i := 0; i < 3; i++ {
		result, err := limiter.Check(ctx, "user:1", 4, time.Minute)
		require.NoError(t, err)
		if i < 2 {
			assert.True(t, result.Allowed, "attempt %d", i)
		} else {
			assert.False(t, result.Allowed, "attempt %d", i)
		}
	}
}
