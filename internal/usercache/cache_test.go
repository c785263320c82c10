package usercache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZoozFX/Telegram-1-sub000/internal/domain"
)

func testCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewCache(client), mr
}

func TestCacheRoundTrip(t *testing.T) {
	cache, _ := testCache(t)
	ctx := context.Background()

	user := &domain.User{
		ID:         1,
		TelegramID: 42,
		FirstName:  "Dana",
		Language:   domain.LanguageArabic,
	}

	require.NoError(t, cache.Set(ctx, user, DefaultTTL))

	got, err := cache.Get(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.TelegramID, got.TelegramID)
	assert.Equal(t, domain.LanguageArabic, got.Language)
}

func TestCacheMissReturnsNil(t *testing.T) {
	cache, _ := testCache(t)

	got, err := cache.Get(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCacheInvalidate(t *testing.T) {
	cache, _ := testCache(t)
	ctx := context.Background()

	user := &domain.User{TelegramID: 42, Language: domain.LanguageEnglish}
	require.NoError(t, cache.Set(ctx, user, DefaultTTL))
	require.NoError(t, cache.Invalidate(ctx, 42))

	got, err := cache.Get(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCacheEntryExpires(t *testing.T) {
	cache, mr := testCache(t)
	ctx := context.Background()

	user := &domain.User{TelegramID: 42}
	require.NoError(t, cache.Set(ctx, user, time.Second))

	mr.FastForward(2 * time.Second)

	got, err := cache.Get(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNilCacheIsNoOp(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	got, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
	require.NoError(t, cache.Set(ctx, &domain.User{TelegramID: 1}, DefaultTTL))
	require.NoError(t, cache.Invalidate(ctx, 1))
}
