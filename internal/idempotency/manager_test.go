package idempotency

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager(t *testing.T) (Manager, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewManager(NewRedisStore(client, log), log, time.Minute), mr
}

func TestManagerExecuteOnce(t *testing.T) {
	m, _ := testManager(t)

	calls := 0
	result, err := m.Execute(context.Background(), "k1", time.Hour, func(ctx context.Context) (interface{}, error) {
		calls++
		return "done", nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.False(t, result.FromCache)
	assert.Equal(t, "done", result.Response)
}

func TestManagerReplaysCompleted(t *testing.T) {
	m, _ := testManager(t)
	ctx := context.Background()

	calls := 0
	fn := func(ctx context.Context) (interface{}, error) {
		calls++
		return "first", nil
	}

	_, err := m.Execute(ctx, "k1", time.Hour, fn)
	require.NoError(t, err)

	result, err := m.Execute(ctx, "k1", time.Hour, fn)
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "operation must not run twice")
	assert.True(t, result.FromCache)
	assert.Equal(t, "first", result.Response)
}

func TestManagerDropsInFlightDuplicate(t *testing.T) {
	m, mr := testManager(t)
	ctx := context.Background()

	// Another worker holds the lock but has not completed yet.
	require.NoError(t, mr.Set("idempotency:k1:lock", "1"))

	_, err := m.Execute(ctx, "k1", time.Hour, func(ctx context.Context) (interface{}, error) {
		t.Fatal("operation must not run while the key is locked")
		return nil, nil
	})
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestManagerRetriesAfterFailure(t *testing.T) {
	m, _ := testManager(t)
	ctx := context.Background()

	calls := 0
	boom := errors.New("boom")

	_, err := m.Execute(ctx, "k1", time.Hour, func(ctx context.Context) (interface{}, error) {
		calls++
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	result, err := m.Execute(ctx, "k1", time.Hour, func(ctx context.Context) (interface{}, error) {
		calls++
		return "recovered", nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.False(t, result.FromCache)
	assert.Equal(t, "recovered", result.Response)
}

func TestManagerReplayExpiresWithTTL(t *testing.T) {
	m, mr := testManager(t)
	ctx := context.Background()

	calls := 0
	fn := func(ctx context.Context) (interface{}, error) {
		calls++
		return calls, nil
	}

	_, err := m.Execute(ctx, "k1", time.Minute, fn)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	result, err := m.Execute(ctx, "k1", time.Minute, fn)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.False(t, result.FromCache)
}

func TestManagerNilOperation(t *testing.T) {
	m, _ := testManager(t)

	_, err := m.Execute(context.Background(), "k1", time.Hour, nil)
	require.Error(t, err)
}

func TestKeyGenerators(t *testing.T) {
	assert.Equal(t, UpdateKey(1001), UpdateKey(1001))
	assert.NotEqual(t, UpdateKey(1001), UpdateKey(1002))

	assert.Equal(t, CallbackKey(5, 10, "lang:en"), CallbackKey(5, 10, "lang:en"))
	assert.NotEqual(t, CallbackKey(5, 10, "lang:en"), CallbackKey(5, 10, "lang:ar"))
	assert.NotEqual(t, UpdateKey(5), CallbackKey(5, 0, ""))
}
