package lifecycle_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZoozFX/Telegram-1-sub000/internal/lifecycle"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExecuteRunsHooksInReverseOrder(t *testing.T) {
	shutdown := lifecycle.NewShutdown(discardLogger())

	var order []string
	for _, name := range []string{"database", "redis", "bot"} {
		n := name
		shutdown.Register(n, func(context.Context) error {
			order = append(order, n)
			return nil
		})
	}

	require.NoError(t, shutdown.Execute(context.Background()))
	assert.Equal(t, []string{"bot", "redis", "database"}, order)
}

func TestExecuteCollectsFailuresWithoutStopping(t *testing.T) {
	shutdown := lifecycle.NewShutdown(discardLogger())

	ran := false
	shutdown.Register("database", func(context.Context) error {
		ran = true
		return nil
	})
	shutdown.Register("worker", func(context.Context) error {
		return errors.New("drain timed out")
	})

	err := shutdown.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "worker: drain timed out")
	assert.True(t, ran, "remaining hooks should still run after a failure")
}

func TestExecuteWithNoHooks(t *testing.T) {
	shutdown := lifecycle.NewShutdown(nil)
	require.NoError(t, shutdown.Execute(context.Background()))
}

func TestRegisterIgnoresNilFunc(t *testing.T) {
	shutdown := lifecycle.NewShutdown(discardLogger())
	shutdown.Register("noop", nil)
	require.NoError(t, shutdown.Execute(context.Background()))
}
