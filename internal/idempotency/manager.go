package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"
)

// ErrDuplicate indicates that the same key is already being processed,
// so the caller should drop the request instead of retrying it.
var ErrDuplicate = errors.New("duplicate request is already in progress")

const defaultLockTTL = 2 * time.Minute

// Operation is the unit of work executed at most once per key.
type Operation func(ctx context.Context) (interface{}, error)

// Result carries the operation outcome and whether it was replayed
// from a previous execution.
type Result struct {
	Response  interface{}
	FromCache bool
}

// Manager executes operations at most once per key within a TTL.
// Telegram redelivers webhook updates it considers unacknowledged, and
// users double-tap inline buttons; both arrive here as duplicates.
type Manager interface {
	Execute(ctx context.Context, key string, ttl time.Duration, fn Operation) (*Result, error)
}

type manager struct {
	store   Store
	log     *slog.Logger
	lockTTL time.Duration
}

// NewManager builds a Manager on top of the given store. lockTTL
// bounds how long a crashed execution can block its key.
func NewManager(store Store, log *slog.Logger, lockTTL time.Duration) Manager {
	if log == nil {
		log = slog.Default()
	}
	if lockTTL <= 0 {
		lockTTL = defaultLockTTL
	}

	return &manager{
		store:   store,
		log:     log,
		lockTTL: lockTTL,
	}
}

func (m *manager) Execute(ctx context.Context, key string, ttl time.Duration, fn Operation) (*Result, error) {
	if fn == nil {
		return nil, errors.New("operation fn cannot be nil")
	}

	locked, err := m.store.Lock(ctx, key, m.lockTTL)
	if err != nil {
		return nil, err
	}

	if !locked {
		return m.replay(ctx, key)
	}
	defer func() {
		if err := m.store.ReleaseLock(ctx, key); err != nil {
			m.log.Warn("failed to release idempotency lock", slog.String("key", key), slog.Any("error", err))
		}
	}()

	return m.run(ctx, key, ttl, fn)
}

// replay resolves a request that lost the lock race: still-processing
// keys are duplicates to drop, completed keys return the stored response.
func (m *manager) replay(ctx context.Context, key string) (*Result, error) {
	record, err := m.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if record == nil || record.Status != StatusCompleted {
		return nil, ErrDuplicate
	}

	var response interface{}
	if len(record.Response) > 0 {
		if err := json.Unmarshal(record.Response, &response); err != nil {
			return nil, err
		}
	}

	return &Result{Response: response, FromCache: true}, nil
}

func (m *manager) run(ctx context.Context, key string, ttl time.Duration, fn Operation) (*Result, error) {
	// The processing record expires with the lock, so a crash here
	// lets a redelivery start over.
	if err := m.store.Set(ctx, key, &Record{Status: StatusProcessing}, m.lockTTL); err != nil {
		return nil, err
	}

	result, err := fn(ctx)
	if err != nil {
		if delErr := m.store.Delete(ctx, key); delErr != nil {
			m.log.Warn("failed to clear idempotency record", slog.String("key", key), slog.Any("error", delErr))
		}
		return nil, err
	}

	responseBytes, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}

	if err := m.store.Set(ctx, key, &Record{
		Status:   StatusCompleted,
		Response: responseBytes,
	}, ttl); err != nil {
		return nil, err
	}

	return &Result{Response: result, FromCache: false}, nil
}
