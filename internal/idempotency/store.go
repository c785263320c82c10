package idempotency

import (
	"context"
	"time"
)

// Record statuses. A processing record exists only while the lock
// holder is running; completed records stay for the dedup TTL.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
)

// Record is the stored outcome of an operation keyed for deduplication.
type Record struct {
	Status   string
	Response []byte
}

// Store persists idempotency records and their execution locks.
type Store interface {
	Lock(ctx context.Context, key string, lockTTL time.Duration) (bool, error)
	Get(ctx context.Context, key string) (*Record, error)
	Set(ctx context.Context, key string, record *Record, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	ReleaseLock(ctx context.Context, key string) error
}
