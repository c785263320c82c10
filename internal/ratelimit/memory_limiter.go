package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// pruneEvery bounds how often the limiter walks all buckets to drop
// idle ones, so a long-running process does not accumulate one bucket
// per user forever.
const pruneEvery = 10 * time.Minute

type bucket struct {
	requests []time.Time
}

// MemoryLimiter is the in-process fallback Limiter. It only sees this
// instance's traffic, so limits are per replica.
type MemoryLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	lastPrune time.Time
	log       *slog.Logger
}

// NewMemoryLimiter returns an in-memory limiter.
func NewMemoryLimiter(log *slog.Logger) *MemoryLimiter {
	if log == nil {
		log = slog.Default()
	}

	return &MemoryLimiter{
		buckets:   make(map[string]*bucket),
		lastPrune: time.Now(),
		log:       log,
	}
}

var _ Limiter = (*MemoryLimiter)(nil)

// Check records the attempt and evaluates the limit for key.
func (m *MemoryLimiter) Check(ctx context.Context, key string, limit int, window time.Duration) (*Result, error) {
	now := time.Now()
	windowStart := now.Add(-window)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.pruneLocked(now, window)

	bkt := m.buckets[key]
	if bkt == nil {
		bkt = &bucket{requests: make([]time.Time, 0, 8)}
		m.buckets[key] = bkt
	}

	bkt.requests = keepRecent(bkt.requests, windowStart)
	bkt.requests = append(bkt.requests, now)
	count := len(bkt.requests)

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	return &Result{
		Allowed:   count <= limit,
		Remaining: remaining,
		ResetAt:   now.Add(window),
	}, nil
}

// pruneLocked drops buckets whose newest entry fell out of the window.
func (m *MemoryLimiter) pruneLocked(now time.Time, window time.Duration) {
	if now.Sub(m.lastPrune) < pruneEvery {
		return
	}
	m.lastPrune = now

	cutoff := now.Add(-window)
	dropped := 0
	for key, bkt := range m.buckets {
		if len(bkt.requests) == 0 || bkt.requests[len(bkt.requests)-1].Before(cutoff) {
			delete(m.buckets, key)
			dropped++
		}
	}

	if dropped > 0 {
		m.log.Debug("pruned idle rate-limit buckets", slog.Int("dropped", dropped), slog.Int("remaining", len(m.buckets)))
	}
}

func keepRecent(reqs []time.Time, windowStart time.Time) []time.Time {
	firstIdx := 0
	for firstIdx < len(reqs) && reqs[firstIdx].Before(windowStart) {
		firstIdx++
	}

	if firstIdx == 0 {
		return reqs
	}
	if firstIdx >= len(reqs) {
		return reqs[:0]
	}

	copy(reqs, reqs[firstIdx:])
	return reqs[:len(reqs)-firstIdx]
}
