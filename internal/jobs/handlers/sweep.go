package handlers

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// Every key the application writes under these prefixes carries a TTL.
// One without is a leak, usually from a process killed between SET and
// EXPIRE, and would otherwise live forever.
var sweepPatterns = []string{
	"user:state:*",
	"user:lock:*",
	"idempotency:*",
}

const sweepScanCount = 200

// StateSweepHandler reaps leaked conversation and idempotency keys.
type StateSweepHandler struct {
	client *redis.Client
	log    *slog.Logger
}

func NewStateSweepHandler(client *redis.Client, log *slog.Logger) *StateSweepHandler {
	if log == nil {
		log = slog.Default()
	}

	return &StateSweepHandler{client: client, log: log}
}

func (h *StateSweepHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	if h.client == nil {
		return nil
	}

	var scanned, reaped int
	for _, pattern := range sweepPatterns {
		iter := h.client.Scan(ctx, 0, pattern, sweepScanCount).Iterator()
		for iter.Next(ctx) {
			key := iter.Val()
			scanned++

			ttl, err := h.client.TTL(ctx, key).Result()
			if err != nil {
				h.log.ErrorContext(ctx, "sweep: ttl lookup failed",
					slog.String("key", key),
					slog.Any("error", err),
				)
				continue
			}

			// -1 means no expiry; -2 means the key vanished mid-scan.
			if ttl != -1 {
				continue
			}

			if err := h.client.Del(ctx, key).Err(); err != nil {
				h.log.ErrorContext(ctx, "sweep: delete failed",
					slog.String("key", key),
					slog.Any("error", err),
				)
				continue
			}
			reaped++
		}
		if err := iter.Err(); err != nil {
			return err
		}
	}

	if reaped > 0 {
		h.log.InfoContext(ctx, "swept leaked keys",
			slog.Int("scanned", scanned),
			slog.Int("reaped", reaped),
		)
	}

	return nil
}
