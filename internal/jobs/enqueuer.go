package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

// Enqueuer schedules background tasks from request handlers.
type Enqueuer interface {
	EnqueueProfileActivation(ctx context.Context, payload ProfileActivationPayload) error
	Close() error
}

type enqueuer struct {
	client *asynq.Client
	log    *slog.Logger
}

// NewEnqueuer builds an Enqueuer backed by an asynq client.
func NewEnqueuer(redisOpt asynq.RedisConnOpt, log *slog.Logger) Enqueuer {
	if log == nil {
		log = slog.Default()
	}

	return &enqueuer{
		client: asynq.NewClient(redisOpt),
		log:    log,
	}
}

func (e *enqueuer) EnqueueProfileActivation(ctx context.Context, payload ProfileActivationPayload) error {
	task, err := NewProfileActivationTask(payload)
	if err != nil {
		return fmt.Errorf("build activation task: %w", err)
	}

	info, err := e.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueue activation task: %w", err)
	}

	e.log.Info("task enqueued",
		slog.String("task_id", info.ID),
		slog.String("type", info.Type),
		slog.String("queue", info.Queue),
		slog.Int64("user_id", payload.UserID),
	)

	return nil
}

func (e *enqueuer) Close() error {
	return e.client.Close()
}
