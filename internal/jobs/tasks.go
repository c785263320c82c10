// Package jobs defines the background task catalog and the asynq
// plumbing around it: an Enqueuer for producers, a Worker for
// consumers and a Scheduler for periodic tasks.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/ZoozFX/Telegram-1-sub000/internal/domain"
)

const (
	// TaskTypeProfileActivation activates a pending copy-trading
	// profile and notifies the subscriber.
	TaskTypeProfileActivation = "copytrading:activate"
	// TaskTypeRenewalReminder fans out the renewal reminder to every
	// active subscriber.
	TaskTypeRenewalReminder = "copytrading:renewal_reminder"
	// TaskTypeStateSweep reaps conversation state Redis left behind,
	// e.g. locks whose owner died mid-signup.
	TaskTypeStateSweep = "state:sweep"
)

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// ProfileActivationPayload carries everything the activation handler
// needs without a user lookup.
type ProfileActivationPayload struct {
	UserID     int64           `json:"user_id"`
	TelegramID int64           `json:"telegram_id"`
	Language   domain.Language `json:"language"`
}

func NewProfileActivationTask(payload ProfileActivationPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(TaskTypeProfileActivation, data, asynq.Queue(QueueCritical), asynq.MaxRetry(5)), nil
}

func NewRenewalReminderTask() *asynq.Task {
	return asynq.NewTask(TaskTypeRenewalReminder, nil, asynq.Queue(QueueLow))
}

func NewStateSweepTask() *asynq.Task {
	return asynq.NewTask(TaskTypeStateSweep, nil, asynq.Queue(QueueLow))
}
