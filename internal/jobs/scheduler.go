package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
)

const (
	defaultSweepCron    = "@every 10m"
	defaultReminderCron = "@daily"
)

type Scheduler interface {
	RegisterTasks() error
	Run()
	Shutdown()
}

type scheduler struct {
	asynqScheduler *asynq.Scheduler
	sweepCron      string
	reminderCron   string
	log            *slog.Logger
}

// NewScheduler builds a Scheduler for the periodic tasks. Empty cron
// specs fall back to the defaults.
func NewScheduler(redisOpt asynq.RedisConnOpt, sweepCron, reminderCron string, log *slog.Logger) Scheduler {
	if sweepCron == "" {
		sweepCron = defaultSweepCron
	}
	if reminderCron == "" {
		reminderCron = defaultReminderCron
	}

	return &scheduler{
		asynqScheduler: asynq.NewScheduler(redisOpt, nil),
		sweepCron:      sweepCron,
		reminderCron:   reminderCron,
		log:            log,
	}
}

func (s *scheduler) RegisterTasks() error {
	if _, err := s.asynqScheduler.Register(s.sweepCron, NewStateSweepTask()); err != nil {
		return err
	}

	if _, err := s.asynqScheduler.Register(s.reminderCron, NewRenewalReminderTask()); err != nil {
		return err
	}

	if s.log != nil {
		s.log.InfoContext(context.Background(), "scheduler: registered periodic tasks",
			slog.String("sweep_cron", s.sweepCron),
			slog.String("reminder_cron", s.reminderCron),
		)
	}

	return nil
}

func (s *scheduler) Run() {
	if s.log != nil {
		s.log.InfoContext(context.Background(), "scheduler: starting")
	}

	go func() {
		if err := s.asynqScheduler.Run(); err != nil && s.log != nil {
			s.log.ErrorContext(context.Background(), "scheduler: run failed", "error", err)
		}
	}()
}

func (s *scheduler) Shutdown() {
	if s.log != nil {
		s.log.InfoContext(context.Background(), "scheduler: shutting down")
	}

	s.asynqScheduler.Shutdown()
}
