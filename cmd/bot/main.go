package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	goredis "github.com/redis/go-redis/v9"

	"github.com/ZoozFX/Telegram-1-sub000/internal/bot"
	"github.com/ZoozFX/Telegram-1-sub000/internal/copytrading"
	"github.com/ZoozFX/Telegram-1-sub000/internal/database"
	"github.com/ZoozFX/Telegram-1-sub000/internal/domain"
	"github.com/ZoozFX/Telegram-1-sub000/internal/health"
	"github.com/ZoozFX/Telegram-1-sub000/internal/i18n"
	"github.com/ZoozFX/Telegram-1-sub000/internal/idempotency"
	"github.com/ZoozFX/Telegram-1-sub000/internal/jobs"
	jobhandlers "github.com/ZoozFX/Telegram-1-sub000/internal/jobs/handlers"
	"github.com/ZoozFX/Telegram-1-sub000/internal/lifecycle"
	"github.com/ZoozFX/Telegram-1-sub000/internal/ops"
	"github.com/ZoozFX/Telegram-1-sub000/internal/ratelimit"
	"github.com/ZoozFX/Telegram-1-sub000/internal/repository"
	"github.com/ZoozFX/Telegram-1-sub000/internal/state"
	"github.com/ZoozFX/Telegram-1-sub000/internal/submission"
	"github.com/ZoozFX/Telegram-1-sub000/internal/user"
	"github.com/ZoozFX/Telegram-1-sub000/internal/usercache"
	"github.com/ZoozFX/Telegram-1-sub000/pkg/config"
	"github.com/ZoozFX/Telegram-1-sub000/pkg/logger"
	"github.com/ZoozFX/Telegram-1-sub000/pkg/metrics"
	appredis "github.com/ZoozFX/Telegram-1-sub000/pkg/redis"

	_ "github.com/lib/pq"
)

const shutdownGrace = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, v, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	sentryEnabled := false
	if cfg.Sentry.DSN != "" {
		environment := cfg.Sentry.Environment
		if environment == "" {
			environment = cfg.AppEnv
		}

		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      environment,
			TracesSampleRate: cfg.Sentry.TracesSampleRate,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "sentry init failed, continuing without it: %v\n", err)
		} else {
			sentryEnabled = true
			defer sentry.Flush(2 * time.Second)
		}
	}

	log, logLevel := logger.New(logger.Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
		File: logger.FileConfig{
			Enabled:    cfg.Logger.File.Enabled,
			Path:       cfg.Logger.File.Path,
			MaxSizeMB:  cfg.Logger.File.MaxSizeMB,
			MaxBackups: cfg.Logger.File.MaxBackups,
			MaxAgeDays: cfg.Logger.File.MaxAgeDays,
			Compress:   cfg.Logger.File.Compress,
		},
		SentryEnabled: sentryEnabled,
	})
	slog.SetDefault(log)

	log.Info("starting subscriber bot",
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.AppEnv),
		slog.String("mode", cfg.Bot.Mode),
	)

	// Only the log level is safe to apply at runtime; everything else
	// is wired into components at boot.
	config.Watch(v, log, func(next *config.Config) {
		logLevel.Set(logger.ParseLevel(next.Logger.Level))
		log.Info("log level applied", slog.String("level", next.Logger.Level))
	})

	shutdown := lifecycle.NewShutdown(log)

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		log.Error("failed to open database", slog.Any("error", err))
		return
	}
	shutdown.Register("database", func(context.Context) error {
		return db.Close()
	})

	migrator := database.NewMigrator(db, log)
	if err := migrator.ApplyDir(ctx, cfg.Database.MigrationsDir); err != nil {
		log.Error("failed to apply migrations", slog.Any("error", err))
		return
	}

	redisClient, err := appredis.New(ctx, appredis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Error("failed to connect to redis", slog.Any("error", err))
		return
	}
	shutdown.Register("redis", func(context.Context) error {
		return redisClient.Close()
	})

	catalog, err := i18n.LoadFromDir(cfg.I18n.Dir, domain.Language(cfg.I18n.DefaultLanguage))
	if err != nil {
		log.Error("failed to load translations", slog.Any("error", err))
		return
	}

	storage := state.NewRedisStorage(redisClient, log, cfg.Signup.StateTTL)
	fsm := state.NewStateMachine(storage, log, redisClient, cfg.Signup.LockTTL)

	users := user.NewService(repository.NewUserRepository(db, log), usercache.NewCache(redisClient), log)
	submissions := submission.NewService(repository.NewSubmissionRepository(db, log), log)
	subscriptions := copytrading.NewService(repository.NewCopyTradingRepository(db, log), log)

	idempotencyManager := idempotency.NewManager(idempotency.NewRedisStore(redisClient, log), log, 0)
	limiter := buildLimiter(cfg.RateLimit, redisClient, log)

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	var enqueuer jobs.Enqueuer
	if cfg.Jobs.Enabled {
		enqueuer = jobs.NewEnqueuer(redisOpt, log)
		shutdown.Register("enqueuer", func(context.Context) error {
			return enqueuer.Close()
		})
	}

	b, err := bot.New(bot.Dependencies{
		Config:        *cfg,
		Log:           log,
		Users:         users,
		Submissions:   submissions,
		Subscriptions: subscriptions,
		FSM:           fsm,
		Catalog:       catalog,
		Idempotency:   idempotencyManager,
		Limiter:       limiter,
		Enqueuer:      enqueuer,
	})
	if err != nil {
		log.Error("failed to initialize bot", slog.Any("error", err))
		return
	}

	if cfg.Jobs.Enabled {
		worker := jobs.NewWorker(redisOpt, cfg.Jobs.Concurrency, log)
		worker.RegisterHandler(jobs.TaskTypeProfileActivation, jobhandlers.NewProfileActivationHandler(subscriptions, b, catalog, log))
		worker.RegisterHandler(jobs.TaskTypeRenewalReminder, jobhandlers.NewRenewalReminderHandler(subscriptions, b, catalog, log))
		worker.RegisterHandler(jobs.TaskTypeStateSweep, jobhandlers.NewStateSweepHandler(redisClient, log))

		go func() {
			if err := worker.Run(); err != nil {
				log.Error("jobs worker stopped", slog.Any("error", err))
			}
		}()
		shutdown.Register("worker", func(context.Context) error {
			worker.Shutdown()
			return nil
		})

		scheduler := jobs.NewScheduler(redisOpt, cfg.Jobs.SweepCron, cfg.Jobs.ReminderCron, log)
		if err := scheduler.RegisterTasks(); err != nil {
			log.Error("failed to register periodic tasks", slog.Any("error", err))
			return
		}
		scheduler.Run()
		shutdown.Register("scheduler", func(context.Context) error {
			scheduler.Shutdown()
			return nil
		})
	}

	checker := health.NewChecker(log)
	checker.Register("database", health.NewDBChecker(db))
	checker.Register("redis", health.NewRedisChecker(redisClient))
	checker.Register("telegram", health.NewTelegramChecker(b.Telebot()))

	opsServer := ops.New(cfg.Server, checker, log)
	go func() {
		if err := opsServer.Run(ctx); err != nil {
			log.Error("ops server stopped", slog.Any("error", err))
		}
	}()

	stateCollector := metrics.NewStateCollector(fsm)
	go stateCollector.Run(ctx)

	go b.Start()
	shutdown.Register("bot", func(context.Context) error {
		b.Stop()
		return nil
	})

	log.Info("subscriber bot started", slog.String("mode", cfg.Bot.Mode))

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := shutdown.Execute(shutdownCtx); err != nil {
		log.Error("shutdown finished with errors", slog.Any("error", err))
		return
	}

	log.Info("subscriber bot stopped")
}

func buildLimiter(cfg config.RateLimitConfig, redisClient *goredis.Client, log *slog.Logger) ratelimit.Limiter {
	switch cfg.Backend {
	case "memory":
		return ratelimit.NewMemoryLimiter(log)
	case "redis":
		return ratelimit.NewRedisLimiter(redisClient, log)
	default:
		// Redis-backed counting with an in-memory fallback while Redis
		// is unreachable.
		return ratelimit.NewAdaptiveLimiter(
			ratelimit.NewRedisLimiter(redisClient, log),
			ratelimit.NewMemoryLimiter(log),
			log,
		)
	}
}
