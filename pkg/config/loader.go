// Package config provides configuration loading, validation and hot
// reload for the bot process.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration for the current APP_ENV from YAML and
// environment variables, validates it, and returns the resulting
// Config together with the viper instance backing it.
func Load() (*Config, *viper.Viper, error) {
	// Missing env files are fine; they only exist in local setups.
	_ = godotenv.Load(".env.local", ".env")

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	v := viper.New()
	v.SetConfigFile(fmt.Sprintf("./configs/%s.yaml", env))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := unmarshal(v, env)
	if err != nil {
		return nil, nil, err
	}

	return cfg, v, nil
}

// Watch re-reads and re-validates the configuration whenever the
// backing file changes, and invokes onChange with each valid result.
// Invalid edits are logged and skipped so a bad write cannot take the
// running process down.
func Watch(v *viper.Viper, log *slog.Logger, onChange func(*Config)) {
	if v == nil || onChange == nil {
		return
	}
	if log == nil {
		log = slog.Default()
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := unmarshal(v, env)
		if err != nil {
			log.Error("config reload rejected",
				slog.String("file", e.Name),
				slog.String("op", e.Op.String()),
				slog.Any("error", err))
			return
		}

		log.Info("config reloaded", slog.String("file", e.Name))
		onChange(cfg)
	})
	v.WatchConfig()
}

func unmarshal(v *viper.Viper, env string) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.AppEnv = env

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if cfg.Bot.Mode == "webhook" && cfg.Bot.Webhook.BaseURL == "" {
		return nil, fmt.Errorf("validate config: bot.webhook.base_url is required in webhook mode")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "zoozfx-subscriber-bot")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "text")
	v.SetDefault("bot.mode", "longpoll")
	v.SetDefault("bot.poll_timeout", 10*time.Second)
	v.SetDefault("bot.webhook.path", "/telegram/webhook")
	v.SetDefault("bot.webhook.listen", ":8443")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.migrations_dir", "migrations")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.backend", "adaptive")
	v.SetDefault("ratelimit.limit", 20)
	v.SetDefault("ratelimit.window", time.Minute)
	v.SetDefault("jobs.enabled", true)
	v.SetDefault("jobs.concurrency", 5)
	v.SetDefault("jobs.sweep_cron", "@every 10m")
	v.SetDefault("jobs.reminder_cron", "@daily")
	v.SetDefault("i18n.dir", "locales")
	v.SetDefault("i18n.default_language", "en")
	v.SetDefault("signup.state_ttl", 30*time.Minute)
	v.SetDefault("signup.lock_ttl", 5*time.Second)
	v.SetDefault("menu.header_min_width", 14)
	v.SetDefault("menu.header_max_width", 32)
}
