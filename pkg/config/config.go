package config

import (
	"fmt"
	"time"
)

// Config holds the runtime configuration for the ZoozFX subscriber bot.
type Config struct {
	// AppEnv is set by the loader from APP_ENV, never from file.
	AppEnv string `mapstructure:"-"`

	App       AppConfig       `mapstructure:"app"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Bot       BotConfig       `mapstructure:"bot" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Redis     RedisConfig     `mapstructure:"redis" validate:"required"`
	Server    ServerConfig    `mapstructure:"server"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Jobs      JobsConfig      `mapstructure:"jobs"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
	I18n      I18nConfig      `mapstructure:"i18n"`
	Signup    SignupConfig    `mapstructure:"signup"`
	Menu      MenuConfig      `mapstructure:"menu"`
}

// AppConfig identifies the running service.
type AppConfig struct {
	Name string `mapstructure:"name"`
}

// LoggerConfig controls log output, format and rotation.
type LoggerConfig struct {
	Level  string        `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string        `mapstructure:"format" validate:"omitempty,oneof=text json"`
	File   FileLogConfig `mapstructure:"file"`
}

// FileLogConfig enables rotated log files next to stdout logging.
type FileLogConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// BotConfig configures the Telegram connection.
type BotConfig struct {
	Token       string        `mapstructure:"token" validate:"required"`
	Mode        string        `mapstructure:"mode" validate:"required,oneof=webhook longpoll"`
	PollTimeout time.Duration `mapstructure:"poll_timeout"`
	Webhook     WebhookConfig `mapstructure:"webhook"`
	AdminIDs    []int64       `mapstructure:"admin_ids"`
}

// WebhookConfig describes the endpoint Telegram delivers updates to.
// Required only when the bot runs in webhook mode.
type WebhookConfig struct {
	BaseURL     string `mapstructure:"base_url" validate:"omitempty,url"`
	Path        string `mapstructure:"path"`
	Listen      string `mapstructure:"listen"`
	SecretToken string `mapstructure:"secret_token"`
}

// PublicURL joins the externally visible base URL with the webhook path.
func (w WebhookConfig) PublicURL() string {
	base := w.BaseURL
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}

	path := w.Path
	if path == "" {
		return base
	}
	if path[0] != '/' {
		path = "/" + path
	}
	return base + path
}

// DatabaseConfig configures the PostgreSQL connection pool.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host" validate:"required"`
	Port            string        `mapstructure:"port" validate:"required"`
	User            string        `mapstructure:"user" validate:"required"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name" validate:"required"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, sslMode,
	)
}

// RedisConfig configures the shared Redis connection.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" validate:"required"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ServerConfig configures the operational HTTP server that exposes
// health probes and metrics.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// RateLimitConfig bounds how fast a single user may hit the bot.
type RateLimitConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Backend   string        `mapstructure:"backend" validate:"omitempty,oneof=redis memory adaptive"`
	Limit     int           `mapstructure:"limit"`
	Window    time.Duration `mapstructure:"window"`
	Whitelist []int64       `mapstructure:"whitelist"`
}

// JobsConfig configures the asynq worker and scheduler.
type JobsConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Concurrency  int    `mapstructure:"concurrency"`
	SweepCron    string `mapstructure:"sweep_cron"`
	ReminderCron string `mapstructure:"reminder_cron"`
}

// SentryConfig configures error reporting. An empty DSN disables it.
type SentryConfig struct {
	DSN              string  `mapstructure:"dsn"`
	Environment      string  `mapstructure:"environment"`
	TracesSampleRate float64 `mapstructure:"traces_sample_rate"`
}

// I18nConfig locates the translation catalogs.
type I18nConfig struct {
	Dir             string `mapstructure:"dir"`
	DefaultLanguage string `mapstructure:"default_language" validate:"omitempty,oneof=en ar"`
}

// SignupConfig tunes the copy-trading signup conversation.
type SignupConfig struct {
	StateTTL time.Duration `mapstructure:"state_ttl"`
	LockTTL  time.Duration `mapstructure:"lock_ttl"`
}

// MenuConfig tunes inline menu header rendering.
type MenuConfig struct {
	HeaderMinWidth int `mapstructure:"header_min_width"`
	HeaderMaxWidth int `mapstructure:"header_max_width" validate:"omitempty,gtefield=HeaderMinWidth"`
}
