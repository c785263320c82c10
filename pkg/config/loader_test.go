package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "configs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "development.yaml"), []byte(content), 0o644))
	t.Chdir(dir)
}

const validYAML = `
bot:
  token: "123:abc"
  mode: longpoll
database:
  host: localhost
  port: "5432"
  user: bot
  password: secret
  name: zoozfx
redis:
  addr: localhost:6379
`

func TestLoad(t *testing.T) {
	writeConfigFile(t, validYAML)

	cfg, v, err := Load()
	require.NoError(t, err)
	require.NotNil(t, v)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "123:abc", cfg.Bot.Token)
	assert.Equal(t, "longpoll", cfg.Bot.Mode)

	// Defaults fill everything the file left out.
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 20, cfg.RateLimit.Limit)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "locales", cfg.I18n.Dir)
	assert.Equal(t, 30*time.Minute, cfg.Signup.StateTTL)
	assert.Equal(t, 14, cfg.Menu.HeaderMinWidth)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	writeConfigFile(t, validYAML)
	t.Setenv("BOT_TOKEN", "999:zzz")
	t.Setenv("LOGGER_LEVEL", "debug")

	cfg, _, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "999:zzz", cfg.Bot.Token)
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestLoadRejectsMissingToken(t *testing.T) {
	writeConfigFile(t, `
bot:
  mode: longpoll
database:
  host: localhost
  port: "5432"
  user: bot
  name: zoozfx
redis:
  addr: localhost:6379
`)

	_, _, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate config")
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	writeConfigFile(t, `
bot:
  token: "123:abc"
  mode: carrier-pigeon
database:
  host: localhost
  port: "5432"
  user: bot
  name: zoozfx
redis:
  addr: localhost:6379
`)

	_, _, err := Load()
	require.Error(t, err)
}

func TestLoadWebhookModeRequiresBaseURL(t *testing.T) {
	writeConfigFile(t, `
bot:
  token: "123:abc"
  mode: webhook
database:
  host: localhost
  port: "5432"
  user: bot
  name: zoozfx
redis:
  addr: localhost:6379
`)

	_, _, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bot.webhook.base_url")
}

func TestWebhookPublicURL(t *testing.T) {
	testCases := []struct {
		name    string
		webhook WebhookConfig
		want    string
	}{
		{
			name:    "base and path joined",
			webhook: WebhookConfig{BaseURL: "https://bot.zoozfx.com", Path: "/telegram/webhook"},
			want:    "https://bot.zoozfx.com/telegram/webhook",
		},
		{
			name:    "trailing slash trimmed",
			webhook: WebhookConfig{BaseURL: "https://bot.zoozfx.com/", Path: "telegram/webhook"},
			want:    "https://bot.zoozfx.com/telegram/webhook",
		},
		{
			name:    "empty path",
			webhook: WebhookConfig{BaseURL: "https://bot.zoozfx.com"},
			want:    "https://bot.zoozfx.com",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.webhook.PublicURL())
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "bot", Password: "pw", Name: "zoozfx"}
	assert.Equal(t, "host=db port=5432 user=bot password=pw dbname=zoozfx sslmode=disable", d.DSN())
}
