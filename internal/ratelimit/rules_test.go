package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ZoozFX/Telegram-1-sub000/pkg/config"
)

func TestRulesExemptions(t *testing.T) {
	rules := NewRules(config.RateLimitConfig{
		Enabled:   true,
		Whitelist: []int64{100},
	}, []int64{200, 300})

	assert.True(t, rules.Enabled())
	assert.True(t, rules.IsExempt(100), "whitelisted id")
	assert.True(t, rules.IsExempt(200), "admin id")
	assert.True(t, rules.IsExempt(300), "admin id")
	assert.False(t, rules.IsExempt(400))
}

func TestRulesPerUserLimit(t *testing.T) {
	rules := NewRules(config.RateLimitConfig{Limit: 5, Window: 30 * time.Second}, nil)

	limit, window := rules.PerUserLimit()
	assert.Equal(t, 5, limit)
	assert.Equal(t, 30*time.Second, window)
}

func TestRulesPerUserLimitDefaults(t *testing.T) {
	rules := NewRules(config.RateLimitConfig{}, nil)

	limit, window := rules.PerUserLimit()
	assert.Equal(t, defaultLimit, limit)
	assert.Equal(t, defaultWindow, window)
}
