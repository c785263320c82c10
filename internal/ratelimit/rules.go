package ratelimit

import (
	"time"

	"github.com/ZoozFX/Telegram-1-sub000/pkg/config"
)

// Defaults applied when the configuration leaves the rule unset.
const (
	defaultLimit  = 20
	defaultWindow = time.Minute
)

// Rules evaluates the configured rate-limit policy for a user.
type Rules struct {
	cfg    config.RateLimitConfig
	exempt map[int64]struct{}
}

// NewRules builds the policy. Admin ids are always exempt, on top of
// the configured whitelist.
func NewRules(cfg config.RateLimitConfig, adminIDs []int64) *Rules {
	exempt := make(map[int64]struct{}, len(cfg.Whitelist)+len(adminIDs))
	for _, id := range cfg.Whitelist {
		exempt[id] = struct{}{}
	}
	for _, id := range adminIDs {
		exempt[id] = struct{}{}
	}

	return &Rules{cfg: cfg, exempt: exempt}
}

// Enabled reports whether rate limiting applies at all.
func (r *Rules) Enabled() bool {
	return r.cfg.Enabled
}

// IsExempt returns true when userID bypasses rate limits.
func (r *Rules) IsExempt(userID int64) bool {
	_, ok := r.exempt[userID]
	return ok
}

// PerUserLimit returns the limit and window applied to each user.
func (r *Rules) PerUserLimit() (int, time.Duration) {
	limit := r.cfg.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	window := r.cfg.Window
	if window <= 0 {
		window = defaultWindow
	}

	return limit, window
}
