package middleware

import (
	"context"
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/ZoozFX/Telegram-1-sub000/internal/bot/handlers"
	"github.com/ZoozFX/Telegram-1-sub000/internal/i18n"
	"github.com/ZoozFX/Telegram-1-sub000/internal/ratelimit"
)

// RateLimit enforces the per-user limit for incoming updates. Throttled
// users get a localized notice resolved from their client locale, since
// the stored profile has not been loaded this early in the chain.
func RateLimit(limiter ratelimit.Limiter, rules *ratelimit.Rules, catalog *i18n.Catalog, log *slog.Logger) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			if limiter == nil || rules == nil || !rules.Enabled() {
				return next(c)
			}

			sender := c.Sender()
			if sender == nil {
				return next(c)
			}

			if rules.IsExempt(sender.ID) {
				return next(c)
			}

			limit, window := rules.PerUserLimit()
			key := fmt.Sprintf("user:%d", sender.ID)

			result, err := limiter.Check(context.Background(), key, limit, window)
			if err != nil {
				// Failing open beats silencing the bot on a Redis hiccup.
				log.Warn("rate limiter error", slog.Int64("user_id", sender.ID), slog.Any("error", err))
				return next(c)
			}

			if !result.Allowed {
				log.Warn("rate limit exceeded", slog.Int64("user_id", sender.ID))
				return notifyThrottled(c, catalog, sender)
			}

			return next(c)
		}
	}
}

func notifyThrottled(c telebot.Context, catalog *i18n.Catalog, sender *telebot.User) error {
	text := "errors.rate_limited"
	if catalog != nil {
		text = catalog.ForLocale(sender.LanguageCode).T("errors.rate_limited")
	}

	if c.Callback() != nil {
		return c.Respond(&telebot.CallbackResponse{Text: text})
	}

	return c.Send(text)
}
