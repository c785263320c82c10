package middleware

import (
	"strings"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/ZoozFX/Telegram-1-sub000/internal/bot/handlers"
	"github.com/ZoozFX/Telegram-1-sub000/internal/bot/keyboard"
	"github.com/ZoozFX/Telegram-1-sub000/pkg/metrics"
)

// Metrics measures execution time and outcome per handler kind.
func Metrics(next handlers.Handler) handlers.Handler {
	if next == nil {
		return nil
	}

	return func(c telebot.Context) error {
		start := time.Now()
		err := next(c)

		status := "ok"
		if err != nil {
			status = "error"
		}

		metrics.RecordUpdate(UpdateLabel(c), status, time.Since(start))

		return err
	}
}

// UpdateLabel keeps the metric cardinality bounded: command names and
// callback actions are finite, everything else collapses to "text".
func UpdateLabel(c telebot.Context) string {
	if cb := c.Callback(); cb != nil {
		parsed, err := keyboard.ParseCallback(cb.Data)
		if err != nil {
			return "callback"
		}
		return "callback:" + parsed.Action
	}

	text := c.Text()
	if strings.HasPrefix(text, "/") {
		if idx := strings.IndexAny(text, " @"); idx > 0 {
			text = text[:idx]
		}
		return text
	}

	if text != "" {
		return "text"
	}

	return "other"
}
