package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/ZoozFX/Telegram-1-sub000/internal/bot/handlers"
	"github.com/ZoozFX/Telegram-1-sub000/internal/idempotency"
)

// Dedup horizons. Telegram retries webhook deliveries for up to a day,
// while button double-taps land within seconds of each other.
const (
	updateDedupTTL   = 24 * time.Hour
	callbackDedupTTL = 30 * time.Second
)

// Idempotency drops updates the bot has already handled: webhook
// redeliveries (same update id) and repeated presses of the same
// button on the same message.
func Idempotency(manager idempotency.Manager, log *slog.Logger) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			if manager == nil {
				return next(c)
			}

			key, ttl := dedupKey(c)
			if key == "" {
				return next(c)
			}

			_, err := manager.Execute(context.Background(), key, ttl, func(ctx context.Context) (interface{}, error) {
				return nil, next(c)
			})
			if err != nil {
				if errors.Is(err, idempotency.ErrDuplicate) {
					// Ack duplicate presses so the client spinner stops.
					if c.Callback() != nil {
						return c.Respond()
					}
					return nil
				}

				return err
			}

			return nil
		}
	}
}

func dedupKey(c telebot.Context) (string, time.Duration) {
	if cb := c.Callback(); cb != nil {
		if cb.Message != nil {
			chatID := int64(0)
			if cb.Message.Chat != nil {
				chatID = cb.Message.Chat.ID
			}
			return idempotency.CallbackKey(chatID, cb.Message.ID, cb.Data), callbackDedupTTL
		}

		if cb.ID != "" {
			return idempotency.GenerateKey("callback-id", cb.ID), callbackDedupTTL
		}
	}

	if update := c.Update(); update.ID != 0 {
		return idempotency.UpdateKey(update.ID), updateDedupTTL
	}

	return "", 0
}
