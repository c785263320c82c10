package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/ZoozFX/Telegram-1-sub000/internal/bot/handlers"
	apperrors "github.com/ZoozFX/Telegram-1-sub000/internal/errors"
	"github.com/ZoozFX/Telegram-1-sub000/internal/i18n"
	"github.com/ZoozFX/Telegram-1-sub000/internal/middleware"
	"github.com/ZoozFX/Telegram-1-sub000/internal/user"
)

// RecoveryMiddleware catches panics, reports them via the centralized
// handler, and apologizes to the user in their language.
func RecoveryMiddleware(log *slog.Logger, errHandler *apperrors.Handler, catalog *i18n.Catalog) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("panic recovered in handler",
						slog.Any("panic", r),
						slog.String("stack", string(debug.Stack())),
					)

					key := apperrors.FallbackUserMessageKey
					if errHandler != nil {
						key, _ = errHandler.Handle(context.Background(), fmt.Errorf("panic recovered: %v", r))
					}

					if c != nil {
						text := handlers.TranslatorFor(c, catalog).T(key)
						if sendErr := replyError(c, text); sendErr != nil {
							log.Error("failed to notify user about panic", slog.Any("error", sendErr))
						}
					}

					err = nil
				}
			}()

			return next(c)
		}
	}
}

// ErrorReplyMiddleware consumes handler errors: the central handler
// logs and reports them, the user gets the localized message for the
// error's key. Nothing propagates past this middleware.
func ErrorReplyMiddleware(errHandler *apperrors.Handler, catalog *i18n.Catalog) handlers.Middleware {
	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			key := apperrors.FallbackUserMessageKey
			if errHandler != nil {
				key, _ = errHandler.Handle(context.Background(), err)
			}

			if c != nil {
				_ = replyError(c, handlers.TranslatorFor(c, catalog).T(key))
			}

			return nil
		}
	}
}

// LoggingMiddleware logs basic telemetry about incoming updates. The
// action label collapses free text so note contents stay out of logs.
func LoggingMiddleware(log *slog.Logger) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			start := time.Now()

			userID := int64(0)
			if c != nil && c.Sender() != nil {
				userID = c.Sender().ID
			}

			action := "other"
			if c != nil {
				action = middleware.UpdateLabel(c)
			}

			err := next(c)
			log.Info("handled update",
				slog.Int64("user_id", userID),
				slog.String("action", action),
				slog.Duration("duration", time.Since(start)),
				slog.Any("error", err),
			)

			return err
		}
	}
}

// UserContextMiddleware resolves the sender to a stored user and
// stashes it for the handlers. Resolution failures degrade to an
// anonymous update instead of blocking it, so commands that do not
// need the database keep working through an outage.
func UserContextMiddleware(users *user.Service, log *slog.Logger) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			if users == nil || c == nil || c.Sender() == nil {
				return next(c)
			}

			u, created, err := users.GetOrCreate(context.Background(), c.Sender())
			if err != nil {
				log.Error("failed to resolve user",
					slog.Int64("telegram_id", c.Sender().ID),
					slog.Any("error", err),
				)
				return next(c)
			}

			handlers.SetCurrentUser(c, u, created)
			return next(c)
		}
	}
}

// replyError delivers an error notice without burying the chat: a
// toast for callbacks, a message otherwise.
func replyError(c telebot.Context, text string) error {
	if c.Callback() != nil {
		return c.Respond(&telebot.CallbackResponse{Text: text})
	}
	return c.Send(text)
}
