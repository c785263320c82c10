package handlers

import (
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/ZoozFX/Telegram-1-sub000/internal/bot/keyboard"
	"github.com/ZoozFX/Telegram-1-sub000/internal/i18n"
)

// NewStartHandler greets the sender and shows the main menu. The
// user-context middleware has already registered first-time senders,
// so this handler only chooses the greeting.
func NewStartHandler(kb *keyboard.Builder, catalog *i18n.Catalog, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			log.Warn("start handler invoked without sender")
			return nil
		}

		t := TranslatorFor(c, catalog)

		greeting := t.T("start.anonymous")
		if u := CurrentUser(c); u != nil && u.DisplayName() != "" {
			if IsNewUser(c) {
				greeting = t.Tf("start.welcome", u.DisplayName())
			} else {
				greeting = t.Tf("start.returning", u.DisplayName())
			}
		}

		if err := c.Send(greeting); err != nil {
			return err
		}

		if kb == nil {
			log.Warn("keyboard builder is not configured for start handler")
			return nil
		}

		return c.Send(kb.MainMenuText(t), kb.MainMenu(t))
	}
}
