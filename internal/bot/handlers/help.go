package handlers

import (
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/ZoozFX/Telegram-1-sub000/internal/i18n"
)

// NewHelpHandler replies with the command overview.
func NewHelpHandler(catalog *i18n.Catalog, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			log.Warn("help handler invoked without sender")
			return nil
		}

		return c.Send(TranslatorFor(c, catalog).T("help.text"))
	}
}

// NewHelpCallbackHandler serves the main-menu help button. The menu
// message stays put; help arrives as its own message.
func NewHelpCallbackHandler(catalog *i18n.Catalog, log *slog.Logger) CallbackHandler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			return nil
		}

		if err := c.Respond(&telebot.CallbackResponse{}); err != nil {
			return err
		}

		return c.Send(TranslatorFor(c, catalog).T("help.text"))
	}
}
