package handlers

import (
	"context"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/ZoozFX/Telegram-1-sub000/internal/bot/keyboard"
	"github.com/ZoozFX/Telegram-1-sub000/internal/domain"
	"github.com/ZoozFX/Telegram-1-sub000/internal/i18n"
	"github.com/ZoozFX/Telegram-1-sub000/internal/user"
	"github.com/ZoozFX/Telegram-1-sub000/pkg/metrics"
)

// NewLanguageHandler shows the language picker for the /language command.
func NewLanguageHandler(kb *keyboard.Builder, catalog *i18n.Catalog, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			log.Warn("language handler invoked without sender")
			return nil
		}

		if kb == nil {
			log.Error("keyboard builder is not configured for language handler")
			return nil
		}

		t := TranslatorFor(c, catalog)
		return c.Send(t.T("language.prompt"), kb.LanguageMenu(t))
	}
}

// NewLanguageCallbackHandler applies a language choice, or re-opens the
// picker when the argument is "menu".
func NewLanguageCallbackHandler(users *user.Service, kb *keyboard.Builder, catalog *i18n.Catalog, log *slog.Logger) CallbackHandler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil || c.Callback() == nil {
			return nil
		}

		if kb == nil {
			log.Error("keyboard builder is not configured for language callback")
			return c.Respond(&telebot.CallbackResponse{})
		}

		parsed, err := keyboard.ParseCallback(c.Callback().Data)
		if err != nil {
			log.Warn("malformed language callback", slog.Any("error", err))
			return c.Respond(&telebot.CallbackResponse{})
		}

		t := TranslatorFor(c, catalog)

		if parsed.Arg == keyboard.ArgLanguageMenu {
			if err := c.Respond(&telebot.CallbackResponse{}); err != nil {
				return err
			}
			return editOrSend(c, t.T("language.prompt"), kb.LanguageMenu(t))
		}

		lang := domain.Language(parsed.Arg)
		if !lang.Valid() {
			// Only a forged payload can get here.
			log.Warn("unsupported language in callback", slog.String("arg", parsed.Arg))
			return c.Respond(&telebot.CallbackResponse{})
		}

		if users == nil {
			log.Error("user service is not configured for language callback")
			return c.Respond(&telebot.CallbackResponse{})
		}

		if err := users.SetLanguage(context.Background(), c.Sender().ID, lang); err != nil {
			return err
		}

		metrics.RecordLanguageChange(string(lang))

		// Reply in the freshly chosen language, not the stashed one.
		nt := catalog.Translator(lang)
		if err := c.Respond(&telebot.CallbackResponse{Text: nt.T("language.updated")}); err != nil {
			return err
		}

		return editOrSend(c, kb.MainMenuText(nt), kb.MainMenu(nt))
	}
}

// editOrSend prefers editing the message the button lives on and falls
// back to a fresh message when Telegram refuses the edit.
func editOrSend(c telebot.Context, text string, markup *telebot.ReplyMarkup) error {
	if err := c.Edit(text, markup); err == nil {
		return nil
	}
	return c.Send(text, markup)
}
