package handlers

import (
	"context"
	"errors"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/ZoozFX/Telegram-1-sub000/internal/bot/keyboard"
	"github.com/ZoozFX/Telegram-1-sub000/internal/copytrading"
	"github.com/ZoozFX/Telegram-1-sub000/internal/i18n"
	"github.com/ZoozFX/Telegram-1-sub000/internal/state"
)

// NewCancelHandler aborts whatever the user is in the middle of: an
// in-flight signup conversation first, an active or pending
// subscription second, otherwise nothing.
func NewCancelHandler(subscriptions *copytrading.Service, fsm state.StateMachine, kb *keyboard.Builder, catalog *i18n.Catalog, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			log.Warn("cancel handler invoked without sender")
			return nil
		}

		t := TranslatorFor(c, catalog)
		ctx := context.Background()
		telegramID := c.Sender().ID

		st, err := fsm.GetState(ctx, telegramID)
		if err != nil && !errors.Is(err, state.ErrStateNotFound) {
			return err
		}

		if st != nil && st.CurrentState != state.StateIdle {
			if err := fsm.ClearState(ctx, telegramID); err != nil {
				return err
			}

			if err := c.Send(t.T("cancel.flow")); err != nil {
				return err
			}
			return sendMainMenu(c, kb, t, log)
		}

		u := CurrentUser(c)
		if u == nil {
			return c.Send(t.T("cancel.nothing"))
		}

		cancelled, err := subscriptions.Cancel(ctx, u.ID)
		if err != nil {
			return err
		}
		if !cancelled {
			return c.Send(t.T("cancel.nothing"))
		}

		return c.Send(t.T("cancel.subscription"))
	}
}

func sendMainMenu(c telebot.Context, kb *keyboard.Builder, t i18n.Translator, log *slog.Logger) error {
	if kb == nil {
		log.Warn("keyboard builder is not configured for cancel handler")
		return nil
	}

	return c.Send(kb.MainMenuText(t), kb.MainMenu(t))
}
