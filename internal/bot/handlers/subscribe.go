package handlers

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/ZoozFX/Telegram-1-sub000/internal/bot/keyboard"
	"github.com/ZoozFX/Telegram-1-sub000/internal/copytrading"
	"github.com/ZoozFX/Telegram-1-sub000/internal/domain"
	apperrors "github.com/ZoozFX/Telegram-1-sub000/internal/errors"
	"github.com/ZoozFX/Telegram-1-sub000/internal/i18n"
	"github.com/ZoozFX/Telegram-1-sub000/internal/jobs"
	"github.com/ZoozFX/Telegram-1-sub000/internal/state"
)

// NewSubscribeHandler starts the copy-trading signup conversation for
// the /subscribe command.
func NewSubscribeHandler(subscriptions *copytrading.Service, fsm state.StateMachine, catalog *i18n.Catalog, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			log.Warn("subscribe handler invoked without sender")
			return nil
		}

		return beginSignup(c, subscriptions, fsm, catalog, log)
	}
}

// NewSignupCallbackHandler routes the signup inline buttons: start
// begins the conversation, confirm submits the collected details,
// abort discards them.
func NewSignupCallbackHandler(
	subscriptions *copytrading.Service,
	fsm state.StateMachine,
	enqueuer jobs.Enqueuer,
	catalog *i18n.Catalog,
	log *slog.Logger,
) CallbackHandler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil || c.Callback() == nil {
			return nil
		}

		parsed, err := keyboard.ParseCallback(c.Callback().Data)
		if err != nil {
			log.Warn("malformed signup callback", slog.Any("error", err))
			return c.Respond(&telebot.CallbackResponse{})
		}

		switch parsed.Arg {
		case keyboard.ArgSignupStart:
			if err := c.Respond(&telebot.CallbackResponse{}); err != nil {
				return err
			}
			return beginSignup(c, subscriptions, fsm, catalog, log)
		case keyboard.ArgSignupConfirm:
			return confirmSignup(c, subscriptions, fsm, enqueuer, catalog, log)
		case keyboard.ArgSignupAbort:
			return abortSignup(c, fsm, catalog)
		default:
			log.Warn("unknown signup callback argument", slog.String("arg", parsed.Arg))
			return c.Respond(&telebot.CallbackResponse{})
		}
	}
}

func beginSignup(c telebot.Context, subscriptions *copytrading.Service, fsm state.StateMachine, catalog *i18n.Catalog, log *slog.Logger) error {
	t := TranslatorFor(c, catalog)

	u := CurrentUser(c)
	if u == nil {
		return apperrors.NewStateError("signup attempted without a resolved user")
	}

	ctx := context.Background()

	profile, err := subscriptions.Profile(ctx, u.ID)
	if err != nil && !errors.Is(err, copytrading.ErrNoProfile) {
		return err
	}
	if profile != nil {
		switch profile.Status {
		case domain.SubscriptionActive:
			return replyStatus(c, t.T("signup.already_active"))
		case domain.SubscriptionPending:
			return replyStatus(c, t.T("signup.pending"))
		}
		// A cancelled profile may sign up again.
	}

	telegramID := c.Sender().ID
	err = fsm.TransitionTo(ctx, telegramID, state.StateSignupName, nil)
	switch {
	case err == nil:
	case errors.Is(err, state.ErrStateLocked):
		return replyStatus(c, t.T("errors.in_progress"))
	case errors.Is(err, state.ErrInvalidTransition):
		// Mid-conversation /subscribe restarts the flow from scratch.
		if err := fsm.SetState(ctx, telegramID, state.StateSignupName, nil); err != nil {
			return err
		}
	default:
		return err
	}

	return c.Send(t.T("signup.intro"))
}

func confirmSignup(
	c telebot.Context,
	subscriptions *copytrading.Service,
	fsm state.StateMachine,
	enqueuer jobs.Enqueuer,
	catalog *i18n.Catalog,
	log *slog.Logger,
) error {
	t := TranslatorFor(c, catalog)

	u := CurrentUser(c)
	if u == nil {
		return apperrors.NewStateError("signup confirmation without a resolved user")
	}

	ctx := context.Background()
	telegramID := c.Sender().ID

	st, err := fsm.GetState(ctx, telegramID)
	if err != nil {
		if errors.Is(err, state.ErrStateNotFound) {
			return expireSignup(c, t)
		}
		return err
	}
	if st == nil || st.CurrentState != state.StateSignupConfirm {
		return expireSignup(c, t)
	}

	profile, err := subscriptions.Submit(ctx, u.ID,
		st.ContextString(state.ContextKeyFullName),
		st.ContextString(state.ContextKeyEmail),
		st.ContextString(state.ContextKeyPhone),
	)
	if err != nil {
		if errors.Is(err, copytrading.ErrAlreadySubscribed) {
			clearSignupState(ctx, fsm, telegramID, log)
			if err := c.Respond(&telebot.CallbackResponse{Text: t.T("signup.already_active")}); err != nil {
				return err
			}
			return c.Edit(t.T("signup.already_active"))
		}
		return err
	}

	if enqueuer == nil {
		log.Warn("activation not enqueued: no enqueuer configured", slog.Int64("user_id", u.ID))
	} else if err := enqueuer.EnqueueProfileActivation(ctx, jobs.ProfileActivationPayload{
		UserID:     profile.UserID,
		TelegramID: u.TelegramID,
		Language:   u.Language,
	}); err != nil {
		// The signup is stored; activation is merely delayed, so the
		// user still gets the success reply.
		log.Error("failed to enqueue profile activation",
			slog.Int64("user_id", u.ID),
			slog.Any("error", err),
		)
	}

	clearSignupState(ctx, fsm, telegramID, log)

	if err := c.Respond(&telebot.CallbackResponse{}); err != nil {
		return err
	}

	return c.Edit(t.T("signup.submitted"))
}

func abortSignup(c telebot.Context, fsm state.StateMachine, catalog *i18n.Catalog) error {
	t := TranslatorFor(c, catalog)

	if err := fsm.ClearState(context.Background(), c.Sender().ID); err != nil {
		return err
	}

	if err := c.Respond(&telebot.CallbackResponse{}); err != nil {
		return err
	}

	return c.Edit(t.T("signup.aborted"))
}

// NewSignupNameHandler consumes the full-name answer.
func NewSignupNameHandler(subscriptions *copytrading.Service, fsm state.StateMachine, catalog *i18n.Catalog, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			log.Warn("signup name handler invoked without sender")
			return nil
		}

		t := TranslatorFor(c, catalog)

		answer := strings.TrimSpace(c.Text())
		if err := subscriptions.ValidateFullName(answer); err != nil {
			return c.Send(t.T("signup.invalid_name"))
		}

		st := ConversationState(c)
		err := fsm.TransitionTo(context.Background(), c.Sender().ID, state.StateSignupEmail,
			st.WithContextValue(state.ContextKeyFullName, answer))
		if err != nil {
			return signupStepError(c, t, err)
		}

		return c.Send(t.Tf("signup.ask_email", answer))
	}
}

// NewSignupEmailHandler consumes the email answer.
func NewSignupEmailHandler(subscriptions *copytrading.Service, fsm state.StateMachine, catalog *i18n.Catalog, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			log.Warn("signup email handler invoked without sender")
			return nil
		}

		t := TranslatorFor(c, catalog)

		answer := strings.TrimSpace(c.Text())
		if err := subscriptions.ValidateEmail(answer); err != nil {
			return c.Send(t.T("signup.invalid_email"))
		}

		st := ConversationState(c)
		err := fsm.TransitionTo(context.Background(), c.Sender().ID, state.StateSignupPhone,
			st.WithContextValue(state.ContextKeyEmail, answer))
		if err != nil {
			return signupStepError(c, t, err)
		}

		return c.Send(t.T("signup.ask_phone"))
	}
}

// NewSignupPhoneHandler consumes the phone answer and shows the
// collected details for confirmation.
func NewSignupPhoneHandler(subscriptions *copytrading.Service, fsm state.StateMachine, kb *keyboard.Builder, catalog *i18n.Catalog, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			log.Warn("signup phone handler invoked without sender")
			return nil
		}

		t := TranslatorFor(c, catalog)

		answer := strings.TrimSpace(c.Text())
		if err := subscriptions.ValidatePhone(answer); err != nil {
			return c.Send(t.T("signup.invalid_phone"))
		}

		st := ConversationState(c)
		err := fsm.TransitionTo(context.Background(), c.Sender().ID, state.StateSignupConfirm,
			st.WithContextValue(state.ContextKeyPhone, answer))
		if err != nil {
			return signupStepError(c, t, err)
		}

		summary := t.Tf("signup.confirm",
			st.ContextString(state.ContextKeyFullName),
			st.ContextString(state.ContextKeyEmail),
			answer,
		)

		return c.Send(summary, kb.SignupConfirm(t))
	}
}

// NewSignupConfirmPromptHandler re-prompts when the user types instead
// of pressing confirm or abort.
func NewSignupConfirmPromptHandler(kb *keyboard.Builder, catalog *i18n.Catalog, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			log.Warn("signup confirm prompt invoked without sender")
			return nil
		}

		t := TranslatorFor(c, catalog)

		st := ConversationState(c)
		if st == nil {
			return c.Send(t.T("signup.expired"))
		}

		summary := t.Tf("signup.confirm",
			st.ContextString(state.ContextKeyFullName),
			st.ContextString(state.ContextKeyEmail),
			st.ContextString(state.ContextKeyPhone),
		)

		return c.Send(summary, kb.SignupConfirm(t))
	}
}

// replyStatus answers a short status line: a toast for callbacks, a
// message otherwise.
func replyStatus(c telebot.Context, text string) error {
	if c.Callback() != nil {
		return c.Respond(&telebot.CallbackResponse{Text: text})
	}
	return c.Send(text)
}

// expireSignup tells the user the confirm buttons outlived their
// signup session.
func expireSignup(c telebot.Context, t i18n.Translator) error {
	if err := c.Respond(&telebot.CallbackResponse{Text: t.T("signup.expired")}); err != nil {
		return err
	}
	return c.Edit(t.T("signup.expired"))
}

// signupStepError maps FSM failures mid-conversation to user replies.
// A lock means a concurrent update is racing this one; an invalid
// transition means the stored state expired under us.
func signupStepError(c telebot.Context, t i18n.Translator, err error) error {
	switch {
	case errors.Is(err, state.ErrStateLocked):
		return c.Send(t.T("errors.in_progress"))
	case errors.Is(err, state.ErrInvalidTransition):
		return c.Send(t.T("signup.expired"))
	default:
		return err
	}
}

func clearSignupState(ctx context.Context, fsm state.StateMachine, telegramID int64, log *slog.Logger) {
	if err := fsm.ClearState(ctx, telegramID); err != nil {
		log.Error("failed to clear signup state",
			slog.Int64("telegram_id", telegramID),
			slog.Any("error", err),
		)
	}
}
