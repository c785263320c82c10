package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/ZoozFX/Telegram-1-sub000/internal/copytrading"
	"github.com/ZoozFX/Telegram-1-sub000/internal/i18n"
	"github.com/ZoozFX/Telegram-1-sub000/internal/jobs"
)

// ProfileActivationHandler moves a pending copy-trading profile to
// active and tells the subscriber, in their language.
type ProfileActivationHandler struct {
	subscriptions *copytrading.Service
	notifier      Notifier
	catalog       *i18n.Catalog
	log           *slog.Logger
}

func NewProfileActivationHandler(subscriptions *copytrading.Service, notifier Notifier, catalog *i18n.Catalog, log *slog.Logger) *ProfileActivationHandler {
	if log == nil {
		log = slog.Default()
	}

	return &ProfileActivationHandler{
		subscriptions: subscriptions,
		notifier:      notifier,
		catalog:       catalog,
		log:           log,
	}
}

func (h *ProfileActivationHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload jobs.ProfileActivationPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		h.log.ErrorContext(ctx, "activation: failed to decode payload",
			slog.String("task_type", t.Type()),
			slog.Any("error", err),
		)
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}

	if err := h.subscriptions.Activate(ctx, payload.UserID); err != nil {
		if errors.Is(err, copytrading.ErrNoProfile) {
			// Cancelled between signup and activation. Nothing to do.
			h.log.WarnContext(ctx, "activation: profile no longer exists",
				slog.Int64("user_id", payload.UserID),
			)
			return nil
		}
		return fmt.Errorf("activate profile: %w", err)
	}

	h.log.InfoContext(ctx, "subscription activated",
		slog.Int64("user_id", payload.UserID),
		slog.Int64("telegram_id", payload.TelegramID),
	)

	if h.notifier == nil {
		return nil
	}

	text := h.catalog.Translator(payload.Language).T("signup.activated")
	if err := h.notifier.SendMessage(ctx, payload.TelegramID, text); err != nil {
		// Activation is already committed; a retry only redelivers the
		// notification, and Activate tolerates the repeat.
		return fmt.Errorf("notify subscriber: %w", err)
	}

	return nil
}
