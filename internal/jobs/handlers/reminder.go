package handlers

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/ZoozFX/Telegram-1-sub000/internal/copytrading"
	"github.com/ZoozFX/Telegram-1-sub000/internal/domain"
	"github.com/ZoozFX/Telegram-1-sub000/internal/i18n"
)

// RenewalReminderHandler fans the renewal reminder out to every active
// subscriber. Delivery failures are logged per recipient and never fail
// the task, so one blocked user cannot starve the rest of the batch.
type RenewalReminderHandler struct {
	subscriptions *copytrading.Service
	notifier      Notifier
	catalog       *i18n.Catalog
	log           *slog.Logger
}

func NewRenewalReminderHandler(subscriptions *copytrading.Service, notifier Notifier, catalog *i18n.Catalog, log *slog.Logger) *RenewalReminderHandler {
	if log == nil {
		log = slog.Default()
	}

	return &RenewalReminderHandler{
		subscriptions: subscriptions,
		notifier:      notifier,
		catalog:       catalog,
		log:           log,
	}
}

func (h *RenewalReminderHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	contacts, err := h.subscriptions.ContactsByStatus(ctx, domain.SubscriptionActive)
	if err != nil {
		return err
	}

	if h.notifier == nil || len(contacts) == 0 {
		return nil
	}

	sent := 0
	for _, contact := range contacts {
		text := h.catalog.Translator(contact.Language).T("signup.renewal_reminder")
		if err := h.notifier.SendMessage(ctx, contact.TelegramID, text); err != nil {
			h.log.ErrorContext(ctx, "reminder: failed to notify subscriber",
				slog.Int64("telegram_id", contact.TelegramID),
				slog.Any("error", err),
			)
			continue
		}
		sent++
	}

	h.log.InfoContext(ctx, "renewal reminders sent",
		slog.Int("recipients", len(contacts)),
		slog.Int("delivered", sent),
	)

	return nil
}
