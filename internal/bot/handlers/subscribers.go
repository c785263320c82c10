package handlers

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/ZoozFX/Telegram-1-sub000/internal/bot/keyboard"
	"github.com/ZoozFX/Telegram-1-sub000/internal/copytrading"
	"github.com/ZoozFX/Telegram-1-sub000/internal/domain"
	"github.com/ZoozFX/Telegram-1-sub000/internal/i18n"
)

const subscribersPageSize = 5

type subscriberEntry struct {
	name     string
	status   domain.SubscriptionStatus
	language domain.Language
}

// NewSubscribersHandler lists copy-trading subscribers for admins,
// active profiles first. Non-admin senders get no reply at all.
func NewSubscribersHandler(subscriptions *copytrading.Service, kb *keyboard.Builder, catalog *i18n.Catalog, adminIDs []int64, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}
	admins := adminSet(adminIDs)

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			return nil
		}
		if _, ok := admins[c.Sender().ID]; !ok {
			log.Warn("subscribers command from non-admin", slog.Int64("telegram_id", c.Sender().ID))
			return nil
		}

		t := TranslatorFor(c, catalog)

		entries, err := loadSubscribers(context.Background(), subscriptions)
		if err != nil {
			return err
		}

		text, markup := renderSubscribersPage(t, kb, entries, 1)
		if markup == nil {
			return c.Send(text)
		}
		return c.Send(text, markup)
	}
}

// NewSubscribersCallbackHandler turns the pager buttons into page edits.
func NewSubscribersCallbackHandler(subscriptions *copytrading.Service, kb *keyboard.Builder, catalog *i18n.Catalog, adminIDs []int64, log *slog.Logger) CallbackHandler {
	if log == nil {
		log = slog.Default()
	}
	admins := adminSet(adminIDs)

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil || c.Callback() == nil {
			return nil
		}
		if _, ok := admins[c.Sender().ID]; !ok {
			// Pager payloads are trivially forgeable; drop them quietly.
			return c.Respond(&telebot.CallbackResponse{})
		}

		parsed, err := keyboard.ParseCallback(c.Callback().Data)
		if err != nil {
			return c.Respond(&telebot.CallbackResponse{})
		}

		page, err := strconv.Atoi(parsed.Arg)
		if err != nil {
			log.Warn("subscribers pager with non-numeric page", slog.String("arg", parsed.Arg))
			return c.Respond(&telebot.CallbackResponse{})
		}

		t := TranslatorFor(c, catalog)

		entries, err := loadSubscribers(context.Background(), subscriptions)
		if err != nil {
			return err
		}

		if err := c.Respond(&telebot.CallbackResponse{}); err != nil {
			return err
		}

		text, markup := renderSubscribersPage(t, kb, entries, page)
		if markup == nil {
			return c.Edit(text)
		}
		return c.Edit(text, markup)
	}
}

// loadSubscribers flattens active and pending contacts, in that order,
// so page numbering stays stable while a profile awaits activation.
func loadSubscribers(ctx context.Context, subscriptions *copytrading.Service) ([]subscriberEntry, error) {
	entries := make([]subscriberEntry, 0, 16)

	for _, status := range []domain.SubscriptionStatus{domain.SubscriptionActive, domain.SubscriptionPending} {
		contacts, err := subscriptions.ContactsByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		for _, contact := range contacts {
			entries = append(entries, subscriberEntry{
				name:     contact.FullName,
				status:   status,
				language: contact.Language,
			})
		}
	}

	return entries, nil
}

func renderSubscribersPage(t i18n.Translator, kb *keyboard.Builder, entries []subscriberEntry, page int) (string, *telebot.ReplyMarkup) {
	title := t.T("admin.subscribers_title")

	if len(entries) == 0 {
		header := kb.Header(title, nil)
		return header + "\n" + t.T("admin.subscribers_empty"), nil
	}

	totalPages := (len(entries) + subscribersPageSize - 1) / subscribersPageSize
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	buttons := keyboard.PaginationButtons(t, keyboard.ActionSubscribers, page, totalPages)

	labels := make([]string, 0, len(buttons))
	for _, b := range buttons {
		labels = append(labels, b.Text)
	}

	var sb strings.Builder
	sb.WriteString(kb.Header(title, labels))

	start := (page - 1) * subscribersPageSize
	end := start + subscribersPageSize
	if end > len(entries) {
		end = len(entries)
	}

	for i := start; i < end; i++ {
		entry := entries[i]
		sb.WriteString("\n")
		sb.WriteString(t.Tf("admin.subscribers_line", i+1, entry.name, string(entry.status), string(entry.language)))
	}

	markup := keyboard.NewInlineKeyboard().AddRow(buttons...).Build()
	return sb.String(), markup
}

func adminSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
