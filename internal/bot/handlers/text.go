package handlers

import (
	"context"
	"errors"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	apperrors "github.com/ZoozFX/Telegram-1-sub000/internal/errors"
	"github.com/ZoozFX/Telegram-1-sub000/internal/i18n"
	"github.com/ZoozFX/Telegram-1-sub000/internal/state"
	"github.com/ZoozFX/Telegram-1-sub000/internal/submission"
	"github.com/ZoozFX/Telegram-1-sub000/pkg/metrics"
)

// NewTextHandler records any free text that no command or conversation
// claimed. When a conversation state is stored but has no handler the
// note is tagged with that state, so nothing a user sends is lost.
func NewTextHandler(submissions *submission.Service, catalog *i18n.Catalog, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			log.Warn("text handler invoked without sender")
			return nil
		}

		t := TranslatorFor(c, catalog)

		u := CurrentUser(c)
		if u == nil {
			return apperrors.NewStateError("submission without a resolved user")
		}

		var tag string
		if st := ConversationState(c); st != nil && st.CurrentState != state.StateIdle {
			tag = string(st.CurrentState)
		}

		_, total, err := submissions.Record(context.Background(), u.ID, c.Text(), tag)
		if err != nil {
			if errors.Is(err, submission.ErrEmptyBody) {
				return nil
			}
			return err
		}

		metrics.RecordSubmission()

		if total > 0 {
			return c.Send(t.Tf("submission.saved", total))
		}
		return c.Send(t.T("submission.saved_plain"))
	}
}
