// Package submission records the free-text notes users send to the bot.
package submission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/ZoozFX/Telegram-1-sub000/internal/domain"
	"github.com/ZoozFX/Telegram-1-sub000/internal/repository"
)

// ErrEmptyBody rejects submissions with no visible content.
var ErrEmptyBody = errors.New("submission body is empty")

// MaxBodyLength bounds a stored note in bytes. Over-long input is
// truncated on a rune boundary rather than rejected.
const MaxBodyLength = 4096

// Service provides business operations over submissions.
type Service struct {
	repo repository.SubmissionRepository
	log  *slog.Logger
}

// NewService constructs a new Service instance.
func NewService(repo repository.SubmissionRepository, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}

	return &Service{repo: repo, log: log}
}

// Record stores a note for the user and returns it together with the
// user's running total. The total is best-effort: when counting fails
// the submission is still recorded and 0 is returned.
func (s *Service) Record(ctx context.Context, userID int64, body, tag string) (*domain.Submission, int64, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, 0, ErrEmptyBody
	}
	if len(body) > MaxBodyLength {
		cut := MaxBodyLength
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		body = body[:cut]
	}

	sub := &domain.Submission{
		UserID: userID,
		Body:   body,
		Tag:    strings.TrimSpace(tag),
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		s.log.Error("failed to record submission",
			slog.Int64("user_id", userID),
			slog.Any("error", err),
		)
		return nil, 0, fmt.Errorf("record submission: %w", err)
	}

	total, err := s.repo.CountByUserID(ctx, userID)
	if err != nil {
		s.log.Warn("failed to count submissions",
			slog.Int64("user_id", userID),
			slog.Any("error", err),
		)
		total = 0
	}

	return sub, total, nil
}
