// Package copytrading manages the subscription extension of a user:
// signup validation, profile storage and the status lifecycle
// pending -> active -> cancelled.
package copytrading

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	validator "github.com/go-playground/validator/v10"

	"github.com/ZoozFX/Telegram-1-sub000/internal/domain"
	"github.com/ZoozFX/Telegram-1-sub000/internal/repository"
)

var (
	// ErrAlreadySubscribed rejects a signup while a profile is pending or active.
	ErrAlreadySubscribed = errors.New("copytrading: already subscribed")
	// ErrNoProfile is returned when an operation needs a profile that does not exist.
	ErrNoProfile = errors.New("copytrading: no profile")

	phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

// Service provides the copy-trading signup and lifecycle operations.
type Service struct {
	repo     repository.CopyTradingRepository
	validate *validator.Validate
	log      *slog.Logger
}

// NewService constructs a new Service instance.
func NewService(repo repository.CopyTradingRepository, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

// Profile returns the user's profile, or ErrNoProfile when none exists.
func (s *Service) Profile(ctx context.Context, userID int64) (*domain.CopyTradingProfile, error) {
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoProfile
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}

	return profile, nil
}

// ValidateFullName checks a signup name answer.
func (s *Service) ValidateFullName(name string) error {
	if len([]rune(strings.TrimSpace(name))) < 3 {
		return errors.New("full name too short")
	}
	return nil
}

// ValidateEmail checks a signup email answer.
func (s *Service) ValidateEmail(email string) error {
	if err := s.validate.Var(strings.TrimSpace(email), "required,email"); err != nil {
		return fmt.Errorf("invalid email: %w", err)
	}
	return nil
}

// ValidatePhone checks a signup phone answer. Separators users
// commonly type are stripped before matching.
func (s *Service) ValidatePhone(phone string) error {
	if !phonePattern.MatchString(NormalizePhone(phone)) {
		return errors.New("invalid phone number")
	}
	return nil
}

// NormalizePhone strips spaces, dashes, dots and parentheses.
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))
}

// Submit stores a completed signup as a pending profile. A cancelled
// profile may be replaced; a pending or active one may not.
func (s *Service) Submit(ctx context.Context, userID int64, fullName, email, phone string) (*domain.CopyTradingProfile, error) {
	existing, err := s.Profile(ctx, userID)
	if err != nil && !errors.Is(err, ErrNoProfile) {
		return nil, err
	}
	if existing != nil && existing.Status != domain.SubscriptionCancelled {
		return nil, ErrAlreadySubscribed
	}

	if err := s.ValidateFullName(fullName); err != nil {
		return nil, err
	}
	if err := s.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := s.ValidatePhone(phone); err != nil {
		return nil, err
	}

	profile := &domain.CopyTradingProfile{
		UserID:   userID,
		FullName: strings.TrimSpace(fullName),
		Email:    strings.TrimSpace(email),
		Phone:    NormalizePhone(phone),
		Status:   domain.SubscriptionPending,
	}

	if err := s.repo.Upsert(ctx, profile); err != nil {
		s.log.Error("failed to store signup",
			slog.Int64("user_id", userID),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("store signup: %w", err)
	}

	s.log.Info("copy trading signup submitted", slog.Int64("user_id", userID))
	return profile, nil
}

// Activate moves a pending profile to active.
func (s *Service) Activate(ctx context.Context, userID int64) error {
	if err := s.repo.UpdateStatus(ctx, userID, domain.SubscriptionActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNoProfile
		}
		return fmt.Errorf("activate profile: %w", err)
	}

	s.log.Info("copy trading profile activated", slog.Int64("user_id", userID))
	return nil
}

// Cancel cancels the user's subscription. The bool reports whether
// there was a pending or active profile to cancel.
func (s *Service) Cancel(ctx context.Context, userID int64) (bool, error) {
	profile, err := s.Profile(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoProfile) {
			return false, nil
		}
		return false, err
	}
	if profile.Status == domain.SubscriptionCancelled {
		return false, nil
	}

	if err := s.repo.UpdateStatus(ctx, userID, domain.SubscriptionCancelled); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("cancel profile: %w", err)
	}

	s.log.Info("copy trading profile cancelled", slog.Int64("user_id", userID))
	return true, nil
}

// ContactsByStatus lists notification targets for jobs.
func (s *Service) ContactsByStatus(ctx context.Context, status domain.SubscriptionStatus) ([]repository.SubscriberContact, error) {
	contacts, err := s.repo.ListContactsByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}
