// Package user provides business operations over user profiles.
package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/ZoozFX/Telegram-1-sub000/internal/domain"
	"github.com/ZoozFX/Telegram-1-sub000/internal/repository"
	"github.com/ZoozFX/Telegram-1-sub000/internal/usercache"
)

// Service provides business operations over users. Reads go through the
// Redis cache; the cache is advisory and its failures never block an
// operation.
type Service struct {
	repo  repository.UserRepository
	cache *usercache.Cache
	log   *slog.Logger
}

// NewService constructs a new Service instance.
func NewService(repo repository.UserRepository, cache *usercache.Cache, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}

	return &Service{repo: repo, cache: cache, log: log}
}

// GetOrCreate resolves the sender to a stored user, registering them on
// first contact. The second return reports whether this call created the
// record. A new user's language is inferred from the Telegram locale tag;
// an existing user's stored choice always wins.
func (s *Service) GetOrCreate(ctx context.Context, telegramUser *telebot.User) (*domain.User, bool, error) {
	if telegramUser == nil {
		return nil, false, errors.New("telegram user is nil")
	}

	if cached, err := s.cache.Get(ctx, telegramUser.ID); err != nil {
		s.logError("get_or_create.cache", telegramUser.ID, err)
	} else if cached != nil {
		return cached, false, nil
	}

	user, err := s.repo.FindByTelegramID(ctx, telegramUser.ID)
	if err == nil {
		s.cacheSet(ctx, user)
		return user, false, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		s.logError("get_or_create.find", telegramUser.ID, err)
		return nil, false, fmt.Errorf("get user: %w", err)
	}

	newUser := &domain.User{
		TelegramID: telegramUser.ID,
		FirstName:  telegramUser.FirstName,
		LastName:   telegramUser.LastName,
		Username:   telegramUser.Username,
		Language:   domain.ParseLocale(telegramUser.LanguageCode),
	}

	if err := s.repo.Upsert(ctx, newUser); err != nil {
		s.logError("get_or_create.upsert", telegramUser.ID, err)
		return nil, false, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("user registered",
		slog.Int64("telegram_id", newUser.TelegramID),
		slog.String("language", string(newUser.Language)),
	)

	s.cacheSet(ctx, newUser)
	return newUser, true, nil
}

// SetLanguage persists the user's reply language choice.
func (s *Service) SetLanguage(ctx context.Context, telegramID int64, lang domain.Language) error {
	if !lang.Valid() {
		return fmt.Errorf("unsupported language %q", lang)
	}

	if err := s.repo.UpdateLanguage(ctx, telegramID, lang); err != nil {
		s.logError("set_language", telegramID, err)
		return fmt.Errorf("set language: %w", err)
	}

	if err := s.cache.Invalidate(ctx, telegramID); err != nil {
		s.logError("set_language.invalidate", telegramID, err)
	}

	return nil
}

func (s *Service) cacheSet(ctx context.Context, user *domain.User) {
	if err := s.cache.Set(ctx, user, usercache.DefaultTTL); err != nil {
		s.logError("cache_set", user.TelegramID, err)
	}
}

func (s *Service) logError(operation string, telegramID int64, err error) {
	if s == nil || s.log == nil || err == nil {
		return
	}

	s.log.Error("user service operation failed",
		slog.String("operation", operation),
		slog.Int64("telegram_id", telegramID),
		slog.Any("error", err),
	)
}
