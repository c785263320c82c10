// Package repository contains the SQL-backed persistence layer.
// Lookups that find nothing return sql.ErrNoRows unchanged so callers
// can branch on it.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ZoozFX/Telegram-1-sub000/internal/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	FindByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)
	Upsert(ctx context.Context, user *domain.User) error
	UpdateLanguage(ctx context.Context, telegramID int64, lang domain.Language) error
}

type userRepository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewUserRepository creates a new SQL-backed user repository.
func NewUserRepository(db *sql.DB, log *slog.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log,
	}
}

// FindByTelegramID retrieves a user by their Telegram identifier.
func (r *userRepository) FindByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	const query = `
		SELECT id, telegram_id, first_name, last_name, username, language, created_at, updated_at
		FROM users
		WHERE telegram_id = $1
	`

	row := r.db.QueryRowContext(ctx, query, telegramID)

	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.TelegramID,
		&user.FirstName,
		&user.LastName,
		&user.Username,
		&user.Language,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}

		if r.log != nil {
			r.log.Error("failed to fetch user by telegram id", slog.Int64("telegram_id", telegramID), slog.Any("error", err))
		}
		return nil, fmt.Errorf("select user by telegram id: %w", err)
	}

	return &user, nil
}

// Upsert inserts the user or, when the Telegram identifier is already
// known, refreshes the profile fields Telegram may have changed.
// The user's id and timestamps are populated from the row.
func (r *userRepository) Upsert(ctx context.Context, user *domain.User) error {
	const query = `
		INSERT INTO users (telegram_id, first_name, last_name, username, language)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (telegram_id) DO UPDATE
		SET first_name = EXCLUDED.first_name,
		    last_name  = EXCLUDED.last_name,
		    username   = EXCLUDED.username,
		    updated_at = now()
		RETURNING id, language, created_at, updated_at
	`

	row := r.db.QueryRowContext(
		ctx,
		query,
		user.TelegramID,
		user.FirstName,
		user.LastName,
		user.Username,
		user.Language,
	)

	if err := row.Scan(&user.ID, &user.Language, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if r.log != nil {
			r.log.Error("failed to upsert user", slog.Int64("telegram_id", user.TelegramID), slog.Any("error", err))
		}
		return fmt.Errorf("upsert user: %w", err)
	}

	return nil
}

// UpdateLanguage stores the user's chosen reply language.
func (r *userRepository) UpdateLanguage(ctx context.Context, telegramID int64, lang domain.Language) error {
	const query = `
		UPDATE users
		SET language = $2, updated_at = now()
		WHERE telegram_id = $1
	`

	result, err := r.db.ExecContext(ctx, query, telegramID, lang)
	if err != nil {
		if r.log != nil {
			r.log.Error("failed to update user language", slog.Int64("telegram_id", telegramID), slog.Any("error", err))
		}
		return fmt.Errorf("update user language: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user language rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}
