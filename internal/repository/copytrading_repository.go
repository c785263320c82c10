package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ZoozFX/Telegram-1-sub000/internal/domain"
)

// SubscriberContact is the joined view notification jobs work from:
// who to message, on which Telegram account, in which language.
type SubscriberContact struct {
	UserID     int64
	TelegramID int64
	FullName   string
	Language   domain.Language
}

// CopyTradingRepository persists the subscription extension of a user.
type CopyTradingRepository interface {
	FindByUserID(ctx context.Context, userID int64) (*domain.CopyTradingProfile, error)
	Upsert(ctx context.Context, profile *domain.CopyTradingProfile) error
	UpdateStatus(ctx context.Context, userID int64, status domain.SubscriptionStatus) error
	ListContactsByStatus(ctx context.Context, status domain.SubscriptionStatus) ([]SubscriberContact, error)
}

type copyTradingRepository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewCopyTradingRepository creates a new SQL-backed copy-trading repository.
func NewCopyTradingRepository(db *sql.DB, log *slog.Logger) CopyTradingRepository {
	return &copyTradingRepository{
		db:  db,
		log: log,
	}
}

// FindByUserID retrieves the profile belonging to a user.
func (r *copyTradingRepository) FindByUserID(ctx context.Context, userID int64) (*domain.CopyTradingProfile, error) {
	const query = `
		SELECT id, user_id, full_name, email, phone, status, created_at, updated_at
		FROM copy_trading_profiles
		WHERE user_id = $1
	`

	row := r.db.QueryRowContext(ctx, query, userID)

	var profile domain.CopyTradingProfile
	if err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.Email,
		&profile.Phone,
		&profile.Status,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}

		if r.log != nil {
			r.log.Error("failed to fetch copy trading profile", slog.Int64("user_id", userID), slog.Any("error", err))
		}
		return nil, fmt.Errorf("select copy trading profile: %w", err)
	}

	return &profile, nil
}

// Upsert stores a freshly collected profile. A previous profile for the
// same user, e.g. one cancelled earlier, is overwritten with the new
// details and reset to the given status.
func (r *copyTradingRepository) Upsert(ctx context.Context, profile *domain.CopyTradingProfile) error {
	const query = `
		INSERT INTO copy_trading_profiles (user_id, full_name, email, phone, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET full_name  = EXCLUDED.full_name,
		    email      = EXCLUDED.email,
		    phone      = EXCLUDED.phone,
		    status     = EXCLUDED.status,
		    updated_at = now()
		RETURNING id, created_at, updated_at
	`

	row := r.db.QueryRowContext(
		ctx,
		query,
		profile.UserID,
		profile.FullName,
		profile.Email,
		profile.Phone,
		profile.Status,
	)

	if err := row.Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt); err != nil {
		if r.log != nil {
			r.log.Error("failed to upsert copy trading profile", slog.Int64("user_id", profile.UserID), slog.Any("error", err))
		}
		return fmt.Errorf("upsert copy trading profile: %w", err)
	}

	return nil
}

// UpdateStatus moves the user's profile to a new lifecycle status.
func (r *copyTradingRepository) UpdateStatus(ctx context.Context, userID int64, status domain.SubscriptionStatus) error {
	const query = `
		UPDATE copy_trading_profiles
		SET status = $2, updated_at = now()
		WHERE user_id = $1
	`

	result, err := r.db.ExecContext(ctx, query, userID, status)
	if err != nil {
		if r.log != nil {
			r.log.Error("failed to update profile status", slog.Int64("user_id", userID), slog.Any("error", err))
		}
		return fmt.Errorf("update copy trading status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update copy trading status rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// ListContactsByStatus returns contact details for every profile in
// the given status.
func (r *copyTradingRepository) ListContactsByStatus(ctx context.Context, status domain.SubscriptionStatus) ([]SubscriberContact, error) {
	const query = `
		SELECT p.user_id, u.telegram_id, p.full_name, u.language
		FROM copy_trading_profiles p
		JOIN users u ON u.id = p.user_id
		WHERE p.status = $1
		ORDER BY p.id
	`

	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		if r.log != nil {
			r.log.Error("failed to list subscriber contacts", slog.String("status", string(status)), slog.Any("error", err))
		}
		return nil, fmt.Errorf("list subscriber contacts: %w", err)
	}
	defer rows.Close()

	var contacts []SubscriberContact
	for rows.Next() {
		var contact SubscriberContact
		if err := rows.Scan(&contact.UserID, &contact.TelegramID, &contact.FullName, &contact.Language); err != nil {
			return nil, fmt.Errorf("scan subscriber contact: %w", err)
		}
		contacts = append(contacts, contact)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscriber contacts: %w", err)
	}

	return contacts, nil
}
