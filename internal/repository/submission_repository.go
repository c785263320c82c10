package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/ZoozFX/Telegram-1-sub000/internal/domain"
)

// SubmissionRepository persists the free-text notes users send.
// Submissions are append-only; there is deliberately no update or
// delete operation.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *domain.Submission) error
	CountByUserID(ctx context.Context, userID int64) (int64, error)
}

type submissionRepository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewSubmissionRepository creates a new SQL-backed submission repository.
func NewSubmissionRepository(db *sql.DB, log *slog.Logger) SubmissionRepository {
	return &submissionRepository{
		db:  db,
		log: log,
	}
}

// Create records a submission and populates its id and created_at.
func (r *submissionRepository) Create(ctx context.Context, submission *domain.Submission) error {
	const query = `
		INSERT INTO submissions (user_id, body, tag)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	row := r.db.QueryRowContext(ctx, query, submission.UserID, submission.Body, submission.Tag)

	if err := row.Scan(&submission.ID, &submission.CreatedAt); err != nil {
		if r.log != nil {
			r.log.Error("failed to insert submission", slog.Int64("user_id", submission.UserID), slog.Any("error", err))
		}
		return fmt.Errorf("insert submission: %w", err)
	}

	return nil
}

// CountByUserID returns how many submissions the user has on file.
func (r *submissionRepository) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	const query = `
		SELECT count(*)
		FROM submissions
		WHERE user_id = $1
	`

	var count int64
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		if r.log != nil {
			r.log.Error("failed to count submissions", slog.Int64("user_id", userID), slog.Any("error", err))
		}
		return 0, fmt.Errorf("count submissions: %w", err)
	}

	return count, nil
}
