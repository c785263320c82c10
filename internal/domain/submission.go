package domain

import "time"

// Submission is a single free-text message a user sent to the bot.
// Submissions are append-only: once recorded they are never edited
// or deleted.
type Submission struct {
	ID        int64
	UserID    int64
	Body      string
	Tag       string
	CreatedAt time.Time
}
