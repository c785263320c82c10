// Package handlers implements the background task handlers the jobs
// worker consumes.
package handlers

import "context"

// Notifier delivers Telegram messages on behalf of background jobs.
// The bot implements it, which keeps these handlers free of telebot
// plumbing.
type Notifier interface {
	SendMessage(ctx context.Context, telegramID int64, text string) error
}
