package domain

import "time"

// User represents an application user stored in the database.
type User struct {
	ID         int64
	TelegramID int64
	FirstName  string
	LastName   string
	Username   string
	Language   Language
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DisplayName returns the most specific non-empty name for the user.
func (u *User) DisplayName() string {
	switch {
	case u == nil:
		return ""
	case u.FirstName != "":
		return u.FirstName
	case u.Username != "":
		return u.Username
	}
	return ""
}
