package domain

import "time"

// SubscriptionStatus tracks the lifecycle of a copy-trading profile.
type SubscriptionStatus string

const (
	SubscriptionPending   SubscriptionStatus = "pending"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// CopyTradingProfile extends a User with the contact details collected
// during copy-trading signup. At most one profile exists per user.
type CopyTradingProfile struct {
	ID        int64
	UserID    int64
	FullName  string
	Email     string
	Phone     string
	Status    SubscriptionStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
