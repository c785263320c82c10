package state

import "time"

// State represents a finite-state machine state. The only multi-step
// conversation is copy-trading signup; every other update is handled
// statelessly from idle.
type State string

const (
	// StateIdle indicates that the bot is waiting for the next user command.
	StateIdle State = "idle"
	// StateSignupName indicates that the bot asked for the user's full name.
	StateSignupName State = "signup_name"
	// StateSignupEmail indicates that the bot asked for the user's email address.
	StateSignupEmail State = "signup_email"
	// StateSignupPhone indicates that the bot asked for the user's phone number.
	StateSignupPhone State = "signup_phone"
	// StateSignupConfirm indicates that the collected details await confirmation.
	StateSignupConfirm State = "signup_confirm"
)

// Context keys for the answers collected during signup.
const (
	ContextKeyFullName = "full_name"
	ContextKeyEmail    = "email"
	ContextKeyPhone    = "phone"
)

// UserState captures the current FSM state for a Telegram user.
type UserState struct {
	UserID       int64                  `json:"user_id"`
	CurrentState State                  `json:"current_state"`
	Context      map[string]interface{} `json:"context"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// ContextString returns the string stored under key, or "" when the
// key is absent or holds a non-string (possible after a JSON round trip).
func (s *UserState) ContextString(key string) string {
	if s == nil || s.Context == nil {
		return ""
	}

	value, _ := s.Context[key].(string)
	return value
}

// WithContextValue returns a copy of the state's context with key set,
// never mutating the original map.
func (s *UserState) WithContextValue(key string, value interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, 4)
	if s != nil {
		for k, v := range s.Context {
			merged[k] = v
		}
	}
	merged[key] = value
	return merged
}
