// Package errors defines the application error taxonomy. Every error
// carries a stable code, an operator-facing message and an i18n key the
// bot resolves into the user's language before replying.
package errors

import "fmt"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// FallbackUserMessageKey resolves to a generic apology when an error
// carries no key of its own.
const FallbackUserMessageKey = "errors.internal"

type AppError struct {
	Code           string
	Message        string
	UserMessageKey string
	Severity       Severity
	Retryable      bool
	cause          error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

func (e *AppError) Cause() error {
	return e.Unwrap()
}

// NewValidationError flags bad user input, e.g. a malformed email
// during signup. key selects the localized re-prompt.
func NewValidationError(msg, key string) *AppError {
	if key == "" {
		key = FallbackUserMessageKey
	}

	return &AppError{
		Code:           "E100",
		Message:        msg,
		UserMessageKey: key,
		Severity:       SeverityLow,
		Retryable:      false,
		cause:          nil,
	}
}

func NewDatabaseError(cause error) *AppError {
	var underlyingMsg string
	if cause != nil {
		underlyingMsg = cause.Error()
	}

	return &AppError{
		Code:           "E200",
		Message:        fmt.Sprintf("database error: %s", underlyingMsg),
		UserMessageKey: FallbackUserMessageKey,
		Severity:       SeverityHigh,
		Retryable:      true,
		cause:          cause,
	}
}

// NewTelegramError wraps a failed Bot API call.
func NewTelegramError(op string, cause error) *AppError {
	return &AppError{
		Code:           "E300",
		Message:        fmt.Sprintf("telegram api error: %s", op),
		UserMessageKey: FallbackUserMessageKey,
		Severity:       SeverityMedium,
		Retryable:      true,
		cause:          cause,
	}
}

// NewStateError flags an operation that is invalid for the user's
// current conversation state.
func NewStateError(msg string) *AppError {
	return &AppError{
		Code:           "E400",
		Message:        msg,
		UserMessageKey: FallbackUserMessageKey,
		Severity:       SeverityMedium,
		Retryable:      false,
		cause:          nil,
	}
}

func NewRateLimitError(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:           "E500",
		Message:        fmt.Sprintf("rate limit exceeded: retry after %d seconds", retryAfterSeconds),
		UserMessageKey: "errors.rate_limited",
		Severity:       SeverityLow,
		Retryable:      false,
		cause:          nil,
	}
}
