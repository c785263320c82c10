// Package handlers contains the Telegram update handlers and the
// helpers they share. Handlers hold their dependencies in closures;
// per-update values travel on the telebot context.
package handlers

import (
	telebot "gopkg.in/telebot.v3"

	"github.com/ZoozFX/Telegram-1-sub000/internal/domain"
	"github.com/ZoozFX/Telegram-1-sub000/internal/i18n"
	"github.com/ZoozFX/Telegram-1-sub000/internal/state"
)

// Handler processes bot commands and text messages.
type Handler func(c telebot.Context) error

// CallbackHandler processes inline callback events.
type CallbackHandler func(c telebot.Context) error

// Middleware wraps handlers with additional behavior.
type Middleware func(Handler) Handler

// Keys for per-update values stashed on the telebot context.
const (
	currentUserKey       = "current_user"
	currentUserCreated   = "current_user_created"
	conversationStateKey = "conversation_state"
)

// SetCurrentUser stashes the resolved user for the rest of the chain.
// created marks a first-contact registration.
func SetCurrentUser(c telebot.Context, u *domain.User, created bool) {
	if c == nil || u == nil {
		return
	}

	c.Set(currentUserKey, u)
	c.Set(currentUserCreated, created)
}

// CurrentUser returns the user stashed by the user-context middleware,
// or nil when resolution failed or never ran.
func CurrentUser(c telebot.Context) *domain.User {
	if c == nil {
		return nil
	}

	u, _ := c.Get(currentUserKey).(*domain.User)
	return u
}

// IsNewUser reports whether this update registered the sender.
func IsNewUser(c telebot.Context) bool {
	if c == nil {
		return false
	}

	created, _ := c.Get(currentUserCreated).(bool)
	return created
}

// SetConversationState stashes the FSM state the dispatcher loaded, so
// state handlers do not fetch it again.
func SetConversationState(c telebot.Context, st *state.UserState) {
	if c == nil || st == nil {
		return
	}

	c.Set(conversationStateKey, st)
}

// ConversationState returns the stashed FSM state, or nil when the
// sender is idle with no stored record.
func ConversationState(c telebot.Context) *state.UserState {
	if c == nil {
		return nil
	}

	st, _ := c.Get(conversationStateKey).(*state.UserState)
	return st
}

// TranslatorFor picks the reply translator: the stored language when
// the user is known, the sender's Telegram locale otherwise.
func TranslatorFor(c telebot.Context, catalog *i18n.Catalog) i18n.Translator {
	if u := CurrentUser(c); u != nil {
		return catalog.Translator(u.Language)
	}

	var tag string
	if c != nil && c.Sender() != nil {
		tag = c.Sender().LanguageCode
	}

	return catalog.ForLocale(tag)
}
