package keyboard

import (
	"errors"
	"fmt"
	"strings"
)

// Telegram caps callback payloads at 64 bytes; longer payloads are
// rejected by the API when the keyboard is sent.
const (
	CallbackSeparator  = ":"
	CallbackLimitBytes = 64
)

// Callback actions routed by the bot. Arguments ride after the
// separator: "lang:ar", "signup:confirm", "subs:2".
const (
	ActionSetLanguage = "lang"
	ActionSignup      = "signup"
	ActionHelp        = "help"
	ActionSubscribers = "subs"
)

// Callback arguments with fixed meanings.
const (
	ArgLanguageMenu  = "menu"
	ArgSignupStart   = "start"
	ArgSignupConfirm = "confirm"
	ArgSignupAbort   = "abort"
)

// Callback is a decoded inline-button payload: an action name plus an
// optional argument.
type Callback struct {
	Action string
	Arg    string
}

// Encode renders the wire form, enforcing the Telegram size limit.
func (c Callback) Encode() (string, error) {
	if c.Action == "" {
		return "", errors.New("callback action is empty")
	}

	payload := c.Action
	if c.Arg != "" {
		payload += CallbackSeparator + c.Arg
	}

	if len(payload) > CallbackLimitBytes {
		return "", fmt.Errorf("callback payload exceeds %d byte limit: got %d", CallbackLimitBytes, len(payload))
	}

	return payload, nil
}

// ParseCallback decodes raw callback data produced by Encode.
func ParseCallback(raw string) (Callback, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Callback{}, errors.New("callback data is empty")
	}

	action, arg, _ := strings.Cut(raw, CallbackSeparator)
	return Callback{Action: action, Arg: arg}, nil
}
