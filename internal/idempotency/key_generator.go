package idempotency

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// GenerateKey builds a deterministic key from all provided parts.
func GenerateKey(parts ...interface{}) string {
	h := sha256.New()
	for _, part := range parts {
		fmt.Fprintf(h, "%v:", part)
	}

	return hex.EncodeToString(h.Sum(nil))
}

// UpdateKey is the dedup key for a Telegram update. Telegram keeps the
// update id stable across webhook redeliveries.
func UpdateKey(updateID int) string {
	return GenerateKey("update", updateID)
}

// CallbackKey is the dedup key for an inline-button press. Double-taps
// arrive as distinct updates, but chat, message, and payload match.
func CallbackKey(chatID int64, messageID int, data string) string {
	return GenerateKey("callback", chatID, messageID, data)
}
