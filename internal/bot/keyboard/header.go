package keyboard

import (
	"strings"

	"github.com/ZoozFX/Telegram-1-sub000/internal/textwidth"
)

const (
	headerPad       = ' ' // non-breaking space, Telegram collapses regular ones
	headerUnderline = '─'
)

// HeaderStyle fixes the cosmetic constants for menu headers. MinWidth
// keeps narrow menus from collapsing, MaxWidth caps the underline so a
// long title cannot stretch the message.
type HeaderStyle struct {
	MinWidth int
	MaxWidth int
}

// Build renders a two-line header sized to the menu's buttons: the
// title centered over an underline as wide as the widest caption.
// Width is measured on the emoji-stripped title; when the remainder is
// odd the left side gets the smaller half. Over-long titles are kept
// whole while the underline stays at MaxWidth.
func (s HeaderStyle) Build(title string, labels []string) string {
	target := textwidth.MaxButtonWidth(labels)
	if target < s.MinWidth {
		target = s.MinWidth
	}
	if s.MaxWidth > 0 && target > s.MaxWidth {
		target = s.MaxWidth
	}

	titleWidth := textwidth.DisplayWidth(textwidth.StripEmoji(title))

	var b strings.Builder
	if pad := target - titleWidth; pad > 0 {
		left := pad / 2
		b.WriteString(strings.Repeat(string(headerPad), left))
		b.WriteString(title)
		b.WriteString(strings.Repeat(string(headerPad), pad-left))
	} else {
		b.WriteString(title)
	}

	b.WriteByte('\n')
	b.WriteString(strings.Repeat(string(headerUnderline), target))

	return b.String()
}
