// Package textwidth estimates the rendered width of Telegram button labels
// so that header underlines and padding can be sized in monospace cells
// rather than codepoints.
package textwidth

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/width"
)

// variationSelector16 (U+FE0F) requests emoji presentation for the
// preceding codepoint. It is zero-width on its own and is removed when
// stripping emoji.
const variationSelector16 = 0xFE0F

// inEmojiBlock reports whether r falls inside one of the pictographic
// Unicode blocks that Telegram renders as double-width emoji.
func inEmojiBlock(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1F5FF, // Miscellaneous Symbols and Pictographs
		r >= 0x1F600 && r <= 0x1F64F, // Emoticons
		r >= 0x1F680 && r <= 0x1F6FF, // Transport and Map Symbols
		r >= 0x1F900 && r <= 0x1F9FF, // Supplemental Symbols and Pictographs
		r >= 0x1FA70 && r <= 0x1FAFF, // Symbols and Pictographs Extended-A
		r >= 0x2600 && r <= 0x26FF, // Miscellaneous Symbols
		r >= 0x2700 && r <= 0x27BF: // Dingbats
		return true
	}
	return false
}

// StripEmoji returns s with every pictographic codepoint and every
// U+FE0F variation selector removed. All other bytes pass through
// unchanged and in order; no normalization is applied. The result is
// meant for measuring the textual part of a label, not for display.
func StripEmoji(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r != variationSelector16 && !inEmojiBlock(r) {
			b.WriteString(s[i : i+size])
		}
		i += size
	}

	return b.String()
}

// RuneWidth returns the approximate number of monospace cells r occupies:
// 0 for combining marks, 2 for East-Asian wide or fullwidth codepoints
// and for pictographic blocks, 1 for everything else.
func RuneWidth(r rune) int {
	if unicode.In(r, unicode.Mn, unicode.Me) {
		return 0
	}

	switch width.LookupRune(r).Kind() {
	case width.EastAsianFullwidth, width.EastAsianWide:
		return 2
	}

	if inEmojiBlock(r) {
		return 2
	}

	return 1
}

// DisplayWidth returns the approximate rendered width of s in monospace
// cells. The estimate is codepoint-by-codepoint and does not account for
// grapheme clustering beyond combining marks; it is an upper-bound guide
// for layout, not a terminal oracle. An empty string has width 0.
func DisplayWidth(s string) int {
	w := 0
	for _, r := range s {
		w += RuneWidth(r)
	}
	return w
}

// MaxButtonWidth returns the largest DisplayWidth across labels.
// An empty or nil slice yields 0.
func MaxButtonWidth(labels []string) int {
	max := 0
	for _, label := range labels {
		if w := DisplayWidth(label); w > max {
			max = w
		}
	}
	return max
}
