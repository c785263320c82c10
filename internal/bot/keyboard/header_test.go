package keyboard_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZoozFX/Telegram-1-sub000/internal/bot/keyboard"
)

const nbsp = " "

func headerLines(t *testing.T, header string) (string, string) {
	t.Helper()

	lines := strings.Split(header, "\n")
	require.Len(t, lines, 2)
	return lines[0], lines[1]
}

func TestHeaderStyleBuild(t *testing.T) {
	style := keyboard.HeaderStyle{MinWidth: 10, MaxWidth: 20}

	testCases := []struct {
		name      string
		title     string
		labels    []string
		wantTitle string
		wantWidth int
	}{
		{
			name:      "even padding",
			title:     "ab",
			labels:    []string{"123456789"},
			wantTitle: strings.Repeat(nbsp, 4) + "ab" + strings.Repeat(nbsp, 4),
			wantWidth: 10,
		},
		{
			name:      "odd remainder favors the right",
			title:     "abcd",
			labels:    []string{"12345678901"},
			wantTitle: strings.Repeat(nbsp, 3) + "abcd" + strings.Repeat(nbsp, 4),
			wantWidth: 11,
		},
		{
			name:      "no labels falls back to minimum width",
			title:     "abcd",
			labels:    nil,
			wantTitle: strings.Repeat(nbsp, 3) + "abcd" + strings.Repeat(nbsp, 3),
			wantWidth: 10,
		},
		{
			name:      "wide labels clamp to the ceiling",
			title:     "abc",
			labels:    []string{strings.Repeat("x", 40)},
			wantTitle: strings.Repeat(nbsp, 8) + "abc" + strings.Repeat(nbsp, 9),
			wantWidth: 20,
		},
		{
			name:      "over-long title is not truncated",
			title:     strings.Repeat("t", 25),
			labels:    []string{"short"},
			wantTitle: strings.Repeat("t", 25),
			wantWidth: 20,
		},
		{
			name:      "title exactly at target gets no padding",
			title:     "1234567890",
			labels:    nil,
			wantTitle: "1234567890",
			wantWidth: 10,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			titleLine, underline := headerLines(t, style.Build(tc.title, tc.labels))

			assert.Equal(t, tc.wantTitle, titleLine)
			assert.Equal(t, strings.Repeat("─", tc.wantWidth), underline)
		})
	}
}

func TestHeaderStyleBuildMeasuresStrippedTitle(t *testing.T) {
	style := keyboard.HeaderStyle{}

	// The emoji is stripped for measurement (" Hi" is 3 cells) but kept
	// in the rendered title.
	titleLine, underline := headerLines(t, style.Build("🎉 Hi", []string{"xxxxx"}))

	assert.Equal(t, nbsp+"🎉 Hi"+nbsp, titleLine)
	assert.Equal(t, strings.Repeat("─", 5), underline)
}

func TestHeaderStyleBuildZeroStyle(t *testing.T) {
	style := keyboard.HeaderStyle{}

	titleLine, underline := headerLines(t, style.Build("hello", nil))

	assert.Equal(t, "hello", titleLine)
	assert.Empty(t, underline)
}

func TestHeaderStyleBuildCenteringBalance(t *testing.T) {
	style := keyboard.HeaderStyle{MinWidth: 14, MaxWidth: 32}

	for _, title := range []string{"a", "ab", "abc", "abcd", "abcde"} {
		titleLine, _ := headerLines(t, style.Build(title, nil))

		left := len(titleLine) - len(strings.TrimLeft(titleLine, nbsp))
		right := len(titleLine) - len(strings.TrimRight(titleLine, nbsp))
		leftCells := utf8.RuneCount([]byte(titleLine[:left]))
		rightCells := utf8.RuneCount([]byte(titleLine[len(titleLine)-right:]))

		assert.LessOrEqual(t, leftCells, rightCells, "title %q", title)
		assert.LessOrEqual(t, rightCells-leftCells, 1, "title %q", title)
	}
}
