package keyboard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZoozFX/Telegram-1-sub000/internal/bot/keyboard"
)

func TestPaginationButtons(t *testing.T) {
	translator := mapTranslator{entries: map[string]string{
		"pagination.prev": "◀️ Prev",
		"pagination.next": "Next ▶️",
		"pagination.page": "Page %d/%d",
	}}

	testCases := []struct {
		name      string
		page      int
		total     int
		wantTexts []string
		wantArgs  []string
	}{
		{
			name:      "first page",
			page:      1,
			total:     5,
			wantTexts: []string{"Page 1/5", "Next ▶️"},
			wantArgs:  []string{"1", "2"},
		},
		{
			name:      "middle page",
			page:      3,
			total:     5,
			wantTexts: []string{"◀️ Prev", "Page 3/5", "Next ▶️"},
			wantArgs:  []string{"2", "3", "4"},
		},
		{
			name:      "last page",
			page:      5,
			total:     5,
			wantTexts: []string{"◀️ Prev", "Page 5/5"},
			wantArgs:  []string{"4", "5"},
		},
		{
			name:      "single page",
			page:      1,
			total:     1,
			wantTexts: []string{"Page 1/1"},
			wantArgs:  []string{"1"},
		},
		{
			name:      "page clamped to total",
			page:      9,
			total:     4,
			wantTexts: []string{"◀️ Prev", "Page 4/4"},
			wantArgs:  []string{"3", "4"},
		},
		{
			name:      "zero total treated as one page",
			page:      1,
			total:     0,
			wantTexts: []string{"Page 1/1"},
			wantArgs:  []string{"1"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buttons := keyboard.PaginationButtons(translator, keyboard.ActionSubscribers, tc.page, tc.total)
			require.Len(t, buttons, len(tc.wantTexts))

			for i := range tc.wantTexts {
				assert.Equal(t, tc.wantTexts[i], buttons[i].Text)
				assert.Equal(t, keyboard.ActionSubscribers, buttons[i].Action)
				assert.Equal(t, tc.wantArgs[i], buttons[i].Arg)
			}
		})
	}
}

func TestPaginationButtonsNilTranslator(t *testing.T) {
	buttons := keyboard.PaginationButtons(nil, keyboard.ActionSubscribers, 2, 3)

	require.Len(t, buttons, 3)
	assert.Equal(t, "pagination.prev", buttons[0].Text)
	assert.Equal(t, "2/3", buttons[1].Text)
}
