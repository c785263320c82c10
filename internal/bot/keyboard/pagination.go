package keyboard

import (
	"fmt"
	"strconv"

	"github.com/ZoozFX/Telegram-1-sub000/internal/i18n"
)

// PaginationButtons returns up to three buttons (prev, current page,
// next) for action, encoding the target page as the callback argument.
// Page and totalPages are clamped to sane values first.
func PaginationButtons(t i18n.Translator, action string, page, totalPages int) []InlineButton {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	buttons := make([]InlineButton, 0, 3)

	if page > 1 {
		buttons = append(buttons, InlineButton{
			Text:   label(t, "pagination.prev"),
			Action: action,
			Arg:    strconv.Itoa(page - 1),
		})
	}

	buttons = append(buttons, InlineButton{
		Text:   pageLabel(t, page, totalPages),
		Action: action,
		Arg:    strconv.Itoa(page),
	})

	if page < totalPages {
		buttons = append(buttons, InlineButton{
			Text:   label(t, "pagination.next"),
			Action: action,
			Arg:    strconv.Itoa(page + 1),
		})
	}

	return buttons
}

func pageLabel(t i18n.Translator, page, total int) string {
	if t == nil {
		return fmt.Sprintf("%d/%d", page, total)
	}
	return t.Tf("pagination.page", page, total)
}
