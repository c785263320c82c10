package keyboard

import (
	telebot "gopkg.in/telebot.v3"
)

// InlineButton is a declarative inline-keyboard button: a caption plus
// the callback action and argument encoded into its payload.
type InlineButton struct {
	Text   string
	Action string
	Arg    string
}

// InlineKeyboardBuilder accumulates rows of buttons before rendering
// telebot markup.
type InlineKeyboardBuilder struct {
	rows [][]InlineButton
}

// NewInlineKeyboard creates an empty builder.
func NewInlineKeyboard() *InlineKeyboardBuilder {
	return &InlineKeyboardBuilder{rows: make([][]InlineButton, 0)}
}

// AddRow appends a row of buttons. Empty rows are ignored.
func (b *InlineKeyboardBuilder) AddRow(buttons ...InlineButton) *InlineKeyboardBuilder {
	if len(buttons) == 0 {
		return b
	}

	row := make([]InlineButton, len(buttons))
	copy(row, buttons)
	b.rows = append(b.rows, row)
	return b
}

// Build renders telebot markup, encoding each button's callback
// payload. A payload over the Telegram limit falls back to the bare
// action so the press still reaches its handler.
func (b *InlineKeyboardBuilder) Build() *telebot.ReplyMarkup {
	inlineKeyboard := make([][]telebot.InlineButton, len(b.rows))
	for i, row := range b.rows {
		inlineKeyboard[i] = make([]telebot.InlineButton, len(row))
		for j, btn := range row {
			data, err := (Callback{Action: btn.Action, Arg: btn.Arg}).Encode()
			if err != nil {
				data = btn.Action
			}

			inlineKeyboard[i][j] = telebot.InlineButton{
				Text: btn.Text,
				Data: data,
			}
		}
	}

	return &telebot.ReplyMarkup{InlineKeyboard: inlineKeyboard}
}
