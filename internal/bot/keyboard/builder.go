package keyboard

import (
	telebot "gopkg.in/telebot.v3"

	"github.com/ZoozFX/Telegram-1-sub000/internal/domain"
	"github.com/ZoozFX/Telegram-1-sub000/internal/i18n"
)

// Builder renders the bot's inline keyboards and menu headers.
type Builder struct {
	style HeaderStyle
}

// NewBuilder returns a Builder using the given header style.
func NewBuilder(style HeaderStyle) *Builder {
	return &Builder{style: style}
}

// MainMenu builds the idle-state menu.
func (b *Builder) MainMenu(t i18n.Translator) *telebot.ReplyMarkup {
	return NewInlineKeyboard().
		AddRow(InlineButton{Text: label(t, "buttons.subscribe"), Action: ActionSignup, Arg: ArgSignupStart}).
		AddRow(
			InlineButton{Text: label(t, "buttons.language"), Action: ActionSetLanguage, Arg: ArgLanguageMenu},
			InlineButton{Text: label(t, "buttons.help"), Action: ActionHelp},
		).
		Build()
}

// MainMenuText renders the header for the main-menu message, sized to
// the widest of its button captions.
func (b *Builder) MainMenuText(t i18n.Translator) string {
	return b.style.Build(label(t, "menu.title"), b.mainMenuLabels(t))
}

// LanguageMenu builds the language picker. The callback argument
// carries the selected language code.
func (b *Builder) LanguageMenu(t i18n.Translator) *telebot.ReplyMarkup {
	return NewInlineKeyboard().
		AddRow(
			InlineButton{Text: label(t, "buttons.english"), Action: ActionSetLanguage, Arg: string(domain.LanguageEnglish)},
			InlineButton{Text: label(t, "buttons.arabic"), Action: ActionSetLanguage, Arg: string(domain.LanguageArabic)},
		).
		Build()
}

// SignupConfirm builds the confirm/abort row shown with the collected
// signup details.
func (b *Builder) SignupConfirm(t i18n.Translator) *telebot.ReplyMarkup {
	return NewInlineKeyboard().
		AddRow(
			InlineButton{Text: label(t, "buttons.confirm"), Action: ActionSignup, Arg: ArgSignupConfirm},
			InlineButton{Text: label(t, "buttons.abort"), Action: ActionSignup, Arg: ArgSignupAbort},
		).
		Build()
}

// Header renders a centered title with an underline sized to labels.
func (b *Builder) Header(title string, labels []string) string {
	return b.style.Build(title, labels)
}

func (b *Builder) mainMenuLabels(t i18n.Translator) []string {
	return []string{
		label(t, "buttons.subscribe"),
		label(t, "buttons.language"),
		label(t, "buttons.help"),
	}
}

func label(t i18n.Translator, key string) string {
	if t == nil {
		return key
	}
	return t.T(key)
}
