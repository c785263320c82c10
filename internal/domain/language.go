package domain

import "strings"

// Language is one of the bot's supported reply languages.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
)

// DefaultLanguage is used whenever a locale tag cannot be mapped.
const DefaultLanguage = LanguageEnglish

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	return l == LanguageEnglish || l == LanguageArabic
}

// ParseLocale maps a BCP-47 style locale tag, as Telegram supplies it,
// onto a supported language. Only the primary subtag is considered and
// matching is case-insensitive, so "ar", "ar-SA" and "AR_EG" all map to
// Arabic. Anything else, including the empty tag, maps to English.
func ParseLocale(tag string) Language {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		tag = tag[:i]
	}

	if Language(tag) == LanguageArabic {
		return LanguageArabic
	}
	return DefaultLanguage
}
