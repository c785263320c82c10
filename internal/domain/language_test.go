package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLocale(t *testing.T) {
	testCases := []struct {
		name string
		tag  string
		want Language
	}{
		{name: "plain arabic", tag: "ar", want: LanguageArabic},
		{name: "arabic with region dash", tag: "ar-SA", want: LanguageArabic},
		{name: "arabic with region underscore", tag: "ar_EG", want: LanguageArabic},
		{name: "uppercase arabic", tag: "AR", want: LanguageArabic},
		{name: "plain english", tag: "en", want: LanguageEnglish},
		{name: "english with region", tag: "en-US", want: LanguageEnglish},
		{name: "unsupported language", tag: "de", want: LanguageEnglish},
		{name: "empty tag", tag: "", want: LanguageEnglish},
		{name: "whitespace tag", tag: "  ", want: LanguageEnglish},
		{name: "arabic prefix of other tag", tag: "arn", want: LanguageEnglish},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseLocale(tc.tag))
		})
	}
}

func TestLanguageValid(t *testing.T) {
	assert.True(t, LanguageEnglish.Valid())
	assert.True(t, LanguageArabic.Valid())
	assert.False(t, Language("de").Valid())
	assert.False(t, Language("").Valid())
}
