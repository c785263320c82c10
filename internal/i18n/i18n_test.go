package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZoozFX/Telegram-1-sub000/internal/domain"
)

func writeCatalog(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func testCatalog(t *testing.T) *Catalog {
	t.Helper()

	dir := t.TempDir()
	writeCatalog(t, dir, "en.yaml", `
en:
  start:
    welcome: "Welcome, %s!"
  language:
    prompt: "Choose your language:"
  only_english: "english only"
`)
	writeCatalog(t, dir, "ar.yaml", `
ar:
  start:
    welcome: "أهلاً %s!"
  language:
    prompt: "اختر لغتك:"
`)

	catalog, err := LoadFromDir(dir, domain.LanguageEnglish)
	require.NoError(t, err)
	return catalog
}

func TestLoadFromDir(t *testing.T) {
	catalog := testCatalog(t)

	assert.ElementsMatch(t,
		[]domain.Language{domain.LanguageEnglish, domain.LanguageArabic},
		catalog.Languages(),
	)
}

func TestLoadFromDirRejectsMissingDefault(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "ar.yaml", "ar:\n  k: v\n")

	_, err := LoadFromDir(dir, domain.LanguageEnglish)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default language")
}

func TestLoadFromDirRejectsUnsupportedLanguage(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "de.yaml", "de:\n  k: v\n")

	_, err := LoadFromDir(dir, domain.LanguageEnglish)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported language")
}

func TestLoadFromDirRequiresCatalogs(t *testing.T) {
	_, err := LoadFromDir(t.TempDir(), domain.LanguageEnglish)
	require.Error(t, err)
}

func TestTranslatorLookup(t *testing.T) {
	catalog := testCatalog(t)

	en := catalog.Translator(domain.LanguageEnglish)
	assert.Equal(t, domain.LanguageEnglish, en.Lang())
	assert.Equal(t, "Choose your language:", en.T("language.prompt"))

	ar := catalog.Translator(domain.LanguageArabic)
	assert.Equal(t, domain.LanguageArabic, ar.Lang())
	assert.Equal(t, "اختر لغتك:", ar.T("language.prompt"))
}

func TestTranslatorFallsBackToDefaultLanguage(t *testing.T) {
	catalog := testCatalog(t)

	ar := catalog.Translator(domain.LanguageArabic)
	assert.Equal(t, "english only", ar.T("only_english"))
}

func TestTranslatorReturnsKeyWhenUntranslated(t *testing.T) {
	catalog := testCatalog(t)

	en := catalog.Translator(domain.LanguageEnglish)
	assert.Equal(t, "missing.key", en.T("missing.key"))
	assert.Equal(t, "", en.T("  "))
}

func TestTranslatorFormats(t *testing.T) {
	catalog := testCatalog(t)

	en := catalog.Translator(domain.LanguageEnglish)
	assert.Equal(t, "Welcome, Dana!", en.Tf("start.welcome", "Dana"))
}

func TestTranslatorForUnsupportedLanguageUsesDefault(t *testing.T) {
	catalog := testCatalog(t)

	tr := catalog.Translator(domain.Language("de"))
	assert.Equal(t, domain.LanguageEnglish, tr.Lang())
}

func TestForLocale(t *testing.T) {
	catalog := testCatalog(t)

	assert.Equal(t, domain.LanguageArabic, catalog.ForLocale("ar-SA").Lang())
	assert.Equal(t, domain.LanguageEnglish, catalog.ForLocale("fr").Lang())
	assert.Equal(t, domain.LanguageEnglish, catalog.ForLocale("").Lang())
}
