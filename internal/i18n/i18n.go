// Package i18n resolves the localized reply strings the bot sends.
// Catalogs are YAML files keyed by language, flattened into
// dot-separated lookup keys.
package i18n

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ZoozFX/Telegram-1-sub000/internal/domain"
)

const defaultDir = "locales"

// Translator resolves localized strings for one language using
// dot-separated keys. Missing keys fall back to the default language
// and finally to the key itself, so a gap in a catalog never produces
// an empty reply.
type Translator interface {
	T(key string) string
	Tf(key string, args ...any) string
	Lang() domain.Language
}

// Catalog stores the translations for every supported language.
type Catalog struct {
	entries     map[domain.Language]map[string]string
	defaultLang domain.Language
}

// Load reads catalogs from the default locales directory.
func Load(defaultLang domain.Language) (*Catalog, error) {
	return LoadFromDir(defaultDir, defaultLang)
}

// LoadFromDir reads every YAML catalog in dir. The default language
// must be present or loading fails, since it backs every fallback.
func LoadFromDir(dir string, defaultLang domain.Language) (*Catalog, error) {
	entries, err := parseDir(dir)
	if err != nil {
		return nil, err
	}

	if !defaultLang.Valid() {
		defaultLang = domain.DefaultLanguage
	}

	if _, ok := entries[defaultLang]; !ok {
		return nil, fmt.Errorf("i18n: default language %q has no catalog in %s", defaultLang, dir)
	}

	return &Catalog{entries: entries, defaultLang: defaultLang}, nil
}

// Translator returns a translator bound to lang, falling back to the
// default language when lang is unsupported or has no catalog.
func (c *Catalog) Translator(lang domain.Language) Translator {
	if c == nil {
		return translator{lang: domain.DefaultLanguage}
	}

	if !lang.Valid() || c.entries[lang] == nil {
		lang = c.defaultLang
	}

	return translator{
		lang:     lang,
		fallback: c.defaultLang,
		entries:  c.entries,
	}
}

// ForLocale returns a translator for the language inferred from a
// Telegram locale tag.
func (c *Catalog) ForLocale(tag string) Translator {
	return c.Translator(domain.ParseLocale(tag))
}

// Languages lists every language with a loaded catalog.
func (c *Catalog) Languages() []domain.Language {
	if c == nil {
		return nil
	}

	languages := make([]domain.Language, 0, len(c.entries))
	for lang := range c.entries {
		languages = append(languages, lang)
	}
	return languages
}

type translator struct {
	lang     domain.Language
	fallback domain.Language
	entries  map[domain.Language]map[string]string
}

func (t translator) Lang() domain.Language {
	return t.lang
}

func (t translator) T(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}

	if value := t.lookup(t.lang, key); value != "" {
		return value
	}
	if value := t.lookup(t.fallback, key); value != "" {
		return value
	}

	return key
}

// Tf resolves key and interpolates args into its format verbs.
func (t translator) Tf(key string, args ...any) string {
	format := t.T(key)
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

func (t translator) lookup(lang domain.Language, key string) string {
	if t.entries == nil {
		return ""
	}

	if entries := t.entries[lang]; entries != nil {
		if value, ok := entries[key]; ok {
			return value
		}
	}

	return ""
}

func parseDir(dir string) (map[domain.Language]map[string]string, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("i18n: read dir %s: %w", dir, err)
	}

	catalog := make(map[domain.Language]map[string]string)
	var processed bool

	for _, entry := range dirEntries {
		if entry.IsDir() || !isYAML(entry) {
			continue
		}

		processed = true

		fileCatalog, err := parseFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}

		for lang, translations := range fileCatalog {
			if _, ok := catalog[lang]; !ok {
				catalog[lang] = make(map[string]string)
			}
			for key, value := range translations {
				catalog[lang][key] = value
			}
		}
	}

	if !processed {
		return nil, fmt.Errorf("i18n: no yaml catalogs found in %s", dir)
	}

	return catalog, nil
}

func isYAML(entry fs.DirEntry) bool {
	name := strings.ToLower(entry.Name())
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

func parseFile(path string) (map[domain.Language]map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("i18n: read file %s: %w", path, err)
	}

	if strings.TrimSpace(string(data)) == "" {
		return map[domain.Language]map[string]string{}, nil
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("i18n: parse file %s: %w", path, err)
	}

	catalog := make(map[domain.Language]map[string]string)
	for langTag, value := range raw {
		lang := domain.Language(strings.ToLower(strings.TrimSpace(langTag)))
		if !lang.Valid() {
			return nil, fmt.Errorf("i18n: file %s declares unsupported language %q", path, langTag)
		}

		section := toStringMap(value)
		if len(section) == 0 {
			continue
		}

		flattened := make(map[string]string)
		flatten("", section, flattened)
		if len(flattened) == 0 {
			continue
		}

		catalog[lang] = flattened
	}

	return catalog, nil
}

func toStringMap(value any) map[string]any {
	switch v := value.(type) {
	case map[string]any:
		return v
	case map[interface{}]any:
		converted := make(map[string]any, len(v))
		for key, item := range v {
			keyStr, ok := key.(string)
			if !ok {
				continue
			}
			converted[keyStr] = item
		}
		return converted
	default:
		return nil
	}
}

func flatten(prefix string, in map[string]any, out map[string]string) {
	for key, value := range in {
		if key == "" {
			continue
		}

		nextKey := key
		if prefix != "" {
			nextKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			out[nextKey] = v
		case map[string]any:
			flatten(nextKey, v, out)
		case map[interface{}]any:
			child := toStringMap(v)
			if len(child) == 0 {
				continue
			}
			flatten(nextKey, child, out)
		}
	}
}
