// Package i18n holds the en/al string tables. Unknown keys fall back to
// English, then to the key itself.
package i18n

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	English  = "en"
	Albanian = "al"
)

//go:embed locales/*.yaml
var localeFS embed.FS

type Catalog struct {
	tables   map[string]map[string]string
	fallback string
}

// Load อ่านตารางทั้งหมดที่ embed ไว้
func Load() (*Catalog, error) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, err
	}
	c := &Catalog{tables: make(map[string]map[string]string), fallback: English}
	for _, e := range entries {
		raw, err := localeFS.ReadFile(path.Join("locales", e.Name()))
		if err != nil {
			return nil, err
		}
		table := map[string]string{}
		if err := yaml.Unmarshal(raw, &table); err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.Name(), err)
		}
		c.tables[strings.TrimSuffix(e.Name(), ".yaml")] = table
	}
	if _, ok := c.tables[English]; !ok {
		return nil, fmt.Errorf("missing %s locale", English)
	}
	return c, nil
}

// MustLoad panics on an invalid embedded table.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Languages() []string {
	out := make([]string, 0, len(c.tables))
	for lang := range c.tables {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// Normalize maps browser language tags onto the supported tables.
func (c *Catalog) Normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_;,"); i >= 0 {
		lang = lang[:i]
	}
	if lang == "sq" {
		lang = Albanian
	}
	if _, ok := c.tables[lang]; ok {
		return lang
	}
	return c.fallback
}

func (c *Catalog) Translator(lang string) Translator {
	lang = c.Normalize(lang)
	return Translator{lang: lang, table: c.tables[lang], fallback: c.tables[c.fallback]}
}

// Translator is an immutable per-language view of the catalog.
type Translator struct {
	lang     string
	table    map[string]string
	fallback map[string]string
}

func (t Translator) Language() string { return t.lang }

func (t Translator) T(key string) string {
	if v, ok := t.table[key]; ok {
		return v
	}
	if v, ok := t.fallback[key]; ok {
		return v
	}
	return key
}
