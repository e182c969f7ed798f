package i18n

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownLocale is returned when a locale name is not supported.
var ErrUnknownLocale = errors.New("unknown locale")

// Locale selects the language of user-facing text.
type Locale string

const (
	English Locale = "en"
	Chinese Locale = "zh"
)

// ParseLocale accepts "en", "zh" and a few common spellings of each.
func ParseLocale(s string) (Locale, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "en", "english", "en-us", "1":
		return English, nil
	case "zh", "chinese", "中文", "zh-cn", "2":
		return Chinese, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLocale, s)
}

// MessageID names one entry of the catalog.
type MessageID string

type key struct {
	id     MessageID
	locale Locale
}

// Catalog is an immutable table of messages keyed by (MessageID, Locale).
// Lookups fall back to English, then to the id itself.
type Catalog struct {
	messages map[key]string
}

// NewCatalog builds a catalog from id -> locale -> text. The input is copied.
func NewCatalog(entries map[MessageID]map[Locale]string) *Catalog {
	c := &Catalog{messages: make(map[key]string)}
	for id, texts := range entries {
		for locale, text := range texts {
			c.messages[key{id, locale}] = text
		}
	}
	return c
}

// Text returns the message for id in locale.
func (c *Catalog) Text(id MessageID, locale Locale) string {
	if text, ok := c.messages[key{id, locale}]; ok {
		return text
	}
	if text, ok := c.messages[key{id, English}]; ok {
		return text
	}
	return string(id)
}

// Format renders the message for id in locale as a fmt format string.
func (c *Catalog) Format(id MessageID, locale Locale, args ...any) string {
	return fmt.Sprintf(c.Text(id, locale), args...)
}

// Has reports whether id has a message in locale.
func (c *Catalog) Has(id MessageID, locale Locale) bool {
	_, ok := c.messages[key{id, locale}]
	return ok
}

// Localizer binds a catalog to one locale.
type Localizer struct {
	catalog *Catalog
	locale  Locale
}

// For returns a Localizer for locale. A nil catalog selects Default().
func (c *Catalog) For(locale Locale) Localizer {
	if c == nil {
		c = Default()
	}
	return Localizer{catalog: c, locale: locale}
}

// Locale returns the bound locale.
func (l Localizer) Locale() Locale {
	return l.locale
}

// T returns the message for id.
func (l Localizer) T(id MessageID) string {
	return l.catalog.Text(id, l.locale)
}

// F formats the message for id with args.
func (l Localizer) F(id MessageID, args ...any) string {
	return l.catalog.Format(id, l.locale, args...)
}
