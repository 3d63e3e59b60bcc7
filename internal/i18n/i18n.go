// Package i18n holds the en and pt message catalogs and the Locale type.
package i18n

import (
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Locale is a supported UI language.
type Locale string

const (
	EN Locale = "en"
	PT Locale = "pt"
)

// DefaultLocale is used when nothing else is configured or stored.
const DefaultLocale = EN

// Supported lists the locales in display order.
func Supported() []Locale {
	return []Locale{EN, PT}
}

// Parse resolves s ("en", "pt", "pt-BR", "English", ...) to a Locale.
func Parse(s string) (Locale, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	switch strings.ToLower(s) {
	case "english":
		return EN, true
	case "portuguese", "português":
		return PT, true
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	switch base.String() {
	case "en":
		return EN, true
	case "pt":
		return PT, true
	}
	return "", false
}

// Tag returns the language tag the catalog is registered under.
func (l Locale) Tag() language.Tag {
	if l == PT {
		return language.Portuguese
	}
	return language.English
}

// LanguageName is the English name of the language, used in LLM prompts.
func (l Locale) LanguageName() string {
	if l == PT {
		return "Portuguese"
	}
	return "English"
}

// Next cycles to the following supported locale.
func (l Locale) Next() Locale {
	if l == PT {
		return EN
	}
	return PT
}

func (l Locale) String() string { return string(l) }

var (
	printersMu sync.Mutex
	printers   = map[Locale]*message.Printer{}
)

// Printer returns a cached message printer for l.
func Printer(l Locale) *message.Printer {
	printersMu.Lock()
	defer printersMu.Unlock()
	if p, ok := printers[l]; ok {
		return p
	}
	p := message.NewPrinter(l.Tag())
	printers[l] = p
	return p
}

// T translates key for l, formatting args into the message.
func T(l Locale, key string, args ...any) string {
	return Printer(l).Sprintf(key, args...)
}

// Translator is the function shape components take for rendering text.
type Translator func(l Locale, key string, args ...any) string
