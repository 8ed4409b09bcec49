// Package i18n keeps the user-facing strings of all audits, keyed by locale
// and message id. The table is built once at init and never mutated.
package i18n

import (
	"fmt"
	"sort"
)

// DefaultLocale is used whenever a locale or a message in it is missing.
const DefaultLocale = "en-US"

// Messages maps message ids to their text.
type Messages map[string]string

//nolint:gochecknoglobals
var locales = map[string]Messages{}

// Register adds the messages of a locale. It is meant to be called from init
// functions; registering an id twice for the same locale panics.
func Register(locale string, msgs Messages) {
	m, ok := locales[locale]
	if !ok {
		m = make(Messages, len(msgs))
		locales[locale] = m
	}
	for id, tmpl := range msgs {
		if _, dup := m[id]; dup {
			panic(fmt.Sprintf("i18n: message %q registered twice for %s", id, locale))
		}
		m[id] = tmpl
	}
}

// Locales returns the sorted list of locales with at least one message.
func Locales() []string {
	list := make([]string, 0, len(locales))
	for l := range locales {
		list = append(list, l)
	}
	sort.Strings(list)
	return list
}

// Translator formats messages for one locale.
type Translator struct {
	locale string
}

// NewTranslator returns a translator for locale. Unknown locales fall back to
// DefaultLocale.
func NewTranslator(locale string) Translator {
	if _, ok := locales[locale]; !ok {
		locale = DefaultLocale
	}
	return Translator{locale: locale}
}

// Locale is the locale the translator resolved to.
func (t Translator) Locale() string {
	return t.locale
}

// Format returns the message for id. Unknown ids are returned unchanged.
func (t Translator) Format(id string) string {
	if msg, ok := locales[t.locale][id]; ok {
		return msg
	}
	if msg, ok := locales[DefaultLocale][id]; ok {
		return msg
	}
	return id
}
