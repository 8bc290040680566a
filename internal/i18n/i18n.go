// Package i18n resolves interface labels from the learning platform locale
// files. A lookup tries the document language, then English, then the
// built-in defaults, then returns the key itself.
package i18n

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Translations is a decoded locale file: nested objects of strings.
type Translations map[string]any

// ErrInvalidLocale indicates a locale file that is not a JSON object.
var ErrInvalidLocale = errors.New("invalid locale file")

// Parse decodes a locale JSON document.
func Parse(data []byte) (Translations, error) {
	var tr Translations
	if err := json.Unmarshal(data, &tr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLocale, err)
	}
	if tr == nil {
		return nil, fmt.Errorf("%w: not an object", ErrInvalidLocale)
	}
	return tr, nil
}

// Lookup resolves a dotted key path such as "courses.final.credits".
// Only non-empty string leaves count as found.
func (tr Translations) Lookup(key string) (string, bool) {
	var cur any = map[string]any(tr)
	for _, k := range strings.Split(key, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return "", false
		}
		cur = m[k]
	}
	s, ok := cur.(string)
	return s, ok && s != ""
}

// Translator looks labels up with the language, English, default chain.
// The zero value answers from the defaults only.
type Translator struct {
	locale  Translations
	english Translations
}

// New creates a Translator. Either argument may be nil.
func New(locale, english Translations) *Translator {
	return &Translator{locale: locale, english: english}
}

// T returns the label for key.
func (t *Translator) T(key string) string {
	if t != nil {
		if s, ok := t.locale.Lookup(key); ok {
			return s
		}
		if s, ok := t.english.Lookup(key); ok {
			return s
		}
	}
	if s, ok := defaults[key]; ok {
		return s
	}
	return key
}
