// Package i18n defines the translation boundary the page engine consumes.
// The engine only needs a translator per locale; how translations are sourced
// is the provider's concern.
package i18n

import (
	"context"
	"fmt"
)

// Translator resolves localized strings for one locale. Render capabilities
// receive one per request.
type Translator interface {
	// Locale returns the canonical locale tag this translator serves.
	Locale() string

	// Translate resolves a message ID, formatting any arguments into it.
	// Unknown IDs are returned verbatim so a missing translation never takes
	// a page down.
	Translate(id string, args ...any) string
}

// TranslationsManager provides translators keyed by locale string. Failure to
// resolve a translator is fatal for the request that needed it.
type TranslationsManager interface {
	GetTranslator(ctx context.Context, locale string) (Translator, error)
}

// mapTranslator is a Translator over an in-memory string table.
type mapTranslator struct {
	locale  string
	strings map[string]string
}

func (t *mapTranslator) Locale() string { return t.locale }

func (t *mapTranslator) Translate(id string, args ...any) string {
	tmpl, ok := t.strings[id]
	if !ok {
		return id
	}
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}
