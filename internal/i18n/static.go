package i18n

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/text/language"

	pagerrors "git.home.luguber.info/inful/pagegen/internal/errors"
)

// StaticManager serves translators from in-memory string tables, negotiating
// requested locales against the supported set. A request for "en-GB" matches a
// supported "en" table rather than failing outright.
type StaticManager struct {
	tables  map[string]map[string]string
	tags    []language.Tag
	locales []string
	matcher language.Matcher
}

// NewStaticManager builds a manager over per-locale string tables. At least
// one locale is required; the first registered locale acts as the matcher's
// fallback preference.
func NewStaticManager(tables map[string]map[string]string, locales []string) (*StaticManager, error) {
	if len(locales) == 0 {
		return nil, fmt.Errorf("at least one supported locale is required")
	}
	tags := make([]language.Tag, 0, len(locales))
	for _, l := range locales {
		tag, err := language.Parse(l)
		if err != nil {
			return nil, fmt.Errorf("unsupported locale tag %q: %w", l, err)
		}
		tags = append(tags, tag)
	}
	return &StaticManager{
		tables:  tables,
		tags:    tags,
		locales: locales,
		matcher: language.NewMatcher(tags),
	}, nil
}

// Locales returns the supported locale strings in registration order.
func (m *StaticManager) Locales() []string { return m.locales }

// GetTranslator negotiates the requested locale against the supported set and
// returns a translator for the winning locale.
func (m *StaticManager) GetTranslator(ctx context.Context, locale string) (Translator, error) {
	requested, err := language.Parse(locale)
	if err != nil {
		return nil, pagerrors.LocaleResolutionFailed(locale, err)
	}
	_, index, confidence := m.matcher.Match(requested)
	if confidence == language.No {
		return nil, pagerrors.LocaleResolutionFailed(locale, fmt.Errorf("no supported locale matches"))
	}
	matched := m.locales[index]
	return &mapTranslator{locale: matched, strings: m.tables[matched]}, nil
}

// CachingManager memoizes translators per locale string so repeated requests
// do not re-run negotiation or reload translations.
type CachingManager struct {
	inner TranslationsManager

	mu    sync.RWMutex
	cache map[string]Translator
}

// NewCachingManager wraps a manager with a per-locale translator cache.
func NewCachingManager(inner TranslationsManager) *CachingManager {
	return &CachingManager{inner: inner, cache: make(map[string]Translator)}
}

// GetTranslator returns a cached translator or defers to the wrapped manager.
// Failures are not cached.
func (m *CachingManager) GetTranslator(ctx context.Context, locale string) (Translator, error) {
	m.mu.RLock()
	cached, ok := m.cache[locale]
	m.mu.RUnlock()
	if ok {
		return cached, nil
	}

	tr, err := m.inner.GetTranslator(ctx, locale)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.cache[locale] = tr
	m.mu.Unlock()
	return tr, nil
}
