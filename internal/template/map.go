package template

import (
	"fmt"

	pagerrors "git.home.luguber.info/inful/pagegen/internal/errors"
)

// Map holds all templates of an app, keyed by route key.
type Map map[string]*Template

// NewMap builds a template map from descriptors, rejecting duplicate routes.
func NewMap(templates ...*Template) (Map, error) {
	m := make(Map, len(templates))
	for _, t := range templates {
		if _, exists := m[t.Path()]; exists {
			return nil, fmt.Errorf("duplicate template route %q", t.Path())
		}
		m[t.Path()] = t
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Get returns the template for a route key, failing with a route_not_found
// error when none is registered.
func (m Map) Get(name string) (*Template, error) {
	t, ok := m[name]
	if !ok {
		return nil, pagerrors.RouteNotFound(name)
	}
	return t, nil
}

// Validate checks descriptor invariants:
//   - incremental generation requires a build-paths generator (it is the only
//     way the strategy learns which paths it extends);
//   - interval strings must parse.
func (m Map) Validate() error {
	for route, t := range m {
		if t.UsesIncremental() && !t.UsesBuildPaths() {
			return fmt.Errorf("template %q: incremental generation requires build paths", route)
		}
		if t.RevalidatesWithTime() {
			if _, err := ParseInterval(t.RevalidateInterval()); err != nil {
				return fmt.Errorf("template %q: %w", route, err)
			}
		}
	}
	return nil
}
