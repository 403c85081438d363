// Package template defines the per-route descriptor that declares which
// generation strategies a page uses and carries the caller-supplied generator
// and render capabilities. Descriptors are created once at startup and are
// read-only afterwards.
package template

import (
	"context"

	"git.home.luguber.info/inful/pagegen/internal/i18n"
	"git.home.luguber.info/inful/pagegen/internal/state"
)

// Request carries the transport-level request data handed to request-state
// generators. The engine treats it as opaque; only user generators look
// inside.
type Request struct {
	Headers    map[string][]string
	RemoteAddr string
}

// Generator slot signatures. All generators are invoked asynchronously with a
// context and must not assume exclusive access to the artifact store.
type (
	// GetBuildPathsFn enumerates the sub-paths to prerender under the route.
	GetBuildPathsFn func(ctx context.Context) ([]string, error)

	// GetBuildStateFn produces serialized state for a page at build time (or
	// during revalidation/incremental regeneration).
	GetBuildStateFn func(ctx context.Context, path, locale string) (string, error)

	// GetRequestStateFn produces serialized state for a page per request.
	GetRequestStateFn func(ctx context.Context, path, locale string, req *Request) (string, error)

	// ShouldRevalidateFn decides whether a cached page must regenerate. It is
	// never given request-specific data and must be safe to call
	// speculatively.
	ShouldRevalidateFn func(ctx context.Context) (bool, error)

	// AmalgamateFn merges independently generated build and request states.
	// It must be pure: no I/O, no side effects.
	AmalgamateFn func(bundle state.Bundle) (*state.SerializedState, error)

	// RenderFn turns a state into markup. Consumed as an opaque capability;
	// the actual rendering layer lives outside this engine.
	RenderFn func(st *state.SerializedState, tr i18n.Translator) string
)

// Template describes one route: its key, capability flags, and generator
// slots. The four generator slots are an explicit optional-capability set, so
// what a template can do is statically enumerable.
type Template struct {
	path string

	render     RenderFn
	renderHead RenderFn

	getBuildPaths    GetBuildPathsFn
	getBuildState    GetBuildStateFn
	getRequestState  GetRequestStateFn
	shouldRevalidate ShouldRevalidateFn
	amalgamate       AmalgamateFn

	incremental     bool
	revalidateAfter string
}

// New creates a template descriptor for the given route key. With no further
// configuration the template is "basic": a fixed, pre-rendered page.
func New(path string) *Template {
	return &Template{
		path:       path,
		render:     func(*state.SerializedState, i18n.Translator) string { return "" },
		renderHead: func(*state.SerializedState, i18n.Translator) string { return "" },
	}
}

// WithRender sets the content render capability.
func (t *Template) WithRender(fn RenderFn) *Template {
	t.render = fn
	return t
}

// WithHead sets the document head render capability.
func (t *Template) WithHead(fn RenderFn) *Template {
	t.renderHead = fn
	return t
}

// WithBuildPaths sets the build-paths generator.
func (t *Template) WithBuildPaths(fn GetBuildPathsFn) *Template {
	t.getBuildPaths = fn
	return t
}

// WithBuildState sets the build-state generator.
func (t *Template) WithBuildState(fn GetBuildStateFn) *Template {
	t.getBuildState = fn
	return t
}

// WithRequestState sets the request-state generator.
func (t *Template) WithRequestState(fn GetRequestStateFn) *Template {
	t.getRequestState = fn
	return t
}

// WithShouldRevalidate sets the logic-driven revalidation predicate.
func (t *Template) WithShouldRevalidate(fn ShouldRevalidateFn) *Template {
	t.shouldRevalidate = fn
	return t
}

// WithRevalidateAfter sets the time-based revalidation interval, e.g. "5s",
// "1h", "1w", "1M".
func (t *Template) WithRevalidateAfter(interval string) *Template {
	t.revalidateAfter = interval
	return t
}

// WithIncremental enables on-demand generation of sub-paths beyond those the
// build-paths generator enumerates. Requires a build-paths generator.
func (t *Template) WithIncremental() *Template {
	t.incremental = true
	return t
}

// WithAmalgamate sets the custom state merge function.
func (t *Template) WithAmalgamate(fn AmalgamateFn) *Template {
	t.amalgamate = fn
	return t
}

// Path returns the route key: the root path under which the template's pages
// are served.
func (t *Template) Path() string { return t.path }

// RevalidateInterval returns the configured interval string ("" when unset).
func (t *Template) RevalidateInterval() string { return t.revalidateAfter }

// Capability queries, used purely for branching.

// UsesBuildPaths reports whether the template enumerates sub-paths at build
// time.
func (t *Template) UsesBuildPaths() bool { return t.getBuildPaths != nil }

// UsesBuildState reports whether the template generates state at build time.
func (t *Template) UsesBuildState() bool { return t.getBuildState != nil }

// UsesRequestState reports whether the template generates state per request.
func (t *Template) UsesRequestState() bool { return t.getRequestState != nil }

// UsesIncremental reports whether unseen sub-paths are generated on demand.
func (t *Template) UsesIncremental() bool { return t.incremental }

// RevalidatesWithTime reports whether a time interval gates regeneration.
func (t *Template) RevalidatesWithTime() bool { return t.revalidateAfter != "" }

// RevalidatesWithLogic reports whether custom logic gates regeneration.
func (t *Template) RevalidatesWithLogic() bool { return t.shouldRevalidate != nil }

// Revalidates reports whether any revalidation strategy is configured.
func (t *Template) Revalidates() bool {
	return t.RevalidatesWithTime() || t.RevalidatesWithLogic()
}

// CanAmalgamate reports whether a custom state merge function is registered.
func (t *Template) CanAmalgamate() bool { return t.amalgamate != nil }

// IsBasic reports whether the template defines no generation strategy at all
// and therefore behaves as a fixed, pre-rendered page.
func (t *Template) IsBasic() bool {
	return !t.UsesBuildPaths() &&
		!t.UsesBuildState() &&
		!t.UsesRequestState() &&
		!t.Revalidates() &&
		!t.UsesIncremental()
}
