package template

import (
	"context"
	"fmt"

	pagerrors "git.home.luguber.info/inful/pagegen/internal/errors"
	"git.home.luguber.info/inful/pagegen/internal/i18n"
	"git.home.luguber.info/inful/pagegen/internal/state"
)

// Generator invocation wrappers. Each wraps the caller-supplied function,
// attributing failures to the right party: build paths are always
// server-blamed, the other generators may blame the client via
// errors.WithBlame. Invoking an unset slot is an engine bug, reported as an
// internal error.

func (t *Template) featureNotEnabled(feature string) *pagerrors.EngineError {
	return pagerrors.New(pagerrors.CategoryInternal, pagerrors.SeverityError,
		fmt.Sprintf("template %q does not enable feature %q", t.path, feature))
}

// BuildPaths invokes the build-paths generator.
func (t *Template) BuildPaths(ctx context.Context) ([]string, error) {
	if t.getBuildPaths == nil {
		return nil, t.featureNotEnabled("build_paths")
	}
	paths, err := t.getBuildPaths(ctx)
	if err != nil {
		// Build paths run with no client in sight; the server carries the blame.
		return nil, pagerrors.GenerationFailed("get_build_paths", t.path,
			pagerrors.WithBlame(err, pagerrors.CauseServer))
	}
	return paths, nil
}

// BuildState invokes the build-state generator for a page path and locale.
func (t *Template) BuildState(ctx context.Context, path, locale string) (state.SerializedState, error) {
	if t.getBuildState == nil {
		return "", t.featureNotEnabled("build_state")
	}
	s, err := t.getBuildState(ctx, path, locale)
	if err != nil {
		return "", pagerrors.GenerationFailed("get_build_state", t.path, err)
	}
	return state.SerializedState(s), nil
}

// RequestState invokes the request-state generator.
func (t *Template) RequestState(ctx context.Context, path, locale string, req *Request) (state.SerializedState, error) {
	if t.getRequestState == nil {
		return "", t.featureNotEnabled("request_state")
	}
	s, err := t.getRequestState(ctx, path, locale, req)
	if err != nil {
		return "", pagerrors.GenerationFailed("get_request_state", t.path, err)
	}
	return state.SerializedState(s), nil
}

// ShouldRevalidateNow invokes the logic-driven revalidation predicate.
func (t *Template) ShouldRevalidateNow(ctx context.Context) (bool, error) {
	if t.shouldRevalidate == nil {
		return false, t.featureNotEnabled("should_revalidate")
	}
	due, err := t.shouldRevalidate(ctx)
	if err != nil {
		return false, pagerrors.GenerationFailed("should_revalidate", t.path, err)
	}
	return due, nil
}

// AmalgamateStates invokes the custom merge function on a bundle with both
// slots set. Its result, including nil, is authoritative.
func (t *Template) AmalgamateStates(bundle state.Bundle) (*state.SerializedState, error) {
	if t.amalgamate == nil {
		return nil, t.featureNotEnabled("amalgamate_states")
	}
	merged, err := t.amalgamate(bundle)
	if err != nil {
		return nil, pagerrors.GenerationFailed("amalgamate_states", t.path, err)
	}
	return merged, nil
}

// Render produces the page markup for a state.
func (t *Template) Render(st *state.SerializedState, tr i18n.Translator) string {
	return t.render(st, tr)
}

// RenderHead produces the document head markup for a state.
func (t *Template) RenderHead(st *state.SerializedState, tr i18n.Translator) string {
	return t.renderHead(st, tr)
}
