// Package serve assembles pages: given a path, locale, and template, it
// composes the incremental resolver, revalidation policy, request-time
// generation, and state amalgamation into one PageArtifact.
package serve

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	pagerrors "git.home.luguber.info/inful/pagegen/internal/errors"
	"git.home.luguber.info/inful/pagegen/internal/events"
	"git.home.luguber.info/inful/pagegen/internal/i18n"
	"git.home.luguber.info/inful/pagegen/internal/metrics"
	"git.home.luguber.info/inful/pagegen/internal/observability"
	"git.home.luguber.info/inful/pagegen/internal/resolver"
	"git.home.luguber.info/inful/pagegen/internal/revalidate"
	"git.home.luguber.info/inful/pagegen/internal/state"
	"git.home.luguber.info/inful/pagegen/internal/store"
	"git.home.luguber.info/inful/pagegen/internal/template"
)

// IndexPath is the well-known route an empty request path resolves to.
const IndexPath = "index"

// PageArtifact is the unit of output: everything a transport layer needs to
// respond to a page request. Immutable once returned.
type PageArtifact struct {
	// Content is the rendered page markup.
	Content string `json:"content"`
	// Head is the markup interpolated into the document head.
	Head string `json:"head"`
	// State is the serialized state for client-side hydration, nil when the
	// page has none.
	State *string `json:"state"`
}

// Engine is the page assembly orchestrator.
type Engine struct {
	templates    template.Map
	store        store.Layered
	translations i18n.TranslationsManager
	resolver     *resolver.Resolver
	recorder     metrics.Recorder
	logger       *slog.Logger

	mu        sync.RWMutex
	renderCfg RenderConfig
}

// NewEngine creates the orchestrator over its collaborators.
func NewEngine(templates template.Map, st store.Layered, translations i18n.TranslationsManager, res *resolver.Resolver) *Engine {
	return &Engine{
		templates:    templates,
		store:        st,
		translations: translations,
		resolver:     res,
		recorder:     metrics.NoopRecorder{},
		logger:       slog.Default(),
	}
}

// WithRecorder sets the metrics recorder.
func (e *Engine) WithRecorder(rec metrics.Recorder) *Engine {
	e.recorder = rec
	return e
}

// WithLogger sets a custom logger.
func (e *Engine) WithLogger(logger *slog.Logger) *Engine {
	e.logger = logger
	return e
}

// SetRenderConfig installs the page-to-template mapping used by the sweeper
// and the config watcher. Safe for concurrent use.
func (e *Engine) SetRenderConfig(cfg RenderConfig) {
	e.mu.Lock()
	e.renderCfg = cfg
	e.mu.Unlock()
}

func (e *Engine) renderConfig() RenderConfig {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.renderCfg
}

// ReloadRenderConfig loads render_conf.json from the artifact store and
// installs it as the active page-to-template mapping.
func (e *Engine) ReloadRenderConfig(ctx context.Context) error {
	cfg, err := LoadRenderConfig(ctx, e.store)
	if err != nil {
		return err
	}
	e.SetRenderConfig(cfg)
	e.logger.Info("Render configuration installed", "pages", len(cfg))
	return nil
}

// GetPage resolves the page at rawPath for a locale through the named
// template. An unknown template fails with route_not_found before any
// generator runs.
func (e *Engine) GetPage(ctx context.Context, rawPath, locale, templateName string, req *template.Request) (PageArtifact, error) {
	tpl, err := e.templates.Get(templateName)
	if err != nil {
		e.recorder.IncServeOutcome(string(pagerrors.GetCategory(err)))
		return PageArtifact{}, err
	}
	return e.GetPageForTemplate(ctx, rawPath, locale, tpl, req)
}

// GetPageForTemplate resolves a page when the caller already holds the full
// template (e.g. initial-load server-side routing), skipping the lookup.
func (e *Engine) GetPageForTemplate(ctx context.Context, rawPath, locale string, tpl *template.Template, req *template.Request) (PageArtifact, error) {
	start := time.Now()
	ctx = observability.WithRequestID(ctx, uuid.NewString())
	ctx = observability.WithRoute(ctx, tpl.Path())
	ctx = observability.WithLocale(ctx, locale)

	artifact, err := e.getPageForTemplate(ctx, rawPath, locale, tpl, req)

	e.recorder.ObserveServeDuration(tpl.Path(), time.Since(start))
	if err != nil {
		e.recorder.IncServeOutcome(string(pagerrors.GetCategory(err)))
		observability.ErrorContext(ctx, "Page resolution failed",
			slog.String("error", err.Error()))
		return PageArtifact{}, err
	}
	e.recorder.IncServeOutcome("success")
	return artifact, nil
}

func (e *Engine) getPageForTemplate(ctx context.Context, rawPath, locale string, tpl *template.Template, req *template.Request) (PageArtifact, error) {
	// Head and content generation may depend on localized strings, so a
	// locale we cannot serve fails the whole request up front.
	translator, err := e.translations.GetTranslator(ctx, locale)
	if err != nil {
		return PageArtifact{}, err
	}

	key := e.artifactKey(rawPath, locale, tpl)
	ctx = observability.WithArtifactKey(ctx, key.Encode())

	// Build-side output first; request-time output later overrides it. The
	// priority chain is this explicit ordering, not conditional assignment.
	var html, head string
	bundle := state.Bundle{}

	if tpl.UsesBuildState() || tpl.IsBasic() {
		ctx := observability.WithStage(ctx, "build")
		var out resolver.Output
		if tpl.UsesIncremental() {
			out, err = e.resolver.ResolveIncremental(ctx, tpl, key, translator)
		} else {
			out, err = e.resolver.ResolveBuild(ctx, tpl, key, translator)
		}
		if err != nil {
			return PageArtifact{}, err
		}
		html, head = out.HTML, out.Head
		bundle.BuildState = out.State
	}

	if tpl.UsesRequestState() {
		// Request-time output carries strictly higher priority: it reflects
		// the most current, most specific data. A failure here surfaces as a
		// page-level error; there is no fallback to build state.
		ctx := observability.WithStage(ctx, "request")
		reqState, err := tpl.RequestState(ctx, key.FullPath(), locale, req)
		if err != nil {
			return PageArtifact{}, err
		}
		html = tpl.Render(&reqState, translator)
		head = tpl.RenderHead(&reqState, translator)
		bundle.RequestState = &reqState
	}

	finalState, err := e.amalgamate(tpl, bundle)
	if err != nil {
		return PageArtifact{}, err
	}

	artifact := PageArtifact{Content: html, Head: head}
	if finalState != nil {
		s := finalState.String()
		artifact.State = &s
	}
	return artifact, nil
}

// amalgamate merges the candidate states once both are known: a single
// defined state passes through untouched, a registered merge function is
// authoritative when both are set, and otherwise request state wins outright.
func (e *Engine) amalgamate(tpl *template.Template, bundle state.Bundle) (*state.SerializedState, error) {
	if !bundle.BothSet() {
		if bundle.BuildState == nil && bundle.RequestState == nil {
			if tpl.IsBasic() {
				return nil, nil
			}
			return nil, pagerrors.New(pagerrors.CategoryInternal, pagerrors.SeverityError,
				"no state generated for non-basic template "+tpl.Path())
		}
		return bundle.TakeDefined()
	}
	if tpl.CanAmalgamate() {
		return tpl.AmalgamateStates(bundle)
	}
	return bundle.RequestState, nil
}

// artifactKey derives the (locale, route, sub-path) key for a request path.
// An empty path resolves to the index route.
func (e *Engine) artifactKey(rawPath, locale string, tpl *template.Template) store.ArtifactKey {
	path := rawPath
	if path == "" {
		path = IndexPath
	}
	path = strings.Trim(path, "/")

	route := tpl.Path()
	if path == route {
		return store.NewKey(locale, route, "")
	}
	if sub, ok := strings.CutPrefix(path, route+"/"); ok {
		return store.NewKey(locale, route, sub)
	}
	// The path does not sit under the template root; key it as-is so the
	// stored artifact still matches what routing asked for.
	return store.NewKey(locale, path, "")
}

// SweepDue runs one revalidation sweep: every cached page whose persisted
// schedule has passed is regenerated through the render configuration.
// Returns the number of pages regenerated.
func (e *Engine) SweepDue(ctx context.Context, locales []string) (int, error) {
	sweeper, err := revalidate.NewSweeper(e.store, locales, e.RegenerateBySweep, nil)
	if err != nil {
		return 0, err
	}
	defer sweeper.Stop()
	return sweeper.Sweep(ctx)
}

// RegenerateBySweep regenerates the page at fullPath for the sweeper. It has
// the revalidate.RegenerateFunc shape and resolves the template through the
// render configuration.
func (e *Engine) RegenerateBySweep(ctx context.Context, locale, fullPath string) error {
	cfg := e.renderConfig()
	if cfg == nil {
		return pagerrors.New(pagerrors.CategoryConfig, pagerrors.SeverityError,
			"no render configuration installed")
	}
	templateName, ok := cfg.TemplateFor(fullPath)
	if !ok {
		return pagerrors.RouteNotFound(fullPath)
	}
	tpl, err := e.templates.Get(templateName)
	if err != nil {
		return err
	}
	translator, err := e.translations.GetTranslator(ctx, locale)
	if err != nil {
		return err
	}

	key := e.artifactKey(fullPath, locale, tpl)
	ctx = observability.WithRoute(ctx, tpl.Path())
	ctx = observability.WithLocale(ctx, locale)
	ctx = observability.WithArtifactKey(ctx, key.Encode())

	_, err = e.resolver.Regenerate(ctx, tpl, key, translator, events.EventSwept)
	return err
}
