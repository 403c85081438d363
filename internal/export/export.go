// Package export writes a fully static site tree from prebuilt artifacts:
// every page in the render configuration, per locale, interpolated into the
// HTML shell. Only pages whose output is fixed at build time can be exported.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	pagerrors "git.home.luguber.info/inful/pagegen/internal/errors"
	"git.home.luguber.info/inful/pagegen/internal/serve"
	"git.home.luguber.info/inful/pagegen/internal/store"
	"git.home.luguber.info/inful/pagegen/internal/template"
)

// Exporter flattens the artifact store into a directory of plain HTML files
// servable by any static file host.
type Exporter struct {
	store     store.Layered
	templates template.Map
	shell     *Shell
	locales   []string
	logger    *slog.Logger
}

// NewExporter creates an exporter over prebuilt artifacts.
func NewExporter(st store.Layered, templates template.Map, shell *Shell, locales []string) *Exporter {
	return &Exporter{
		store:     st,
		templates: templates,
		shell:     shell,
		locales:   locales,
		logger:    slog.Default(),
	}
}

// WithLogger sets a custom logger.
func (e *Exporter) WithLogger(logger *slog.Logger) *Exporter {
	e.logger = logger
	return e
}

// Export writes every page in the render configuration, for every locale,
// under dest. Pages land at dest/<locale>/<path>/index.html; the index route
// lands at dest/<locale>/index.html. Serialized state is written alongside
// under dest/<locale>/pagegen/ for client-side hydration.
func (e *Exporter) Export(ctx context.Context, cfg serve.RenderConfig, dest string) error {
	for path, templateName := range cfg {
		tpl, err := e.templates.Get(templateName)
		if err != nil {
			return err
		}
		if err := exportable(tpl); err != nil {
			return err
		}
		for _, locale := range e.locales {
			if err := e.exportPage(ctx, tpl, path, locale, dest); err != nil {
				return err
			}
		}
	}
	e.logger.Info("Site exported", "dest", dest, "pages", len(cfg), "locales", len(e.locales))
	return nil
}

// exportable rejects templates whose output cannot be fixed at build time.
func exportable(tpl *template.Template) error {
	switch {
	case tpl.UsesRequestState():
		return pagerrors.New(pagerrors.CategoryConfig, pagerrors.SeverityFatal,
			fmt.Sprintf("template %q generates state per request and cannot be exported", tpl.Path()))
	case tpl.UsesIncremental():
		return pagerrors.New(pagerrors.CategoryConfig, pagerrors.SeverityFatal,
			fmt.Sprintf("template %q generates pages on demand and cannot be exported", tpl.Path()))
	case tpl.Revalidates():
		return pagerrors.New(pagerrors.CategoryConfig, pagerrors.SeverityFatal,
			fmt.Sprintf("template %q revalidates and cannot be exported", tpl.Path()))
	}
	return nil
}

func (e *Exporter) exportPage(ctx context.Context, tpl *template.Template, path, locale, dest string) error {
	key := keyFor(tpl, path, locale)

	content, err := e.store.Read(ctx, key.HTMLName())
	if err != nil {
		return pagerrors.StoreReadFailed(key.HTMLName(), err)
	}
	head, err := e.store.Read(ctx, key.HeadName())
	if err != nil {
		return pagerrors.StoreReadFailed(key.HeadName(), err)
	}

	document, err := e.shell.Interpolate(content, head)
	if err != nil {
		return pagerrors.Wrap(err, pagerrors.CategoryInternal, pagerrors.SeverityError,
			"failed to interpolate page into shell")
	}

	target := filepath.Join(dest, locale, filepath.FromSlash(path), "index.html")
	if path == serve.IndexPath {
		target = filepath.Join(dest, locale, "index.html")
	}
	if err := writeFile(target, document); err != nil {
		return err
	}

	// Hydration state is optional; a page without it exports content only.
	if st, err := e.store.Read(ctx, key.StateName()); err == nil {
		stateTarget := filepath.Join(dest, locale, "pagegen", key.Encode()+".json")
		if err := writeFile(stateTarget, st); err != nil {
			return err
		}
	} else if !store.IsNotFound(err) {
		return pagerrors.StoreReadFailed(key.StateName(), err)
	}

	return nil
}

// keyFor derives the artifact key for a page path rendered by tpl, mirroring
// how the serving layer keys its artifacts.
func keyFor(tpl *template.Template, path, locale string) store.ArtifactKey {
	route := tpl.Path()
	if path == route {
		return store.NewKey(locale, route, "")
	}
	if sub, ok := strings.CutPrefix(path, route+"/"); ok {
		return store.NewKey(locale, route, sub)
	}
	return store.NewKey(locale, path, "")
}

func writeFile(target, content string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return pagerrors.StoreWriteFailed(target, err)
	}
	if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
		return pagerrors.StoreWriteFailed(target, err)
	}
	return nil
}
