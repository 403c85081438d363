package serve

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	pagerrors "git.home.luguber.info/inful/pagegen/internal/errors"
	"git.home.luguber.info/inful/pagegen/internal/store"
)

// RenderConfig maps every renderable page path to the name of the template
// that renders it. It is produced at build time and read by the sweeper and
// by export.
type RenderConfig map[string]string

// TemplateFor returns the template name registered for a page path.
func (c RenderConfig) TemplateFor(path string) (string, bool) {
	name, ok := c[path]
	return name, ok
}

// LoadRenderConfig reads render_conf.json from the artifact store.
func LoadRenderConfig(ctx context.Context, st store.ArtifactStore) (RenderConfig, error) {
	raw, err := st.Read(ctx, store.RenderConfigName)
	if err != nil {
		return nil, pagerrors.StoreReadFailed(store.RenderConfigName, err)
	}
	var cfg RenderConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil, pagerrors.Wrap(err, pagerrors.CategoryConfig, pagerrors.SeverityFatal,
			"malformed render configuration")
	}
	return cfg, nil
}

// ConfigWatcher reloads the render configuration from disk whenever the file
// changes, e.g. after an out-of-band rebuild, and pushes the result into the
// engine.
type ConfigWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	onLoad  func(RenderConfig)
	logger  *slog.Logger
	done    chan struct{}
}

// NewConfigWatcher watches the render configuration file at path. onLoad
// receives every successfully parsed version, including the initial one.
func NewConfigWatcher(path string, onLoad func(RenderConfig)) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, pagerrors.Wrap(err, pagerrors.CategoryConfig, pagerrors.SeverityError,
			"failed to create filesystem watcher")
	}
	// Watch the directory, not the file: editors and atomic renames replace
	// the inode and a file watch would go stale after the first swap.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, pagerrors.Wrap(err, pagerrors.CategoryConfig, pagerrors.SeverityError,
			"failed to watch render configuration directory")
	}

	w := &ConfigWatcher{
		watcher: watcher,
		path:    path,
		onLoad:  onLoad,
		logger:  slog.Default(),
		done:    make(chan struct{}),
	}
	if err := w.reload(); err != nil {
		watcher.Close()
		return nil, err
	}
	go w.run()
	return w, nil
}

func (w *ConfigWatcher) run() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if err := w.reload(); err != nil {
				// Keep serving the previous mapping rather than dropping it.
				w.logger.Warn("Failed to reload render configuration",
					"path", w.path,
					"error", err)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Render configuration watcher error", "error", err)
		}
	}
}

func (w *ConfigWatcher) reload() error {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return pagerrors.Wrap(err, pagerrors.CategoryConfig, pagerrors.SeverityError,
			"failed to read render configuration")
	}
	var cfg RenderConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return pagerrors.Wrap(err, pagerrors.CategoryConfig, pagerrors.SeverityError,
			"malformed render configuration")
	}
	w.logger.Info("Render configuration loaded", "path", w.path, "pages", len(cfg))
	w.onLoad(cfg)
	return nil
}

// Close stops the watcher goroutine and releases the filesystem watch.
func (w *ConfigWatcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
