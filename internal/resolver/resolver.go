// Package resolver implements the incremental cache resolution for page
// artifacts: deciding, per request, whether cached build-side output is
// served, regenerated, or created for the first time.
package resolver

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	pagerrors "git.home.luguber.info/inful/pagegen/internal/errors"
	"git.home.luguber.info/inful/pagegen/internal/events"
	"git.home.luguber.info/inful/pagegen/internal/i18n"
	"git.home.luguber.info/inful/pagegen/internal/metrics"
	"git.home.luguber.info/inful/pagegen/internal/observability"
	"git.home.luguber.info/inful/pagegen/internal/revalidate"
	"git.home.luguber.info/inful/pagegen/internal/state"
	"git.home.luguber.info/inful/pagegen/internal/store"
	"git.home.luguber.info/inful/pagegen/internal/template"
)

// CachePolicy controls whether the resolver honors persisted schedules. It is
// an explicit construction-time value rather than an ambient build/env flag.
type CachePolicy int

const (
	// RespectSchedule serves cached artifacts until revalidation says
	// otherwise. Production behavior.
	RespectSchedule CachePolicy = iota

	// AlwaysRegenerate treats every request as a cache miss. Keeps local
	// iteration fast during development.
	AlwaysRegenerate
)

// ParseCachePolicy maps a configuration string onto a CachePolicy.
func ParseCachePolicy(s string) (CachePolicy, error) {
	switch s {
	case "", "respect_schedule":
		return RespectSchedule, nil
	case "always_regenerate":
		return AlwaysRegenerate, nil
	default:
		return RespectSchedule, fmt.Errorf("unknown cache policy %q", s)
	}
}

// Output is the build-side result for one artifact key.
type Output struct {
	HTML  string
	Head  string
	State *state.SerializedState
}

// Resolver resolves build-side page output against the layered store.
type Resolver struct {
	store       store.Layered
	policy      *revalidate.Policy
	cachePolicy CachePolicy
	publisher   events.Publisher
	recorder    metrics.Recorder
	logger      *slog.Logger

	// Concurrent requests to the same stale key share one regeneration
	// instead of each doing redundant generator work. Not required for
	// correctness (writes are atomic and later writes win), only efficiency.
	group singleflight.Group
}

// New creates a resolver over the layered store.
func New(st store.Layered, policy *revalidate.Policy, cachePolicy CachePolicy) *Resolver {
	return &Resolver{
		store:       st,
		policy:      policy,
		cachePolicy: cachePolicy,
		publisher:   events.NoopPublisher{},
		recorder:    metrics.NoopRecorder{},
		logger:      slog.Default(),
	}
}

// WithLogger sets a custom logger.
func (r *Resolver) WithLogger(logger *slog.Logger) *Resolver {
	r.logger = logger
	return r
}

// WithPublisher sets the page event publisher.
func (r *Resolver) WithPublisher(p events.Publisher) *Resolver {
	r.publisher = p
	return r
}

// WithRecorder sets the metrics recorder.
func (r *Resolver) WithRecorder(rec metrics.Recorder) *Resolver {
	r.recorder = rec
	return r
}

// ResolveIncremental resolves a page of an incremental template. An unseen
// sub-path is a cache miss and regenerates unconditionally; a cached pair is
// served unchanged unless revalidation is due.
func (r *Resolver) ResolveIncremental(ctx context.Context, tpl *template.Template, key store.ArtifactKey, tr i18n.Translator) (Output, error) {
	if r.cachePolicy == AlwaysRegenerate {
		return r.Regenerate(ctx, tpl, key, tr, events.EventRegenerated)
	}

	html, err := r.store.Read(ctx, key.HTMLName())
	if err != nil {
		if store.IsNotFound(err) {
			// First request for this sub-path: the only way it enters the cache.
			r.recorder.IncCacheResult(tpl.Path(), metrics.CacheMiss)
			observability.DebugContext(ctx, "Incremental cache miss")
			return r.Regenerate(ctx, tpl, key, tr, events.EventRegenerated)
		}
		// Any non-NotFound failure is fatal; conflating it with a miss would
		// regenerate over content we merely failed to read.
		return Output{}, pagerrors.StoreReadFailed(key.HTMLName(), err)
	}

	// The pair is cached; the head must exist alongside the content.
	head, err := r.store.Read(ctx, key.HeadName())
	if err != nil {
		return Output{}, pagerrors.StoreReadFailed(key.HeadName(), err)
	}

	rstate, err := r.policy.Check(ctx, tpl, key)
	if err != nil {
		return Output{}, err
	}
	if rstate == revalidate.Due {
		r.recorder.IncCacheResult(tpl.Path(), metrics.CacheRevalidated)
		return r.Regenerate(ctx, tpl, key, tr, events.EventRegenerated)
	}

	st, err := r.readCachedState(ctx, key)
	if err != nil {
		return Output{}, err
	}
	r.recorder.IncCacheResult(tpl.Path(), metrics.CacheHit)
	return Output{HTML: html, Head: head, State: st}, nil
}

// ResolveBuild resolves a page of a non-incremental build template. The
// artifact was produced at build time and always exists; only revalidation
// decides whether to regenerate, never whether to create.
func (r *Resolver) ResolveBuild(ctx context.Context, tpl *template.Template, key store.ArtifactKey, tr i18n.Translator) (Output, error) {
	if tpl.Revalidates() {
		if r.cachePolicy == AlwaysRegenerate {
			return r.Regenerate(ctx, tpl, key, tr, events.EventRegenerated)
		}
		rstate, err := r.policy.Check(ctx, tpl, key)
		if err != nil {
			return Output{}, err
		}
		if rstate == revalidate.Due {
			r.recorder.IncCacheResult(tpl.Path(), metrics.CacheRevalidated)
			return r.Regenerate(ctx, tpl, key, tr, events.EventRegenerated)
		}
	}

	html, err := r.store.Read(ctx, key.HTMLName())
	if err != nil {
		return Output{}, pagerrors.StoreReadFailed(key.HTMLName(), err)
	}
	head, err := r.store.Read(ctx, key.HeadName())
	if err != nil {
		return Output{}, pagerrors.StoreReadFailed(key.HeadName(), err)
	}
	st, err := r.readCachedState(ctx, key)
	if err != nil {
		return Output{}, err
	}
	r.recorder.IncCacheResult(tpl.Path(), metrics.CacheHit)
	return Output{HTML: html, Head: head, State: st}, nil
}

// Regenerate produces a fresh artifact from the build-state generator,
// persists content, head, and state to the mutable region, and reschedules
// when time-based revalidation is configured. Concurrent calls for the same
// key share one flight.
func (r *Resolver) Regenerate(ctx context.Context, tpl *template.Template, key store.ArtifactKey, tr i18n.Translator, evType events.EventType) (Output, error) {
	out, err, _ := r.group.Do(key.Encode(), func() (any, error) {
		st, err := tpl.BuildState(ctx, key.FullPath(), key.Locale)
		if err != nil {
			return Output{}, err
		}
		html := tpl.Render(&st, tr)
		head := tpl.RenderHead(&st, tr)

		// The schedule restarts from the moment of actual regeneration, not
		// from the missed deadline.
		if tpl.RevalidatesWithTime() {
			if err := r.policy.WriteSchedule(ctx, tpl, key); err != nil {
				return Output{}, err
			}
		}
		if err := r.store.Write(ctx, key.StateName(), st.String()); err != nil {
			return Output{}, pagerrors.StoreWriteFailed(key.StateName(), err)
		}
		if err := r.store.Write(ctx, key.HTMLName(), html); err != nil {
			return Output{}, pagerrors.StoreWriteFailed(key.HTMLName(), err)
		}
		if err := r.store.Write(ctx, key.HeadName(), head); err != nil {
			return Output{}, pagerrors.StoreWriteFailed(key.HeadName(), err)
		}

		r.recorder.IncRegeneration(tpl.Path())
		if err := r.publisher.Publish(ctx, events.New(evType, key.Encode(), tpl.Path(), key.Locale)); err != nil {
			observability.WarnContext(ctx, "Failed to publish regeneration event",
				slog.String("error", err.Error()))
		}
		observability.InfoContext(ctx, "Regenerated page artifact")

		return Output{HTML: html, Head: head, State: &st}, nil
	})
	if err != nil {
		return Output{}, err
	}
	return out.(Output), nil
}

// readCachedState re-reads the cached serialized state. A page without state
// is legitimate (the generator may not have produced any); other read
// failures are fatal.
func (r *Resolver) readCachedState(ctx context.Context, key store.ArtifactKey) (*state.SerializedState, error) {
	raw, err := r.store.Read(ctx, key.StateName())
	if err != nil {
		if store.IsNotFound(err) {
			return nil, nil
		}
		return nil, pagerrors.StoreReadFailed(key.StateName(), err)
	}
	st := state.SerializedState(raw)
	return &st, nil
}
