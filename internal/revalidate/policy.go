// Package revalidate decides whether a cached page must be regenerated before
// serving, driven by a persisted time schedule and/or template logic.
package revalidate

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	pagerrors "git.home.luguber.info/inful/pagegen/internal/errors"
	"git.home.luguber.info/inful/pagegen/internal/store"
	"git.home.luguber.info/inful/pagegen/internal/template"
)

// State is the revalidation decision for an artifact key.
type State int

const (
	// Fresh means the cached artifact may be served unchanged.
	Fresh State = iota
	// Due means the artifact must be regenerated before serving.
	Due
)

func (s State) String() string {
	if s == Due {
		return "due"
	}
	return "fresh"
}

// Policy evaluates the revalidation state machine per artifact key. The time
// gate is evaluated before any template logic, so a page still inside its
// window never invokes user code.
type Policy struct {
	store store.ArtifactStore
	clock clockwork.Clock
}

// NewPolicy creates a policy over the given store region. A nil clock falls
// back to the wall clock; tests inject a fake.
func NewPolicy(s store.ArtifactStore, clock clockwork.Clock) *Policy {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Policy{store: s, clock: clock}
}

// Check returns Fresh or Due for the template's cached artifact under key.
//
// With time-based revalidation configured, the stored schedule gates
// everything: a corrupted schedule is a fatal decode error (silent staleness
// is worse than a failed request), and a future instant short-circuits to
// Fresh without invoking revalidation logic. Once the time gate passes, or if
// none is configured, the template's logic decides.
func (p *Policy) Check(ctx context.Context, tpl *template.Template, key store.ArtifactKey) (State, error) {
	if tpl.RevalidatesWithTime() {
		name := key.ScheduleName()
		raw, err := p.store.Read(ctx, name)
		if err != nil {
			// The schedule is written whenever the artifact is; on a hit path
			// its absence is a store fault, not a cache miss.
			return Fresh, pagerrors.StoreReadFailed(name, err)
		}
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return Fresh, pagerrors.ScheduleDecodeFailed(name, err)
		}
		if p.clock.Now().Before(at) {
			return Fresh, nil
		}
		if !tpl.RevalidatesWithLogic() {
			return Due, nil
		}
	}

	if tpl.RevalidatesWithLogic() {
		due, err := tpl.ShouldRevalidateNow(ctx)
		if err != nil {
			return Fresh, err
		}
		if due {
			return Due, nil
		}
	}
	return Fresh, nil
}

// WriteSchedule persists the next revalidation instant for key: always the
// interval from now, never from the previous schedule. Pages sharing an
// interval therefore drift apart instead of revalidating as a synchronized
// herd, even when deadlines were missed.
func (p *Policy) WriteSchedule(ctx context.Context, tpl *template.Template, key store.ArtifactKey) error {
	iv, err := template.ParseInterval(tpl.RevalidateInterval())
	if err != nil {
		return pagerrors.Wrap(err, pagerrors.CategoryConfig, pagerrors.SeverityError,
			"invalid revalidation interval on template "+tpl.Path())
	}
	at := iv.From(p.clock.Now().UTC()).Format(time.RFC3339)
	if err := p.store.Write(ctx, key.ScheduleName(), at); err != nil {
		return pagerrors.StoreWriteFailed(key.ScheduleName(), err)
	}
	return nil
}

// Now exposes the policy's clock, letting callers stamp events consistently.
func (p *Policy) Now() time.Time { return p.clock.Now() }
