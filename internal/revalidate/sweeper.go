package revalidate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"

	"git.home.luguber.info/inful/pagegen/internal/store"
)

// ScheduleSource is the slice of the store the sweeper needs: enumerating and
// reading persisted schedules. store.Layered satisfies it.
type ScheduleSource interface {
	Read(ctx context.Context, name string) (string, error)
	List(ctx context.Context, prefix string) ([]string, error)
}

// RegenerateFunc regenerates the page identified by (locale, fullPath). The
// orchestrator supplies it; the sweeper stays ignorant of templates.
type RegenerateFunc func(ctx context.Context, locale, fullPath string) error

// Sweeper proactively regenerates cached pages whose revalidation deadline has
// passed, ahead of the next request. The request path remains authoritative:
// a page the sweeper misses is still revalidated lazily on its next hit.
type Sweeper struct {
	source    ScheduleSource
	locales   []string
	regen     RegenerateFunc
	clock     clockwork.Clock
	logger    *slog.Logger
	scheduler gocron.Scheduler
}

// NewSweeper creates a sweeper over the given schedule source. locales is the
// supported locale set, needed to decode schedule names.
func NewSweeper(source ScheduleSource, locales []string, regen RegenerateFunc, clock clockwork.Clock) (*Sweeper, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create gocron scheduler: %w", err)
	}
	return &Sweeper{
		source:    source,
		locales:   locales,
		regen:     regen,
		clock:     clock,
		logger:    slog.Default(),
		scheduler: s,
	}, nil
}

// WithLogger sets a custom logger.
func (s *Sweeper) WithLogger(logger *slog.Logger) *Sweeper {
	s.logger = logger
	return s
}

// Start schedules periodic sweeps at the given interval and begins running.
func (s *Sweeper) Start(ctx context.Context, interval time.Duration) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if _, err := s.Sweep(ctx); err != nil {
				s.logger.Error("Revalidation sweep failed", "error", err)
			}
		}),
		gocron.WithName("revalidation-sweep"),
	)
	if err != nil {
		return fmt.Errorf("create sweep job: %w", err)
	}
	s.scheduler.Start()
	return nil
}

// Stop gracefully shuts down the sweeper.
func (s *Sweeper) Stop() error {
	return s.scheduler.Shutdown()
}

// Sweep runs one pass: every stored schedule at or past its deadline triggers
// a regeneration. Individual failures are logged and skipped so one broken
// page cannot stall the sweep.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	names, err := s.source.List(ctx, store.SchedulePrefix())
	if err != nil {
		return 0, fmt.Errorf("list schedules: %w", err)
	}

	now := s.clock.Now()
	swept := 0
	for _, name := range names {
		if !store.IsScheduleName(name) {
			continue
		}
		raw, err := s.source.Read(ctx, name)
		if err != nil {
			s.logger.Warn("Failed to read schedule", "name", name, "error", err)
			continue
		}
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			s.logger.Error("Corrupted schedule, skipping", "name", name, "error", err)
			continue
		}
		if now.Before(at) {
			continue
		}

		locale, fullPath, err := store.DecodeScheduleName(name, s.locales)
		if err != nil {
			s.logger.Warn("Undecodable schedule name", "name", name, "error", err)
			continue
		}
		if err := s.regen(ctx, locale, fullPath); err != nil {
			s.logger.Error("Sweep regeneration failed",
				"locale", locale, "path", fullPath, "error", err)
			continue
		}
		swept++
	}

	if swept > 0 {
		s.logger.Info("Revalidation sweep complete", "regenerated", swept)
	}
	return swept, nil
}
