package revalidate

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pagerrors "git.home.luguber.info/inful/pagegen/internal/errors"
	"git.home.luguber.info/inful/pagegen/internal/store"
	"git.home.luguber.info/inful/pagegen/internal/template"
)

func timeTemplate(interval string) *template.Template {
	return template.New("posts").
		WithBuildState(func(ctx context.Context, path, locale string) (string, error) { return "{}", nil }).
		WithRevalidateAfter(interval)
}

func TestTimeGateFresh(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemStore()
	clock := clockwork.NewFakeClock()
	policy := NewPolicy(mem, clock)

	tpl := timeTemplate("5s")
	key := store.NewKey("en-US", "posts", "first")

	require.NoError(t, policy.WriteSchedule(ctx, tpl, key))

	// Inside the window: fresh, and no logic ever consulted.
	clock.Advance(2 * time.Second)
	state, err := policy.Check(ctx, tpl, key)
	require.NoError(t, err)
	assert.Equal(t, Fresh, state)

	// Past the window: due.
	clock.Advance(4 * time.Second)
	state, err = policy.Check(ctx, tpl, key)
	require.NoError(t, err)
	assert.Equal(t, Due, state)
}

func TestScheduleAlwaysFromNow(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemStore()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC))
	policy := NewPolicy(mem, clock)

	tpl := timeTemplate("5s")
	key := store.NewKey("en-US", "posts", "first")

	require.NoError(t, policy.WriteSchedule(ctx, tpl, key))

	// Miss several windows, then rewrite: the new deadline is now+5s, not the
	// missed deadline+5s.
	clock.Advance(6 * time.Second)
	require.NoError(t, policy.WriteSchedule(ctx, tpl, key))

	raw, err := mem.Read(ctx, key.ScheduleName())
	require.NoError(t, err)
	at, err := time.Parse(time.RFC3339, raw)
	require.NoError(t, err)
	assert.Equal(t, clock.Now().UTC().Add(5*time.Second), at.UTC())
}

func TestCorruptedScheduleIsFatal(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemStore()
	policy := NewPolicy(mem, clockwork.NewFakeClock())

	tpl := timeTemplate("5s")
	key := store.NewKey("en-US", "posts", "first")
	require.NoError(t, mem.Write(ctx, key.ScheduleName(), "not-a-timestamp"))

	_, err := policy.Check(ctx, tpl, key)
	require.Error(t, err)
	assert.True(t, pagerrors.IsCategory(err, pagerrors.CategorySchedule))
}

func TestMissingScheduleIsStoreErrorNotMiss(t *testing.T) {
	ctx := context.Background()
	policy := NewPolicy(store.NewMemStore(), clockwork.NewFakeClock())

	_, err := policy.Check(ctx, timeTemplate("5s"), store.NewKey("en-US", "posts", "first"))
	require.Error(t, err)
	assert.True(t, pagerrors.IsCategory(err, pagerrors.CategoryStoreRead))
}

func TestLogicAloneDecides(t *testing.T) {
	ctx := context.Background()
	policy := NewPolicy(store.NewMemStore(), clockwork.NewFakeClock())

	due := false
	tpl := template.New("posts").
		WithBuildState(func(ctx context.Context, path, locale string) (string, error) { return "{}", nil }).
		WithShouldRevalidate(func(ctx context.Context) (bool, error) { return due, nil })
	key := store.NewKey("en-US", "posts", "")

	state, err := policy.Check(ctx, tpl, key)
	require.NoError(t, err)
	assert.Equal(t, Fresh, state)

	due = true
	state, err = policy.Check(ctx, tpl, key)
	require.NoError(t, err)
	assert.Equal(t, Due, state)
}

func TestTimeGateShortCircuitsLogic(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemStore()
	clock := clockwork.NewFakeClock()
	policy := NewPolicy(mem, clock)

	logicCalls := 0
	tpl := template.New("posts").
		WithBuildState(func(ctx context.Context, path, locale string) (string, error) { return "{}", nil }).
		WithRevalidateAfter("1h").
		WithShouldRevalidate(func(ctx context.Context) (bool, error) {
			logicCalls++
			return true, nil
		})
	key := store.NewKey("en-US", "posts", "")
	require.NoError(t, policy.WriteSchedule(ctx, tpl, key))

	// Still inside the window: logic must not run even though it would say due.
	state, err := policy.Check(ctx, tpl, key)
	require.NoError(t, err)
	assert.Equal(t, Fresh, state)
	assert.Equal(t, 0, logicCalls)

	// Past the window the logic gets the final say.
	clock.Advance(2 * time.Hour)
	state, err = policy.Check(ctx, tpl, key)
	require.NoError(t, err)
	assert.Equal(t, Due, state)
	assert.Equal(t, 1, logicCalls)
}
