package template

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pagerrors "git.home.luguber.info/inful/pagegen/internal/errors"
	"git.home.luguber.info/inful/pagegen/internal/state"
)

func TestCapabilityQueries(t *testing.T) {
	basic := New("about")
	assert.True(t, basic.IsBasic())
	assert.False(t, basic.UsesBuildState())
	assert.False(t, basic.Revalidates())

	full := New("posts").
		WithBuildPaths(func(ctx context.Context) ([]string, error) { return []string{"first"}, nil }).
		WithBuildState(func(ctx context.Context, path, locale string) (string, error) { return "{}", nil }).
		WithRequestState(func(ctx context.Context, path, locale string, req *Request) (string, error) { return "{}", nil }).
		WithShouldRevalidate(func(ctx context.Context) (bool, error) { return false, nil }).
		WithRevalidateAfter("5s").
		WithIncremental().
		WithAmalgamate(func(b state.Bundle) (*state.SerializedState, error) { return b.BuildState, nil })

	assert.False(t, full.IsBasic())
	assert.True(t, full.UsesBuildPaths())
	assert.True(t, full.UsesBuildState())
	assert.True(t, full.UsesRequestState())
	assert.True(t, full.UsesIncremental())
	assert.True(t, full.RevalidatesWithTime())
	assert.True(t, full.RevalidatesWithLogic())
	assert.True(t, full.CanAmalgamate())
}

func TestInvokeUnsetSlotIsInternalError(t *testing.T) {
	basic := New("about")

	_, err := basic.BuildState(context.Background(), "about", "en-US")
	require.Error(t, err)
	assert.True(t, pagerrors.IsCategory(err, pagerrors.CategoryInternal))
}

func TestGenerationFailureAttribution(t *testing.T) {
	tpl := New("posts").
		WithBuildPaths(func(ctx context.Context) ([]string, error) {
			return nil, fmt.Errorf("upstream list failed")
		}).
		WithRequestState(func(ctx context.Context, path, locale string, req *Request) (string, error) {
			return "", pagerrors.WithBlame(fmt.Errorf("bad session cookie"), pagerrors.CauseClient)
		})

	_, err := tpl.BuildPaths(context.Background())
	require.Error(t, err)
	assert.True(t, pagerrors.IsCategory(err, pagerrors.CategoryGeneration))
	assert.Equal(t, pagerrors.CauseServer, pagerrors.BlameOf(err))

	_, err = tpl.RequestState(context.Background(), "posts", "en-US", &Request{})
	require.Error(t, err)
	assert.True(t, pagerrors.IsCategory(err, pagerrors.CategoryGeneration))
	assert.Equal(t, pagerrors.CauseClient, pagerrors.BlameOf(err))
}

func TestMapValidation(t *testing.T) {
	// Incremental without build paths violates the descriptor invariant.
	_, err := NewMap(New("posts").WithIncremental().
		WithBuildState(func(ctx context.Context, path, locale string) (string, error) { return "{}", nil }))
	assert.Error(t, err)

	// A bad interval string is caught at startup, not at serve time.
	_, err = NewMap(New("news").
		WithBuildState(func(ctx context.Context, path, locale string) (string, error) { return "{}", nil }).
		WithRevalidateAfter("5x"))
	assert.Error(t, err)

	m, err := NewMap(New("about"), New("index"))
	require.NoError(t, err)

	_, err = m.Get("nope")
	require.Error(t, err)
	assert.True(t, pagerrors.IsCategory(err, pagerrors.CategoryRouteNotFound))
}

func TestMapRejectsDuplicateRoutes(t *testing.T) {
	_, err := NewMap(New("about"), New("about"))
	assert.Error(t, err)
}
