package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundleTakeDefined(t *testing.T) {
	build := Ref(SerializedState(`{"n":1}`))
	request := Ref(SerializedState(`{"n":2}`))

	onlyBuild := Bundle{BuildState: build}
	got, err := onlyBuild.TakeDefined()
	require.NoError(t, err)
	assert.Equal(t, build, got)

	onlyRequest := Bundle{RequestState: request}
	got, err = onlyRequest.TakeDefined()
	require.NoError(t, err)
	assert.Equal(t, request, got)

	_, err = Bundle{}.TakeDefined()
	assert.Error(t, err)

	_, err = Bundle{BuildState: build, RequestState: request}.TakeDefined()
	assert.Error(t, err, "both slots set must force amalgamation")
}

func TestBothSet(t *testing.T) {
	s := Ref(SerializedState("x"))
	assert.False(t, Bundle{}.BothSet())
	assert.False(t, Bundle{BuildState: s}.BothSet())
	assert.True(t, Bundle{BuildState: s, RequestState: s}.BothSet())
}
