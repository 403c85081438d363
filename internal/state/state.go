// Package state carries the serialized page state produced by the generation
// strategies. State is an opaque serialized payload from the engine's point of
// view; only the client-side hydration layer interprets it.
package state

import "fmt"

// SerializedState is an opaque serialized state payload. The newtype keeps the
// storage-agnostic string boundary explicit instead of passing bare strings
// through the engine.
type SerializedState string

func (s SerializedState) String() string { return string(s) }

// Ref returns a pointer to s, for the optional slots of a Bundle.
func Ref(s SerializedState) *SerializedState { return &s }

// Bundle holds the up-to-two independently generated states for one page.
// Amalgamation is only ever invoked when both slots are set.
type Bundle struct {
	BuildState   *SerializedState
	RequestState *SerializedState
}

// BothSet reports whether build and request state were both generated.
func (b Bundle) BothSet() bool {
	return b.BuildState != nil && b.RequestState != nil
}

// TakeDefined returns the single defined state. It must only be called when at
// most one slot is set; with both set the caller has to amalgamate instead.
// Neither slot set is an error for non-basic templates.
func (b Bundle) TakeDefined() (*SerializedState, error) {
	switch {
	case b.BothSet():
		return nil, fmt.Errorf("both states set, amalgamation required")
	case b.BuildState != nil:
		return b.BuildState, nil
	case b.RequestState != nil:
		return b.RequestState, nil
	default:
		return nil, fmt.Errorf("no state was generated")
	}
}
