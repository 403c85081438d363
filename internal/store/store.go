// Package store provides the artifact store contract for pagegen: a narrow
// key/value persistence abstraction over which rendered pages, serialized
// state, and revalidation schedules are stored. The physical implementation
// (filesystem, SQLite, in-memory) is interchangeable behind ArtifactStore.
package store

import "context"

// ArtifactStore is the read/write contract the engine consumes. Write must
// create any missing intermediate structure implicitly and must be atomic from
// the caller's point of view: content, head, and state are read independently
// and must never be observed half-written.
type ArtifactStore interface {
	// Read returns the content stored under name.
	// Returns ErrNotFound if no artifact exists under that name.
	Read(ctx context.Context, name string) (string, error)

	// Write stores content under name, replacing any previous content.
	Write(ctx context.Context, name, content string) error
}

// Lister is an optional extension for stores that can enumerate their
// contents. The revalidation sweeper uses it to find due schedules.
type Lister interface {
	// List returns all stored names beginning with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// ErrNotFound is returned when no artifact exists under the requested name.
type ErrNotFound struct {
	Name string
}

func (e ErrNotFound) Error() string {
	return "artifact not found: " + e.Name
}

// IsNotFound returns true if the error is ErrNotFound. Only this class of read
// failure may be interpreted as a cache miss; any other store error is fatal
// for the request.
func IsNotFound(err error) bool {
	_, ok := err.(ErrNotFound)
	return ok
}

// Layered combines the two store regions: an immutable region written once at
// build time, and a mutable region rewritten by revalidation and incremental
// regeneration. Reads consult the mutable region first so regenerated content
// shadows the build-time original; writes always land in the mutable region.
type Layered struct {
	Immutable ArtifactStore
	Mutable   ArtifactStore
}

// Read returns the artifact under name from the mutable region, falling back
// to the immutable region when the mutable region has no entry.
func (l Layered) Read(ctx context.Context, name string) (string, error) {
	content, err := l.Mutable.Read(ctx, name)
	if err == nil {
		return content, nil
	}
	if !IsNotFound(err) {
		return "", err
	}
	return l.Immutable.Read(ctx, name)
}

// Write stores content in the mutable region.
func (l Layered) Write(ctx context.Context, name, content string) error {
	return l.Mutable.Write(ctx, name, content)
}

// List enumerates the mutable region, where all regeneration byproducts
// (including revalidation schedules) live. Returns nil if the mutable region
// cannot enumerate.
func (l Layered) List(ctx context.Context, prefix string) ([]string, error) {
	if lister, ok := l.Mutable.(Lister); ok {
		return lister.List(ctx, prefix)
	}
	return nil, nil
}
