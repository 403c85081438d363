package store

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemStore is an in-memory ArtifactStore for tests and single-process
// development serving. Each Write replaces the whole entry under the lock, so
// readers see either the old or the new content in full.
type MemStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{entries: make(map[string]string)}
}

// Read returns the content stored under name.
func (s *MemStore) Read(ctx context.Context, name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, ok := s.entries[name]
	if !ok {
		return "", ErrNotFound{Name: name}
	}
	return content, nil
}

// Write stores content under name.
func (s *MemStore) Write(ctx context.Context, name, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[name] = content
	return nil
}

// List returns all stored names beginning with prefix, sorted.
func (s *MemStore) List(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var names []string
	for name := range s.entries {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes an entry, primarily for test setup.
func (s *MemStore) Delete(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, name)
}
