package store

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FSStore is a filesystem-backed ArtifactStore rooted at a base directory.
// Artifact names use forward slashes regardless of platform. Writes go
// through a temporary file followed by a rename, so a concurrent reader never
// observes a half-written artifact.
type FSStore struct {
	basePath string
}

// NewFSStore creates a filesystem store rooted at basePath, creating the root
// directory if needed.
func NewFSStore(basePath string) (*FSStore, error) {
	if err := os.MkdirAll(basePath, 0750); err != nil {
		return nil, fmt.Errorf("create store root %s: %w", basePath, err)
	}
	return &FSStore{basePath: basePath}, nil
}

// Read returns the content stored under name.
func (s *FSStore) Read(ctx context.Context, name string) (string, error) {
	// #nosec G304 - assetPath is rooted at the store base and names are percent-encoded
	data, err := os.ReadFile(s.assetPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound{Name: name}
		}
		return "", fmt.Errorf("read artifact %s: %w", name, err)
	}
	return string(data), nil
}

// Write stores content under name, creating any missing parent directories.
// The rename at the end makes the write atomic for readers on the same
// filesystem.
func (s *FSStore) Write(ctx context.Context, name, content string) error {
	assetPath := s.assetPath(name)
	if err := os.MkdirAll(filepath.Dir(assetPath), 0750); err != nil {
		return fmt.Errorf("create artifact directory for %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(assetPath), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write artifact %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close artifact %s: %w", name, err)
	}
	if err := os.Rename(tmpName, assetPath); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("commit artifact %s: %w", name, err)
	}
	return nil
}

// List returns all stored names beginning with prefix.
func (s *FSStore) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(s.basePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".tmp-") {
			return nil
		}
		rel, err := filepath.Rel(s.basePath, path)
		if err != nil {
			return nil
		}
		name := filepath.ToSlash(rel)
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk store root: %w", err)
	}
	return names, nil
}

func (s *FSStore) assetPath(name string) string {
	return filepath.Join(s.basePath, filepath.FromSlash(name))
}
