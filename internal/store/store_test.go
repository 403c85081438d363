package store

import (
	"context"
	"testing"
)

// storeFactories lets the contract tests run against every implementation.
func storeFactories(t *testing.T) map[string]ArtifactStore {
	t.Helper()

	fsStore, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore failed: %v", err)
	}

	sqliteStore, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { _ = sqliteStore.Close() })

	return map[string]ArtifactStore{
		"fs":     fsStore,
		"mem":    NewMemStore(),
		"sqlite": sqliteStore,
	}
}

func TestStoreReadWrite(t *testing.T) {
	ctx := context.Background()
	for name, s := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Write(ctx, "static/en-US-about.html", "<p>about</p>"); err != nil {
				t.Fatalf("Write failed: %v", err)
			}

			content, err := s.Read(ctx, "static/en-US-about.html")
			if err != nil {
				t.Fatalf("Read failed: %v", err)
			}
			if content != "<p>about</p>" {
				t.Errorf("Got content %q, want %q", content, "<p>about</p>")
			}

			// Overwrite replaces in full.
			if err := s.Write(ctx, "static/en-US-about.html", "<p>v2</p>"); err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			content, _ = s.Read(ctx, "static/en-US-about.html")
			if content != "<p>v2</p>" {
				t.Errorf("Got content %q after overwrite, want %q", content, "<p>v2</p>")
			}
		})
	}
}

func TestStoreNotFound(t *testing.T) {
	ctx := context.Background()
	for name, s := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Read(ctx, "static/en-US-missing.html")
			if !IsNotFound(err) {
				t.Errorf("Expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestStoreList(t *testing.T) {
	ctx := context.Background()
	for name, s := range storeFactories(t) {
		lister, ok := s.(Lister)
		if !ok {
			t.Fatalf("%s store does not implement Lister", name)
		}
		t.Run(name, func(t *testing.T) {
			entries := map[string]string{
				"static/en-US-about.html":      "a",
				"static/en-US-about.revld.txt": "b",
				"exported/en-US/about":         "c",
			}
			for k, v := range entries {
				if err := s.Write(ctx, k, v); err != nil {
					t.Fatalf("Write failed: %v", err)
				}
			}

			names, err := lister.List(ctx, "static/")
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(names) != 2 {
				t.Errorf("Got %d names under static/, want 2: %v", len(names), names)
			}
			for _, n := range names {
				if n != "static/en-US-about.html" && n != "static/en-US-about.revld.txt" {
					t.Errorf("Unexpected name in listing: %q", n)
				}
			}
		})
	}
}

func TestLayeredReadPrecedence(t *testing.T) {
	ctx := context.Background()
	immutable := NewMemStore()
	mutable := NewMemStore()
	layered := Layered{Immutable: immutable, Mutable: mutable}

	// Only the immutable region has the artifact: fall back.
	_ = immutable.Write(ctx, "static/en-US-about.html", "built")
	content, err := layered.Read(ctx, "static/en-US-about.html")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if content != "built" {
		t.Errorf("Got %q, want immutable fallback %q", content, "built")
	}

	// A regenerated copy in the mutable region shadows the build-time one.
	if err := layered.Write(ctx, "static/en-US-about.html", "regenerated"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	content, _ = layered.Read(ctx, "static/en-US-about.html")
	if content != "regenerated" {
		t.Errorf("Got %q, want mutable shadow %q", content, "regenerated")
	}

	// Missing in both regions is a not-found.
	_, err = layered.Read(ctx, "static/en-US-missing.html")
	if !IsNotFound(err) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
