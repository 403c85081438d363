package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore is an ArtifactStore backed by a SQLite database. Suited to the
// mutable region when many small artifacts churn under revalidation: each
// write is a single upsert statement, which SQLite applies atomically, so
// readers never observe partial content.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite-backed store.
// Use ":memory:" for an in-memory database, or a file path for persistence.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS artifacts (
		name TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Read returns the content stored under name.
func (s *SQLiteStore) Read(ctx context.Context, name string) (string, error) {
	var content string
	err := s.db.QueryRowContext(ctx,
		"SELECT content FROM artifacts WHERE name = ?", name,
	).Scan(&content)
	if err == sql.ErrNoRows {
		return "", ErrNotFound{Name: name}
	}
	if err != nil {
		return "", fmt.Errorf("select artifact %s: %w", name, err)
	}
	return content, nil
}

// Write stores content under name, replacing any previous content.
func (s *SQLiteStore) Write(ctx context.Context, name, content string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO artifacts (name, content, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
		name, content, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert artifact %s: %w", name, err)
	}
	return nil
}

// List returns all stored names beginning with prefix.
func (s *SQLiteStore) List(ctx context.Context, prefix string) ([]string, error) {
	pattern := strings.ReplaceAll(strings.ReplaceAll(prefix, `\`, `\\`), "%", `\%`)
	pattern = strings.ReplaceAll(pattern, "_", `\_`) + "%"

	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM artifacts WHERE name LIKE ? ESCAPE '\' ORDER BY name`, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan artifact name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artifacts: %w", err)
	}
	return names, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
