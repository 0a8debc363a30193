// Package archive keeps a history of compiled reports in DuckDB.
// Each compile run is stored with its features, the caveats applied to them
// and fingerprints of the input files it was built from.
package archive

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/marcboeker/go-duckdb"
)

// ErrNoRuns is returned when a sample has no archived reports.
var ErrNoRuns = errors.New("no archived reports")

// Store manages a DuckDB connection holding archived reports.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create archive directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path, now: func() time.Time { return time.Now().UTC() }}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database file, or "" for an in-memory store.
func (s *Store) Path() string {
	return s.path
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		run_id VARCHAR PRIMARY KEY,
		sample_id VARCHAR NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS run_features (
		run_id VARCHAR,
		feature VARCHAR,
		payload VARCHAR,
		PRIMARY KEY (run_id, feature)
	)`,
	`CREATE TABLE IF NOT EXISTS run_caveats (
		run_id VARCHAR,
		seq INTEGER,
		caveat_type VARCHAR,
		qc_call VARCHAR,
		action VARCHAR,
		PRIMARY KEY (run_id, seq)
	)`,
	`CREATE TABLE IF NOT EXISTS run_inputs (
		run_id VARCHAR,
		role VARCHAR,
		path VARCHAR,
		size BIGINT,
		mod_time TIMESTAMP
	)`,
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
