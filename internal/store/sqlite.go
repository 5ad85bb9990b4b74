package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteSink keeps every artifact as a JSON payload row in one table.
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLiteSink opens or creates the database at dbPath and initializes the schema.
func NewSQLiteSink(dbPath string) (*SQLiteSink, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &SQLiteSink{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS artifacts (
		run_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		position INTEGER NOT NULL,
		payload TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (run_id, kind, position)
	);

	CREATE INDEX IF NOT EXISTS idx_artifacts_run ON artifacts(run_id);
	`
	_, err := db.Exec(schema)
	return err
}

func (s *SQLiteSink) Store(ctx context.Context, key Key, value any) error {
	if err := key.validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO artifacts (run_id, kind, position, payload) VALUES (?, ?, ?, ?)
		ON CONFLICT(run_id, kind, position) DO UPDATE SET payload = excluded.payload, created_at = CURRENT_TIMESTAMP`,
		key.RunID, key.Kind, key.Position, string(payload))
	if err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteSink) Load(ctx context.Context, key Key, into any) error {
	if err := key.validate(); err != nil {
		return err
	}
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM artifacts WHERE run_id = ? AND kind = ? AND position = ?`,
		key.RunID, key.Kind, key.Position).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("load %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	return json.Unmarshal([]byte(payload), into)
}

// CountRun returns how many artifacts a run has stored.
func (s *SQLiteSink) CountRun(ctx context.Context, runID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM artifacts WHERE run_id = ?`, runID).Scan(&n)
	return n, err
}

// Close closes the database.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
