package db

import (
	"database/sql"
	"fmt"
)

// migrations is an ordered list of SQL migration statements.
// Each entry is applied once in order. New migrations are appended at the end.
var migrations = []string{
	// Migration 0: initial schema
	`CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
		input       TEXT NOT NULL,
		max_merges  INTEGER NOT NULL DEFAULT 0,
		merge_count INTEGER NOT NULL,
		token_count INTEGER NOT NULL,
		created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS steps (
		run_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		step_index  INTEGER NOT NULL,
		left_token  TEXT,
		right_token TEXT,
		frequency   INTEGER,
		new_token   TEXT,
		tokens      TEXT NOT NULL,
		PRIMARY KEY (run_id, step_index)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC)`,
}

// applyMigrations runs any migrations that have not yet been applied.
func applyMigrations(conn *sql.DB) error {
	if _, err := conn.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var current int
	row := conn.QueryRow(`SELECT COALESCE(MAX(version), -1) FROM schema_migrations`)
	if err := row.Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for v := current + 1; v < len(migrations); v++ {
		if _, err := conn.Exec(migrations[v]); err != nil {
			return fmt.Errorf("migration %d: %w", v, err)
		}
		if _, err := conn.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, v); err != nil {
			return fmt.Errorf("record migration %d: %w", v, err)
		}
	}
	return nil
}
