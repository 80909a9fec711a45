// Package history persists completed traces to the local SQLite database so
// past runs can be listed and replayed. The Trace itself stays an in-memory
// artifact; saving is an optional convenience of the CLI layer.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bpetrace/bpetrace/internal/bpe"
	"github.com/bpetrace/bpetrace/internal/db"
)

// Run is one saved engine invocation.
type Run struct {
	ID         string
	Input      string
	MaxMerges  int
	MergeCount int
	TokenCount int
	CreatedAt  time.Time
}

// Store provides read/write access to the run-history database.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given DB.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// SaveRun stores a trace with its input and returns the new run ID.
// An empty trace (empty input) is saved with zero counts and no steps.
func (s *Store) SaveRun(input string, maxMerges int, trace *bpe.Trace) (string, error) {
	tokenCount := 0
	if final := trace.Final(); final != nil {
		tokenCount = len(final)
	}

	var id string
	err := s.db.Conn().QueryRow(`
		INSERT INTO runs (id, input, max_merges, merge_count, token_count)
		VALUES (lower(hex(randomblob(16))), ?, ?, ?, ?)
		RETURNING id`,
		input, maxMerges, trace.MergeCount(), tokenCount,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("history: insert run: %w", err)
	}

	for _, step := range trace.Steps {
		tokens, err := json.Marshal(step.Tokens)
		if err != nil {
			return "", fmt.Errorf("history: marshal tokens: %w", err)
		}

		var left, right any
		var freq any
		if step.MergedPair != nil {
			left, right = step.MergedPair.Left, step.MergedPair.Right
			freq = step.Frequency
		}

		if _, err := s.db.Conn().Exec(`
			INSERT INTO steps (run_id, step_index, left_token, right_token, frequency, new_token, tokens)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, step.Index, left, right, freq, step.NewToken, string(tokens),
		); err != nil {
			return "", fmt.Errorf("history: insert step %d: %w", step.Index, err)
		}
	}

	return id, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	rows, err := s.db.Conn().Query(`
		SELECT id, input, max_merges, merge_count, token_count, created_at
		FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Input, &r.MaxMerges, &r.MergeCount, &r.TokenCount, &createdAt); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns one saved run and its reconstructed trace. The prefix may
// be a full run ID or any unique prefix of one.
func (s *Store) GetRun(prefix string) (Run, *bpe.Trace, error) {
	var r Run
	var createdAt string
	err := s.db.Conn().QueryRow(`
		SELECT id, input, max_merges, merge_count, token_count, created_at
		FROM runs WHERE id LIKE ? || '%' ORDER BY created_at DESC LIMIT 1`, prefix,
	).Scan(&r.ID, &r.Input, &r.MaxMerges, &r.MergeCount, &r.TokenCount, &createdAt)
	if err == sql.ErrNoRows {
		return r, nil, fmt.Errorf("history: no run matching %q", prefix)
	}
	if err != nil {
		return r, nil, fmt.Errorf("history: get run: %w", err)
	}
	r.CreatedAt = parseTime(createdAt)

	rows, err := s.db.Conn().Query(`
		SELECT step_index, left_token, right_token, frequency, new_token, tokens
		FROM steps WHERE run_id = ? ORDER BY step_index`, r.ID)
	if err != nil {
		return r, nil, fmt.Errorf("history: get steps: %w", err)
	}
	defer rows.Close()

	trace := &bpe.Trace{}
	for rows.Next() {
		var step bpe.Step
		var left, right sql.NullString
		var freq sql.NullInt64
		var tokens string
		if err := rows.Scan(&step.Index, &left, &right, &freq, &step.NewToken, &tokens); err != nil {
			return r, nil, fmt.Errorf("history: scan step: %w", err)
		}
		if left.Valid {
			step.MergedPair = &bpe.Pair{Left: left.String, Right: right.String}
			step.Frequency = int(freq.Int64)
		}
		if err := json.Unmarshal([]byte(tokens), &step.Tokens); err != nil {
			return r, nil, fmt.Errorf("history: unmarshal tokens: %w", err)
		}
		trace.Steps = append(trace.Steps, step)
	}
	return r, trace, rows.Err()
}

// DeleteRun removes a saved run and its steps.
func (s *Store) DeleteRun(id string) error {
	res, err := s.db.Conn().Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("history: delete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("history: no run with id %q", id)
	}
	return nil
}

// parseTime handles SQLite's default DATETIME text format.
func parseTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05Z"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
