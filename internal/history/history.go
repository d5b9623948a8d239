// Package history records per-letter run outcomes in a SQLite database so
// past harvests can be inspected after the process exits.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // cgo-free sqlite driver

	"github.com/lexharvest/lexharvest/internal/harvest"
)

const schema = `
CREATE TABLE IF NOT EXISTS letter_runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      TEXT    NOT NULL,
	letter      TEXT    NOT NULL,
	fresh       INTEGER NOT NULL,
	written     INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	partial     INTEGER NOT NULL,
	error_text  TEXT    NOT NULL DEFAULT '',
	finished_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_letter_runs_run_id ON letter_runs(run_id);
`

// Store implements harvest.Recorder on top of SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db %s: %w", path, err)
	}
	// The store is written from many letter tasks; sqlite wants one writer.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Record inserts one per-letter outcome row.
func (s *Store) Record(ctx context.Context, rec harvest.RunRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO letter_runs
			(run_id, letter, fresh, written, duration_ms, partial, error_text, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Letter, rec.Fresh, rec.Written, rec.DurationMs,
		boolToInt(rec.Partial), rec.ErrorText, rec.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert letter run: %w", err)
	}
	return nil
}

// ListRun returns the recorded outcomes for one run, letters sorted.
func (s *Store) ListRun(ctx context.Context, runID string) ([]harvest.RunRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, letter, fresh, written, duration_ms, partial, error_text, finished_at
		 FROM letter_runs WHERE run_id = ? ORDER BY letter`, runID)
	if err != nil {
		return nil, fmt.Errorf("query letter runs: %w", err)
	}
	defer rows.Close()

	var out []harvest.RunRecord
	for rows.Next() {
		var rec harvest.RunRecord
		var partial int
		var finished time.Time
		if err := rows.Scan(&rec.RunID, &rec.Letter, &rec.Fresh, &rec.Written,
			&rec.DurationMs, &partial, &rec.ErrorText, &finished); err != nil {
			return nil, fmt.Errorf("scan letter run: %w", err)
		}
		rec.Partial = partial != 0
		rec.FinishedAt = finished
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate letter runs: %w", err)
	}
	return out, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close history db: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
