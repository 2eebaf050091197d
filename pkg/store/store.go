// Package store persists session history and rep summaries to SQLite and
// exports the per-session rep-summary document.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/fitsight/fitsight/pkg/reps"
)

// Store is the SQLite-backed rep history.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	s := &Store{db: db}
	if err := s.ensureSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  workout_id TEXT NOT NULL,
  started_at TEXT NOT NULL,
  ended_at TEXT,
  rep_count INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS reps (
  session_id TEXT NOT NULL,
  seq INTEGER NOT NULL,
  min_angle REAL NOT NULL,
  max_angle REAL NOT NULL,
  duration REAL NOT NULL,
  range_of_motion REAL NOT NULL,
  num_frames INTEGER NOT NULL,
  PRIMARY KEY (session_id, seq),
  FOREIGN KEY (session_id) REFERENCES sessions(id)
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateSession records a new session row at start time.
func (s *Store) CreateSession(ctx context.Context, id, workoutID string, startedAt time.Time) error {
	const stmt = `INSERT INTO sessions (id, workout_id, started_at) VALUES (?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, stmt, id, workoutID, startedAt.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// FinishSession stamps the session's end time and final rep count.
func (s *Store) FinishSession(ctx context.Context, id string, endedAt time.Time, repCount int) error {
	const stmt = `UPDATE sessions SET ended_at = ?, rep_count = ? WHERE id = ?`
	if _, err := s.db.ExecContext(ctx, stmt, endedAt.Format(time.RFC3339), repCount, id); err != nil {
		return fmt.Errorf("finish session: %w", err)
	}
	return nil
}

// RecordRep appends one completed rep's summary to the session. seq is the
// 1-based rep number within the session.
func (s *Store) RecordRep(ctx context.Context, sessionID string, seq int, sum reps.Summary) error {
	const stmt = `
INSERT INTO reps (session_id, seq, min_angle, max_angle, duration, range_of_motion, num_frames)
VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, stmt, sessionID, seq,
		sum.MinAngle, sum.MaxAngle, sum.Duration, sum.RangeOfMotion, sum.NumFrames)
	if err != nil {
		return fmt.Errorf("record rep: %w", err)
	}
	return nil
}

// SessionReps returns the session's rep summaries in rep order.
func (s *Store) SessionReps(ctx context.Context, sessionID string) ([]reps.Summary, error) {
	const query = `
SELECT min_angle, max_angle, duration, range_of_motion, num_frames
FROM reps WHERE session_id = ? ORDER BY seq`
	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query reps: %w", err)
	}
	defer rows.Close()

	var out []reps.Summary
	for rows.Next() {
		var sum reps.Summary
		if err := rows.Scan(&sum.MinAngle, &sum.MaxAngle, &sum.Duration,
			&sum.RangeOfMotion, &sum.NumFrames); err != nil {
			return nil, fmt.Errorf("scan rep: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// ExportSummary writes the session's ordered rep-summary document as JSON.
func (s *Store) ExportSummary(ctx context.Context, sessionID, path string) error {
	summaries, err := s.SessionReps(ctx, sessionID)
	if err != nil {
		return err
	}
	if summaries == nil {
		summaries = []reps.Summary{}
	}
	data, err := json.MarshalIndent(summaries, "", "    ")
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
