package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists runs in a single-file SQLite database. Zero-setup
// persistence for development and single-process deployments; use MySQLStore
// when runs must survive across hosts.
//
// Schema:
//   - triage_steps: per-step state history
//   - triage_pauses: one pause record per suspended run
//   - triage_checkpoints: named state snapshots
//
// Type parameter S must be JSON-serializable.
type SQLiteStore[S any] struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and
// migrates the schema. Use ":memory:" for a throwaway database in tests.
func NewSQLiteStore[S any](path string) (*SQLiteStore[S], error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx := context.Background()
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	s := &SQLiteStore[S]{db: db}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore[S]) createTables(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS triage_steps (
			run_id     TEXT NOT NULL,
			step       INTEGER NOT NULL,
			node_id    TEXT NOT NULL,
			state      TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			UNIQUE(run_id, step)
		)`,
		`CREATE TABLE IF NOT EXISTS triage_pauses (
			run_id     TEXT PRIMARY KEY,
			node_id    TEXT NOT NULL,
			step       INTEGER NOT NULL,
			reason     TEXT NOT NULL,
			prompt     TEXT,
			state      TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS triage_checkpoints (
			checkpoint_id TEXT PRIMARY KEY,
			step          INTEGER NOT NULL,
			state         TEXT NOT NULL,
			created_at    TIMESTAMP NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore[S]) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore[S]) SaveStep(ctx context.Context, runID string, step int, nodeID string, state S) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO triage_steps (run_id, step, node_id, state, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run_id, step) DO UPDATE SET
			node_id = excluded.node_id,
			state = excluded.state,
			created_at = excluded.created_at`,
		runID, step, nodeID, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save step: %w", err)
	}
	return nil
}

func (s *SQLiteStore[S]) LoadLatest(ctx context.Context, runID string) (S, int, error) {
	var zero S
	var data string
	var step int

	err := s.db.QueryRowContext(ctx, `
		SELECT state, step FROM triage_steps
		WHERE run_id = ?
		ORDER BY step DESC LIMIT 1`, runID).Scan(&data, &step)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, 0, ErrNotFound
	}
	if err != nil {
		return zero, 0, fmt.Errorf("load latest: %w", err)
	}

	var state S
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return zero, 0, fmt.Errorf("unmarshal state: %w", err)
	}
	return state, step, nil
}

func (s *SQLiteStore[S]) SavePause(ctx context.Context, rec PauseRecord[S]) error {
	stateData, err := json.Marshal(rec.State)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	promptData, err := json.Marshal(rec.Prompt)
	if err != nil {
		return fmt.Errorf("marshal prompt: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO triage_pauses (run_id, node_id, step, reason, prompt, state, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			node_id = excluded.node_id,
			step = excluded.step,
			reason = excluded.reason,
			prompt = excluded.prompt,
			state = excluded.state,
			created_at = excluded.created_at`,
		rec.RunID, rec.NodeID, rec.Step, rec.Reason, string(promptData), string(stateData), rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("save pause: %w", err)
	}
	return nil
}

func (s *SQLiteStore[S]) LoadPause(ctx context.Context, runID string) (PauseRecord[S], error) {
	var rec PauseRecord[S]
	var stateData, promptData string

	err := s.db.QueryRowContext(ctx, `
		SELECT node_id, step, reason, prompt, state, created_at
		FROM triage_pauses WHERE run_id = ?`, runID).
		Scan(&rec.NodeID, &rec.Step, &rec.Reason, &promptData, &stateData, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return PauseRecord[S]{}, ErrNotFound
	}
	if err != nil {
		return PauseRecord[S]{}, fmt.Errorf("load pause: %w", err)
	}

	rec.RunID = runID
	if err := json.Unmarshal([]byte(stateData), &rec.State); err != nil {
		return PauseRecord[S]{}, fmt.Errorf("unmarshal state: %w", err)
	}
	if promptData != "" && promptData != "null" {
		if err := json.Unmarshal([]byte(promptData), &rec.Prompt); err != nil {
			return PauseRecord[S]{}, fmt.Errorf("unmarshal prompt: %w", err)
		}
	}
	return rec, nil
}

func (s *SQLiteStore[S]) SaveCheckpoint(ctx context.Context, cpID string, state S, step int) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO triage_checkpoints (checkpoint_id, step, state, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(checkpoint_id) DO UPDATE SET
			step = excluded.step,
			state = excluded.state,
			created_at = excluded.created_at`,
		cpID, step, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}

func (s *SQLiteStore[S]) LoadCheckpoint(ctx context.Context, cpID string) (S, int, error) {
	var zero S
	var data string
	var step int

	err := s.db.QueryRowContext(ctx, `
		SELECT state, step FROM triage_checkpoints
		WHERE checkpoint_id = ?`, cpID).Scan(&data, &step)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, 0, ErrNotFound
	}
	if err != nil {
		return zero, 0, fmt.Errorf("load checkpoint: %w", err)
	}

	var state S
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return zero, 0, fmt.Errorf("unmarshal state: %w", err)
	}
	return state, step, nil
}
