package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLStore persists runs in MySQL for deployments where pipeline state
// must be shared across processes or survive host loss. Same schema shape as
// SQLiteStore.
//
// The DSN must enable parseTime, e.g.
// "user:pass@tcp(localhost:3306)/triage?parseTime=true".
type MySQLStore[S any] struct {
	db *sql.DB
}

// NewMySQLStore connects to MySQL and migrates the schema.
func NewMySQLStore[S any](dsn string) (*MySQLStore[S], error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	s := &MySQLStore[S]{db: db}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *MySQLStore[S]) createTables(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS triage_steps (
			run_id     VARCHAR(255) NOT NULL,
			step       INT NOT NULL,
			node_id    VARCHAR(255) NOT NULL,
			state      JSON NOT NULL,
			created_at TIMESTAMP NOT NULL,
			UNIQUE KEY uq_run_step (run_id, step)
		)`,
		`CREATE TABLE IF NOT EXISTS triage_pauses (
			run_id     VARCHAR(255) PRIMARY KEY,
			node_id    VARCHAR(255) NOT NULL,
			step       INT NOT NULL,
			reason     VARCHAR(255) NOT NULL,
			prompt     JSON,
			state      JSON NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS triage_checkpoints (
			checkpoint_id VARCHAR(255) PRIMARY KEY,
			step          INT NOT NULL,
			state         JSON NOT NULL,
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

// Close closes the underlying connection pool.
func (s *MySQLStore[S]) Close() error {
	return s.db.Close()
}

func (s *MySQLStore[S]) SaveStep(ctx context.Context, runID string, step int, nodeID string, state S) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO triage_steps (run_id, step, node_id, state, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			node_id = VALUES(node_id),
			state = VALUES(state),
			created_at = VALUES(created_at)`,
		runID, step, nodeID, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save step: %w", err)
	}
	return nil
}

func (s *MySQLStore[S]) LoadLatest(ctx context.Context, runID string) (S, int, error) {
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

func (s *MySQLStore[S]) SavePause(ctx context.Context, rec PauseRecord[S]) error {
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
		ON DUPLICATE KEY UPDATE
			node_id = VALUES(node_id),
			step = VALUES(step),
			reason = VALUES(reason),
			prompt = VALUES(prompt),
			state = VALUES(state),
			created_at = VALUES(created_at)`,
		rec.RunID, rec.NodeID, rec.Step, rec.Reason, string(promptData), string(stateData), rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("save pause: %w", err)
	}
	return nil
}

func (s *MySQLStore[S]) LoadPause(ctx context.Context, runID string) (PauseRecord[S], error) {
	var rec PauseRecord[S]
	var stateData, promptData sql.NullString

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
	if err := json.Unmarshal([]byte(stateData.String), &rec.State); err != nil {
		return PauseRecord[S]{}, fmt.Errorf("unmarshal state: %w", err)
	}
	if promptData.Valid && promptData.String != "" && promptData.String != "null" {
		if err := json.Unmarshal([]byte(promptData.String), &rec.Prompt); err != nil {
			return PauseRecord[S]{}, fmt.Errorf("unmarshal prompt: %w", err)
		}
	}
	return rec, nil
}

func (s *MySQLStore[S]) SaveCheckpoint(ctx context.Context, cpID string, state S, step int) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO triage_checkpoints (checkpoint_id, step, state, created_at)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			step = VALUES(step),
			state = VALUES(state),
			created_at = VALUES(created_at)`,
		cpID, step, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}

func (s *MySQLStore[S]) LoadCheckpoint(ctx context.Context, cpID string) (S, int, error) {
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
