// Package store provides persistence backends for workflow runs: per-step
// state history, pause records for suspended runs, and named checkpoints.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a run, pause record, or checkpoint does not
// exist.
var ErrNotFound = errors.New("store: not found")

// PauseRecord captures a suspended run: the node that paused, the state at
// that point, and the prompt for the outside caller. The record survives
// resumption so that repeating a resume call replays from the same snapshot.
type PauseRecord[S any] struct {
	RunID     string         `json:"run_id"`
	NodeID    string         `json:"node_id"`
	Step      int            `json:"step"`
	Reason    string         `json:"reason"`
	Prompt    map[string]any `json:"prompt,omitempty"`
	State     S              `json:"state"`
	CreatedAt time.Time      `json:"created_at"`
}

// Store persists workflow state. Implementations must be safe for concurrent
// use.
type Store[S any] interface {
	// SaveStep records the state after a node execution. Saving the same
	// (runID, step) twice overwrites, which makes resumed re-execution of a
	// step idempotent.
	SaveStep(ctx context.Context, runID string, step int, nodeID string, state S) error

	// LoadLatest returns the most recent state and step for a run, or
	// ErrNotFound.
	LoadLatest(ctx context.Context, runID string) (S, int, error)

	// SavePause records a suspension, overwriting any previous pause for
	// the run.
	SavePause(ctx context.Context, rec PauseRecord[S]) error

	// LoadPause returns the pause record for a run, or ErrNotFound.
	LoadPause(ctx context.Context, runID string) (PauseRecord[S], error)

	// SaveCheckpoint stores a named state snapshot, overwriting any
	// previous checkpoint with the same ID.
	SaveCheckpoint(ctx context.Context, cpID string, state S, step int) error

	// LoadCheckpoint returns a named snapshot, or ErrNotFound.
	LoadCheckpoint(ctx context.Context, cpID string) (S, int, error)
}
