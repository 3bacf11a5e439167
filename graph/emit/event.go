// Package emit provides pluggable observability for workflow execution:
// engine lifecycle events flow through an Emitter that can log them, trace
// them, or drop them.
package emit

// Event messages emitted by the engine.
const (
	EventNodeStart    = "node_start"
	EventNodeEnd      = "node_end"
	EventRunPaused    = "run_paused"
	EventRunResumed   = "run_resumed"
	EventRunCompleted = "run_completed"
	EventCheckpoint   = "checkpoint_saved"
)

// Event is a single observability event from a workflow run.
type Event struct {
	// RunID identifies the workflow execution.
	RunID string

	// Step is the 1-indexed step number. Zero for run-level events.
	Step int

	// NodeID is the emitting node. Empty for run-level events.
	NodeID string

	// Msg names the event, one of the Event* constants.
	Msg string

	// Meta carries event-specific data. Common keys: "duration_ms",
	// "error", "reason", "checkpoint_id".
	Meta map[string]any
}
