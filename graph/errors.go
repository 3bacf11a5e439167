package graph

import "errors"

// ErrMaxStepsExceeded indicates the run hit the MaxSteps limit without
// completing. It guards against routing cycles.
var ErrMaxStepsExceeded = errors.New("execution exceeded maximum steps limit")

// ErrNoRoute indicates a non-terminal node had no matching outgoing edge.
var ErrNoRoute = errors.New("no valid route from node")

// ErrNotPaused indicates Resume was called for a run that has no pause
// record.
var ErrNotPaused = errors.New("run is not paused")

// EngineError is an error from engine configuration or the execution loop.
type EngineError struct {
	Message string
	Code    string
	Cause   error
}

func (e *EngineError) Error() string {
	if e.Code != "" {
		return e.Code + ": " + e.Message
	}
	return e.Message
}

func (e *EngineError) Unwrap() error { return e.Cause }

// NodeError wraps a failure from a specific node so callers can tell which
// stage of the workflow failed.
type NodeError struct {
	NodeID string
	Cause  error
}

func (e *NodeError) Error() string {
	return "node " + e.NodeID + ": " + e.Cause.Error()
}

func (e *NodeError) Unwrap() error { return e.Cause }
