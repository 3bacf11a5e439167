// Package graph provides a sequential workflow graph engine with conditional
// routing, reducer-merged state, per-node timeout and retry policies, and
// suspend/resume through persisted pause records.
package graph

import (
	"context"
	"sync"
	"time"

	"github.com/PaawanBarach/ai-content-intelligence/graph/emit"
	"github.com/PaawanBarach/ai-content-intelligence/graph/store"
)

// Reducer merges a node's partial state update into the current state. It
// must be deterministic.
type Reducer[S any] func(prev, delta S) S

// Pending describes a suspended run awaiting an external decision.
type Pending struct {
	RunID  string
	NodeID string
	Step   int
	Reason string
	Prompt map[string]any
}

// Outcome is the result of Run or Resume. Pending is nil when the workflow
// ran to completion; otherwise State is the state at suspension and Pending
// describes what the run is waiting for.
type Outcome[S any] struct {
	State   S
	Pending *Pending
}

// Engine executes a workflow graph over state type S.
//
// The engine runs nodes one at a time starting from the start node, merges
// each node's delta through the reducer, persists the state after every
// step, and follows the node's explicit route or the first matching edge.
// A node may suspend the run by returning a Pause; the engine persists a
// pause record and the caller later continues with Resume.
//
//	engine := graph.New(reducer, st, emitter, graph.WithMaxSteps(20))
//	engine.Add("analyze", analyzeNode)
//	engine.StartAt("analyze")
//	outcome, err := engine.Run(ctx, "run-001", initial)
type Engine[S any] struct {
	mu sync.RWMutex

	reducer   Reducer[S]
	nodes     map[string]Node[S]
	policies  map[string]NodePolicy
	edges     []Edge[S]
	startNode string
	store     store.Store[S]
	emitter   emit.Emitter
	opts      Options
}

// New creates an Engine. The emitter may be nil to disable events.
func New[S any](reducer Reducer[S], st store.Store[S], emitter emit.Emitter, opts ...Option) *Engine[S] {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return &Engine[S]{
		reducer:  reducer,
		nodes:    make(map[string]Node[S]),
		policies: make(map[string]NodePolicy),
		store:    st,
		emitter:  emitter,
		opts:     o,
	}
}

// Add registers a node under a unique ID.
func (e *Engine[S]) Add(nodeID string, node Node[S]) error {
	if nodeID == "" {
		return &EngineError{Message: "node ID cannot be empty"}
	}
	if node == nil {
		return &EngineError{Message: "node cannot be nil"}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.nodes[nodeID]; exists {
		return &EngineError{Message: "duplicate node ID: " + nodeID, Code: "DUPLICATE_NODE"}
	}
	e.nodes[nodeID] = node
	return nil
}

// SetPolicy attaches a timeout/retry policy to a registered node.
func (e *Engine[S]) SetPolicy(nodeID string, policy NodePolicy) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.nodes[nodeID]; !exists {
		return &EngineError{Message: "node does not exist: " + nodeID, Code: "NODE_NOT_FOUND"}
	}
	e.policies[nodeID] = policy
	return nil
}

// StartAt sets the entry node. The node must already be registered.
func (e *Engine[S]) StartAt(nodeID string) error {
	if nodeID == "" {
		return &EngineError{Message: "start node ID cannot be empty"}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.nodes[nodeID]; !exists {
		return &EngineError{Message: "start node does not exist: " + nodeID, Code: "NODE_NOT_FOUND"}
	}
	e.startNode = nodeID
	return nil
}

// Connect adds an edge. A nil predicate makes the edge unconditional; edges
// are evaluated in registration order and the first match wins, so register
// the unconditional fallback last.
func (e *Engine[S]) Connect(from, to string, predicate Predicate[S]) error {
	if from == "" {
		return &EngineError{Message: "from node ID cannot be empty"}
	}
	if to == "" {
		return &EngineError{Message: "to node ID cannot be empty"}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.edges = append(e.edges, Edge[S]{From: from, To: to, When: predicate})
	return nil
}

// Run executes the workflow from the start node until it completes, pauses,
// or fails.
func (e *Engine[S]) Run(ctx context.Context, runID string, initial S) (Outcome[S], error) {
	var zero Outcome[S]
	if err := e.validate(); err != nil {
		return zero, err
	}
	return e.loop(ctx, runID, e.startNode, 0, initial)
}

// Resume continues a suspended run from its pause record. The inject
// function (may be nil) applies the external decision to the snapshot state
// before the paused node re-executes. The pause record is kept, so calling
// Resume again replays from the same snapshot; with the same injection the
// outcome is the same.
func (e *Engine[S]) Resume(ctx context.Context, runID string, inject func(S) S) (Outcome[S], error) {
	var zero Outcome[S]
	if err := e.validate(); err != nil {
		return zero, err
	}

	rec, err := e.store.LoadPause(ctx, runID)
	if err != nil {
		return zero, &EngineError{
			Message: "no pause record for run: " + runID,
			Code:    "NOT_PAUSED",
			Cause:   ErrNotPaused,
		}
	}

	state := rec.State
	if inject != nil {
		state = inject(state)
	}

	e.emit(emit.Event{
		RunID:  runID,
		Step:   rec.Step,
		NodeID: rec.NodeID,
		Msg:    emit.EventRunResumed,
		Meta:   map[string]any{"reason": rec.Reason},
	})

	return e.loop(ctx, runID, rec.NodeID, rec.Step, state)
}

func (e *Engine[S]) validate() error {
	if e.reducer == nil {
		return &EngineError{Message: "reducer is required", Code: "MISSING_REDUCER"}
	}
	if e.store == nil {
		return &EngineError{Message: "store is required", Code: "MISSING_STORE"}
	}
	if e.startNode == "" {
		return &EngineError{Message: "start node not set (call StartAt before Run)", Code: "NO_START_NODE"}
	}
	return nil
}

// loop is the shared execution loop behind Run and Resume. step is the
// number of steps already completed; the first node executed here runs as
// step+1.
func (e *Engine[S]) loop(ctx context.Context, runID, startNode string, step int, state S) (Outcome[S], error) {
	var zero Outcome[S]

	e.opts.Metrics.RunStarted()
	defer e.opts.Metrics.RunFinished()

	current := startNode
	for {
		step++

		if e.opts.MaxSteps > 0 && step > e.opts.MaxSteps {
			return zero, &EngineError{
				Message: "workflow exceeded MaxSteps limit",
				Code:    "MAX_STEPS_EXCEEDED",
				Cause:   ErrMaxStepsExceeded,
			}
		}

		if err := ctx.Err(); err != nil {
			return zero, err
		}

		e.mu.RLock()
		node, exists := e.nodes[current]
		policy := e.policies[current]
		e.mu.RUnlock()

		if !exists {
			return zero, &EngineError{
				Message: "node not found during execution: " + current,
				Code:    "NODE_NOT_FOUND",
			}
		}

		e.emit(emit.Event{RunID: runID, Step: step, NodeID: current, Msg: emit.EventNodeStart})

		start := time.Now()
		result := e.executeNode(ctx, current, node, policy, state)
		latency := time.Since(start)

		if result.Err != nil {
			e.opts.Metrics.RecordStageLatency(current, latency, "error")
			e.emit(emit.Event{
				RunID:  runID,
				Step:   step,
				NodeID: current,
				Msg:    emit.EventNodeEnd,
				Meta:   map[string]any{"error": result.Err.Error()},
			})
			return zero, &NodeError{NodeID: current, Cause: result.Err}
		}

		if result.Pause != nil {
			return e.pause(ctx, runID, current, step, state, result.Pause, latency)
		}

		e.opts.Metrics.RecordStageLatency(current, latency, "success")

		state = e.reducer(state, result.Delta)

		if err := e.store.SaveStep(ctx, runID, step, current, state); err != nil {
			return zero, &EngineError{
				Message: "failed to save step: " + err.Error(),
				Code:    "STORE_ERROR",
				Cause:   err,
			}
		}

		e.emit(emit.Event{
			RunID:  runID,
			Step:   step,
			NodeID: current,
			Msg:    emit.EventNodeEnd,
			Meta:   map[string]any{"duration_ms": latency.Milliseconds()},
		})

		if result.Route.Terminal {
			e.emit(emit.Event{RunID: runID, Step: step, Msg: emit.EventRunCompleted})
			return Outcome[S]{State: state}, nil
		}

		if result.Route.To != "" {
			current = result.Route.To
			continue
		}

		next := e.evaluateEdges(current, state)
		if next == "" {
			return zero, &EngineError{
				Message: "no valid route from node: " + current,
				Code:    "NO_ROUTE",
				Cause:   ErrNoRoute,
			}
		}
		current = next
	}
}

// pause persists a snapshot of the pre-node state so the paused node
// re-executes on resume, then returns a pending outcome. step is the step
// the node was running as; the record stores step-1 completed steps.
func (e *Engine[S]) pause(ctx context.Context, runID, nodeID string, step int, state S, intr *Interrupt, latency time.Duration) (Outcome[S], error) {
	var zero Outcome[S]

	snapshot, err := deepCopy(state)
	if err != nil {
		return zero, &EngineError{
			Message: "failed to snapshot state for pause: " + err.Error(),
			Code:    "STATE_COPY_FAILED",
			Cause:   err,
		}
	}

	rec := store.PauseRecord[S]{
		RunID:     runID,
		NodeID:    nodeID,
		Step:      step - 1,
		Reason:    intr.Reason,
		Prompt:    intr.Prompt,
		State:     snapshot,
		CreatedAt: time.Now().UTC(),
	}
	if err := e.store.SavePause(ctx, rec); err != nil {
		return zero, &EngineError{
			Message: "failed to save pause record: " + err.Error(),
			Code:    "STORE_ERROR",
			Cause:   err,
		}
	}

	e.opts.Metrics.RecordStageLatency(nodeID, latency, "paused")
	e.opts.Metrics.IncrementPauses(nodeID)
	e.emit(emit.Event{
		RunID:  runID,
		Step:   step,
		NodeID: nodeID,
		Msg:    emit.EventRunPaused,
		Meta:   map[string]any{"reason": intr.Reason},
	})

	return Outcome[S]{
		State: state,
		Pending: &Pending{
			RunID:  runID,
			NodeID: nodeID,
			Step:   rec.Step,
			Reason: intr.Reason,
			Prompt: intr.Prompt,
		},
	}, nil
}

// executeNode runs one node under its timeout, re-running it per the node's
// retry policy when it errors.
func (e *Engine[S]) executeNode(ctx context.Context, nodeID string, node Node[S], policy NodePolicy, state S) NodeResult[S] {
	timeout := nodeTimeout(policy, e.opts.DefaultNodeTimeout)

	if policy.Retry == nil {
		return runWithTimeout(ctx, node, nodeID, state, timeout)
	}

	var result NodeResult[S]
	attempt := 0
	err := policy.Retry.Do(ctx, func(ctx context.Context) error {
		if attempt > 0 {
			e.opts.Metrics.IncrementRetries(nodeID, "error")
		}
		attempt++
		result = runWithTimeout(ctx, node, nodeID, state, timeout)
		return result.Err
	})
	result.Err = err
	return result
}

func (e *Engine[S]) evaluateEdges(fromNode string, state S) string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, edge := range e.edges {
		if edge.From != fromNode {
			continue
		}
		if edge.When == nil || edge.When(state) {
			return edge.To
		}
	}
	return ""
}

// SaveCheckpoint snapshots the latest persisted state of a run under a
// checkpoint ID for manual resumption or branching.
func (e *Engine[S]) SaveCheckpoint(ctx context.Context, runID, cpID string) error {
	state, step, err := e.store.LoadLatest(ctx, runID)
	if err != nil {
		return &EngineError{
			Message: "cannot create checkpoint: run state not found: " + err.Error(),
			Code:    "RUN_NOT_FOUND",
			Cause:   err,
		}
	}

	if err := e.store.SaveCheckpoint(ctx, cpID, state, step); err != nil {
		return &EngineError{
			Message: "failed to save checkpoint: " + err.Error(),
			Code:    "CHECKPOINT_SAVE_FAILED",
			Cause:   err,
		}
	}

	e.emit(emit.Event{
		RunID: runID,
		Step:  step,
		Msg:   emit.EventCheckpoint,
		Meta:  map[string]any{"checkpoint_id": cpID},
	})
	return nil
}

// RunFromCheckpoint starts a new run using a checkpoint's state as the
// initial state, entering at startNode.
func (e *Engine[S]) RunFromCheckpoint(ctx context.Context, cpID, newRunID, startNode string) (Outcome[S], error) {
	var zero Outcome[S]
	if err := e.validate(); err != nil {
		return zero, err
	}
	if startNode == "" {
		return zero, &EngineError{Message: "start node not specified for checkpoint run", Code: "NO_START_NODE"}
	}

	state, step, err := e.store.LoadCheckpoint(ctx, cpID)
	if err != nil {
		return zero, &EngineError{
			Message: "checkpoint not found: " + cpID,
			Code:    "CHECKPOINT_NOT_FOUND",
			Cause:   err,
		}
	}

	e.emit(emit.Event{
		RunID:  newRunID,
		NodeID: startNode,
		Msg:    emit.EventRunResumed,
		Meta:   map[string]any{"checkpoint_id": cpID, "checkpoint_step": step},
	})

	return e.loop(ctx, newRunID, startNode, 0, state)
}

func (e *Engine[S]) emit(event emit.Event) {
	if e.emitter != nil {
		e.emitter.Emit(event)
	}
}
