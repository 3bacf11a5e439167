package graph

import "context"

// Node is a processing stage in the workflow graph. It receives the current
// state, performs its work, and returns a NodeResult describing the state
// delta, the routing decision, and optionally a suspension request.
//
// Type parameter S is the state type shared across the workflow.
type Node[S any] interface {
	Run(ctx context.Context, state S) NodeResult[S]
}

// NodeResult is the output of a node execution.
type NodeResult[S any] struct {
	// Delta is the partial state update produced by this node. It is merged
	// into the current state by the engine's reducer.
	Delta S

	// Route is the next hop. Use Stop() for terminal nodes, Goto(id) for
	// explicit routing, or leave zero to fall back to edge evaluation.
	Route Next

	// Pause, when non-nil, suspends the run at this node. The engine
	// persists a pause record and returns a pending outcome instead of
	// continuing. Delta and Route are ignored while pausing.
	Pause *Interrupt

	// Err halts the workflow. The engine wraps it in a NodeError carrying
	// the node ID.
	Err error
}

// Interrupt describes why a node suspended the run and what the outside
// caller is being asked for.
type Interrupt struct {
	// Reason is a short machine-readable tag, e.g. "human_review".
	Reason string

	// Prompt carries the data the caller needs to act, e.g. the risk level
	// and the set of accepted decisions.
	Prompt map[string]any
}

// Next specifies where execution goes after a node completes.
type Next struct {
	// To is the next node to execute. Empty means fall back to edges.
	To string

	// Terminal stops the workflow.
	Terminal bool
}

// Stop returns a Next that terminates workflow execution.
func Stop() Next {
	return Next{Terminal: true}
}

// Goto returns a Next that routes to the specified node.
func Goto(nodeID string) Next {
	return Next{To: nodeID}
}

// NodeFunc adapts a plain function to the Node interface.
type NodeFunc[S any] func(ctx context.Context, state S) NodeResult[S]

// Run implements Node.
func (f NodeFunc[S]) Run(ctx context.Context, state S) NodeResult[S] {
	return f(ctx, state)
}
