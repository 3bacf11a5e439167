package graph

// Edge is a possible transition between two nodes.
//
// Edges can be unconditional (When = nil, always traverse) or conditional
// (traverse only when the predicate returns true). Explicit routing via
// NodeResult.Route takes precedence over edges. At runtime the engine
// evaluates a node's outgoing edges in registration order and follows the
// first match, so an unconditional edge registered last acts as the default.
type Edge[S any] struct {
	From string
	To   string
	When Predicate[S]
}

// Predicate evaluates state to decide whether an edge is traversed. It must
// be a pure function of the state.
type Predicate[S any] func(state S) bool
