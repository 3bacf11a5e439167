package emit

// Emitter receives observability events from workflow execution.
//
// Implementations must be safe for concurrent use, must not block the
// execution loop, and must not panic; backend failures are swallowed or
// logged internally.
type Emitter interface {
	Emit(event Event)
}
