package emit

// NullEmitter discards all events. Use it when observability output is not
// wanted; it has zero overhead and is safe for concurrent use.
type NullEmitter struct{}

// NewNullEmitter creates a NullEmitter.
func NewNullEmitter() *NullEmitter {
	return &NullEmitter{}
}

// Emit discards the event.
func (n *NullEmitter) Emit(Event) {}
