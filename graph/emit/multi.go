package emit

// MultiEmitter fans each event out to several emitters, e.g. a log emitter
// for the console and an OTel emitter for traces.
type MultiEmitter struct {
	emitters []Emitter
}

// Multi combines emitters into one. Nil entries are skipped.
func Multi(emitters ...Emitter) *MultiEmitter {
	out := make([]Emitter, 0, len(emitters))
	for _, e := range emitters {
		if e != nil {
			out = append(out, e)
		}
	}
	return &MultiEmitter{emitters: out}
}

// Emit forwards the event to every emitter in order.
func (m *MultiEmitter) Emit(event Event) {
	for _, e := range m.emitters {
		e.Emit(event)
	}
}
