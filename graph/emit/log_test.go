package emit

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLogEmitterText(t *testing.T) {
	var buf bytes.Buffer
	em := NewLogEmitter(&buf, false)

	em.Emit(Event{RunID: "run-001", Step: 1, NodeID: "content_analysis", Msg: EventNodeStart})

	got := buf.String()
	want := "[node_start] runID=run-001 step=1 nodeID=content_analysis\n"
	if got != want {
		t.Errorf("text output = %q, want %q", got, want)
	}
}

func TestLogEmitterTextIncludesMeta(t *testing.T) {
	var buf bytes.Buffer
	em := NewLogEmitter(&buf, false)

	em.Emit(Event{
		RunID:  "run-001",
		Step:   2,
		NodeID: "human_review",
		Msg:    EventRunPaused,
		Meta:   map[string]any{"reason": "human_review"},
	})

	got := buf.String()
	if !strings.HasPrefix(got, "[run_paused] runID=run-001 step=2 nodeID=human_review meta=") {
		t.Errorf("unexpected prefix: %q", got)
	}
	if !strings.Contains(got, `"reason":"human_review"`) {
		t.Errorf("meta missing from output: %q", got)
	}
}

func TestLogEmitterJSON(t *testing.T) {
	var buf bytes.Buffer
	em := NewLogEmitter(&buf, true)

	em.Emit(Event{
		RunID:  "run-001",
		Step:   3,
		NodeID: "generate_report",
		Msg:    EventNodeEnd,
		Meta:   map[string]any{"duration_ms": 12},
	})

	line := strings.TrimSuffix(buf.String(), "\n")
	var decoded struct {
		RunID  string         `json:"runID"`
		Step   int            `json:"step"`
		NodeID string         `json:"nodeID"`
		Msg    string         `json:"msg"`
		Meta   map[string]any `json:"meta"`
	}
	if err := json.Unmarshal([]byte(line), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v (line %q)", err, line)
	}
	if decoded.RunID != "run-001" || decoded.Step != 3 || decoded.NodeID != "generate_report" {
		t.Errorf("decoded = %+v", decoded)
	}
	if decoded.Msg != EventNodeEnd {
		t.Errorf("msg = %q, want %q", decoded.Msg, EventNodeEnd)
	}
	if decoded.Meta["duration_ms"] != float64(12) {
		t.Errorf("meta = %v", decoded.Meta)
	}
}

func TestLogEmitterJSONOneLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	em := NewLogEmitter(&buf, true)

	em.Emit(Event{RunID: "r", Step: 1, Msg: EventNodeStart})
	em.Emit(Event{RunID: "r", Step: 1, Msg: EventNodeEnd})

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	for _, line := range lines {
		if !json.Valid([]byte(line)) {
			t.Errorf("line is not valid JSON: %q", line)
		}
	}
}
