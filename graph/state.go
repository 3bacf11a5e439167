package graph

import (
	"encoding/json"
	"fmt"
)

// deepCopy copies state S via a JSON round trip. The state types used with
// the engine are plain data (exported fields, no channels or funcs), which is
// exactly what this handles. Pause records hold such copies so that later
// mutations of the live state cannot leak into persisted snapshots.
func deepCopy[S any](state S) (S, error) {
	var zero S

	data, err := json.Marshal(state)
	if err != nil {
		return zero, fmt.Errorf("marshal state: %w", err)
	}

	var copied S
	if err := json.Unmarshal(data, &copied); err != nil {
		return zero, fmt.Errorf("unmarshal state: %w", err)
	}

	return copied, nil
}
