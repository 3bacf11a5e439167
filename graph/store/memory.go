package store

import (
	"context"
	"sync"
)

type memStep[S any] struct {
	step   int
	nodeID string
	state  S
}

// MemStore is an in-memory Store for tests and single-process use.
type MemStore[S any] struct {
	mu          sync.RWMutex
	steps       map[string][]memStep[S]
	pauses      map[string]PauseRecord[S]
	checkpoints map[string]memStep[S]
}

// NewMemStore creates an empty in-memory store.
func NewMemStore[S any]() *MemStore[S] {
	return &MemStore[S]{
		steps:       make(map[string][]memStep[S]),
		pauses:      make(map[string]PauseRecord[S]),
		checkpoints: make(map[string]memStep[S]),
	}
}

func (m *MemStore[S]) SaveStep(_ context.Context, runID string, step int, nodeID string, state S) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memStep[S]{step: step, nodeID: nodeID, state: state}
	for i, s := range m.steps[runID] {
		if s.step == step {
			m.steps[runID][i] = entry
			return nil
		}
	}
	m.steps[runID] = append(m.steps[runID], entry)
	return nil
}

func (m *MemStore[S]) LoadLatest(_ context.Context, runID string) (S, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var zero S
	steps := m.steps[runID]
	if len(steps) == 0 {
		return zero, 0, ErrNotFound
	}

	latest := steps[0]
	for _, s := range steps[1:] {
		if s.step > latest.step {
			latest = s
		}
	}
	return latest.state, latest.step, nil
}

// StepCount reports how many steps are recorded for a run.
func (m *MemStore[S]) StepCount(runID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.steps[runID])
}

func (m *MemStore[S]) SavePause(_ context.Context, rec PauseRecord[S]) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauses[rec.RunID] = rec
	return nil
}

func (m *MemStore[S]) LoadPause(_ context.Context, runID string) (PauseRecord[S], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.pauses[runID]
	if !ok {
		return PauseRecord[S]{}, ErrNotFound
	}
	return rec, nil
}

func (m *MemStore[S]) SaveCheckpoint(_ context.Context, cpID string, state S, step int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkpoints[cpID] = memStep[S]{step: step, state: state}
	return nil
}

func (m *MemStore[S]) LoadCheckpoint(_ context.Context, cpID string) (S, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var zero S
	cp, ok := m.checkpoints[cpID]
	if !ok {
		return zero, 0, ErrNotFound
	}
	return cp.state, cp.step, nil
}
