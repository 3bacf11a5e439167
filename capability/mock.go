package capability

import (
	"context"
	"sync"
)

// MockCompleter is a scripted Completer for tests. Responses are returned in
// order; the last one repeats once the script runs out. A non-nil Err is
// returned for the first ErrCalls invocations (ErrCalls <= 0 means every
// call).
type MockCompleter struct {
	mu        sync.Mutex
	Responses []string
	Err       error
	ErrCalls  int
	calls     []string
	errCount  int
	next      int
}

func (m *MockCompleter) CompleteJSON(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, prompt)
	if m.Err != nil && (m.ErrCalls <= 0 || m.errCount < m.ErrCalls) {
		m.errCount++
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "", ErrEmptyResponse
	}
	resp := m.Responses[m.next]
	if m.next < len(m.Responses)-1 {
		m.next++
	}
	return resp, nil
}

// CallCount reports how many completions were requested.
func (m *MockCompleter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Calls returns a copy of the prompts seen so far.
func (m *MockCompleter) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// Reset clears call history, error state, and the response cursor.
func (m *MockCompleter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.errCount = 0
	m.next = 0
}

// MockNewsSearcher returns fixed articles, or Err when set.
type MockNewsSearcher struct {
	mu       sync.Mutex
	Articles []Article
	Err      error
	queries  []string
}

func (m *MockNewsSearcher) SearchNews(_ context.Context, query string) ([]Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, query)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Articles, nil
}

// CallCount reports how many searches were made.
func (m *MockNewsSearcher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queries)
}

// MockFactChecker returns fixed fact checks, or Err when set.
type MockFactChecker struct {
	mu      sync.Mutex
	Checks  []FactCheck
	Err     error
	queries []string
}

func (m *MockFactChecker) SearchFactChecks(_ context.Context, query string) ([]FactCheck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, query)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Checks, nil
}

// CallCount reports how many searches were made.
func (m *MockFactChecker) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queries)
}
