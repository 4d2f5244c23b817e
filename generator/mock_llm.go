package generator

import (
	"context"
	"sync"
)

// MockLLM is an in-process stand-in for the gateway, used for local runs
// without an API key and for tests that need deterministic responses or call
// counting. Responses are served in order; the last one repeats once the
// script runs out.
type MockLLM struct {
	mu        sync.Mutex
	Responses []string
	Err       error

	// Gate, when non-nil, blocks each Complete call until the channel yields.
	// Tests use it to hold a section in-flight.
	Gate chan struct{}

	calls   int
	prompts []Prompt
}

func (m *MockLLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	m.mu.Lock()
	m.calls++
	m.prompts = append(m.prompts, prompt)
	resp := ""
	if n := len(m.Responses); n > 0 {
		i := m.calls - 1
		if i >= n {
			i = n - 1
		}
		resp = m.Responses[i]
	}
	err := m.Err
	gate := m.Gate
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err != nil {
		return "", err
	}
	return resp, nil
}

// Calls reports how many Complete invocations have been made.
func (m *MockLLM) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Prompts returns a copy of every prompt received so far.
func (m *MockLLM) Prompts() []Prompt {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Prompt, len(m.prompts))
	copy(out, m.prompts)
	return out
}
