package mock

import (
	"context"
	"sync"
)

// MockResponder is a test double for ai.Responder.
type MockResponder struct {
	// RespondFunc is called by Respond if set.
	// If nil, Respond returns Reply.
	RespondFunc func(ctx context.Context, prompt string) (string, error)

	// Reply is the canned answer used when RespondFunc is nil.
	Reply string

	mu      sync.Mutex
	prompts []string
}

// NewMockResponder creates a responder that always answers with reply.
func NewMockResponder(reply string) *MockResponder {
	return &MockResponder{Reply: reply}
}

// Respond records prompt and returns the injected or canned reply.
func (m *MockResponder) Respond(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	fn := m.RespondFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, prompt)
	}
	return m.Reply, nil
}

// CallCount returns the number of Respond calls.
func (m *MockResponder) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// Prompts returns a copy of every prompt received, oldest first.
func (m *MockResponder) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

// Reset clears recorded prompts and injected behavior.
func (m *MockResponder) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = nil
	m.RespondFunc = nil
}
