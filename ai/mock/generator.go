package mock

import (
	"context"
	"sync"
	"sync/atomic"
)

// DefaultAnswer is what MockGenerator returns when no GenerateFunc is set.
const DefaultAnswer = "mock answer"

// MockGenerator is a test double for ai.Generator.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	GenerateFunc func(ctx context.Context, system, prompt string) (string, error)

	callCount atomic.Int64

	mu         sync.Mutex
	lastSystem string
	lastPrompt string
}

// NewMockGenerator creates a mock generator returning DefaultAnswer.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate records the request and returns the configured answer.
func (m *MockGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	m.callCount.Add(1)
	m.mu.Lock()
	m.lastSystem, m.lastPrompt = system, prompt
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, system, prompt)
	}
	return DefaultAnswer, nil
}

// LastRequest returns the system instruction and prompt of the most recent call.
func (m *MockGenerator) LastRequest() (system, prompt string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSystem, m.lastPrompt
}

// CallCount returns the number of times Generate was called.
func (m *MockGenerator) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count, recorded request and custom functions.
func (m *MockGenerator) Reset() {
	m.callCount.Store(0)
	m.mu.Lock()
	m.lastSystem, m.lastPrompt = "", ""
	m.mu.Unlock()
	m.GenerateFunc = nil
}
