package mock

import (
	"context"
	"sync/atomic"

	"github.com/poiesic/marketscout/ai"
)

// MockEntityExtractor is a test double for ai.EntityExtractor.
type MockEntityExtractor struct {
	// ExtractEntitiesFunc is called by ExtractEntities if set.
	// If nil, no entities are returned.
	ExtractEntitiesFunc func(ctx context.Context, text string) ([]ai.Entity, error)

	callCount atomic.Int64
}

// NewMockEntityExtractor creates a mock extractor that finds nothing.
func NewMockEntityExtractor() *MockEntityExtractor {
	return &MockEntityExtractor{}
}

// ExtractEntities returns the configured entities.
func (m *MockEntityExtractor) ExtractEntities(ctx context.Context, text string) ([]ai.Entity, error) {
	m.callCount.Add(1)

	if m.ExtractEntitiesFunc != nil {
		return m.ExtractEntitiesFunc(ctx, text)
	}
	return []ai.Entity{}, nil
}

// CallCount returns the number of times ExtractEntities was called.
func (m *MockEntityExtractor) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and custom functions.
func (m *MockEntityExtractor) Reset() {
	m.callCount.Store(0)
	m.ExtractEntitiesFunc = nil
}
