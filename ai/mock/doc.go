// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.EntityExtractor,
// ai.Generator and ai.AIProvider for use in unit tests. The mocks support
// custom behavior injection via function fields and track call counts.
//
// # Usage
//
//	mockGen := mock.NewMockGenerator()
//	mockGen.GenerateFunc = func(ctx context.Context, system, prompt string) (string, error) {
//	    return "", errors.New("quota exceeded")
//	}
//
//	// Check call counts
//	count := mockGen.CallCount()
//
// # Default Behavior
//
//   - MockEmbedder: Returns deterministic unit vectors based on text hash
//   - MockEntityExtractor: Returns no entities
//   - MockGenerator: Returns a fixed answer and records the last prompt
//   - MockProvider: Aggregates the three mocks above
//
// All mocks are safe for concurrent use.
package mock
