package ai

import "context"

// Embedder generates vector embeddings from text.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// EntityExtractor finds named entities in text.
// Implementations must be thread-safe for concurrent use.
type EntityExtractor interface {
	// ExtractEntities returns the entities mentioned in text in order of
	// first appearance. Returns an empty slice if none are found.
	ExtractEntities(ctx context.Context, text string) ([]Entity, error)
}

// Entity is a span of text tagged with an entity label.
type Entity struct {
	// Text is the entity as it appears in the input.
	Text string `json:"text"`

	// Label is one of the values in EntityLabels, e.g. LabelOrganization.
	Label string `json:"label"`
}

// Generator produces free text from a system instruction and a user message.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Generate performs a single blocking completion call.
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// EntityExtractor returns the named entity recognition service.
	EntityExtractor() EntityExtractor

	// Generator returns the answer generation service.
	Generator() Generator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
