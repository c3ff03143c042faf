package storage

import (
	"context"

	"github.com/poiesic/marketscout/core"
)

// TrendRepository persists search-trend series keyed by ticker or query.
// Writes are atomic per key.
type TrendRepository interface {
	// GetTrend retrieves the entry stored under key.
	// Returns ErrNotFound if nothing is stored.
	GetTrend(ctx context.Context, key string) (*core.TrendEntry, error)

	// PutTrend stores entry under entry.Key, replacing any previous value.
	// Sets FetchedAt if it is zero.
	PutTrend(ctx context.Context, entry *core.TrendEntry) error

	// Close releases resources held by the repository.
	Close() error
}

// DocumentRepository stores embedded corpus documents.
type DocumentRepository interface {
	// AddDocuments stores documents. IDs are derived from the text, so adding
	// the same text twice overwrites the earlier copy.
	// Sets InsertedAt if not already set.
	AddDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error)

	// GetDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)

	// CountDocuments returns the number of stored documents.
	CountDocuments(ctx context.Context) (int, error)

	// FindSimilar finds documents whose vectors are similar to the given vector.
	// Vectors are expected to be unit length, so the dot product is the cosine
	// similarity. Results are ordered by score, highest first.
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.DocumentMatch, error)

	// Close releases resources held by the repository.
	Close() error
}
