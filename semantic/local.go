// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package semantic

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/marketscout/ai"
	"github.com/poiesic/marketscout/core"
	"github.com/poiesic/marketscout/storage"
)

// LocalStore is a Searcher over embedded documents in a DocumentRepository.
type LocalStore struct {
	docs          storage.DocumentRepository
	embedder      ai.Embedder
	minSimilarity float32
	logger        *slog.Logger
}

var (
	_ Searcher = (*LocalStore)(nil)
	_ Indexer  = (*LocalStore)(nil)
)

// LocalOption configures a LocalStore.
type LocalOption func(*LocalStore)

// WithMinSimilarity drops matches scoring below min. Default: 0 (keep all
// non-negative matches).
func WithMinSimilarity(min float32) LocalOption {
	return func(s *LocalStore) {
		s.minSimilarity = min
	}
}

// WithLocalLogger sets a custom logger.
func WithLocalLogger(logger *slog.Logger) LocalOption {
	return func(s *LocalStore) {
		s.logger = logger
	}
}

// NewLocalStore creates a LocalStore.
func NewLocalStore(docs storage.DocumentRepository, embedder ai.Embedder, opts ...LocalOption) (*LocalStore, error) {
	if docs == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	s := &LocalStore{
		docs:     docs,
		embedder: embedder,
		logger:   slog.Default().With("component", "local-vector-store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SimilaritySearch embeds query and returns the k most similar document texts.
func (s *LocalStore) SimilaritySearch(ctx context.Context, query string, k int) ([]string, error) {
	if strings.TrimSpace(query) == "" || k <= 0 {
		return []string{}, nil
	}

	vector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	matches, err := s.docs.FindSimilar(ctx, NormalizeVector(vector), s.minSimilarity, k)
	if err != nil {
		return nil, fmt.Errorf("find similar: %w", err)
	}

	texts := make([]string, len(matches))
	for i, m := range matches {
		texts[i] = m.Document.Text
	}
	s.logger.Debug("similarity search", "query", query, "results", len(texts))
	return texts, nil
}

// AddTexts embeds texts in one batch and stores them.
func (s *LocalStore) AddTexts(ctx context.Context, texts []string) error {
	if len(texts) == 0 {
		return nil
	}

	vectors, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed documents: %w", err)
	}
	if len(vectors) != len(texts) {
		return fmt.Errorf("embedder returned %d vectors for %d documents", len(vectors), len(texts))
	}

	docs := make([]*core.Document, len(texts))
	for i, text := range texts {
		docs[i] = &core.Document{Text: text, Vector: NormalizeVector(vectors[i])}
	}
	if _, err := s.docs.AddDocuments(ctx, docs...); err != nil {
		return fmt.Errorf("store documents: %w", err)
	}
	return nil
}
