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

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"
	"github.com/tmc/langchaingo/vectorstores/pinecone"
)

// VectorStore adapts a langchaingo vector store to Searcher and Indexer.
type VectorStore struct {
	store  vectorstores.VectorStore
	logger *slog.Logger
}

var (
	_ Searcher = (*VectorStore)(nil)
	_ Indexer  = (*VectorStore)(nil)
)

// NewVectorStore wraps store.
func NewVectorStore(store vectorstores.VectorStore) (*VectorStore, error) {
	if store == nil {
		return nil, ErrVectorStoreRequired
	}
	return &VectorStore{
		store:  store,
		logger: slog.Default().With("component", "vector-store"),
	}, nil
}

// PineconeConfig locates a Pinecone index.
type PineconeConfig struct {
	// Host is the index host, e.g. "my-index-abc123.svc.us-east-1.pinecone.io".
	Host      string
	APIKey    string
	Namespace string
}

// NewPinecone connects to a Pinecone index. Queries and documents are
// embedded with embedder.
func NewPinecone(cfg PineconeConfig, embedder embeddings.Embedder) (*VectorStore, error) {
	if cfg.Host == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("pinecone: host and api key are required")
	}

	opts := []pinecone.Option{
		pinecone.WithHost(cfg.Host),
		pinecone.WithAPIKey(cfg.APIKey),
		pinecone.WithEmbedder(embedder),
	}
	if cfg.Namespace != "" {
		opts = append(opts, pinecone.WithNameSpace(cfg.Namespace))
	}

	store, err := pinecone.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("pinecone: %w", err)
	}
	return NewVectorStore(store)
}

// SimilaritySearch returns the page content of the k nearest documents.
func (v *VectorStore) SimilaritySearch(ctx context.Context, query string, k int) ([]string, error) {
	if strings.TrimSpace(query) == "" || k <= 0 {
		return []string{}, nil
	}

	docs, err := v.store.SimilaritySearch(ctx, query, k)
	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(docs))
	for _, d := range docs {
		texts = append(texts, d.PageContent)
	}
	v.logger.Debug("similarity search", "query", query, "results", len(texts))
	return texts, nil
}

// AddTexts stores texts as documents; the store embeds them.
func (v *VectorStore) AddTexts(ctx context.Context, texts []string) error {
	if len(texts) == 0 {
		return nil
	}
	docs := make([]schema.Document, len(texts))
	for i, t := range texts {
		docs[i] = schema.Document{PageContent: t}
	}
	_, err := v.store.AddDocuments(ctx, docs)
	return err
}
