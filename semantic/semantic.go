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
	"errors"
)

// ErrDocumentRepositoryRequired is returned when a LocalStore has no repository.
var ErrDocumentRepositoryRequired = errors.New("document repository required")

// ErrEmbedderRequired is returned when a LocalStore has no embedder.
var ErrEmbedderRequired = errors.New("embedder required")

// ErrVectorStoreRequired is returned when a VectorStore wraps nothing.
var ErrVectorStoreRequired = errors.New("vector store required")

// Searcher retrieves the k passages closest in meaning to query, best first.
type Searcher interface {
	SimilaritySearch(ctx context.Context, query string, k int) ([]string, error)
}

// Indexer embeds and stores passages so a Searcher can find them.
type Indexer interface {
	AddTexts(ctx context.Context, texts []string) error
}
