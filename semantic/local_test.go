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
	"testing"

	"github.com/poiesic/marketscout/ai/mock"
	"github.com/poiesic/marketscout/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocalStore(t *testing.T) (*LocalStore, *mock.MockEmbedder) {
	t.Helper()
	_, docs, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	embedder := mock.NewMockEmbedder()
	embedder.Dimensions = 32
	store, err := NewLocalStore(docs, embedder)
	require.NoError(t, err)
	return store, embedder
}

func TestNewLocalStore_RequiresDependencies(t *testing.T) {
	_, err := NewLocalStore(nil, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrDocumentRepositoryRequired)

	_, docs, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	_, err = NewLocalStore(docs, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestLocalStore_ExactTextRanksFirst(t *testing.T) {
	store, _ := newTestLocalStore(t)
	ctx := context.Background()

	texts := []string{
		"Stock prices fluctuate based on supply and demand.",
		"The Federal Reserve controls interest rates in the US.",
		"Inflation impacts purchasing power and economic growth.",
	}
	require.NoError(t, store.AddTexts(ctx, texts))

	got, err := store.SimilaritySearch(ctx, texts[1], 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, texts[1], got[0])
}

func TestLocalStore_LimitsResults(t *testing.T) {
	store, _ := newTestLocalStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddTexts(ctx, []string{"a one", "b two", "c three"}))

	got, err := store.SimilaritySearch(ctx, "a one", 10)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = store.SimilaritySearch(ctx, "a one", 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestLocalStore_EmptyQuery(t *testing.T) {
	store, embedder := newTestLocalStore(t)

	got, err := store.SimilaritySearch(context.Background(), "   ", 3)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 0, embedder.CallCount())
}

func TestLocalStore_EmbedFailure(t *testing.T) {
	store, embedder := newTestLocalStore(t)
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("embedding service down")
	}

	_, err := store.SimilaritySearch(context.Background(), "rates", 3)
	assert.ErrorContains(t, err, "embedding service down")
}

func TestLocalStore_AddTextsVectorMismatch(t *testing.T) {
	store, embedder := newTestLocalStore(t)
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{1, 0}}, nil
	}

	err := store.AddTexts(context.Background(), []string{"one", "two"})
	assert.Error(t, err)
}
