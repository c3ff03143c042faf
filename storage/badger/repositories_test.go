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

package badger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/marketscout/core"
	"github.com/poiesic/marketscout/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrendRepository(t *testing.T) {
	trends, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := trends.GetTrend(ctx, "NVDA")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("put then get", func(t *testing.T) {
		entry := &core.TrendEntry{Key: "NVDA", Observations: []string{"NVDA: 42"}}
		require.NoError(t, trends.PutTrend(ctx, entry))
		assert.False(t, entry.FetchedAt.IsZero())

		got, err := trends.GetTrend(ctx, "NVDA")
		require.NoError(t, err)
		assert.Equal(t, []string{"NVDA: 42"}, got.Observations)
		assert.WithinDuration(t, entry.FetchedAt, got.FetchedAt, time.Millisecond)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, trends.PutTrend(ctx, &core.TrendEntry{Key: "NVDA", Observations: []string{"NVDA: 50"}}))
		got, err := trends.GetTrend(ctx, "NVDA")
		require.NoError(t, err)
		assert.Equal(t, []string{"NVDA: 50"}, got.Observations)
	})

	t.Run("empty key", func(t *testing.T) {
		assert.ErrorIs(t, trends.PutTrend(ctx, &core.TrendEntry{}), storage.ErrEmptyKey)
	})

	t.Run("concurrent writers", func(t *testing.T) {
		keys := []string{"AAPL", "MSFT", "TSLA", "AMZN", "GOOGL"}
		var wg sync.WaitGroup
		for _, k := range keys {
			wg.Add(1)
			go func(k string) {
				defer wg.Done()
				assert.NoError(t, trends.PutTrend(ctx, &core.TrendEntry{Key: k, Observations: []string{k + ": 1"}}))
			}(k)
		}
		wg.Wait()

		for _, k := range keys {
			got, err := trends.GetTrend(ctx, k)
			require.NoError(t, err)
			assert.Equal(t, []string{k + ": 1"}, got.Observations)
		}
	})
}

func TestTrendRepository_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	backend, err := OpenBackend(dir, false)
	require.NoError(t, err)
	require.NoError(t, NewTrendRepository(backend).PutTrend(ctx, &core.TrendEntry{Key: "TCS.NS", Observations: []string{"TCS.NS: 12"}}))
	require.NoError(t, backend.Close())

	backend, err = OpenBackend(dir, false)
	require.NoError(t, err)
	defer backend.Close()

	got, err := NewTrendRepository(backend).GetTrend(ctx, "TCS.NS")
	require.NoError(t, err)
	assert.Equal(t, []string{"TCS.NS: 12"}, got.Observations)
}

func TestDocumentRepository(t *testing.T) {
	_, docs, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()
	ctx := context.Background()

	added, err := docs.AddDocuments(ctx,
		&core.Document{Text: "NVIDIA is a leader in AI computing and GPUs.", Vector: []float32{1, 0}},
		&core.Document{Text: "Amazon dominates e-commerce and cloud computing with AWS.", Vector: []float32{0, 1}},
	)
	require.NoError(t, err)
	require.Len(t, added, 2)
	assert.Equal(t, core.IDFromContent(added[0].Text), added[0].Id)
	assert.False(t, added[0].InsertedAt.IsZero())

	count, err := docs.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// re-adding identical text does not duplicate
	_, err = docs.AddDocuments(ctx, &core.Document{Text: "NVIDIA is a leader in AI computing and GPUs.", Vector: []float32{1, 0}})
	require.NoError(t, err)
	count, err = docs.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	got, err := docs.GetDocument(ctx, added[1].Id)
	require.NoError(t, err)
	assert.Equal(t, added[1].Text, got.Text)

	_, err = docs.GetDocument(ctx, core.ID(12345))
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = docs.AddDocuments(ctx, &core.Document{Text: ""})
	assert.ErrorIs(t, err, core.ErrEmptyDocument)

	matches, err := docs.FindSimilar(ctx, []float32{0, 1}, 0.5, 5)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Contains(t, matches[0].Document.Text, "Amazon")
}
