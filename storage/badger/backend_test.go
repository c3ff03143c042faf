package badger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/marketscout/core"
	"github.com/poiesic/marketscout/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	backend, err := OpenBackend(dir, false)
	require.NoError(t, err)
	defer backend.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOpenBackend_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := OpenBackend(file, false)
	assert.ErrorContains(t, err, "is not a directory")
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)

	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())

	_, err = NewTrendRepository(backend).GetTrend(context.Background(), "NVDA")
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestFindSimilar_NoRecords(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	results, err := backend.FindSimilar(context.Background(), []float32{0.1, 0.2, 0.3}, 0.5, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFindSimilar_WithRecords(t *testing.T) {
	_, docs, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	_, err = docs.AddDocuments(ctx,
		&core.Document{Text: "High similarity", Vector: []float32{1.0, 0.0, 0.0}},
		&core.Document{Text: "Medium similarity", Vector: []float32{0.7, 0.3, 0.0}},
		&core.Document{Text: "Low similarity", Vector: []float32{0.3, 0.7, 0.0}},
		&core.Document{Text: "No vector"},
	)
	require.NoError(t, err)

	query := []float32{1.0, 0.0, 0.0}

	t.Run("ordered by score", func(t *testing.T) {
		results, err := backend.FindSimilar(ctx, query, 0.0, 10)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "High similarity", results[0].Document.Text)
		assert.Equal(t, "Medium similarity", results[1].Document.Text)
		assert.Equal(t, "Low similarity", results[2].Document.Text)
	})

	t.Run("threshold", func(t *testing.T) {
		results, err := backend.FindSimilar(ctx, query, 0.6, 10)
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("limit", func(t *testing.T) {
		results, err := backend.FindSimilar(ctx, query, 0.0, 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "High similarity", results[0].Document.Text)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := backend.FindSimilar(cctx, query, 0.0, 10)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
