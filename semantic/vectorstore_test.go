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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"
)

type fakeStore struct {
	added []schema.Document
	err   error
	k     int
}

func (f *fakeStore) AddDocuments(ctx context.Context, docs []schema.Document, _ ...vectorstores.Option) ([]string, error) {
	f.added = append(f.added, docs...)
	ids := make([]string, len(docs))
	return ids, f.err
}

func (f *fakeStore) SimilaritySearch(ctx context.Context, query string, k int, _ ...vectorstores.Option) ([]schema.Document, error) {
	f.k = k
	if f.err != nil {
		return nil, f.err
	}
	if len(f.added) < k {
		k = len(f.added)
	}
	return f.added[:k], nil
}

func TestNewVectorStore_RequiresStore(t *testing.T) {
	_, err := NewVectorStore(nil)
	assert.ErrorIs(t, err, ErrVectorStoreRequired)
}

func TestVectorStore_RoundTrip(t *testing.T) {
	fake := &fakeStore{}
	store, err := NewVectorStore(fake)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.AddTexts(ctx, []string{"first", "second", "third"}))

	got, err := store.SimilaritySearch(ctx, "anything", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, got)
	assert.Equal(t, 2, fake.k)
}

func TestVectorStore_PropagatesErrors(t *testing.T) {
	fake := &fakeStore{err: errors.New("index unavailable")}
	store, err := NewVectorStore(fake)
	require.NoError(t, err)

	_, err = store.SimilaritySearch(context.Background(), "rates", 3)
	assert.ErrorContains(t, err, "index unavailable")
}

func TestNewPinecone_RequiresHostAndKey(t *testing.T) {
	_, err := NewPinecone(PineconeConfig{Host: "idx.example.io"}, nil)
	assert.Error(t, err)

	_, err = NewPinecone(PineconeConfig{APIKey: "k"}, nil)
	assert.Error(t, err)
}
