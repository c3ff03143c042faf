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
	"errors"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/marketscout/core"
	"github.com/poiesic/marketscout/storage"
)

// TrendRepository implements storage.TrendRepository for BadgerDB.
type TrendRepository struct {
	backend *Backend
	// writes are rare; a single writer avoids transaction conflicts when
	// concurrent misses populate different keys
	mu sync.Mutex
}

var _ storage.TrendRepository = (*TrendRepository)(nil)

// NewTrendRepository creates a new TrendRepository.
func NewTrendRepository(backend *Backend) *TrendRepository {
	return &TrendRepository{backend: backend}
}

// GetTrend retrieves the entry stored under key.
func (r *TrendRepository) GetTrend(ctx context.Context, key string) (*core.TrendEntry, error) {
	var entry *core.TrendEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeTrendKey(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}

		return item.Value(func(val []byte) error {
			var unmarshalErr error
			entry, unmarshalErr = storage.UnmarshalTrendEntry(val)
			return unmarshalErr
		})
	}, false)

	return entry, err
}

// PutTrend stores entry, replacing any previous value for its key.
func (r *TrendRepository) PutTrend(ctx context.Context, entry *core.TrendEntry) error {
	if entry.Key == "" {
		return storage.ErrEmptyKey
	}
	if entry.FetchedAt.IsZero() {
		entry.FetchedAt = time.Now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeTrendKey(entry.Key), storage.MarshalTrendEntry(entry)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Close is a no-op; the backend is closed by its owner.
func (r *TrendRepository) Close() error {
	return nil
}
