package trendsapi

import (
	"context"
	"sync"

	"github.com/poiesic/marketscout/core"
	"github.com/poiesic/marketscout/storage"
)

type memRepo struct {
	mu      sync.Mutex
	entries map[string]*core.TrendEntry
}

func (m *memRepo) GetTrend(ctx context.Context, key string) (*core.TrendEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[key]; ok {
		return e, nil
	}
	return nil, storage.ErrNotFound
}

func (m *memRepo) PutTrend(ctx context.Context, entry *core.TrendEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		m.entries = map[string]*core.TrendEntry{}
	}
	m.entries[entry.Key] = entry
	return nil
}

func (m *memRepo) Close() error { return nil }
