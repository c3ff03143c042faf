package evidence

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/poiesic/marketscout/core"
	"github.com/poiesic/marketscout/resolve"
)

type countingResolver struct {
	inner *resolve.Resolver
	calls atomic.Int64
	texts []string
	mu    sync.Mutex
}

func (r *countingResolver) Resolve(ctx context.Context, text string) resolve.Resolution {
	r.calls.Add(1)
	r.mu.Lock()
	r.texts = append(r.texts, text)
	r.mu.Unlock()
	return r.inner.Resolve(ctx, text)
}

type fakeDocs struct {
	FuseFunc func(ctx context.Context, query string, k int) []string
	calls    atomic.Int64
	query    atomic.Value
}

func (f *fakeDocs) Fuse(ctx context.Context, query string, k int) []string {
	f.calls.Add(1)
	f.query.Store(query)
	if f.FuseFunc != nil {
		return f.FuseFunc(ctx, query, k)
	}
	return []string{"NVIDIA is a leader in AI computing and GPUs."}
}

type fakeNews struct {
	FetchFunc func(ctx context.Context, query string, topics ...string) []string
	calls     atomic.Int64
	mu        sync.Mutex
	topics    []string
}

func (f *fakeNews) Fetch(ctx context.Context, query string, topics ...string) []string {
	f.calls.Add(1)
	f.mu.Lock()
	f.topics = topics
	f.mu.Unlock()
	if f.FetchFunc != nil {
		return f.FetchFunc(ctx, query, topics...)
	}
	return []string{"Nvidia beats estimates", "⚠️ Not enough nvidia-specific news."}
}

type fakeTrends struct {
	GetFunc func(ctx context.Context, key string) []string
	calls   atomic.Int64
	key     atomic.Value
}

func (f *fakeTrends) Get(ctx context.Context, key string) []string {
	f.calls.Add(1)
	f.key.Store(key)
	if f.GetFunc != nil {
		return f.GetFunc(ctx, key)
	}
	return []string{key + ": 42"}
}

type fakeQuotes struct {
	SnapshotFunc func(ctx context.Context, symbol string) core.Quote
	calls        atomic.Int64
}

func (f *fakeQuotes) Snapshot(ctx context.Context, symbol string) core.Quote {
	f.calls.Add(1)
	if f.SnapshotFunc != nil {
		return f.SnapshotFunc(ctx, symbol)
	}
	return core.Quote{Fields: []core.QuoteField{{Key: "symbol", Value: symbol}, {Key: "price", Value: "120.5"}}}
}

type fakeNames map[string]string

func (f fakeNames) CompanyName(ctx context.Context, symbol string) string {
	return f[symbol]
}
