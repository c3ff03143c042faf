package resolve

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/poiesic/marketscout/ai"
	"github.com/poiesic/marketscout/ai/mock"
	"github.com/poiesic/marketscout/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLookup struct {
	results map[string]core.LookupResult
	calls   atomic.Int64
	symbols []string
}

func (f *fakeLookup) Lookup(ctx context.Context, symbol string) core.LookupResult {
	f.calls.Add(1)
	f.symbols = append(f.symbols, symbol)
	if res, ok := f.results[symbol]; ok {
		return res
	}
	return core.NotFound()
}

func TestResolve_CuratedCompanies(t *testing.T) {
	r := NewResolver()
	ctx := context.Background()

	tests := []struct {
		text    string
		symbol  string
		country string
	}{
		{"Tell me about NVIDIA stock", "NVDA", "US"},
		{"Market details for Tesla", "TSLA", "US"},
		{"Stock price of Infosys", "INFY.NS", "IN"},
		{"How is Toyota performing?", "TM", "JP"},
		{"Latest on Tata Consultancy Services", "TCS.NS", "IN"},
		{"samsung chip demand", "005930.KQ", "KR"},
		{"Is Vodafone a buy?", "VOD.L", "UK"},
		{"alphabet cloud revenue", "GOOGL", "US"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			res := r.Resolve(ctx, tt.text)
			require.True(t, res.Resolved())
			assert.Equal(t, SourceCurated, res.Source)
			assert.Equal(t, tt.symbol, res.Record.Symbol)
			assert.Equal(t, tt.country, res.Record.Country)
		})
	}
}

func TestResolve_FuzzyMisspelling(t *testing.T) {
	r := NewResolver()

	res := r.Resolve(context.Background(), "nvidea")
	require.True(t, res.Resolved())
	assert.Equal(t, "nvidia", res.Candidate)
	assert.Equal(t, "NVDA", res.Record.Symbol)
}

func TestResolve_NearMissWordsInSentences(t *testing.T) {
	lookup := &fakeLookup{}
	r := NewResolver(WithSymbolLookup(lookup))

	for _, text := range []string{
		"How do I apply for an IPO allotment",
		"Outlook for gold and metal prices",
	} {
		res := r.Resolve(context.Background(), text)
		assert.False(t, res.Resolved(), text)
		assert.Empty(t, res.Candidate, text)
	}
	assert.Equal(t, int64(0), lookup.calls.Load())
}

func TestResolve_UnknownCompany(t *testing.T) {
	lookup := &fakeLookup{}
	r := NewResolver(WithSymbolLookup(lookup))

	res := r.Resolve(context.Background(), "Give me details on an unknown company")
	assert.False(t, res.Resolved())
	assert.Equal(t, core.LookupNotFound, res.Status)
	assert.Equal(t, SourceNone, res.Source)
	assert.Equal(t, int64(0), lookup.calls.Load(), "no candidate means no lookup")
}

func TestResolve_LiveLookupFallback(t *testing.T) {
	lookup := &fakeLookup{results: map[string]core.LookupResult{
		"META": core.Found(core.TickerRecord{Symbol: "META"}, "Meta Platforms, Inc."),
	}}
	r := NewResolver(WithSymbolLookup(lookup))

	res := r.Resolve(context.Background(), "What is the latest news on Meta?")
	require.True(t, res.Resolved())
	assert.Equal(t, SourceLookup, res.Source)
	assert.Equal(t, "META", res.Record.Symbol)
	assert.Equal(t, DefaultCountry, res.Record.Country)
	assert.Equal(t, []string{"META"}, lookup.symbols)
}

func TestResolve_LookupTransientError(t *testing.T) {
	lookup := &fakeLookup{results: map[string]core.LookupResult{
		"NETFLIX": core.TransientError(errors.New("connection reset")),
	}}
	r := NewResolver(WithSymbolLookup(lookup))

	res := r.Resolve(context.Background(), "netflix subscriber growth")
	assert.False(t, res.Resolved())
	assert.Equal(t, core.LookupTransientError, res.Status)
	assert.ErrorContains(t, res.Err, "connection reset")
	assert.Equal(t, "netflix", res.Candidate)
}

func TestResolve_NotInDirectoryWithoutLookup(t *testing.T) {
	r := NewResolver()

	res := r.Resolve(context.Background(), "Intel foundry plans")
	assert.False(t, res.Resolved())
	assert.Equal(t, "intel", res.Candidate)
}

func TestResolve_Deterministic(t *testing.T) {
	r := NewResolver()
	ctx := context.Background()

	first := r.Resolve(ctx, "apple versus microsoft")
	for range 20 {
		assert.Equal(t, first, r.Resolve(ctx, "apple versus microsoft"))
	}
	assert.Equal(t, "AAPL", first.Record.Symbol, "first mention wins")
}

func TestNERExtractor_FirstCompanyEntityWins(t *testing.T) {
	ner := mock.NewMockEntityExtractor()
	var seen string
	ner.ExtractEntitiesFunc = func(ctx context.Context, text string) ([]ai.Entity, error) {
		seen = text
		return []ai.Entity{
			{Text: "Jensen Huang", Label: ai.LabelPerson},
			{Text: "Toyota", Label: ai.LabelOrganization},
			{Text: "Apple", Label: ai.LabelProduct},
		}, nil
	}
	x := NewNERExtractor(ner, nil, nil)

	name, ok := x.ExtractCandidate(context.Background(), "Jensen Huang and TOYOTA")
	require.True(t, ok)
	assert.Equal(t, "toyota", name)
	assert.Equal(t, "jensen huang and toyota", seen, "recognition runs on lowercased text")
}

func TestNERExtractor_FallsBackToFuzzyOnError(t *testing.T) {
	ner := mock.NewMockEntityExtractor()
	ner.ExtractEntitiesFunc = func(ctx context.Context, text string) ([]ai.Entity, error) {
		return nil, errors.New("model unavailable")
	}
	x := NewNERExtractor(ner, NewFuzzyMatcher(DefaultDirectory().KnownCompanies()), nil)

	name, ok := x.ExtractCandidate(context.Background(), "goldman sachs outlook")
	require.True(t, ok)
	assert.Equal(t, "goldman sachs", name)
	assert.Equal(t, 1, ner.CallCount())
}

func TestNERExtractor_EmptyText(t *testing.T) {
	ner := mock.NewMockEntityExtractor()
	x := NewNERExtractor(ner, nil, nil)

	_, ok := x.ExtractCandidate(context.Background(), "   ")
	assert.False(t, ok)
	assert.Equal(t, 0, ner.CallCount())
}

func TestWithExtractor(t *testing.T) {
	stub := candidateFunc(func(ctx context.Context, text string) (string, bool) {
		return "hdfc bank", true
	})
	r := NewResolver(WithExtractor(stub))

	res := r.Resolve(context.Background(), "anything")
	require.True(t, res.Resolved())
	assert.Equal(t, "HDFCBANK.NS", res.Record.Symbol)
	assert.Equal(t, "IN", res.Record.Country)
}

type candidateFunc func(ctx context.Context, text string) (string, bool)

func (f candidateFunc) ExtractCandidate(ctx context.Context, text string) (string, bool) {
	return f(ctx, text)
}
