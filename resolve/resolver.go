package resolve

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/marketscout/core"
)

// DefaultCountry is assumed when a lookup does not report one.
const DefaultCountry = "US"

// SymbolLookup resolves a ticker symbol against a live quote service.
// quotes.Client implements it.
type SymbolLookup interface {
	Lookup(ctx context.Context, symbol string) core.LookupResult
}

// Source names the step that produced a Resolution.
type Source string

const (
	SourceNone    Source = "none"
	SourceCurated Source = "curated"
	SourceLookup  Source = "lookup"
)

// Resolution is the outcome of resolving one piece of text.
type Resolution struct {
	// Candidate is the company name extracted from the text, if any.
	Candidate string
	Record    core.TickerRecord
	Status    core.LookupStatus
	Source    Source
	// Err is set when Status is LookupTransientError.
	Err error
}

// Resolved reports whether a ticker was found.
func (r Resolution) Resolved() bool {
	return r.Status == core.LookupFound
}

// Resolver maps text to a ticker record.
type Resolver struct {
	extractor CandidateExtractor
	directory *Directory
	lookup    SymbolLookup
	logger    *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithExtractor replaces the default gazetteer and fuzzy matching extractor.
func WithExtractor(x CandidateExtractor) Option {
	return func(r *Resolver) {
		r.extractor = x
	}
}

// WithDirectory replaces the curated directory.
func WithDirectory(d *Directory) Option {
	return func(r *Resolver) {
		r.directory = d
	}
}

// WithSymbolLookup enables the live lookup fallback.
func WithSymbolLookup(l SymbolLookup) Option {
	return func(r *Resolver) {
		r.lookup = l
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a resolver. Without options it uses the default
// directory, a gazetteer over the known company names with fuzzy fallback,
// and no live lookup.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	r.logger = r.logger.With("component", "resolver")
	if r.directory == nil {
		r.directory = DefaultDirectory()
	}
	if r.extractor == nil {
		known := r.directory.KnownCompanies()
		r.extractor = NewNERExtractor(NewGazetteer(known), NewFuzzyMatcher(known), r.logger)
	}
	return r
}

// Directory returns the curated directory in use.
func (r *Resolver) Directory() *Directory {
	return r.directory
}

// Resolve finds the ticker record text refers to. It never fails; problems
// are reported through the returned Status.
func (r *Resolver) Resolve(ctx context.Context, text string) Resolution {
	candidate, ok := r.extractor.ExtractCandidate(ctx, text)
	if !ok {
		r.logger.Info("no company found", "text", text)
		return Resolution{Status: core.LookupNotFound, Source: SourceNone}
	}

	if rec, ok := r.directory.Lookup(candidate); ok {
		r.logger.Info("resolved from directory", "company", candidate, "ticker", rec.Symbol, "country", rec.Country)
		return Resolution{Candidate: candidate, Record: rec, Status: core.LookupFound, Source: SourceCurated}
	}

	if r.lookup == nil {
		r.logger.Info("company not in directory", "company", candidate)
		return Resolution{Candidate: candidate, Status: core.LookupNotFound, Source: SourceNone}
	}

	res := r.lookup.Lookup(ctx, strings.ToUpper(candidate))
	switch res.Status {
	case core.LookupFound:
		rec := res.Record
		if rec.Country == "" {
			rec.Country = DefaultCountry
		}
		r.logger.Info("resolved by lookup", "company", candidate, "ticker", rec.Symbol, "country", rec.Country)
		return Resolution{Candidate: candidate, Record: rec, Status: core.LookupFound, Source: SourceLookup}
	case core.LookupTransientError:
		r.logger.Warn("symbol lookup failed", "stage", "resolve", "company", candidate, "err", res.Err)
		return Resolution{Candidate: candidate, Status: core.LookupTransientError, Source: SourceLookup, Err: res.Err}
	default:
		r.logger.Info("symbol lookup found nothing", "company", candidate)
		return Resolution{Candidate: candidate, Status: core.LookupNotFound, Source: SourceLookup}
	}
}
