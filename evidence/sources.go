package evidence

import (
	"context"

	"github.com/poiesic/marketscout/compliance"
	"github.com/poiesic/marketscout/core"
	"github.com/poiesic/marketscout/resolve"
)

// EntityResolver maps query text to a ticker record. resolve.Resolver
// implements it.
type EntityResolver interface {
	Resolve(ctx context.Context, text string) resolve.Resolution
}

// DocumentSource returns up to k passages for a query. search.Fuser
// implements it.
type DocumentSource interface {
	Fuse(ctx context.Context, query string, k int) []string
}

// NewsSource returns headlines about query; entries carrying the warning
// marker are diagnostics. news.Client implements it.
type NewsSource interface {
	Fetch(ctx context.Context, query string, topics ...string) []string
}

// TrendSource returns trend observations for a key. trends.Cache
// implements it.
type TrendSource interface {
	Get(ctx context.Context, key string) []string
}

// QuoteSource returns a fundamentals snapshot. quotes.Client implements it.
type QuoteSource interface {
	Snapshot(ctx context.Context, symbol string) core.Quote
}

// NameSource returns a company's long name for a ticker, or "".
// quotes.Client implements it.
type NameSource interface {
	CompanyName(ctx context.Context, symbol string) string
}

// Sources are the collaborators an Assembler orchestrates. All are required.
type Sources struct {
	Filter    *compliance.Filter
	Resolver  EntityResolver
	Documents DocumentSource
	News      NewsSource
	Trends    TrendSource
	Quotes    QuoteSource
}

func (s Sources) validate() error {
	switch {
	case s.Filter == nil:
		return ErrFilterRequired
	case s.Resolver == nil:
		return ErrResolverRequired
	case s.Documents == nil:
		return ErrDocumentsRequired
	case s.News == nil:
		return ErrNewsRequired
	case s.Trends == nil:
		return ErrTrendsRequired
	case s.Quotes == nil:
		return ErrQuotesRequired
	}
	return nil
}
