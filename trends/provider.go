package trends

import "context"

// Request describes one interest-over-time query.
type Request struct {
	Term string
	// Timeframe uses the provider's relative syntax, e.g. "today 1-m".
	Timeframe string
	// Geo is a region code such as "US".
	Geo string
}

// Point is one observation in a time series.
type Point struct {
	Label string
	Value int
}

// Provider fetches search-interest time series, oldest point first.
// Implementations return an error wrapping ErrRateLimited when throttled.
type Provider interface {
	InterestOverTime(ctx context.Context, req Request) ([]Point, error)
}
