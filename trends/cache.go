package trends

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/poiesic/marketscout/core"
	"github.com/poiesic/marketscout/storage"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultAttempts = 3
	DefaultCooldown = 60 * time.Second
	// DefaultRequestTimeout bounds a single provider call.
	DefaultRequestTimeout = 20 * time.Second
	DefaultKeep           = 5
	DefaultTimeframe      = "today 1-m"
	DefaultGeo            = "US"
)

// Cache is a read-through trend cache.
type Cache struct {
	repo           storage.TrendRepository
	provider       Provider
	attempts       int
	cooldown       time.Duration
	requestTimeout time.Duration
	keep           int
	timeframe      string
	geo            string
	group          singleflight.Group
	logger         *slog.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithAttempts sets how many provider calls a miss may make. Default: 3.
func WithAttempts(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.attempts = n
		}
	}
}

// WithCooldown sets the wait after a rate-limited attempt. Default: 60s.
func WithCooldown(d time.Duration) Option {
	return func(c *Cache) {
		if d >= 0 {
			c.cooldown = d
		}
	}
}

// WithRequestTimeout bounds each provider call. Default: 20s.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.requestTimeout = d
		}
	}
}

// WithKeep sets how many of the most recent observations are kept. Default: 5.
func WithKeep(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.keep = n
		}
	}
}

// WithWindow sets the timeframe and region passed to the provider.
func WithWindow(timeframe, geo string) Option {
	return func(c *Cache) {
		c.timeframe = timeframe
		c.geo = geo
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// NewCache creates a cache over repo, filling misses from provider.
func NewCache(repo storage.TrendRepository, provider Provider, opts ...Option) (*Cache, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}
	c := &Cache{
		repo:           repo,
		provider:       provider,
		attempts:       DefaultAttempts,
		cooldown:       DefaultCooldown,
		requestTimeout: DefaultRequestTimeout,
		keep:           DefaultKeep,
		timeframe:      DefaultTimeframe,
		geo:            DefaultGeo,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.logger = c.logger.With("component", "trend-cache")
	return c, nil
}

// Budget is the longest a miss can take: every attempt timing out plus the
// cooldowns between them. Callers should allow at least this much.
func (c *Cache) Budget() time.Duration {
	return time.Duration(c.attempts)*c.requestTimeout + time.Duration(c.attempts-1)*c.cooldown
}

// Get returns the observations for key, from the cache when possible.
// It always returns at least one entry; failures are reported as inline
// entries rather than errors.
//
// A miss is fetched in the background under the cache's own Budget, so a
// caller that gives up early does not cancel the fetch for other callers
// waiting on the same key. The result is still cached once it arrives.
func (c *Cache) Get(ctx context.Context, key string) []string {
	key = strings.TrimSpace(key)
	if key == "" {
		return []string{NoDataEntry(key)}
	}

	if cached, ok := c.cached(ctx, key); ok {
		c.logger.Debug("trend cache hit", "key", key)
		return cached
	}

	// concurrent misses on one key share a single fetch
	ch := c.group.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.Budget())
		defer cancel()
		if cached, ok := c.cached(fctx, key); ok {
			return cached, nil
		}
		return c.fetch(fctx, key), nil
	})

	select {
	case <-ctx.Done():
		c.logger.Warn("gave up waiting for trends", "key", key, "err", ctx.Err())
		return []string{fetchError(key, ctx.Err())}
	case res := <-ch:
		return slices.Clone(res.Val.([]string))
	}
}

// Import stores pre-fetched observations, skipping empty values. Existing
// keys are overwritten. It returns the number of keys written.
func (c *Cache) Import(ctx context.Context, entries map[string][]string) (int, error) {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	written := 0
	for _, k := range keys {
		obs := entries[k]
		if strings.TrimSpace(k) == "" || len(obs) == 0 {
			continue
		}
		if err := c.repo.PutTrend(ctx, &core.TrendEntry{Key: k, Observations: slices.Clone(obs)}); err != nil {
			return written, fmt.Errorf("import %q: %w", k, err)
		}
		written++
	}
	c.logger.Info("imported trend entries", "count", written)
	return written, nil
}

func (c *Cache) cached(ctx context.Context, key string) ([]string, bool) {
	entry, err := c.repo.GetTrend(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			c.logger.Warn("trend cache read failed, treating as miss", "key", key, "err", err)
		}
		return nil, false
	}
	if entry == nil || len(entry.Observations) == 0 {
		return nil, false
	}
	return slices.Clone(entry.Observations), true
}

func (c *Cache) fetch(ctx context.Context, key string) []string {
	req := Request{Term: key, Timeframe: c.timeframe, Geo: c.geo}

	for attempt := 1; attempt <= c.attempts; attempt++ {
		c.logger.Info("fetching trends", "key", key, "attempt", attempt)
		cctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
		points, err := c.provider.InterestOverTime(cctx, req)
		cancel()
		if err == nil {
			return c.store(ctx, key, points)
		}

		if !errors.Is(err, ErrRateLimited) {
			c.logger.Warn("trend fetch failed", "stage", "trends", "key", key, "err", err)
			return []string{fetchError(key, err)}
		}

		c.logger.Warn("trend provider rate limited", "stage", "trends", "key", key, "attempt", attempt, "cooldown", c.cooldown)
		if attempt == c.attempts {
			break
		}
		if err := sleep(ctx, c.cooldown); err != nil {
			return []string{fetchError(key, err)}
		}
	}

	return []string{SentinelRateLimited}
}

func (c *Cache) store(ctx context.Context, key string, points []Point) []string {
	if len(points) == 0 {
		return []string{NoDataEntry(key)}
	}
	if len(points) > c.keep {
		points = points[len(points)-c.keep:]
	}

	observations := make([]string, len(points))
	for i, p := range points {
		observations[i] = fmt.Sprintf("%s: %d", key, p.Value)
	}

	// the result is returned even if it cannot be persisted
	if err := c.repo.PutTrend(ctx, &core.TrendEntry{Key: key, Observations: observations}); err != nil {
		c.logger.Error("failed to persist trends", "key", key, "err", err)
	}
	return slices.Clone(observations)
}

// NoDataEntry is the inline entry returned when the provider has no series
// for term. It is never cached.
func NoDataEntry(term string) string {
	return fmt.Sprintf("%s No search-trend data available for '%s'", core.WarningMarker, term)
}

func fetchError(key string, err error) string {
	return fmt.Sprintf("Error fetching trends for '%s': %v", key, err)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
