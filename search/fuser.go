package search

import (
	"context"
	"log/slog"

	"github.com/poiesic/marketscout/core"
	"github.com/poiesic/marketscout/semantic"
)

// LexicalSearcher ranks the lexical corpus. lexical.Ranker implements it.
type LexicalSearcher interface {
	Search(ctx context.Context, query string, k int) ([]core.RankedDocument, error)
}

// Fuser merges lexical and semantic rankings into one deduplicated list.
type Fuser struct {
	lexical  LexicalSearcher
	semantic semantic.Searcher
	logger   *slog.Logger
}

// Option configures a Fuser.
type Option func(*Fuser) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fuser) error {
		if logger == nil {
			logger = slog.Default()
		}
		f.logger = logger
		return nil
	}
}

// NewFuser creates a new fuser.
func NewFuser(lexical LexicalSearcher, semantic semantic.Searcher, opts ...Option) (*Fuser, error) {
	if lexical == nil {
		return nil, ErrLexicalRankerRequired
	}
	if semantic == nil {
		return nil, ErrSemanticSearcherRequired
	}

	f := &Fuser{
		lexical:  lexical,
		semantic: semantic,
		logger:   slog.Default().With("component", "fuser"),
	}

	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// Fuse returns up to k document texts for query, lexical matches first.
func (f *Fuser) Fuse(ctx context.Context, query string, k int) []string {
	return f.FuseWithMonitor(ctx, query, k, nil)
}

// FuseWithMonitor is Fuse with callbacks at each stage.
// Each ranker is asked for k results; either may fail, in which case it
// contributes nothing.
func (f *Fuser) FuseWithMonitor(ctx context.Context, query string, k int, monitor FusionMonitor) []string {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query, k)
	if k <= 0 {
		monitor.Finish([]string{})
		return []string{}
	}

	// 1. Lexical ranking
	lexical, err := f.lexical.Search(ctx, query, k)
	if err != nil {
		f.logger.Warn("lexical search failed", "stage", "fusion", "query", query, "err", err)
		lexical = nil
	}
	monitor.AfterLexicalSearch(lexical, err)

	// 2. Semantic ranking
	semantic, err := f.semantic.SimilaritySearch(ctx, query, k)
	if err != nil {
		f.logger.Warn("semantic search failed", "stage", "fusion", "query", query, "err", err)
		semantic = nil
	}
	monitor.AfterSemanticSearch(semantic, err)

	// 3. Concatenate, dedupe by exact text, then truncate
	combined := make([]string, 0, len(lexical)+len(semantic))
	for _, doc := range lexical {
		combined = append(combined, doc.Text)
	}
	combined = append(combined, semantic...)

	seen := make(map[string]struct{}, len(combined))
	results := make([]string, 0, min(k, len(combined)))
	for _, text := range combined {
		if _, dup := seen[text]; dup {
			monitor.DuplicateDropped(text)
			continue
		}
		seen[text] = struct{}{}
		results = append(results, text)
	}
	if len(results) > k {
		results = results[:k]
	}

	f.logger.Debug("fused results",
		"query", query, "lexical", len(lexical), "semantic", len(semantic), "returned", len(results))
	monitor.Finish(results)
	return results
}
