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

package lexical

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	index "github.com/blevesearch/bleve_index_api"
	"github.com/poiesic/marketscout/core"
)

const textField = "text"

// Ranker is a BM25 ranker over an in-memory corpus.
// It is safe for concurrent use.
type Ranker struct {
	mu       sync.RWMutex
	state    *corpusState
	analyzer string
	indexDir string
	logger   *slog.Logger
}

// corpusState is replaced as a unit; it is never mutated after construction.
type corpusState struct {
	docs        []string
	index       bleve.Index
	dir         string
	fingerprint string
}

func (s *corpusState) close() error {
	if s.index == nil {
		return nil
	}
	err := s.index.Close()
	if rmErr := os.RemoveAll(s.dir); err == nil {
		err = rmErr
	}
	return err
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithAnalyzer selects the bleve analyzer used for document and query text.
// Default: the standard analyzer (unicode tokens, lower-cased, English stop
// words removed).
func WithAnalyzer(name string) Option {
	return func(r *Ranker) {
		r.analyzer = name
	}
}

// WithIndexDir sets the parent directory for index files.
// Default: the system temporary directory.
func WithIndexDir(dir string) Option {
	return func(r *Ranker) {
		r.indexDir = dir
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Ranker) {
		r.logger = logger
	}
}

// NewRanker creates a Ranker indexing docs.
func NewRanker(docs []string, opts ...Option) (*Ranker, error) {
	r := &Ranker{
		analyzer: standard.Name,
		logger:   slog.Default().With("component", "lexical-ranker"),
	}
	for _, opt := range opts {
		opt(r)
	}

	state, err := r.build(docs)
	if err != nil {
		return nil, err
	}
	r.state = state
	return r, nil
}

// UpdateCorpus replaces the corpus. The new index is built before the swap,
// so concurrent searches keep using the old corpus until it completes. An
// empty update is rejected with ErrEmptyCorpus and the current corpus is
// kept.
func (r *Ranker) UpdateCorpus(docs []string) error {
	if len(docs) == 0 {
		r.logger.Warn("ignoring empty corpus update")
		return ErrEmptyCorpus
	}

	r.mu.RLock()
	unchanged := r.state.fingerprint == computeFingerprint(docs)
	r.mu.RUnlock()
	if unchanged {
		r.logger.Debug("corpus unchanged, skipping rebuild", "documents", len(docs))
		return nil
	}

	state, err := r.build(docs)
	if err != nil {
		return err
	}

	r.mu.Lock()
	old := r.state
	r.state = state
	r.mu.Unlock()

	if err := old.close(); err != nil {
		r.logger.Warn("failed to close previous index", "err", err)
	}
	r.logger.Info("corpus updated", "documents", len(docs))
	return nil
}

// Documents returns a copy of the current corpus.
func (r *Ranker) Documents() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.state.docs)
}

// Size returns the number of documents in the corpus and the number of
// documents in its index, read under one lock.
func (r *Ranker) Size() (docs int, indexed int, err error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.state.index == nil {
		return len(r.state.docs), 0, nil
	}
	n, err := r.state.index.DocCount()
	return len(r.state.docs), int(n), err
}

// Close releases the current index.
func (r *Ranker) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	err := r.state.close()
	r.state = &corpusState{fingerprint: computeFingerprint(nil)}
	return err
}

// Rank returns up to k document texts for query. An empty query or corpus
// yields a single sentinel entry instead.
func (r *Ranker) Rank(query string, k int) []string {
	results, err := r.Search(context.Background(), query, k)
	switch {
	case errors.Is(err, ErrEmptyQuery):
		return []string{SentinelEmptyQuery}
	case errors.Is(err, ErrEmptyCorpus):
		return []string{SentinelEmptyCorpus}
	case err != nil:
		r.logger.Error("lexical search failed", "err", err)
		return []string{}
	}

	texts := make([]string, len(results))
	for i, res := range results {
		texts[i] = res.Text
	}
	return texts
}

// Search scores the corpus against query and returns up to k documents.
func (r *Ranker) Search(ctx context.Context, query string, k int) ([]core.RankedDocument, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	state := r.state
	if len(state.docs) == 0 {
		return nil, ErrEmptyCorpus
	}
	if k <= 0 {
		return []core.RankedDocument{}, nil
	}

	q := bleve.NewMatchQuery(query)
	q.SetField(textField)
	req := bleve.NewSearchRequestOptions(q, len(state.docs), 0, false)
	req.SortBy([]string{"-_score", "_id"})

	res, err := state.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("bm25 search: %w", err)
	}

	ranked := make([]core.RankedDocument, 0, min(k, len(state.docs)))
	matched := make([]bool, len(state.docs))
	for _, hit := range res.Hits {
		if len(ranked) == k {
			break
		}
		pos, err := strconv.Atoi(hit.ID)
		if err != nil || pos < 0 || pos >= len(state.docs) {
			continue
		}
		matched[pos] = true
		ranked = append(ranked, core.RankedDocument{Text: state.docs[pos], Score: hit.Score, Position: pos})
	}
	for pos, doc := range state.docs {
		if len(ranked) == k {
			break
		}
		if !matched[pos] {
			ranked = append(ranked, core.RankedDocument{Text: doc, Position: pos})
		}
	}

	r.logger.Debug("bm25 search", "query", query, "hits", len(res.Hits), "returned", len(ranked))
	return ranked, nil
}

func (r *Ranker) build(docs []string) (*corpusState, error) {
	docs = slices.Clone(docs)
	state := &corpusState{docs: docs, fingerprint: computeFingerprint(docs)}
	if len(docs) == 0 {
		return state, nil
	}
	for i, d := range docs {
		if strings.TrimSpace(d) == "" {
			return nil, fmt.Errorf("document %d: %w", i, core.ErrEmptyDocument)
		}
	}

	im := bleve.NewIndexMapping()
	im.ScoringModel = index.BM25Scoring
	field := bleve.NewTextFieldMapping()
	field.Analyzer = r.analyzer
	dm := bleve.NewDocumentMapping()
	dm.AddFieldMappingsAt(textField, field)
	im.DefaultMapping = dm

	// BM25 scoring needs the scorch index type, which lives on disk
	dir, err := os.MkdirTemp(r.indexDir, "marketscout-bm25-")
	if err != nil {
		return nil, fmt.Errorf("create bm25 index dir: %w", err)
	}
	idx, err := bleve.New(filepath.Join(dir, "index"), im)
	if err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("create bm25 index: %w", err)
	}
	state.index, state.dir = idx, dir

	batch := idx.NewBatch()
	for i, d := range docs {
		if err := batch.Index(docID(i), map[string]any{textField: d}); err != nil {
			state.close()
			return nil, err
		}
	}
	if err := idx.Batch(batch); err != nil {
		state.close()
		return nil, fmt.Errorf("index corpus: %w", err)
	}

	return state, nil
}

// docID zero-pads positions so that sorting IDs lexically follows corpus order.
func docID(pos int) string {
	return fmt.Sprintf("%010d", pos)
}
