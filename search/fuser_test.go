package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/poiesic/marketscout/core"
	"github.com/poiesic/marketscout/lexical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLexical struct {
	docs  []string
	err   error
	calls int
}

func (f *fakeLexical) Search(ctx context.Context, query string, k int) ([]core.RankedDocument, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]core.RankedDocument, 0, k)
	for i, d := range f.docs {
		if i == k {
			break
		}
		out = append(out, core.RankedDocument{Text: d, Score: float64(len(f.docs) - i), Position: i})
	}
	return out, nil
}

type fakeSemantic struct {
	docs  []string
	err   error
	calls int
}

func (f *fakeSemantic) SimilaritySearch(ctx context.Context, query string, k int) ([]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.docs) > k {
		return f.docs[:k], nil
	}
	return f.docs, nil
}

type recordingMonitor struct {
	noopMonitor
	started    bool
	duplicates []string
	lexicalErr error
	semErr     error
	finished   []string
}

func (m *recordingMonitor) Start(_ string, _ int) { m.started = true }
func (m *recordingMonitor) AfterLexicalSearch(_ []core.RankedDocument, err error) {
	m.lexicalErr = err
}
func (m *recordingMonitor) AfterSemanticSearch(_ []string, err error) { m.semErr = err }
func (m *recordingMonitor) DuplicateDropped(text string)              { m.duplicates = append(m.duplicates, text) }
func (m *recordingMonitor) Finish(results []string)                   { m.finished = results }

func TestNewFuser(t *testing.T) {
	lex := &fakeLexical{}
	sem := &fakeSemantic{}

	t.Run("valid configuration", func(t *testing.T) {
		f, err := NewFuser(lex, sem)
		require.NoError(t, err)
		assert.NotNil(t, f)
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		f, err := NewFuser(lex, sem, WithLogger(nil))
		require.NoError(t, err)
		assert.NotNil(t, f)
	})

	t.Run("with custom logger", func(t *testing.T) {
		f, err := NewFuser(lex, sem, WithLogger(slog.Default()))
		require.NoError(t, err)
		assert.NotNil(t, f)
	})

	t.Run("nil lexical ranker", func(t *testing.T) {
		_, err := NewFuser(nil, sem)
		assert.Equal(t, ErrLexicalRankerRequired, err)
	})

	t.Run("nil semantic searcher", func(t *testing.T) {
		_, err := NewFuser(lex, nil)
		assert.Equal(t, ErrSemanticSearcherRequired, err)
	})
}

func TestFuse_LexicalFirstThenSemantic(t *testing.T) {
	lex := &fakeLexical{docs: []string{"a", "b"}}
	sem := &fakeSemantic{docs: []string{"c", "d"}}
	f, err := NewFuser(lex, sem)
	require.NoError(t, err)

	got := f.Fuse(context.Background(), "q", 4)
	assert.Equal(t, []string{"a", "b", "c", "d"}, got)
}

func TestFuse_DedupeKeepsLexicalPosition(t *testing.T) {
	lex := &fakeLexical{docs: []string{"a", "shared"}}
	sem := &fakeSemantic{docs: []string{"shared", "c"}}
	f, err := NewFuser(lex, sem)
	require.NoError(t, err)

	mon := &recordingMonitor{}
	got := f.FuseWithMonitor(context.Background(), "q", 5, mon)
	assert.Equal(t, []string{"a", "shared", "c"}, got)
	assert.Equal(t, []string{"shared"}, mon.duplicates)
	assert.Equal(t, got, mon.finished)
	assert.True(t, mon.started)
}

func TestFuse_TruncatesAfterDedupe(t *testing.T) {
	// With truncation before dedupe, k=3 would yield only two unique entries.
	lex := &fakeLexical{docs: []string{"a", "b", "c"}}
	sem := &fakeSemantic{docs: []string{"a", "b", "d"}}
	f, err := NewFuser(lex, sem)
	require.NoError(t, err)

	got := f.Fuse(context.Background(), "q", 3)
	assert.Equal(t, []string{"a", "b", "c"}, got)

	got = f.Fuse(context.Background(), "q", 4)
	assert.Equal(t, []string{"a", "b", "c", "d"}, got)
}

func TestFuse_SemanticFailureDegradesToLexical(t *testing.T) {
	lex := &fakeLexical{docs: []string{"a", "b"}}
	sem := &fakeSemantic{err: errors.New("vector service unavailable")}
	f, err := NewFuser(lex, sem)
	require.NoError(t, err)

	mon := &recordingMonitor{}
	got := f.FuseWithMonitor(context.Background(), "q", 3, mon)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Error(t, mon.semErr)
	assert.NoError(t, mon.lexicalErr)
}

func TestFuse_LexicalFailureDegradesToSemantic(t *testing.T) {
	lex := &fakeLexical{err: lexical.ErrEmptyQuery}
	sem := &fakeSemantic{docs: []string{"x"}}
	f, err := NewFuser(lex, sem)
	require.NoError(t, err)

	got := f.Fuse(context.Background(), "q", 3)
	assert.Equal(t, []string{"x"}, got)
}

func TestFuse_BothFailReturnsEmpty(t *testing.T) {
	f, err := NewFuser(&fakeLexical{err: errors.New("boom")}, &fakeSemantic{err: errors.New("boom")})
	require.NoError(t, err)

	got := f.Fuse(context.Background(), "q", 3)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFuse_NonPositiveK(t *testing.T) {
	lex := &fakeLexical{docs: []string{"a"}}
	sem := &fakeSemantic{docs: []string{"b"}}
	f, err := NewFuser(lex, sem)
	require.NoError(t, err)

	assert.Empty(t, f.Fuse(context.Background(), "q", 0))
	assert.Equal(t, 0, lex.calls)
	assert.Equal(t, 0, sem.calls)
}

func TestFuse_Properties(t *testing.T) {
	pool := []string{"a", "b", "c", "d", "e", "f"}
	for k := 1; k <= 8; k++ {
		for split := 0; split <= len(pool); split++ {
			t.Run(fmt.Sprintf("k=%d/split=%d", k, split), func(t *testing.T) {
				lex := &fakeLexical{docs: pool[:split]}
				// semantic overlaps the lexical tail and adds the rest
				sem := &fakeSemantic{docs: append([]string{}, pool[max(0, split-2):]...)}
				f, err := NewFuser(lex, sem)
				require.NoError(t, err)

				got := f.Fuse(context.Background(), "q", k)
				assert.LessOrEqual(t, len(got), k)

				seen := map[string]bool{}
				for _, s := range got {
					assert.False(t, seen[s], "duplicate %q", s)
					seen[s] = true
				}
				for i := 1; i < len(got); i++ {
					assert.Less(t, got[i-1], got[i], "order not preserved")
				}
			})
		}
	}
}

func TestFuse_WithLexicalRanker(t *testing.T) {
	ranker, err := lexical.NewRanker(lexical.DefaultCorpus)
	require.NoError(t, err)
	defer ranker.Close()

	f, err := NewFuser(ranker, &fakeSemantic{err: errors.New("index unreachable")})
	require.NoError(t, err)

	got := f.Fuse(context.Background(), "AWS", 2)
	require.Len(t, got, 2)
	assert.Equal(t, lexical.DefaultCorpus[4], got[0])
}
