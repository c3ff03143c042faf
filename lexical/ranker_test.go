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
	"sync"
	"testing"

	"github.com/poiesic/marketscout/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefaultRanker(t *testing.T) *Ranker {
	t.Helper()
	r, err := NewRanker(DefaultCorpus)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRank_SingleMatchThenCorpusOrder(t *testing.T) {
	r := newDefaultRanker(t)

	got := r.Rank("AWS", 3)
	assert.Equal(t, []string{DefaultCorpus[4], DefaultCorpus[0], DefaultCorpus[1]}, got)
}

func TestRank_MultipleMatches(t *testing.T) {
	r := newDefaultRanker(t)

	got := r.Rank("AI", 3)
	require.Len(t, got, 3)
	assert.ElementsMatch(t, []string{DefaultCorpus[0], DefaultCorpus[1]}, got[:2])
	assert.Equal(t, DefaultCorpus[2], got[2])
}

func TestSearch_Scores(t *testing.T) {
	r := newDefaultRanker(t)

	res, err := r.Search(context.Background(), "cloud", 5)
	require.NoError(t, err)
	require.Len(t, res, 5)

	for i := 0; i < len(res)-1; i++ {
		assert.GreaterOrEqual(t, res[i].Score, res[i+1].Score)
	}
	assert.Greater(t, res[0].Score, 0.0)
	assert.Greater(t, res[1].Score, 0.0)
	assert.ElementsMatch(t, []int{2, 4}, []int{res[0].Position, res[1].Position})
	assert.Equal(t, []int{0, 1, 3}, []int{res[2].Position, res[3].Position, res[4].Position})
	assert.Zero(t, res[4].Score)
}

func TestSearch_TiesFollowCorpusOrder(t *testing.T) {
	docs := []string{"alpha beta", "gamma delta", "alpha beta", "alpha beta"}
	r, err := NewRanker(docs)
	require.NoError(t, err)
	defer r.Close()

	res, err := r.Search(context.Background(), "alpha", 4)
	require.NoError(t, err)
	require.Len(t, res, 4)
	assert.Equal(t, []int{0, 2, 3, 1}, []int{res[0].Position, res[1].Position, res[2].Position, res[3].Position})
}

func TestRank_NoMatchesReturnsCorpusOrder(t *testing.T) {
	r := newDefaultRanker(t)
	assert.Equal(t, DefaultCorpus[:2], r.Rank("zzzz", 2))
}

func TestRank_Sentinels(t *testing.T) {
	r := newDefaultRanker(t)
	assert.Equal(t, []string{SentinelEmptyQuery}, r.Rank("   ", 3))

	empty, err := NewRanker(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{SentinelEmptyCorpus}, empty.Rank("AI", 3))
	assert.True(t, core.IsWarning(SentinelEmptyCorpus))

	_, err = empty.Search(context.Background(), "AI", 3)
	assert.ErrorIs(t, err, ErrEmptyCorpus)
	_, err = r.Search(context.Background(), "", 3)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestRank_TopKBounds(t *testing.T) {
	r := newDefaultRanker(t)
	assert.Empty(t, r.Rank("AI", 0))
	assert.Len(t, r.Rank("AI", 1), 1)
	assert.Len(t, r.Rank("AI", 50), len(DefaultCorpus))
}

func TestUpdateCorpus(t *testing.T) {
	r := newDefaultRanker(t)

	require.NoError(t, r.UpdateCorpus([]string{"Infosys provides IT consulting.", "Toyota builds hybrid cars."}))
	assert.Equal(t, []string{"Toyota builds hybrid cars."}, r.Rank("hybrid", 1))
	assert.Len(t, r.Documents(), 2)

	// same corpus again is a no-op
	require.NoError(t, r.UpdateCorpus([]string{"Infosys provides IT consulting.", "Toyota builds hybrid cars."}))
	docs, indexed, err := r.Size()
	require.NoError(t, err)
	assert.Equal(t, 2, docs)
	assert.Equal(t, 2, indexed)

}

func TestUpdateCorpus_EmptyKeepsCurrentCorpus(t *testing.T) {
	r := newDefaultRanker(t)

	assert.ErrorIs(t, r.UpdateCorpus(nil), ErrEmptyCorpus)
	assert.ErrorIs(t, r.UpdateCorpus([]string{}), ErrEmptyCorpus)
	assert.Equal(t, DefaultCorpus, r.Documents())
	assert.NotEqual(t, []string{SentinelEmptyCorpus}, r.Rank("AI", 1))
}

func TestUpdateCorpus_RejectsBlankDocuments(t *testing.T) {
	r := newDefaultRanker(t)
	err := r.UpdateCorpus([]string{"ok", "  "})
	assert.ErrorIs(t, err, core.ErrEmptyDocument)
	// old corpus is still served
	assert.Equal(t, DefaultCorpus, r.Documents())
}

func TestUpdateCorpus_AtomicUnderConcurrentReads(t *testing.T) {
	r := newDefaultRanker(t)
	corpora := [][]string{
		DefaultCorpus,
		{"one doc about AI"},
		{"AI first", "AI second", "AI third"},
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				docs, indexed, err := r.Size()
				assert.NoError(t, err)
				assert.Equal(t, docs, indexed)
				assert.LessOrEqual(t, len(r.Rank("AI", 3)), 3)
			}
		}()
	}

	for i := 0; i < 30; i++ {
		require.NoError(t, r.UpdateCorpus(corpora[i%len(corpora)]))
	}
	close(stop)
	wg.Wait()
}

func TestComputeFingerprint(t *testing.T) {
	assert.Equal(t, computeFingerprint([]string{"a", "b"}), computeFingerprint([]string{"a", "b"}))
	assert.NotEqual(t, computeFingerprint([]string{"a", "b"}), computeFingerprint([]string{"b", "a"}))
	assert.NotEqual(t, computeFingerprint([]string{"ab"}), computeFingerprint([]string{"a", "b"}))
}
