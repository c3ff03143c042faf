package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFuzzyMatcher_Match(t *testing.T) {
	m := NewFuzzyMatcher(DefaultDirectory().KnownCompanies())

	tests := []struct {
		text  string
		want  string
		match bool
	}{
		{"Tell me about NVIDIA stock", "nvidia", true},
		{"goldman sachs outlook", "Goldman Sachs", true},
		{"nvidea", "nvidia", true},
		{"nvidea earnings", "", false},
		{"Give me details on an unknown company", "", false},
		{"Random text", "", false},
		{"interest rates outlook", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, _, ok := m.Match(tt.text)
			assert.Equal(t, tt.match, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFuzzyMatcher_CommonWordsDoNotMatch(t *testing.T) {
	m := NewFuzzyMatcher(DefaultDirectory().KnownCompanies())

	for _, text := range []string{
		"How do I apply for an IPO allotment",
		"Outlook for gold and metal prices",
		"Should I apply for AMZN options",
		"apply now",
	} {
		t.Run(text, func(t *testing.T) {
			got, score, ok := m.Match(text)
			assert.False(t, ok, "matched %q with score %d", got, score)
		})
	}
}

func TestFuzzyMatcher_LongTextScalesWindowScore(t *testing.T) {
	m := NewFuzzyMatcher(nil)

	assert.Equal(t, 80, m.Score("apply", "apple"))
	assert.Equal(t, 72, m.Score("how do i apply for an ipo allotment", "apple"))
	assert.Equal(t, 48, m.Score("outlook for gold and metal prices", "meta"))
	assert.Equal(t, 90, m.Score("tell me about nvidia stock", "nvidia"))
}

func TestFuzzyMatcher_Threshold(t *testing.T) {
	// "nvidea" scores 83 against "nvidia"
	strict := NewFuzzyMatcher([]string{"nvidia"}, WithThreshold(90))
	_, score, ok := strict.Match("nvidea")
	assert.False(t, ok)
	assert.Equal(t, 83, score)

	loose := NewFuzzyMatcher([]string{"nvidia"}, WithThreshold(80))
	_, _, ok = loose.Match("nvidea")
	assert.True(t, ok)
}

func TestFuzzyMatcher_ScoreIsCaseAndWidthInsensitive(t *testing.T) {
	m := NewFuzzyMatcher(nil)

	assert.Equal(t, 100, m.Score("ＮＶＩＤＩＡ", "nvidia"))
	assert.Equal(t, 100, m.Score("Toyota!", "TOYOTA"))
	assert.Equal(t, 0, m.Score("", "TOYOTA"))
}

func TestFuzzyMatcher_TiesKeepEarlierName(t *testing.T) {
	m := NewFuzzyMatcher([]string{"acme", "acme"})
	got, score, ok := m.Match("acme")
	assert.True(t, ok)
	assert.Equal(t, 100, score)
	assert.Equal(t, "acme", got)
}
