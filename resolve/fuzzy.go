package resolve

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agext/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// DefaultFuzzyThreshold is the minimum score, exclusive, for a fuzzy match.
const DefaultFuzzyThreshold = 75

// FuzzyMatcher picks the known name most similar to a piece of text.
//
// Scores run from 0 to 100. A name's score is the better of its similarity
// to the whole text and its best similarity to any run of words in the text
// with the same word count as the name. Similarity is 1 minus the
// Levenshtein distance over the longer length. Window scores are scaled
// down when the text is much longer than the name: by 0.9 from 1.5 times
// its length and by 0.6 beyond 8 times. Equal scores keep the earlier name.
type FuzzyMatcher struct {
	names     []string
	folded    [][]string
	threshold int
}

// FuzzyOption configures a FuzzyMatcher.
type FuzzyOption func(*FuzzyMatcher)

// WithThreshold sets the exclusive score threshold. Default: 75.
func WithThreshold(threshold int) FuzzyOption {
	return func(m *FuzzyMatcher) {
		m.threshold = threshold
	}
}

// NewFuzzyMatcher creates a matcher over names.
func NewFuzzyMatcher(names []string, opts ...FuzzyOption) *FuzzyMatcher {
	m := &FuzzyMatcher{
		threshold: DefaultFuzzyThreshold,
	}
	for _, opt := range opts {
		opt(m)
	}
	for _, n := range names {
		words := m.words(n)
		if len(words) == 0 {
			continue
		}
		m.names = append(m.names, n)
		m.folded = append(m.folded, words)
	}
	return m
}

// Match returns the best-scoring name when its score exceeds the threshold.
func (m *FuzzyMatcher) Match(text string) (name string, score int, ok bool) {
	words := m.words(text)
	if len(words) == 0 {
		return "", 0, false
	}
	full := strings.Join(words, " ")

	best, bestScore := -1, -1
	for i, nameWords := range m.folded {
		s := scoreName(full, words, nameWords)
		if s > bestScore {
			best, bestScore = i, s
		}
	}
	if best < 0 || bestScore <= m.threshold {
		return "", bestScore, false
	}
	return m.names[best], bestScore, true
}

// Score returns the similarity of text to name on the 0-100 scale.
func (m *FuzzyMatcher) Score(text, name string) int {
	words := m.words(text)
	nameWords := m.words(name)
	if len(words) == 0 || len(nameWords) == 0 {
		return 0
	}
	return scoreName(strings.Join(words, " "), words, nameWords)
}

func scoreName(full string, words, nameWords []string) int {
	name := strings.Join(nameWords, " ")
	best := similarity(full, name)

	scale := windowScale(utf8.RuneCountInString(full), utf8.RuneCountInString(name))
	n := len(nameWords)
	for i := 0; i+n <= len(words); i++ {
		s := similarity(strings.Join(words[i:i+n], " "), name)
		if scaled := int(float64(s)*scale + 0.5); scaled > best {
			best = scaled
		}
	}
	return best
}

// windowScale penalizes partial matches on texts much longer than the name,
// so one near-miss word in a sentence stays under the threshold.
func windowScale(textLen, nameLen int) float64 {
	lo, hi := min(textLen, nameLen), max(textLen, nameLen)
	if lo == 0 {
		return 0
	}
	switch ratio := float64(hi) / float64(lo); {
	case ratio < 1.5:
		return 1
	case ratio <= 8:
		return 0.9
	default:
		return 0.6
	}
}

func similarity(a, b string) int {
	return int(levenshtein.Similarity(a, b, nil)*100 + 0.5)
}

// words normalizes s to NFKC, case-folds it and splits it into words,
// dropping surrounding punctuation. Casers are stateful, so each call
// gets its own.
func (m *FuzzyMatcher) words(s string) []string {
	s = cases.Fold().String(norm.NFKC.String(s))
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || (unicode.IsPunct(r) && r != '&' && r != '.')
	})
	out := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, ".")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
