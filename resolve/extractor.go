package resolve

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/poiesic/marketscout/ai"
)

// CandidateExtractor finds the company name a piece of text refers to.
type CandidateExtractor interface {
	// ExtractCandidate returns a lowercase company name, or false when the
	// text names no company.
	ExtractCandidate(ctx context.Context, text string) (string, bool)
}

// NERExtractor runs entity recognition over the lowercased text and takes
// the first organization or product. When recognition finds nothing (or
// fails) it falls back to fuzzy matching the whole text.
type NERExtractor struct {
	ner    ai.EntityExtractor
	fuzzy  *FuzzyMatcher
	logger *slog.Logger
}

var _ CandidateExtractor = (*NERExtractor)(nil)

// NewNERExtractor creates an extractor. Either stage may be nil to disable it.
func NewNERExtractor(ner ai.EntityExtractor, fuzzy *FuzzyMatcher, logger *slog.Logger) *NERExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &NERExtractor{
		ner:    ner,
		fuzzy:  fuzzy,
		logger: logger.With("component", "candidate-extractor"),
	}
}

// ExtractCandidate implements CandidateExtractor.
func (x *NERExtractor) ExtractCandidate(ctx context.Context, text string) (string, bool) {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return "", false
	}

	if x.ner != nil {
		entities, err := x.ner.ExtractEntities(ctx, lowered)
		if err != nil {
			x.logger.Warn("entity recognition failed, using fuzzy match", "err", err)
		}
		for _, e := range entities {
			name := strings.ToLower(strings.TrimSpace(e.Text))
			if ai.IsCompanyLabel(e.Label) && name != "" {
				x.logger.Debug("company detected by entity recognition", "name", name, "label", e.Label)
				return name, true
			}
		}
	}

	if x.fuzzy != nil {
		if name, score, ok := x.fuzzy.Match(lowered); ok {
			x.logger.Debug("company detected by fuzzy match", "name", name, "score", score)
			return strings.ToLower(name), true
		}
	}

	x.logger.Debug("no company detected", "text", lowered)
	return "", false
}

// Gazetteer is an ai.EntityExtractor that tags whole-word occurrences of
// known company names as organizations. It needs no model and is the
// default recognizer.
type Gazetteer struct {
	names [][]string
}

var _ ai.EntityExtractor = (*Gazetteer)(nil)

// NewGazetteer creates a gazetteer over names.
func NewGazetteer(names []string) *Gazetteer {
	g := &Gazetteer{}
	for _, n := range names {
		if w := splitWords(n); len(w) > 0 {
			g.names = append(g.names, w)
		}
	}
	return g
}

// ExtractEntities returns matches in order of position. Matches starting at
// the same word keep the order the names were given in.
func (g *Gazetteer) ExtractEntities(ctx context.Context, text string) ([]ai.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	words := splitWords(text)

	type hit struct {
		pos  int
		name string
	}
	var hits []hit
	for _, name := range g.names {
		if pos := indexWords(words, name); pos >= 0 {
			hits = append(hits, hit{pos: pos, name: strings.Join(name, " ")})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	entities := make([]ai.Entity, len(hits))
	for i, h := range hits {
		entities[i] = ai.Entity{Text: h.name, Label: ai.LabelOrganization}
	}
	return entities, nil
}

func splitWords(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '&'
	})
}

func indexWords(words, needle []string) int {
	for i := 0; i+len(needle) <= len(words); i++ {
		match := true
		for j, w := range needle {
			if words[i+j] != w {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
