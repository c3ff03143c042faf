package search

import "github.com/poiesic/marketscout/core"

// FusionMonitor provides hooks to observe the fusion process.
// Implement this interface to track intermediate results during a search.
type FusionMonitor interface {
	Start(query string, k int)
	AfterLexicalSearch(results []core.RankedDocument, err error)
	AfterSemanticSearch(results []string, err error)
	DuplicateDropped(text string)
	Finish(results []string)
}

// noopMonitor is a no-op implementation of FusionMonitor
type noopMonitor struct{}

var _ FusionMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ int)                               {}
func (n *noopMonitor) AfterLexicalSearch(_ []core.RankedDocument, _ error) {}
func (n *noopMonitor) AfterSemanticSearch(_ []string, _ error)             {}
func (n *noopMonitor) DuplicateDropped(_ string)                           {}
func (n *noopMonitor) Finish(_ []string)                                   {}
