package search

import "github.com/veridian-systems/recollect/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(question string)
	AfterExpansion(variants []string, keywords string)
	AfterRetrieval(queryIndex int, results []*core.SearchResult)
	AfterFusion(results []*core.FusedSearchResult)
	Finish(response *core.SearchResponse)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                               {}
func (n *noopMonitor) AfterExpansion(_ []string, _ string)          {}
func (n *noopMonitor) AfterRetrieval(_ int, _ []*core.SearchResult) {}
func (n *noopMonitor) AfterFusion(_ []*core.FusedSearchResult)      {}
func (n *noopMonitor) Finish(_ *core.SearchResponse)                {}
