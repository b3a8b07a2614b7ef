package search

import (
	"github.com/poiesic/blogdex/core"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
// Callbacks are invoked from the searching goroutine, one at a time.
type SearchMonitor interface {
	Start(query string)
	AfterLexicalSearch(results []*core.SearchResult)
	AfterQueryEmbedding(dimensions int)
	AfterVectorSearch(results []*core.SearchResult)
	DuplicateDropped(result *core.SearchResult)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                            {}
func (n *noopMonitor) AfterLexicalSearch(_ []*core.SearchResult) {}
func (n *noopMonitor) AfterQueryEmbedding(_ int)                 {}
func (n *noopMonitor) AfterVectorSearch(_ []*core.SearchResult)  {}
func (n *noopMonitor) DuplicateDropped(_ *core.SearchResult)     {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)             {}
