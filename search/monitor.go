package search

import (
	"github.com/poiesic/memorag/core"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(raw string)
	AfterAnalysis(analysis *core.QueryAnalysis)
	AfterRetrieval(candidates []*core.Candidate, err error)
	AfterMatch(kept []*core.Candidate, applied bool)
	AfterRerank(ranked []*core.Candidate)
	Finish(result *Result)
}

type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                              {}
func (n *noopMonitor) AfterAnalysis(_ *core.QueryAnalysis)         {}
func (n *noopMonitor) AfterRetrieval(_ []*core.Candidate, _ error) {}
func (n *noopMonitor) AfterMatch(_ []*core.Candidate, _ bool)      {}
func (n *noopMonitor) AfterRerank(_ []*core.Candidate)             {}
func (n *noopMonitor) Finish(_ *Result)                            {}
