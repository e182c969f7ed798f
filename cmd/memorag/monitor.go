package main

import (
	"fmt"
	"io"
	"time"

	"github.com/poiesic/memorag/core"
	"github.com/poiesic/memorag/search"
)

// debugMonitor prints how many candidates survive each search stage.
type debugMonitor struct {
	w       io.Writer
	started time.Time
}

var _ search.SearchMonitor = (*debugMonitor)(nil)

func newDebugMonitor(w io.Writer) *debugMonitor {
	return &debugMonitor{w: w}
}

func (m *debugMonitor) Start(raw string) {
	m.started = time.Now()
	fmt.Fprintf(m.w, "[search] %q\n", raw)
}

func (m *debugMonitor) AfterAnalysis(analysis *core.QueryAnalysis) {
	fmt.Fprintf(m.w, "[analyze] intent=%s confidence=%.2f\n", analysis.Intent, analysis.Confidence)
}

func (m *debugMonitor) AfterRetrieval(candidates []*core.Candidate, err error) {
	if err != nil {
		fmt.Fprintf(m.w, "[retrieve] failed: %v\n", err)
		return
	}
	fmt.Fprintf(m.w, "[retrieve] %d candidates\n", len(candidates))
}

func (m *debugMonitor) AfterMatch(kept []*core.Candidate, applied bool) {
	if !applied {
		fmt.Fprintln(m.w, "[match] skipped")
		return
	}
	fmt.Fprintf(m.w, "[match] %d kept\n", len(kept))
}

func (m *debugMonitor) AfterRerank(ranked []*core.Candidate) {
	fmt.Fprintf(m.w, "[rerank] %d ranked\n", len(ranked))
}

func (m *debugMonitor) Finish(result *search.Result) {
	fmt.Fprintf(m.w, "[done] %d results in %s\n", len(result.Results), time.Since(m.started).Round(time.Millisecond))
}
