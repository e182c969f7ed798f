package answer

import (
	"slices"

	"github.com/poiesic/memorag/core"
)

// summary collects the distinct facts of a result list. Companies and
// indicators keep first-seen order so the most relevant come first.
type summary struct {
	companies  []string
	years      []string // sorted
	indicators []string
	valid      int
	missing    int
}

func summarize(results []*core.Candidate) summary {
	var s summary
	seenCompany := map[string]bool{}
	seenYear := map[string]bool{}
	seenIndicator := map[string]bool{}

	for _, c := range results {
		d := c.Derived
		if d.Organization != "" && !seenCompany[d.Organization] {
			seenCompany[d.Organization] = true
			s.companies = append(s.companies, d.Organization)
		}
		if d.Year != "" && !seenYear[d.Year] {
			seenYear[d.Year] = true
			s.years = append(s.years, d.Year)
		}
		if d.Indicator != "" && !seenIndicator[d.Indicator] {
			seenIndicator[d.Indicator] = true
			s.indicators = append(s.indicators, d.Indicator)
		}
		if d.HasValue() {
			s.valid++
		} else {
			s.missing++
		}
	}
	slices.Sort(s.years)
	return s
}

func (s summary) yearRange() (first, last string, ok bool) {
	if len(s.years) == 0 {
		return "", "", false
	}
	return s.years[0], s.years[len(s.years)-1], true
}

func head[T any](items []T, n int) []T {
	return items[:min(n, len(items))]
}
