package session

import (
	"cmp"
	"slices"
	"time"

	"github.com/poiesic/memorag/core"
)

// Count is one entry of a popularity list.
type Count struct {
	Value string
	Count int
}

// Report summarizes the query history.
type Report struct {
	Total        int
	Recent       int // queries within the recent window
	TopCompanies []Count
	TopYears     []Count
}

// Empty reports whether the history held no queries.
func (r Report) Empty() bool {
	return r.Total == 0
}

// BuildReport counts records, those newer than now-window, and the topN
// most frequent companies and years. Ties are ordered by value.
func BuildReport(records []*core.InteractionRecord, now time.Time, window time.Duration, topN int) Report {
	r := Report{Total: len(records)}
	cutoff := now.Add(-window)
	companies := map[string]int{}
	years := map[string]int{}

	for _, rec := range records {
		if rec.Timestamp.After(cutoff) {
			r.Recent++
		}
		for _, c := range rec.Organizations {
			companies[c]++
		}
		for _, y := range rec.Years {
			years[y]++
		}
	}
	r.TopCompanies = top(companies, topN)
	r.TopYears = top(years, topN)
	return r
}

func top(counts map[string]int, n int) []Count {
	out := make([]Count, 0, len(counts))
	for v, c := range counts {
		out = append(out, Count{Value: v, Count: c})
	}
	slices.SortFunc(out, func(a, b Count) int {
		if a.Count != b.Count {
			return cmp.Compare(b.Count, a.Count)
		}
		return cmp.Compare(a.Value, b.Value)
	})
	return out[:min(n, len(out))]
}
