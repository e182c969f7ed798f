package session

import (
	"time"

	"github.com/poiesic/memorag/core"
)

// NewRecord summarizes one answered query. Companies, years and indicators
// come from each result's metadata, falling back to the facts parsed from
// its document, in first-seen order without duplicates.
func NewRecord(query string, results []*core.Candidate, at time.Time) *core.InteractionRecord {
	rec := &core.InteractionRecord{
		Timestamp:   at.UTC(),
		Query:       query,
		ResultCount: len(results),
	}

	var companies, years, indicators distinct
	for _, c := range results {
		if c.Similarity > rec.TopSimilarity {
			rec.TopSimilarity = c.Similarity
		}
		companies.add(firstOf(c.Meta(core.MetaCompany), c.Derived.Organization))
		years.add(firstOf(c.Meta(core.MetaYear), c.Derived.Year))
		indicators.add(firstOf(c.Meta(core.MetaFieldName), c.Derived.Indicator))
	}
	rec.Organizations = companies.items
	rec.Years = years.items
	rec.Indicators = indicators.items
	return rec
}

type distinct struct {
	seen  map[string]bool
	items []string
}

func (d *distinct) add(v string) {
	if v == "" {
		return
	}
	if d.seen == nil {
		d.seen = map[string]bool{}
	}
	if !d.seen[v] {
		d.seen[v] = true
		d.items = append(d.items, v)
	}
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
