package answer

import (
	"strings"

	"github.com/poiesic/memorag/core"
	"github.com/poiesic/memorag/i18n"
)

// HighSimilarity is the similarity above which a result counts as highly
// relevant.
const HighSimilarity = 0.8

// Insights lists short observations about a result set: how many results
// are highly similar, how many records are complete, which companies and
// which year range are covered.
func Insights(results []*core.Candidate, loc i18n.Localizer) []string {
	if len(results) == 0 {
		return []string{loc.T(i18n.InsightNone)}
	}

	var out []string
	high, complete := 0, 0
	for _, c := range results {
		if c.Similarity > HighSimilarity {
			high++
		}
		if !c.Incomplete() {
			complete++
		}
	}
	if high > 0 {
		out = append(out, loc.F(i18n.InsightHighSimilarity, high))
	}
	if complete > 0 {
		out = append(out, loc.F(i18n.InsightComplete, complete))
	}

	s := summarize(results)
	if len(s.companies) > 0 {
		out = append(out, loc.F(i18n.InsightCompanies, len(s.companies), strings.Join(head(s.companies, listed), ", ")))
	}
	if first, last, ok := s.yearRange(); ok {
		out = append(out, loc.F(i18n.InsightYears, first, last))
	}
	return out
}
