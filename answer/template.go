package answer

import (
	"strings"

	"github.com/poiesic/memorag/core"
	"github.com/poiesic/memorag/i18n"
)

// listed is how many companies or indicators a template answer names.
const listed = 3

var openings = map[core.Intent]i18n.MessageID{
	core.IntentTrend:      i18n.OpeningTrend,
	core.IntentComparison: i18n.OpeningComparison,
	core.IntentSpecific:   i18n.OpeningSpecific,
}

// Template writes a short answer from the ranked results without a model.
// The opening follows the query intent; the rest states counts, the
// companies, years and indicators involved, and the share of missing values.
func Template(intent core.Intent, results []*core.Candidate, loc i18n.Localizer) string {
	if len(results) == 0 {
		return loc.T(i18n.NoData)
	}

	opening, ok := openings[intent]
	if !ok {
		opening = i18n.OpeningGeneral
	}
	parts := []string{loc.T(opening), loc.F(i18n.FoundRecords, len(results))}

	s := summarize(results)
	if len(s.companies) > 0 {
		parts = append(parts, loc.F(i18n.CompaniesInvolved, strings.Join(head(s.companies, listed), ", ")))
	}
	if first, last, ok := s.yearRange(); ok {
		parts = append(parts, loc.F(i18n.YearRange, first, last))
	}
	if len(s.indicators) > 0 {
		parts = append(parts, loc.F(i18n.MainIndicators, strings.Join(head(s.indicators, listed), ", ")))
	}
	if s.missing > 0 {
		parts = append(parts, loc.F(i18n.MissingValues, s.missing))
	}
	if len(results) > 1 && len(s.years) > 1 {
		parts = append(parts, loc.T(i18n.TemporalTrend))
	}
	if s.missing*2 > len(results) {
		parts = append(parts, loc.T(i18n.AdviseBroaden))
	} else {
		parts = append(parts, loc.T(i18n.AdviseReview))
	}
	return strings.Join(parts, " ")
}
