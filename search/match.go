package search

import (
	"strings"

	"github.com/poiesic/memorag/core"
	"github.com/poiesic/memorag/query"
)

// fieldMatcher counts how often the query entities hit a candidate's
// metadata or derived facts. Match scoring and reranking share it so both
// stages agree on what counts as a hit.
type fieldMatcher struct {
	aliases *query.AliasTable
}

// years counts query years equal to the candidate's metadata year, falling
// back to the year parsed from its document.
func (m fieldMatcher) years(c *core.Candidate, e core.Entities) int {
	hits := 0
	metaYear := c.Meta(core.MetaYear)
	for year := range e.Years {
		if (metaYear != "" && metaYear == year) || (c.Derived.Year != "" && c.Derived.Year == year) {
			hits++
		}
	}
	return hits
}

// organizations counts alias-aware name matches. The metadata company and
// the derived organization are checked independently, so one query name
// can hit twice.
func (m fieldMatcher) organizations(c *core.Candidate, e core.Entities) int {
	hits := 0
	company := c.Meta(core.MetaCompany)
	for org := range e.Organizations {
		if company != "" && m.aliases.Matches(org, company) {
			hits++
		}
		if c.Derived.Organization != "" && m.aliases.Matches(org, c.Derived.Organization) {
			hits++
		}
	}
	return hits
}

// codes counts query codes contained in the metadata field code, falling
// back to the derived code. Comparison ignores case.
func (m fieldMatcher) codes(c *core.Candidate, e core.Entities) int {
	hits := 0
	metaCode := strings.ToUpper(c.Meta(core.MetaFieldCode))
	derived := strings.ToUpper(c.Derived.Code)
	for code := range e.IndicatorCodes {
		code = strings.ToUpper(code)
		if (metaCode != "" && strings.Contains(metaCode, code)) || (derived != "" && strings.Contains(derived, code)) {
			hits++
		}
	}
	return hits
}

// MatchRule is one named contribution to a candidate's match score.
type MatchRule struct {
	Name   string
	Points int
	Hits   func(c *core.Candidate, e core.Entities) int
}

// DefaultMatchRules awards 10 points per year, organization and code hit.
func DefaultMatchRules(aliases *query.AliasTable) []MatchRule {
	m := fieldMatcher{aliases: aliases}
	return []MatchRule{
		{Name: "year", Points: 10, Hits: m.years},
		{Name: "organization", Points: 10, Hits: m.organizations},
		{Name: "code", Points: 10, Hits: m.codes},
	}
}

// MatchScorer filters candidates down to those sharing at least one
// year, organization or code with the query.
type MatchScorer struct {
	rules []MatchRule
}

// NewMatchScorer creates a scorer from rules. Nil rules select
// DefaultMatchRules with the built-in alias table.
func NewMatchScorer(rules []MatchRule) *MatchScorer {
	if rules == nil {
		rules = DefaultMatchRules(query.NewAliasTable(query.DefaultAliases()...))
	}
	return &MatchScorer{rules: rules}
}

// Score sums every rule's points for c.
func (s *MatchScorer) Score(c *core.Candidate, e core.Entities) int {
	total := 0
	for _, r := range s.rules {
		total += r.Points * r.Hits(c, e)
	}
	return total
}

// Filter returns the candidates with a positive match score, each with
// MatchScore set. It reports applied=false and returns candidates unchanged
// when the query has no year, organization or code, or when no candidate
// scores above zero.
func (s *MatchScorer) Filter(candidates []*core.Candidate, e core.Entities) (kept []*core.Candidate, applied bool) {
	if !e.HasFilterable() {
		return candidates, false
	}

	scores := make([]int, len(candidates))
	for i, c := range candidates {
		scores[i] = s.Score(c, e)
		if scores[i] > 0 {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return candidates, false
	}

	for i, c := range candidates {
		if scores[i] > 0 {
			c.MatchScore = scores[i]
			c.HasMatchScore = true
		}
	}
	return kept, true
}
