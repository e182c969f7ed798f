package search

import (
	"cmp"
	"slices"

	"github.com/poiesic/memorag/core"
	"github.com/poiesic/memorag/query"
)

// ScoreRule is one named term of the rerank score.
type ScoreRule struct {
	Name  string
	Score func(c *core.Candidate, e core.Entities) float64
}

// DefaultScoreRules returns the rerank terms in evaluation order.
func DefaultScoreRules(aliases *query.AliasTable) []ScoreRule {
	m := fieldMatcher{aliases: aliases}
	return []ScoreRule{
		{Name: "validity", Score: func(c *core.Candidate, _ core.Entities) float64 {
			if c.Derived.HasValue() {
				return 100
			}
			return -20
		}},
		{Name: "match", Score: func(c *core.Candidate, _ core.Entities) float64 {
			if !c.HasMatchScore {
				return 0
			}
			return float64(c.MatchScore * 5)
		}},
		{Name: "year", Score: func(c *core.Candidate, e core.Entities) float64 {
			return float64(50 * m.years(c, e))
		}},
		{Name: "organization", Score: func(c *core.Candidate, e core.Entities) float64 {
			return float64(30 * m.organizations(c, e))
		}},
		{Name: "code", Score: func(c *core.Candidate, e core.Entities) float64 {
			return float64(20 * m.codes(c, e))
		}},
		{Name: "similarity", Score: func(c *core.Candidate, _ core.Entities) float64 {
			return c.Similarity * 10
		}},
		{Name: "category", Score: func(_ *core.Candidate, e core.Entities) float64 {
			if e.Categories.Len() > 0 {
				return 10
			}
			return 0
		}},
	}
}

// Reranker orders candidates by the sum of its score rules.
type Reranker struct {
	rules []ScoreRule
}

// NewReranker creates a reranker from rules. Nil rules select
// DefaultScoreRules with the built-in alias table.
func NewReranker(rules []ScoreRule) *Reranker {
	if rules == nil {
		rules = DefaultScoreRules(query.NewAliasTable(query.DefaultAliases()...))
	}
	return &Reranker{rules: rules}
}

// Score returns the rerank score of c without modifying it.
func (r *Reranker) Score(c *core.Candidate, e core.Entities) float64 {
	var total float64
	for _, rule := range r.rules {
		total += rule.Score(c, e)
	}
	return total
}

// Breakdown returns each rule's contribution to the score of c.
func (r *Reranker) Breakdown(c *core.Candidate, e core.Entities) map[string]float64 {
	out := make(map[string]float64, len(r.rules))
	for _, rule := range r.rules {
		out[rule.Name] = rule.Score(c, e)
	}
	return out
}

// Rerank sets RerankScore on every candidate and sorts the slice in place,
// highest first. Equal scores keep their incoming order.
func (r *Reranker) Rerank(candidates []*core.Candidate, e core.Entities) []*core.Candidate {
	for _, c := range candidates {
		c.RerankScore = r.Score(c, e)
	}
	slices.SortStableFunc(candidates, func(a, b *core.Candidate) int {
		return cmp.Compare(b.RerankScore, a.RerankScore)
	})
	return candidates
}

// Select returns the first n ranked candidates. n <= 0 yields an empty
// slice; n beyond the list returns all of it.
func Select(ranked []*core.Candidate, n int) []*core.Candidate {
	if n <= 0 {
		return []*core.Candidate{}
	}
	if n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}
