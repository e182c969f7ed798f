package query

import "github.com/poiesic/memorag/core"

// ConfidenceWeight is the contribution of one entity group.
type ConfidenceWeight struct {
	Name    string
	Weight  float64
	Present func(core.Entities) bool
}

// DefaultConfidenceWeights returns the group weights; they sum to 1.
func DefaultConfidenceWeights() []ConfidenceWeight {
	return []ConfidenceWeight{
		{"organizations", 0.3, func(e core.Entities) bool { return e.Organizations.Len() > 0 }},
		{"years", 0.2, func(e core.Entities) bool { return e.Years.Len() > 0 }},
		{"indicators", 0.3, func(e core.Entities) bool { return e.Indicators.Len() > 0 || e.IndicatorCodes.Len() > 0 }},
		{"categories", 0.2, func(e core.Entities) bool { return e.Categories.Len() > 0 }},
	}
}

// Confidence sums the weights of the non-empty groups, capped at 1.
func Confidence(e core.Entities, weights []ConfidenceWeight) float64 {
	var total float64
	for _, w := range weights {
		if w.Present(e) {
			total += w.Weight
		}
	}
	return min(total, 1.0)
}
