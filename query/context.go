package query

import (
	"strings"

	"github.com/poiesic/memorag/core"
)

// ContextResolver carries organizations and indicators over from the
// previous turn.
type ContextResolver struct {
	rules []Rule
}

// NewContextResolver creates a resolver. A nil table selects ContextRules.
func NewContextResolver(rules []Rule) *ContextResolver {
	if rules == nil {
		rules = ContextRules()
	}
	return &ContextResolver{rules: rules}
}

// Resolve returns current extended with entities from previous. Organizations
// are adopted only when current has none; indicators only when current has
// neither indicators nor codes. Nothing is ever removed, and an empty
// previous query leaves current untouched. current is not modified.
func (r *ContextResolver) Resolve(current core.Entities, previous string) core.Entities {
	out := current.Clone()
	if strings.TrimSpace(previous) == "" {
		return out
	}

	needOrgs := current.Organizations.Len() == 0
	needIndicators := current.Indicators.Len() == 0 && current.IndicatorCodes.Len() == 0
	if !needOrgs && !needIndicators {
		return out
	}

	for _, rule := range r.rules {
		switch {
		case rule.Field == FieldOrganization && needOrgs:
			out.Organizations.Add(rule.apply(previous)...)
		case rule.Field == FieldIndicator && needIndicators:
			out.Indicators.Add(rule.apply(previous)...)
		}
	}
	return out
}
