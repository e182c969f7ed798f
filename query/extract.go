package query

import (
	"github.com/poiesic/memorag/core"
)

// Extractor pulls list-valued entities out of query text.
type Extractor struct {
	rules    []Rule
	taxonomy Taxonomy
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithRules replaces the default query rule table.
func WithRules(rules []Rule) ExtractorOption {
	return func(x *Extractor) {
		x.rules = rules
	}
}

// WithTaxonomy replaces the default taxonomy.
func WithTaxonomy(t Taxonomy) ExtractorOption {
	return func(x *Extractor) {
		x.taxonomy = t
	}
}

// NewExtractor creates an extractor using QueryRules and DefaultTaxonomy
// unless overridden.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	x := &Extractor{
		rules:    QueryRules(),
		taxonomy: DefaultTaxonomy(),
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Extract unions the matches of every rule into the matching entity set and
// records taxonomy hits.
func (x *Extractor) Extract(text string) core.Entities {
	e := core.NewEntities()
	applyRules(x.rules, text, &e)

	categories, keywords := x.taxonomy.Match(text)
	e.Categories.Add(categories...)
	e.Keywords.Add(keywords...)
	return e
}

// applyRules adds every match of rules on text into e. Value rules are
// ignored since queries carry no observations.
func applyRules(rules []Rule, text string, e *core.Entities) {
	for _, r := range rules {
		values := r.apply(text)
		if len(values) == 0 {
			continue
		}
		switch r.Field {
		case FieldOrganization:
			e.Organizations.Add(values...)
		case FieldYear:
			e.Years.Add(values...)
		case FieldIndicator:
			e.Indicators.Add(values...)
		case FieldCode:
			e.IndicatorCodes.Add(values...)
		}
	}
}
