package query

import (
	"strings"

	"github.com/poiesic/memorag/core"
)

// domainMarker is emitted when the query matched no taxonomy category.
const domainMarker = "ESG"

// DefaultIntentPhrases returns the phrase appended to the search string per
// intent. The general intent has none.
func DefaultIntentPhrases() map[core.Intent]string {
	return map[core.Intent]string{
		core.IntentTrend:      "趋势分析",
		core.IntentComparison: "比较分析",
		core.IntentSpecific:   "具体数据",
		core.IntentOverview:   "概览",
		core.IntentAnalysis:   "分析",
	}
}

// suffixRule appends Suffix when Applies holds for the assembled string.
type suffixRule struct {
	Applies func(string) bool
	Suffix  string
}

var optimizerSuffixes = []suffixRule{
	{
		Applies: func(s string) bool { return strings.ContainsAny(s, "公司年指标") },
		Suffix:  " company year indicator",
	},
	{
		Applies: func(s string) bool {
			return strings.Contains(s, "G类") || strings.Contains(strings.ToLower(s), "governance")
		},
		Suffix: " governance corporate governance",
	},
	{
		Applies: func(s string) bool { return strings.Contains(s, "ES类") || strings.Contains(s, "ES指标") },
		Suffix:  " environmental social ES indicators",
	},
}

// Optimizer assembles the search string sent to the embedding model.
type Optimizer struct {
	aliases       *AliasTable
	intentPhrases map[core.Intent]string
}

// NewOptimizer creates an optimizer. A nil table uses DefaultAliases.
func NewOptimizer(aliases *AliasTable) *Optimizer {
	if aliases == nil {
		aliases = NewAliasTable(DefaultAliases()...)
	}
	return &Optimizer{
		aliases:       aliases,
		intentPhrases: DefaultIntentPhrases(),
	}
}

// Build concatenates, in order: the domain marker when no category matched,
// organizations with their aliases, years, indicators, codes, keywords and
// the intent phrase. Mixed-script, governance and ES suffixes follow when
// their markers appear. Set members are emitted in sorted order.
func (o *Optimizer) Build(e core.Entities, intent core.Intent) string {
	var parts []string
	if e.Categories.Len() == 0 {
		parts = append(parts, domainMarker)
	}

	seen := make(map[string]bool)
	for _, org := range e.Organizations.Sorted() {
		for _, form := range append([]string{org}, o.aliases.Aliases(org)...) {
			if k := foldName(form); !seen[k] {
				seen[k] = true
				parts = append(parts, form)
			}
		}
	}

	parts = append(parts, e.Years.Sorted()...)
	parts = append(parts, e.Indicators.Sorted()...)
	parts = append(parts, e.IndicatorCodes.Sorted()...)
	parts = append(parts, e.Keywords.Sorted()...)
	if phrase, ok := o.intentPhrases[intent]; ok {
		parts = append(parts, phrase)
	}

	optimized := strings.Join(parts, " ")
	for _, s := range optimizerSuffixes {
		if s.Applies(optimized) {
			optimized += s.Suffix
		}
	}
	return optimized
}
