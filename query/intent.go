package query

import (
	"strings"

	"github.com/poiesic/memorag/core"
)

// IntentRule maps keywords to an intent.
type IntentRule struct {
	Intent   core.Intent
	Keywords []string
}

// DefaultIntentRules returns the intent table in evaluation order.
func DefaultIntentRules() []IntentRule {
	return []IntentRule{
		{core.IntentTrend, []string{"趋势", "trend", "变化", "change", "发展", "development", "演变", "evolution"}},
		{core.IntentComparison, []string{"比较", "compare", "对比", "对比分析", "comparative", "vs", "versus"}},
		{core.IntentSpecific, []string{"具体", "specific", "详细", "detail", "具体数据", "specific data"}},
		{core.IntentOverview, []string{"概览", "overview", "总体", "overall", "整体", "general", "综合"}},
		{core.IntentAnalysis, []string{"分析", "analysis", "研究", "research", "评估", "evaluation"}},
	}
}

// IntentClassifier labels a cleaned query with the first intent whose
// keyword occurs in it.
type IntentClassifier struct {
	rules []IntentRule
}

// NewIntentClassifier creates a classifier. A nil table selects DefaultIntentRules.
func NewIntentClassifier(rules []IntentRule) *IntentClassifier {
	if rules == nil {
		rules = DefaultIntentRules()
	}
	return &IntentClassifier{rules: rules}
}

// Classify returns the matching intent, or core.IntentGeneral.
func (c *IntentClassifier) Classify(cleaned string) core.Intent {
	lower := strings.ToLower(cleaned)
	for _, r := range c.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return r.Intent
			}
		}
	}
	return core.IntentGeneral
}
