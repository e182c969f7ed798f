package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poiesic/memorag/core"
)

func TestIntentClassifier_Classify(t *testing.T) {
	c := NewIntentClassifier(nil)

	tests := []struct {
		query string
		want  core.Intent
	}{
		{"Alcoa emissions trend 2005 2010", core.IntentTrend},
		{"阿尔科排放的变化", core.IntentTrend},
		{"Compare Alcoa and Agilent", core.IntentComparison},
		{"Alcoa VS Agilent", core.IntentComparison},
		{"具体数据 for ES001", core.IntentSpecific},
		{"Give me an OVERVIEW", core.IntentOverview},
		{"governance analysis", core.IntentAnalysis},
		{"Show Alcoa Corp data", core.IntentGeneral},
		{"", core.IntentGeneral},
		// trend is checked before comparison
		{"compare the trend", core.IntentTrend},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.query))
		})
	}
}

func TestIntentClassifier_CustomRules(t *testing.T) {
	c := NewIntentClassifier([]IntentRule{{Intent: core.IntentSpecific, Keywords: []string{"exact"}}})
	assert.Equal(t, core.IntentSpecific, c.Classify("the EXACT value"))
	assert.Equal(t, core.IntentGeneral, c.Classify("the trend"))
}
