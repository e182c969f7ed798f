package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poiesic/memorag/core"
)

func TestConfidence(t *testing.T) {
	weights := DefaultConfidenceWeights()

	t.Run("empty is zero", func(t *testing.T) {
		assert.Zero(t, Confidence(core.NewEntities(), weights))
	})

	t.Run("all groups reach one", func(t *testing.T) {
		e := core.NewEntities()
		e.Organizations.Add("Alcoa Corp")
		e.Years.Add("2007")
		e.IndicatorCodes.Add("ES001")
		e.Categories.Add("environment")
		assert.InDelta(t, 1.0, Confidence(e, weights), 1e-9)
	})

	t.Run("each group strictly increases", func(t *testing.T) {
		fills := []func(*core.Entities){
			func(e *core.Entities) { e.Organizations.Add("Alcoa Corp") },
			func(e *core.Entities) { e.Years.Add("2007") },
			func(e *core.Entities) { e.Indicators.Add("methane emissions") },
			func(e *core.Entities) { e.Categories.Add("methane") },
		}
		e := core.NewEntities()
		prev := Confidence(e, weights)
		for _, fill := range fills {
			fill(&e)
			got := Confidence(e, weights)
			assert.Greater(t, got, prev)
			assert.LessOrEqual(t, got, 1.0)
			prev = got
		}
	})

	t.Run("indicator or code counts once", func(t *testing.T) {
		e := core.NewEntities()
		e.Indicators.Add("methane emissions")
		e.IndicatorCodes.Add("ES004")
		assert.InDelta(t, 0.3, Confidence(e, weights), 1e-9)
	})

	t.Run("capped", func(t *testing.T) {
		heavy := []ConfidenceWeight{
			{Name: "a", Weight: 0.8, Present: func(core.Entities) bool { return true }},
			{Name: "b", Weight: 0.8, Present: func(core.Entities) bool { return true }},
		}
		assert.Equal(t, 1.0, Confidence(core.NewEntities(), heavy))
	})
}
