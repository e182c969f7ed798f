package answer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/memorag/ai/mock"
	"github.com/poiesic/memorag/core"
	"github.com/poiesic/memorag/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fact(org, year, indicator, value string, similarity, score float64) *core.Candidate {
	c := core.NewCandidate(org+year, "", nil, 1-similarity, 0)
	c.Derived = core.Fact{Organization: org, Year: year, Indicator: indicator, Value: value}
	c.RerankScore = score
	return c
}

func alcoaResults() []*core.Candidate {
	return []*core.Candidate{
		fact("Alcoa Corp", "2007", "Nitrogen Oxide Emissions", "12.5", 0.9, 367),
		fact("Alcoa Corp", "2008", "Nitrogen Oxide Emissions", "nan", 0.7, 149),
	}
}

func analysis(intent core.Intent) *core.QueryAnalysis {
	return &core.QueryAnalysis{
		RawQuery:   "Alcoa Corp 2007 nitrogen oxide emissions trend",
		Intent:     intent,
		Confidence: 0.8,
	}
}

func TestTemplate(t *testing.T) {
	en := i18n.Default().For(i18n.English)

	t.Run("no results", func(t *testing.T) {
		assert.Equal(t, en.T(i18n.NoData), Template(core.IntentTrend, nil, en))
	})

	t.Run("trend in english", func(t *testing.T) {
		got := Template(core.IntentTrend, alcoaResults(), en)
		want := "Based on trend analysis, I found 2 relevant data records. " +
			"Companies involved include: Alcoa Corp. " +
			"Data year range: 2007-2008. " +
			"Main indicators include: Nitrogen Oxide Emissions. " +
			"Note: 1 records are missing or NaN. " +
			"From a temporal perspective, the data shows certain trends. " +
			"I recommend reviewing specific data details for more accurate information."
		assert.Equal(t, want, got)
	})

	t.Run("general opening in chinese", func(t *testing.T) {
		got := Template(core.IntentOverview, alcoaResults(), i18n.Default().For(i18n.Chinese))
		assert.True(t, strings.HasPrefix(got, "根据查询结果，"), got)
		assert.Contains(t, got, "我找到了 2 条相关数据。")
	})

	t.Run("mostly missing advises broadening", func(t *testing.T) {
		results := []*core.Candidate{
			fact("Alcoa Corp", "2007", "Methane Emissions", "", 0.5, 0),
			fact("Alcoa Corp", "2007", "Methane Emissions", "nan", 0.5, 0),
			fact("Alcoa Corp", "2007", "Methane Emissions", "3", 0.5, 0),
		}
		got := Template(core.IntentSpecific, results, en)
		assert.True(t, strings.HasPrefix(got, "Specific data shows,"))
		assert.Contains(t, got, en.T(i18n.AdviseBroaden))
		assert.NotContains(t, got, en.T(i18n.TemporalTrend))
	})

	t.Run("lists at most three companies", func(t *testing.T) {
		var results []*core.Candidate
		for i := 0; i < 5; i++ {
			results = append(results, fact(fmt.Sprintf("Company%d Inc", i), "2015", "x", "1", 0.5, 0))
		}
		got := Template(core.IntentGeneral, results, en)
		assert.Contains(t, got, "Company0 Inc, Company1 Inc, Company2 Inc.")
		assert.NotContains(t, got, "Company3 Inc")
	})
}

func TestInsights(t *testing.T) {
	en := i18n.Default().For(i18n.English)
	assert.Equal(t, []string{"No related data found"}, Insights(nil, en))

	results := alcoaResults()
	results[1].Metadata[core.MetaIncomplete] = "True"
	got := Insights(results, en)
	assert.Equal(t, []string{
		"1 highly relevant records (similarity > 0.8)",
		"Data completeness is good, 1 records complete",
		"1 companies involved: Alcoa Corp",
		"Data year range: 2007-2008",
	}, got)
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("Alcoa trend", alcoaResults(), Context(analysis(core.IntentTrend)), i18n.Chinese)

	assert.Contains(t, prompt, "Query: Alcoa trend")
	assert.Contains(t, prompt, "1. ✅Valid data Alcoa Corp (2007) - Nitrogen Oxide Emissions: 12.5 [Quality score:367.0]")
	assert.Contains(t, prompt, "2. ❌Missing data Alcoa Corp (2008) - Nitrogen Oxide Emissions: nan [Quality score:149.0]")
	assert.Contains(t, prompt, "Data quality statistics: 1 valid data, 1 missing data")
	assert.Contains(t, prompt, "Context: Query intent: trend, Confidence: 0.80")
	assert.Contains(t, prompt, "- Use Chinese (中文)")

	var many []*core.Candidate
	for i := 0; i < 12; i++ {
		many = append(many, fact("Alcoa Corp", "2007", "x", "", 0.5, 0))
	}
	prompt = BuildPrompt("q", many, "", i18n.English)
	assert.Contains(t, prompt, "\n10. ❌Missing data")
	assert.NotContains(t, prompt, "\n11. ")
	assert.Contains(t, prompt, "0 valid data, 12 missing data")
	assert.Contains(t, prompt, "- Use English")
}

func TestGenerator_TemplateMode(t *testing.T) {
	responder := mock.NewMockResponder("model answer")
	g := NewGenerator(responder)

	got := g.Generate(context.Background(), analysis(core.IntentTrend), alcoaResults(), ModeTemplate, i18n.English)
	assert.Equal(t, ModeTemplate, got.Mode)
	assert.True(t, strings.HasPrefix(got.Text, "Based on trend analysis,"))
	assert.Len(t, got.Insights, 4)
	assert.Zero(t, responder.CallCount())
}

func TestGenerator_LLMMode(t *testing.T) {
	responder := mock.NewMockResponder("model answer")
	g := NewGenerator(responder, WithRetryDelay(0))

	got := g.Generate(context.Background(), analysis(core.IntentTrend), alcoaResults(), ModeLLM, i18n.English)
	require.NoError(t, got.Err)
	assert.Equal(t, ModeLLM, got.Mode)
	assert.Equal(t, "model answer", got.Text)
	require.Len(t, responder.Prompts(), 1)
	assert.Contains(t, responder.Prompts()[0], "Query: Alcoa Corp 2007 nitrogen oxide emissions trend")
}

func TestGenerator_RetriesThenSucceeds(t *testing.T) {
	responder := mock.NewMockResponder("")
	calls := 0
	responder.RespondFunc = func(context.Context, string) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("timeout")
		}
		return "third time", nil
	}
	g := NewGenerator(responder, WithRetryDelay(time.Millisecond))

	got := g.Generate(context.Background(), analysis(core.IntentTrend), alcoaResults(), ModeLLM, i18n.English)
	assert.Equal(t, ModeLLM, got.Mode)
	assert.Equal(t, "third time", got.Text)
	assert.Equal(t, 3, responder.CallCount())
}

func TestGenerator_FallsBackAfterAttempts(t *testing.T) {
	responder := mock.NewMockResponder("")
	failure := errors.New("service unavailable")
	responder.RespondFunc = func(context.Context, string) (string, error) {
		return "", failure
	}
	g := NewGenerator(responder, WithAttempts(2), WithRetryDelay(0))

	got := g.Generate(context.Background(), analysis(core.IntentComparison), alcoaResults(), ModeLLM, i18n.English)
	assert.Equal(t, ModeTemplate, got.Mode)
	assert.ErrorIs(t, got.Err, failure)
	assert.True(t, strings.HasPrefix(got.Text, "Through comparative analysis,"))
	assert.Equal(t, 2, responder.CallCount())
}

func TestGenerator_NoResponder(t *testing.T) {
	g := NewGenerator(nil)
	assert.False(t, g.HasResponder())

	got := g.Generate(context.Background(), analysis(core.IntentTrend), alcoaResults(), ModeLLM, i18n.English)
	assert.Equal(t, ModeTemplate, got.Mode)
	assert.ErrorIs(t, got.Err, ErrNoResponder)
}

func TestGenerator_EmptyResultsSkipResponder(t *testing.T) {
	responder := mock.NewMockResponder("model answer")
	g := NewGenerator(responder)

	got := g.Generate(context.Background(), analysis(core.IntentTrend), nil, ModeLLM, i18n.Chinese)
	assert.Equal(t, ModeTemplate, got.Mode)
	assert.NoError(t, got.Err)
	assert.Equal(t, i18n.Default().Text(i18n.NoData, i18n.Chinese), got.Text)
	assert.Zero(t, responder.CallCount())
}

func TestRetry(t *testing.T) {
	logger := NewGenerator(nil).logger

	t.Run("invalid attempts", func(t *testing.T) {
		err := retry(context.Background(), logger, 0, 0, func() error { return nil })
		assert.Equal(t, ErrInvalidAttempts, err)
	})

	t.Run("cancelled context stops waiting", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		err := retry(ctx, logger, 3, time.Hour, func() error {
			calls++
			cancel()
			return errors.New("boom")
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}
