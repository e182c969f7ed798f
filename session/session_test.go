package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/memorag/answer"
	"github.com/poiesic/memorag/core"
	"github.com/poiesic/memorag/i18n"
	"github.com/poiesic/memorag/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUnavailable = errors.New("history unavailable")

// brokenHistory fails every call.
type brokenHistory struct{}

func (brokenHistory) AppendInteraction(context.Context, *core.InteractionRecord) (*core.InteractionRecord, error) {
	return nil, errUnavailable
}
func (brokenHistory) RecentInteractions(context.Context, int) ([]*core.InteractionRecord, error) {
	return nil, errUnavailable
}
func (brokenHistory) InteractionsSince(context.Context, time.Time) ([]*core.InteractionRecord, error) {
	return nil, errUnavailable
}
func (brokenHistory) CountInteractions(context.Context) (int, error) { return 0, errUnavailable }
func (brokenHistory) ClearInteractions(context.Context) error        { return errUnavailable }

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func result(company, year, field string, similarity float64) *core.Candidate {
	return core.NewCandidate(company+year, "", map[string]string{
		core.MetaCompany:   company,
		core.MetaYear:      year,
		core.MetaFieldName: field,
	}, 1-similarity, 0)
}

func turn(raw string) *core.QueryAnalysis {
	return &core.QueryAnalysis{RawQuery: raw}
}

func TestConfig(t *testing.T) {
	t.Run("defaults validate", func(t *testing.T) {
		require.NoError(t, NewConfig().Validate())
	})

	t.Run("normalize fills zero values", func(t *testing.T) {
		c := &Config{}
		require.NoError(t, c.Validate())
		assert.Equal(t, 1000, c.HistoryCapacity)
		assert.Equal(t, 5, c.TopN)
		assert.Equal(t, i18n.English, c.Locale)
	})

	t.Run("invalid values", func(t *testing.T) {
		assert.Error(t, NewConfig(WithHistoryCapacity(-1)).Validate())
		assert.Error(t, NewConfig(WithTopN(-2)).Validate())
		assert.Error(t, NewConfig(WithRecentWindow(-time.Hour)).Validate())
		assert.ErrorIs(t, NewConfig(WithLocale("fr")).Validate(), i18n.ErrUnknownLocale)
	})
}

func TestNewRecord(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	derivedOnly := core.NewCandidate("x", "", nil, 0.5, 2)
	derivedOnly.Derived = core.Fact{Organization: "Agilent Technologies Inc", Year: "2015", Indicator: "Pct Women in Workforce"}

	rec := NewRecord("Alcoa 2007", []*core.Candidate{
		result("Alcoa Corporation", "2007", "Nitrogen Oxide Emissions", 0.7),
		result("Alcoa Corporation", "2008", "Nitrogen Oxide Emissions", 0.9),
		derivedOnly,
	}, at)

	assert.Equal(t, "Alcoa 2007", rec.Query)
	assert.Equal(t, 3, rec.ResultCount)
	assert.InDelta(t, 0.9, rec.TopSimilarity, 1e-9)
	assert.Equal(t, []string{"Alcoa Corporation", "Agilent Technologies Inc"}, rec.Organizations)
	assert.Equal(t, []string{"2007", "2008", "2015"}, rec.Years)
	assert.Equal(t, []string{"Nitrogen Oxide Emissions", "Pct Women in Workforce"}, rec.Indicators)
	assert.Equal(t, at, rec.Timestamp)
	require.NoError(t, core.ValidateInteractionRecord(rec))
}

func TestSession_LastQueryAndPersistence(t *testing.T) {
	stores, err := badger.NewMemoryStores(10)
	require.NoError(t, err)
	defer stores.Close()

	s, err := New(stores.History, nil)
	require.NoError(t, err)
	ctx := context.Background()

	assert.Empty(t, s.LastQuery())
	stored := s.Record(ctx, turn("Alcoa Corp 2007 nitrogen oxide emissions"), []*core.Candidate{result("Alcoa Corporation", "2007", "NOx", 0.8)})
	require.NotNil(t, stored)
	assert.NotZero(t, stored.Id)
	assert.Equal(t, "Alcoa Corp 2007 nitrogen oxide emissions", s.LastQuery())

	s.Record(ctx, turn("How about this trend?"), nil)
	assert.Equal(t, "How about this trend?", s.LastQuery())

	count, err := stores.History.CountInteractions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	history := s.Interactions(ctx, 0)
	require.Len(t, history, 2)
	assert.Equal(t, "Alcoa Corp 2007 nitrogen oxide emissions", history[0].Query)

	assert.Nil(t, s.Record(ctx, nil, nil))
}

func TestSession_FallsBackToMemory(t *testing.T) {
	s, err := New(brokenHistory{}, NewConfig(WithHistoryCapacity(3)))
	require.NoError(t, err)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		rec := s.Record(ctx, turn(fmt.Sprintf("q%d", i)), nil)
		require.NotNil(t, rec)
	}
	assert.Equal(t, "q4", s.LastQuery())

	history := s.Interactions(ctx, 0)
	require.Len(t, history, 3)
	assert.Equal(t, "q2", history[0].Query)
	assert.Equal(t, "q4", history[2].Query)

	latest := s.Interactions(ctx, 1)
	require.Len(t, latest, 1)
	assert.Equal(t, "q4", latest[0].Query)

	assert.ErrorIs(t, s.Clear(ctx), errUnavailable)
	assert.Empty(t, s.Interactions(ctx, 0))
}

func TestSession_Report(t *testing.T) {
	c := &clock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	s, err := New(nil, nil, WithClock(c.now))
	require.NoError(t, err)
	ctx := context.Background()

	assert.True(t, s.Report(ctx).Empty())

	s.Record(ctx, turn("old"), []*core.Candidate{result("Alcoa Corporation", "2007", "NOx", 0.8)})
	c.t = c.t.Add(10 * 24 * time.Hour)
	s.Record(ctx, turn("a"), []*core.Candidate{
		result("Agilent Technologies Inc", "2015", "Pct Women in Workforce", 0.8),
		result("Alcoa Corporation", "2015", "NOx", 0.6),
	})
	s.Record(ctx, turn("b"), []*core.Candidate{result("Alcoa Corporation", "2008", "NOx", 0.8)})

	r := s.Report(ctx)
	assert.Equal(t, 3, r.Total)
	assert.Equal(t, 2, r.Recent)
	assert.Equal(t, []Count{
		{Value: "Alcoa Corporation", Count: 3},
		{Value: "Agilent Technologies Inc", Count: 1},
	}, r.TopCompanies)
	assert.Equal(t, []Count{
		{Value: "2007", Count: 1},
		{Value: "2008", Count: 1},
		{Value: "2015", Count: 1},
	}, r.TopYears)
}

func TestBuildReport_TopN(t *testing.T) {
	now := time.Now()
	var records []*core.InteractionRecord
	for i := 0; i < 8; i++ {
		records = append(records, &core.InteractionRecord{
			Timestamp:     now,
			Query:         "q",
			Organizations: []string{fmt.Sprintf("Company %d", i%7)},
		})
	}
	r := BuildReport(records, now, time.Hour, 5)
	require.Len(t, r.TopCompanies, 5)
	assert.Equal(t, Count{Value: "Company 0", Count: 2}, r.TopCompanies[0])
	assert.Equal(t, "Company 1", r.TopCompanies[1].Value)
}

func TestSession_Clear(t *testing.T) {
	stores, err := badger.NewMemoryStores(10)
	require.NoError(t, err)
	defer stores.Close()

	s, err := New(stores.History, nil)
	require.NoError(t, err)
	ctx := context.Background()

	s.Record(ctx, turn("Alcoa Corp 2007"), nil)
	require.NoError(t, s.Clear(ctx))
	assert.Empty(t, s.Interactions(ctx, 0))
	assert.Equal(t, "Alcoa Corp 2007", s.LastQuery())
}

func TestSession_ID(t *testing.T) {
	a, err := New(nil, nil)
	require.NoError(t, err)
	b, err := New(nil, nil)
	require.NoError(t, err)

	_, err = uuid.Parse(a.ID())
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestSession_Toggles(t *testing.T) {
	s, err := New(nil, NewConfig(WithLocale(i18n.Chinese)))
	require.NoError(t, err)

	assert.Equal(t, i18n.Chinese, s.Locale())
	s.SetLocale(i18n.English)
	assert.Equal(t, i18n.English, s.Locale())

	assert.False(t, s.Debug())
	assert.True(t, s.ToggleDebug())
	assert.False(t, s.ToggleDebug())

	mode, ok := s.ToggleMode(false)
	assert.False(t, ok)
	assert.Equal(t, answer.ModeTemplate, mode)

	mode, ok = s.ToggleMode(true)
	assert.True(t, ok)
	assert.Equal(t, answer.ModeLLM, mode)
	assert.Equal(t, answer.ModeLLM, s.Mode())

	mode, _ = s.ToggleMode(true)
	assert.Equal(t, answer.ModeTemplate, mode)
}
