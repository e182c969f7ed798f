package memorag

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/memorag/ai"
	"github.com/poiesic/memorag/ai/mock"
	"github.com/poiesic/memorag/answer"
	"github.com/poiesic/memorag/config"
	"github.com/poiesic/memorag/core"
	"github.com/poiesic/memorag/ingestion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func corpus() []ingestion.Row {
	row := func(ticker, company, year, code, name, value string) ingestion.Row {
		return ingestion.Row{Ticker: ticker, Company: company, Year: year, FieldCode: code, FieldName: name, Value: value}
	}
	return []ingestion.Row{
		row("AA US Equity", "Alcoa Corp", "2007", "ES001", "Nitrogen Oxide Emissions", "12.5"),
		row("AA US Equity", "Alcoa Corp", "2008", "ES001", "Nitrogen Oxide Emissions", "11.9"),
		row("A US Equity", "Agilent Technologies Inc", "2015", "SS014", "Pct Women in Workforce", "37"),
		row("XYZ US Equity", "Xyzzy Holdings", "2016", "ES004", "Methane Emissions", "3.1"),
	}
}

func openMemory(t *testing.T, cfg *config.Config, provider ai.AIProvider) *Engine {
	t.Helper()
	e, err := Open(context.Background(), cfg, WithProvider(provider), WithInMemory())
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func TestOpen(t *testing.T) {
	t.Run("requires configuration", func(t *testing.T) {
		e, err := Open(context.Background(), nil)
		assert.ErrorIs(t, err, ErrConfigRequired)
		assert.Nil(t, e)
	})

	t.Run("empty in-memory engine", func(t *testing.T) {
		e := openMemory(t, config.Default(), mock.NewMockProvider())
		stats, err := e.IndexStats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, IndexStats{Collection: "esg_fields"}, stats)
		assert.False(t, e.HasResponder())
		assert.NotNil(t, e.Searcher())
	})
}

func TestEngine_IngestAndAsk(t *testing.T) {
	ctx := context.Background()
	e := openMemory(t, config.Default(), mock.NewMockProvider())

	stats, err := e.Ingest(ctx, corpus())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Indexed)
	assert.Equal(t, 3, stats.Aliases)

	indexStats, err := e.IndexStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, indexStats.Documents)
	assert.Equal(t, mock.DefaultDimension, indexStats.Dimension)

	assert.Contains(t, e.aliasTable.Aliases("XYZ US Equity"), "Xyzzy Holdings")

	sess, err := e.NewSession()
	require.NoError(t, err)

	turn := e.Ask(ctx, sess, "Alcoa Corp 2007 nitrogen oxide emissions", nil)
	require.NoError(t, turn.Search.Err)
	require.NotEmpty(t, turn.Search.Results)
	top := turn.Search.Results[0]
	assert.Equal(t, "AA US Equity_2007_ES001", top.ID)
	assert.Equal(t, "Alcoa Corp", top.Metadata[core.MetaCompany])
	assert.Equal(t, answer.ModeTemplate, turn.Answer.Mode)
	assert.NotEmpty(t, turn.Answer.Text)

	assert.Equal(t, "Alcoa Corp 2007 nitrogen oxide emissions", sess.LastQuery())
	history := sess.Interactions(ctx, 0)
	require.Len(t, history, 1)
	assert.Contains(t, history[0].Years, "2007")

	// a follow-up inherits the organization of the previous turn
	turn = e.Ask(ctx, sess, "How about the trend?", nil)
	assert.True(t, turn.Search.Analysis.Extracted.Organizations.Has("Alcoa Corp"))
	assert.Equal(t, core.IntentTrend, turn.Search.Analysis.Intent)
}

func TestEngine_AskWithResponder(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Session.Mode = "llm"
	cfg.AI.RetryDelay = time.Millisecond

	responder := mock.NewMockResponder("Alcoa emitted 12.5 in 2007.")
	e := openMemory(t, cfg, mock.NewMockProviderWithServices(mock.NewMockEmbedder(), responder))
	require.True(t, e.HasResponder())

	_, err := e.Ingest(ctx, corpus())
	require.NoError(t, err)

	sess, err := e.NewSession()
	require.NoError(t, err)
	turn := e.Ask(ctx, sess, "Alcoa Corp 2007 nitrogen oxide emissions", nil)
	assert.Equal(t, answer.ModeLLM, turn.Answer.Mode)
	assert.Equal(t, "Alcoa emitted 12.5 in 2007.", turn.Answer.Text)
	require.Len(t, responder.Prompts(), 1)
	assert.Contains(t, responder.Prompts()[0], "Alcoa Corp (2007)")
}

func TestEngine_DimensionCheck(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Data.Dir = t.TempDir()

	e, err := Open(ctx, cfg, WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	_, err = e.Ingest(ctx, corpus())
	require.NoError(t, err)
	require.NoError(t, e.Close())

	narrow := mock.NewMockEmbedder()
	narrow.Dimension = 32

	_, err = Open(ctx, cfg, WithProvider(mock.NewMockProviderWithServices(narrow, nil)))
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	cfg.Index.AllowDimensionMismatch = true
	e, err = Open(ctx, cfg, WithProvider(mock.NewMockProviderWithServices(narrow, nil)))
	require.NoError(t, err)
	defer e.Close()

	stats, err := e.IndexStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Documents)
	assert.Equal(t, mock.DefaultDimension, stats.Dimension)
}
