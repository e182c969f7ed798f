package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/poiesic/memorag/ai/mock"
	"github.com/poiesic/memorag/core"
	"github.com/poiesic/memorag/query"
	"github.com/poiesic/memorag/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeIndex returns its hits in order regardless of the query vector.
type fakeIndex struct {
	mu        sync.Mutex
	hits      []storage.IndexHit
	err       error
	requested []int
}

func (f *fakeIndex) Add(context.Context, []storage.FactDocument) error { return nil }
func (f *fakeIndex) Count() int                                        { return len(f.hits) }
func (f *fakeIndex) Dimension(context.Context) (int, error)            { return mock.DefaultDimension, nil }
func (f *fakeIndex) Name() string                                      { return "fake" }
func (f *fakeIndex) Close() error                                      { return nil }

func (f *fakeIndex) Query(_ context.Context, _ []float32, n int) ([]storage.IndexHit, error) {
	f.mu.Lock()
	f.requested = append(f.requested, n)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.hits[:min(n, len(f.hits))], nil
}

func hit(id, doc, company, year string, distance float64) storage.IndexHit {
	return storage.IndexHit{
		ID:       id,
		Content:  doc,
		Metadata: map[string]string{core.MetaCompany: company, core.MetaYear: year},
		Distance: distance,
	}
}

func ids(cs []*core.Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}

func TestNewSearcher(t *testing.T) {
	index := &fakeIndex{}
	embedder := mock.NewMockEmbedder()

	t.Run("valid configuration", func(t *testing.T) {
		searcher, err := NewSearcher(index, embedder, nil)
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		searcher, err := NewSearcher(index, embedder, nil, WithLogger(nil))
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("with custom logger", func(t *testing.T) {
		_, err := NewSearcher(index, embedder, nil, WithLogger(slog.Default()))
		require.NoError(t, err)
	})

	t.Run("nil index", func(t *testing.T) {
		_, err := NewSearcher(nil, embedder, nil)
		assert.Equal(t, ErrFactIndexRequired, err)
	})

	t.Run("nil embedder", func(t *testing.T) {
		_, err := NewSearcher(index, nil, nil)
		assert.Equal(t, ErrEmbedderRequired, err)
	})
}

func TestSearch_AlcoaRoundTrip(t *testing.T) {
	index := &fakeIndex{hits: []storage.IndexHit{
		hit("alcoa-2008", "passage: Alcoa Corp (AA US Equity) in 2008: Nitrogen Oxide Emissions (code=ES001) = 11.0", "Alcoa Corporation", "2008", 0.05),
		hit("agilent-2007", "passage: Agilent Technologies Inc (A US Equity) in 2007: Nitrogen Oxide Emissions (code=ES001) = 3.1", "Agilent Technologies Inc", "2007", 0.10),
		hit("alcoa-2007", "passage: Alcoa Corp (AA US Equity) in 2007: Nitrogen Oxide Emissions (code=ES001) = 12.5", "Alcoa Corporation", "2007", 0.30),
		hit("alcoa-2009", "passage: Alcoa Corp (AA US Equity) in 2009: Methane Emissions (code=ES004) = nan", "Alcoa Corporation", "2009", 0.02),
	}}
	searcher, err := NewSearcher(index, mock.NewMockEmbedder(), nil)
	require.NoError(t, err)

	result := searcher.Search(context.Background(), "Alcoa Corp 2007 nitrogen oxide emissions", "", 5)
	require.NoError(t, result.Err)
	require.NotEmpty(t, result.Results)

	assert.True(t, result.Filtered)
	assert.Equal(t, "alcoa-2007", result.Results[0].ID)

	var target *core.Candidate
	for _, c := range result.Ranked {
		if c.ID == "alcoa-2007" {
			target = c
		}
	}
	require.NotNil(t, target)
	assert.Equal(t, "12.5", target.Derived.Value)
	for _, c := range result.Ranked {
		if c.Meta(core.MetaYear) != "2007" && c.Derived.Year != "2007" {
			assert.Greater(t, target.RerankScore, c.RerankScore, "candidate %s lacks the year", c.ID)
		}
	}
	assert.Equal(t, []int{25}, index.requested)
	assert.InDelta(t, 0.7, result.TopSimilarity(), 1e-9)
}

func TestScoring_TickerAliasMatchesLegalName(t *testing.T) {
	aliases := query.NewAliasTable(query.DefaultAliases()...)
	matcher := NewMatchScorer(DefaultMatchRules(aliases))
	reranker := NewReranker(DefaultScoreRules(aliases))

	candidate := core.NewCandidate("1",
		"passage: Agilent Technologies Inc (A US Equity) in 2015: Pct Women in Workforce (code=ES120) = 37",
		map[string]string{core.MetaCompany: "Agilent Technologies Inc"}, 0.2, 0)
	query.NewAnnotator(nil).AnnotateAll([]*core.Candidate{candidate})

	byTicker := core.NewEntities()
	byTicker.Organizations.Add("A US Equity")
	byName := core.NewEntities()
	byName.Organizations.Add("Agilent Technologies Inc")

	assert.Equal(t, 20, matcher.Score(candidate, byTicker))
	assert.Equal(t, matcher.Score(candidate, byName), matcher.Score(candidate, byTicker))
	assert.Equal(t,
		reranker.Breakdown(candidate, byName)["organization"],
		reranker.Breakdown(candidate, byTicker)["organization"])

	short := core.NewCandidate("2", "", map[string]string{core.MetaCompany: "Agilent"}, 0.2, 1)
	assert.Equal(t, 10, matcher.Score(short, byTicker))
}

func TestScoring_CorpusAliasesDoNotCrossMatch(t *testing.T) {
	aliases := query.NewAliasTable(query.DefaultAliases()...)
	aliases.Add(
		core.Alias{Short: "HD US Equity", Full: "The Home Depot Inc"},
		core.Alias{Short: "GE US Equity", Full: "General Electric Co"},
	)
	matcher := NewMatchScorer(DefaultMatchRules(aliases))
	reranker := NewReranker(DefaultScoreRules(aliases))

	southern := core.NewCandidate("1", "", map[string]string{core.MetaCompany: "Southern Co"}, 0.2, 0)
	motors := core.NewCandidate("2", "", map[string]string{core.MetaCompany: "General Motors Co"}, 0.2, 1)
	electric := core.NewCandidate("3", "", map[string]string{core.MetaCompany: "General Electric Co"}, 0.2, 2)

	homeDepot := core.NewEntities()
	homeDepot.Organizations.Add("HD US Equity")
	ge := core.NewEntities()
	ge.Organizations.Add("GE US Equity")

	assert.Zero(t, matcher.Score(southern, homeDepot))
	assert.Zero(t, reranker.Breakdown(southern, homeDepot)["organization"])
	assert.Zero(t, matcher.Score(motors, ge))
	assert.Equal(t, 10, matcher.Score(electric, ge))
}

func TestMatchScorer_SkipsWithoutFilterableEntities(t *testing.T) {
	matcher := NewMatchScorer(nil)
	candidates := []*core.Candidate{
		core.NewCandidate("1", "a", nil, 0.1, 0),
		core.NewCandidate("2", "b", nil, 0.2, 1),
	}

	e := core.NewEntities()
	e.Categories.Add("environment")
	kept, applied := matcher.Filter(candidates, e)
	assert.False(t, applied)
	assert.Equal(t, candidates, kept)
	assert.False(t, candidates[0].HasMatchScore)
}

func TestMatchScorer_FailOpen(t *testing.T) {
	matcher := NewMatchScorer(nil)
	candidates := []*core.Candidate{
		core.NewCandidate("1", "passage: Alcoa Corp in 2007: x = 1", map[string]string{core.MetaYear: "2007"}, 0.1, 0),
		core.NewCandidate("2", "passage: Alcoa Corp in 2008: x = 2", map[string]string{core.MetaYear: "2008"}, 0.2, 1),
		core.NewCandidate("3", "", nil, 0.3, 2),
	}
	query.NewAnnotator(nil).AnnotateAll(candidates)

	e := core.NewEntities()
	e.Years.Add("1999")
	kept, applied := matcher.Filter(candidates, e)
	assert.False(t, applied)
	assert.Len(t, kept, len(candidates))
	for _, c := range kept {
		assert.False(t, c.HasMatchScore)
	}

	e.Years.Add("2008")
	kept, applied = matcher.Filter(candidates, e)
	assert.True(t, applied)
	assert.Equal(t, []string{"2"}, ids(kept))
	assert.Equal(t, 10, kept[0].MatchScore)
}

func TestMatchScorer_CodeMatchIgnoresCase(t *testing.T) {
	matcher := NewMatchScorer(nil)
	c := core.NewCandidate("1", "", map[string]string{core.MetaFieldCode: "es047"}, 0.1, 0)

	e := core.NewEntities()
	e.IndicatorCodes.Add("ES047")
	assert.Equal(t, 10, matcher.Score(c, e))
}

func TestReranker_EmptyEntitiesOrderByValidityThenSimilarity(t *testing.T) {
	candidates := []*core.Candidate{
		core.NewCandidate("missing-close", "passage: Alcoa Corp in 2007: x = nan", nil, 0.05, 0),
		core.NewCandidate("valid-far", "passage: Alcoa Corp in 2007: x = 4", nil, 0.8, 1),
		core.NewCandidate("valid-mid", "passage: Alcoa Corp in 2007: x = 5", nil, 0.4, 2),
	}
	query.NewAnnotator(nil).AnnotateAll(candidates)

	e := core.NewEntities()
	kept, applied := NewMatchScorer(nil).Filter(candidates, e)
	require.False(t, applied)

	ranked := NewReranker(nil).Rerank(kept, e)
	assert.Equal(t, []string{"valid-mid", "valid-far", "missing-close"}, ids(ranked))
	assert.InDelta(t, 106.0, ranked[0].RerankScore, 1e-9)
	assert.InDelta(t, -20+9.5, ranked[2].RerankScore, 1e-9)
}

func TestReranker_StableForEqualScores(t *testing.T) {
	var candidates []*core.Candidate
	for i := 0; i < 6; i++ {
		candidates = append(candidates, core.NewCandidate(fmt.Sprintf("c%d", i), "x = 1", nil, 0.5, i))
	}
	query.NewAnnotator(nil).AnnotateAll(candidates)

	ranked := NewReranker(nil).Rerank(candidates, core.NewEntities())
	assert.Equal(t, []string{"c0", "c1", "c2", "c3", "c4", "c5"}, ids(ranked))
}

func TestReranker_CategoryNudge(t *testing.T) {
	c := core.NewCandidate("1", "x = 1", nil, 0.5, 0)
	query.NewAnnotator(nil).AnnotateAll([]*core.Candidate{c})
	r := NewReranker(nil)

	e := core.NewEntities()
	base := r.Score(c, e)
	e.Categories.Add("environment")
	assert.InDelta(t, base+10, r.Score(c, e), 1e-9)
}

func TestSelect(t *testing.T) {
	var ranked []*core.Candidate
	for i := 0; i < 10; i++ {
		ranked = append(ranked, core.NewCandidate(fmt.Sprintf("c%d", i), "", nil, 0.1, i))
	}

	assert.Equal(t, []string{"c0", "c1", "c2"}, ids(Select(ranked, 3)))
	assert.Empty(t, Select(ranked, 0))
	assert.Empty(t, Select(ranked, -1))
	assert.Len(t, Select(ranked, 25), 10)
}

func TestSearch_IndexFailureDegrades(t *testing.T) {
	index := &fakeIndex{err: errors.New("connection refused")}
	searcher, err := NewSearcher(index, mock.NewMockEmbedder(), nil)
	require.NoError(t, err)

	result := searcher.Search(context.Background(), "ES047 indicator data", "", 5)
	assert.ErrorIs(t, result.Err, ErrRetrievalFailed)
	assert.NotNil(t, result.Results)
	assert.Empty(t, result.Results)
	assert.NotNil(t, result.Analysis)
}

func TestSearch_EmbeddingFailureDegrades(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(context.Context, string) ([]float32, error) {
		return nil, errors.New("model not loaded")
	}
	searcher, err := NewSearcher(&fakeIndex{}, embedder, nil)
	require.NoError(t, err)

	result := searcher.Search(context.Background(), "2015 environmental emissions trend", "", 5)
	assert.ErrorIs(t, result.Err, ErrRetrievalFailed)
	assert.Empty(t, result.Results)
}

func TestSearch_EmptyQuery(t *testing.T) {
	searcher, err := NewSearcher(&fakeIndex{}, mock.NewMockEmbedder(), nil)
	require.NoError(t, err)

	result := searcher.Search(context.Background(), "   ", "", 5)
	assert.ErrorIs(t, result.Err, core.ErrEmptyQuery)
	assert.Nil(t, result.Analysis)
}

func TestSearch_ContextCarryOver(t *testing.T) {
	index := &fakeIndex{hits: []storage.IndexHit{
		hit("alcoa-2007", "passage: Alcoa Corp (AA US Equity) in 2007: Nitrogen Oxide Emissions (code=ES001) = 12.5", "Alcoa Corporation", "2007", 0.3),
	}}
	searcher, err := NewSearcher(index, mock.NewMockEmbedder(), nil)
	require.NoError(t, err)

	result := searcher.Search(context.Background(), "How about this trend?", "Alcoa Corp 2007 nitrogen oxide emissions", 5)
	require.NoError(t, result.Err)
	assert.True(t, result.Analysis.Extracted.Organizations.Has("Alcoa Corp"))
	assert.Equal(t, core.IntentTrend, result.Analysis.Intent)
}

func TestRetriever_OversampleAndCache(t *testing.T) {
	index := &fakeIndex{hits: []storage.IndexHit{hit("1", "x = 1", "", "", 0.1)}}
	embedder := mock.NewMockEmbedder()
	r, err := NewRetriever(index, embedder, 0)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = r.Retrieve(ctx, "ESG Alcoa Corp", 3)
	require.NoError(t, err)
	_, err = r.Retrieve(ctx, "ESG Alcoa Corp", 20)
	require.NoError(t, err)

	assert.Equal(t, []int{15, 50}, index.requested)
	assert.Equal(t, 1, embedder.CallCount())

	empty, err := r.Retrieve(ctx, "ESG", 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

type recordingMonitor struct {
	stages []string
}

func (m *recordingMonitor) Start(string)                              { m.stages = append(m.stages, "start") }
func (m *recordingMonitor) AfterAnalysis(*core.QueryAnalysis)         { m.stages = append(m.stages, "analysis") }
func (m *recordingMonitor) AfterRetrieval([]*core.Candidate, error)   { m.stages = append(m.stages, "retrieval") }
func (m *recordingMonitor) AfterMatch([]*core.Candidate, bool)        { m.stages = append(m.stages, "match") }
func (m *recordingMonitor) AfterRerank([]*core.Candidate)             { m.stages = append(m.stages, "rerank") }
func (m *recordingMonitor) Finish(*Result)                            { m.stages = append(m.stages, "finish") }

func TestSearchWithMonitor_StageOrder(t *testing.T) {
	index := &fakeIndex{hits: []storage.IndexHit{hit("1", "x = 1", "", "", 0.1)}}
	searcher, err := NewSearcher(index, mock.NewMockEmbedder(), nil)
	require.NoError(t, err)

	monitor := &recordingMonitor{}
	searcher.SearchWithMonitor(context.Background(), "ES047 indicator data", "", 3, monitor)
	assert.Equal(t, []string{"start", "analysis", "retrieval", "match", "rerank", "finish"}, monitor.stages)
}
