package search

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/memorag/ai"
	"github.com/poiesic/memorag/core"
	"github.com/poiesic/memorag/query"
	"github.com/poiesic/memorag/storage"
)

// Result is the outcome of one search.
type Result struct {
	Analysis *core.QueryAnalysis

	// Ranked is the full reranked candidate list, kept for diagnostics.
	Ranked []*core.Candidate

	// Results is Ranked truncated to the requested count.
	Results []*core.Candidate

	// Filtered reports whether entity match filtering was applied.
	Filtered bool

	// Err is set when retrieval failed; Results is then empty.
	Err error
}

// TopSimilarity returns the similarity of the best-ranked result, or 0.
func (r *Result) TopSimilarity() float64 {
	if len(r.Results) == 0 {
		return 0
	}
	return r.Results[0].Similarity
}

// Searcher runs the analyze, retrieve, filter, rerank and select pipeline
// for one query at a time.
type Searcher struct {
	analyzer  *query.Analyzer
	retriever *Retriever
	matcher   *MatchScorer
	reranker  *Reranker
	cacheTTL  time.Duration
	logger    *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets the logger. A nil logger selects slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithEmbeddingCacheTTL sets how long query embeddings are cached.
func WithEmbeddingCacheTTL(ttl time.Duration) Option {
	return func(s *Searcher) error {
		s.cacheTTL = ttl
		return nil
	}
}

// WithAnalyzer replaces the default query analyzer.
func WithAnalyzer(analyzer *query.Analyzer) Option {
	return func(s *Searcher) error {
		if analyzer != nil {
			s.analyzer = analyzer
		}
		return nil
	}
}

// NewSearcher creates a searcher over index. Organization matching, both in
// the optimized query and in scoring, uses aliases; nil selects the
// built-in table.
func NewSearcher(index storage.FactIndex, embedder ai.Embedder, aliases *query.AliasTable, opts ...Option) (*Searcher, error) {
	if index == nil {
		return nil, ErrFactIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if aliases == nil {
		aliases = query.NewAliasTable(query.DefaultAliases()...)
	}

	s := &Searcher{
		analyzer: query.NewAnalyzer(aliases),
		matcher:  NewMatchScorer(DefaultMatchRules(aliases)),
		reranker: NewReranker(DefaultScoreRules(aliases)),
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "searcher")

	retriever, err := NewRetriever(index, embedder, s.cacheTTL)
	if err != nil {
		return nil, err
	}
	s.retriever = retriever
	return s, nil
}

// Reranker exposes the reranker so callers can explain scores.
func (s *Searcher) Reranker() *Reranker {
	return s.reranker
}

// Search answers raw with at most n results. previous is the raw text of
// the preceding turn, or "".
func (s *Searcher) Search(ctx context.Context, raw, previous string, n int) *Result {
	return s.SearchWithMonitor(ctx, raw, previous, n, nil)
}

// SearchWithMonitor is Search with hooks into each stage.
func (s *Searcher) SearchWithMonitor(ctx context.Context, raw, previous string, n int, monitor SearchMonitor) *Result {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(raw)

	if strings.TrimSpace(raw) == "" {
		result := &Result{Results: []*core.Candidate{}, Err: core.ErrEmptyQuery}
		monitor.Finish(result)
		return result
	}

	analysis := s.analyzer.Analyze(raw, previous)
	monitor.AfterAnalysis(analysis)
	result := &Result{Analysis: analysis}

	candidates, err := s.retriever.Retrieve(ctx, analysis.OptimizedQuery, n)
	monitor.AfterRetrieval(candidates, err)
	if err != nil {
		s.logger.Warn("search degraded to no results", "query", raw, "err", err)
		result.Err = err
		result.Results = []*core.Candidate{}
		monitor.Finish(result)
		return result
	}

	kept, applied := s.matcher.Filter(candidates, analysis.Extracted)
	monitor.AfterMatch(kept, applied)
	result.Filtered = applied

	result.Ranked = s.reranker.Rerank(kept, analysis.Extracted)
	monitor.AfterRerank(result.Ranked)

	result.Results = Select(result.Ranked, n)
	s.logger.Debug("search complete",
		"candidates", len(candidates),
		"kept", len(kept),
		"filtered", applied,
		"returned", len(result.Results))

	monitor.Finish(result)
	return result
}
