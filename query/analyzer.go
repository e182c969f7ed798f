package query

import (
	"log/slog"
	"time"

	"github.com/poiesic/memorag/core"
)

// Analyzer runs one query turn through cleaning, extraction, context
// resolution, intent classification and optimization.
type Analyzer struct {
	extractor  *Extractor
	resolver   *ContextResolver
	classifier *IntentClassifier
	optimizer  *Optimizer
	weights    []ConfidenceWeight
	now        func() time.Time
	logger     *slog.Logger
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithAnalyzerLogger sets a custom logger.
// Default is slog.Default().
func WithAnalyzerLogger(logger *slog.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger.With("component", "query-analyzer")
	}
}

// WithExtractor replaces the default extractor.
func WithExtractor(x *Extractor) AnalyzerOption {
	return func(a *Analyzer) {
		if x != nil {
			a.extractor = x
		}
	}
}

// WithClock sets the time source used for QueryAnalysis timestamps.
func WithClock(now func() time.Time) AnalyzerOption {
	return func(a *Analyzer) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAnalyzer creates an analyzer whose optimizer expands aliases from table.
func NewAnalyzer(table *AliasTable, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		extractor:  NewExtractor(),
		resolver:   NewContextResolver(nil),
		classifier: NewIntentClassifier(nil),
		optimizer:  NewOptimizer(table),
		weights:    DefaultConfidenceWeights(),
		now:        time.Now,
		logger:     slog.Default().With("component", "query-analyzer"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze produces the analysis for raw. previous is the raw text of the
// preceding turn, or "" on the first turn.
func (a *Analyzer) Analyze(raw, previous string) *core.QueryAnalysis {
	cleaned := Clean(raw)
	entities := a.resolver.Resolve(a.extractor.Extract(cleaned), previous)
	intent := a.classifier.Classify(cleaned)
	optimized := a.optimizer.Build(entities, intent)

	analysis := &core.QueryAnalysis{
		RawQuery:       raw,
		CleanedQuery:   cleaned,
		Extracted:      entities,
		Intent:         intent,
		OptimizedQuery: optimized,
		Confidence:     Confidence(entities, a.weights),
		Timestamp:      a.now(),
	}

	a.logger.Debug("analyzed query",
		"intent", intent,
		"organizations", entities.Organizations.Sorted(),
		"years", entities.Years.Sorted(),
		"codes", entities.IndicatorCodes.Sorted(),
		"confidence", analysis.Confidence,
		"optimized", optimized)
	return analysis
}
