// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package memorag answers natural-language questions about an ESG fact
// corpus. An Engine ties together the fact index, the query analyzer and
// reranker, answer generation and the per-user session history.
package memorag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/poiesic/memorag/ai"
	"github.com/poiesic/memorag/ai/openai"
	"github.com/poiesic/memorag/answer"
	"github.com/poiesic/memorag/config"
	"github.com/poiesic/memorag/ingestion"
	"github.com/poiesic/memorag/query"
	"github.com/poiesic/memorag/search"
	"github.com/poiesic/memorag/session"
	"github.com/poiesic/memorag/storage/badger"
	"github.com/poiesic/memorag/storage/chromem"
)

// dimensionProbe is embedded at open to learn the embedder's output width.
const dimensionProbe = "query: ESG"

// Engine owns the stores and services behind query answering.
type Engine struct {
	config    *config.Config
	backend   *badger.Backend
	history   *badger.HistoryRepository
	aliases   *badger.AliasRepository
	index     *chromem.Index
	provider  ai.AIProvider
	searcher  *search.Searcher
	generator *answer.Generator

	// mu guards the alias table, which ingestion extends while searches
	// read it.
	mu         sync.RWMutex
	aliasTable *query.AliasTable

	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	provider ai.AIProvider
	inMemory bool
	logger   *slog.Logger
}

// WithProvider uses provider instead of the OpenAI-compatible services
// described by the configuration. The Engine closes it.
func WithProvider(provider ai.AIProvider) Option {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithInMemory keeps every store in memory. Nothing is written to disk.
func WithInMemory() Option {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *engineOptions) {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
	}
}

// Open opens the stores under cfg.Data.Dir and connects the AI services.
// If the index already holds facts, the embedder's vector width must
// match theirs unless cfg.Index.AllowDimensionMismatch is set.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}
	options := &engineOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}

	e := &Engine{
		config: cfg,
		logger: options.logger.With("component", "engine"),
	}
	if err := e.open(ctx, options); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

func (e *Engine) open(ctx context.Context, options *engineOptions) error {
	var err error
	storePath, indexPath := e.config.StorePath(), e.config.IndexPath()
	if options.inMemory {
		storePath, indexPath = "", ""
	}

	e.backend, err = badger.OpenBackend(storePath, options.inMemory)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	e.history, err = badger.NewHistoryRepository(e.backend, e.config.Session.HistoryCapacity)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	e.aliases = badger.NewAliasRepository(e.backend)

	e.index, err = chromem.Open(chromem.Config{
		Path:       indexPath,
		Collection: e.config.Index.Collection,
		Compress:   e.config.Index.Compress,
		Meta:       badger.NewMetaRepository(e.backend),
		Logger:     options.logger,
	})
	if err != nil {
		return fmt.Errorf("opening index: %w", err)
	}

	e.provider = options.provider
	if e.provider == nil {
		e.provider, err = openai.NewProvider(e.config.AIConfig())
		if err != nil {
			return fmt.Errorf("connecting AI services: %w", err)
		}
	}

	stored, err := e.aliases.ListAliases(ctx)
	if err != nil {
		return fmt.Errorf("loading aliases: %w", err)
	}
	e.aliasTable = query.NewAliasTable(query.DefaultAliases()...)
	e.aliasTable.Add(stored...)

	if err := e.checkDimension(ctx); err != nil {
		return err
	}

	e.searcher, err = search.NewSearcher(e.index, e.provider.Embedder(), e.aliasTable,
		search.WithEmbeddingCacheTTL(e.config.Search.EmbeddingCacheTTL),
		search.WithLogger(options.logger))
	if err != nil {
		return err
	}

	e.generator = answer.NewGenerator(e.provider.Responder(),
		answer.WithAttempts(e.config.AI.Attempts),
		answer.WithRetryDelay(e.config.AI.RetryDelay),
		answer.WithLogger(options.logger))

	e.logger.Info("engine opened",
		"documents", e.index.Count(),
		"aliases", len(stored),
		"llm", e.generator.HasResponder())
	return nil
}

// checkDimension compares the embedder's output width with the stored
// corpus width. An unreachable embedder is only logged; searches will
// degrade until it returns.
func (e *Engine) checkDimension(ctx context.Context) error {
	stored, err := e.index.Dimension(ctx)
	if err != nil {
		return fmt.Errorf("reading index dimension: %w", err)
	}
	if stored == 0 {
		return nil
	}

	vector, err := e.provider.Embedder().EmbedText(ctx, dimensionProbe)
	if err != nil {
		e.logger.Warn("could not check embedding dimension", "err", err)
		return nil
	}
	if len(vector) == stored {
		return nil
	}
	if e.config.Index.AllowDimensionMismatch {
		e.logger.Warn("embedding dimension does not match the index",
			"embedder", len(vector), "index", stored)
		return nil
	}
	return fmt.Errorf("%w: embedder produces %d, index holds %d", ErrDimensionMismatch, len(vector), stored)
}

// Close releases every store and service. It is safe to call on a
// partially opened Engine.
func (e *Engine) Close() error {
	var errs []error
	if e.provider != nil {
		if err := e.provider.Close(); err != nil {
			e.logger.Error("error closing AI provider", "err", err)
			errs = append(errs, err)
		}
	}
	if e.index != nil {
		if err := e.index.Close(); err != nil {
			e.logger.Error("error closing index", "err", err)
			errs = append(errs, err)
		}
	}
	if e.history != nil {
		if err := e.history.Close(); err != nil {
			e.logger.Error("error closing history", "err", err)
			errs = append(errs, err)
		}
	}
	if e.backend != nil {
		if err := e.backend.Close(); err != nil {
			e.logger.Error("error closing backend storage", "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewSession starts an interactive session whose history is persisted in
// the engine's store.
func (e *Engine) NewSession(opts ...session.Option) (*session.Session, error) {
	opts = append([]session.Option{session.WithLogger(e.logger)}, opts...)
	return session.New(e.history, e.config.SessionConfig(), opts...)
}

// Turn is the outcome of one question.
type Turn struct {
	Search *search.Result
	Answer answer.Answer
}

// Ask answers raw within sess: it searches with the session's previous
// query as context, writes the answer in the session's mode and language,
// and records the turn. monitor may be nil.
func (e *Engine) Ask(ctx context.Context, sess *session.Session, raw string, monitor search.SearchMonitor) *Turn {
	e.mu.RLock()
	result := e.searcher.SearchWithMonitor(ctx, raw, sess.LastQuery(), e.config.Search.TopK, monitor)
	e.mu.RUnlock()

	turn := &Turn{
		Search: result,
		Answer: e.generator.Generate(ctx, result.Analysis, result.Results, sess.Mode(), sess.Locale()),
	}
	sess.Record(ctx, result.Analysis, result.Results)
	return turn
}

// Ingest embeds rows into the index and learns their ticker/company
// pairs. opts override the configured ingestion settings.
func (e *Engine) Ingest(ctx context.Context, rows []ingestion.Row, opts ...ingestion.Option) (ingestion.Stats, error) {
	base := []ingestion.Option{
		ingestion.WithBatchSize(e.config.Ingest.BatchSize),
		ingestion.WithRetry(e.config.Ingest.MaxRetries, e.config.Ingest.RetryBaseDelay),
		ingestion.WithAliasRepository(e.aliases),
		ingestion.WithLogger(e.logger),
	}
	if e.config.Ingest.PoolSize > 0 {
		base = append(base, ingestion.WithPoolSize(e.config.Ingest.PoolSize))
	}

	pipeline, err := ingestion.NewPipeline(e.index, e.provider.Embedder(), append(base, opts...)...)
	if err != nil {
		return ingestion.Stats{}, err
	}
	defer pipeline.Release()

	stats, loadErr := pipeline.Load(ctx, rows)

	stored, err := e.aliases.ListAliases(ctx)
	if err != nil {
		return stats, errors.Join(loadErr, fmt.Errorf("reloading aliases: %w", err))
	}
	e.mu.Lock()
	e.aliasTable.Add(stored...)
	e.mu.Unlock()

	return stats, loadErr
}

// IndexStats describes the fact index.
type IndexStats struct {
	Collection string
	Documents  int
	Dimension  int
}

// IndexStats reports the collection name, document count and vector width.
func (e *Engine) IndexStats(ctx context.Context) (IndexStats, error) {
	dim, err := e.index.Dimension(ctx)
	if err != nil {
		return IndexStats{}, err
	}
	return IndexStats{
		Collection: e.index.Name(),
		Documents:  e.index.Count(),
		Dimension:  dim,
	}, nil
}

// HasResponder reports whether LLM answers are available.
func (e *Engine) HasResponder() bool {
	return e.generator.HasResponder()
}

// Searcher returns the engine's searcher.
func (e *Engine) Searcher() *search.Searcher {
	return e.searcher
}

// Config returns the configuration the engine was opened with.
func (e *Engine) Config() *config.Config {
	return e.config
}
