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


package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/memorag/ai"
	"github.com/poiesic/memorag/core"
	"github.com/poiesic/memorag/storage"
)

const (
	// DefaultBatchSize is the number of rows embedded per call.
	DefaultBatchSize = 64

	defaultMaxRetries     = 3
	defaultRetryBaseDelay = time.Second
)

// Stats describes the outcome of a load.
type Stats struct {
	Rows    int // rows submitted
	Indexed int // rows stored in the index
	Failed  int // rows in batches that failed
	Batches int
	Aliases int // ticker/company pairs recorded
}

// Pipeline loads corpus rows into a fact index.
// It embeds batches concurrently on a worker pool.
type Pipeline struct {
	index          storage.FactIndex
	embedder       ai.Embedder
	aliases        storage.AliasRepository
	pool           *ants.Pool
	proc           processor
	batchSize      int
	maxRetries     int
	retryBaseDelay time.Duration
	progress       io.Writer
	logger         *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets the number of rows per embedding call.
// Default is DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			return fmt.Errorf("batch size must be at least 1, got %d", size)
		}
		p.batchSize = size
		return nil
	}
}

// WithRetry sets how often a failed embedding call is attempted and the
// initial backoff delay.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Pipeline) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		p.maxRetries = maxAttempts
		p.retryBaseDelay = baseDelay
		return nil
	}
}

// WithAliasRepository records every ticker/company pair in repo.
func WithAliasRepository(repo storage.AliasRepository) Option {
	return func(p *Pipeline) error {
		p.aliases = repo
		return nil
	}
}

// WithProgress writes a progress line to w while loading.
func WithProgress(w io.Writer) Option {
	return func(p *Pipeline) error {
		p.progress = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a pipeline that embeds with embedder and stores into
// index. Call Release when done.
func NewPipeline(index storage.FactIndex, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if index == nil {
		return nil, ErrFactIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := max(runtime.NumCPU()/2, 1)
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		index:          index,
		embedder:       embedder,
		pool:           pool,
		batchSize:      DefaultBatchSize,
		maxRetries:     defaultMaxRetries,
		retryBaseDelay: defaultRetryBaseDelay,
		logger:         slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	p.logger = p.logger.With("component", "ingestion")

	// Create the processor after options are applied so it gets the final config
	proc, err := newEmbeddingProcessor(index, embedder, p.maxRetries, p.retryBaseDelay, p.logger)
	if err != nil {
		p.Release()
		return nil, err
	}
	p.proc = proc
	return p, nil
}

// Load indexes rows and waits for every batch to finish. Failed batches
// do not stop the others; their errors are joined under ErrBatchFailed.
// Alias pairs are recorded even when some batches fail.
func (p *Pipeline) Load(ctx context.Context, rows []Row) (Stats, error) {
	stats := Stats{Rows: len(rows)}
	if len(rows) == 0 {
		return stats, nil
	}

	var tracker *ProgressTracker
	if p.progress != nil {
		tracker = NewProgressTracker(p.progress, len(rows), p.batchSize)
		tracker.Start()
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	done := func(n int, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			stats.Failed += n
			errs = append(errs, err)
			return
		}
		stats.Indexed += n
		if tracker != nil {
			tracker.Add(n)
		}
	}

	for start := 0; start < len(rows); start += p.batchSize {
		batch := rows[start:min(start+p.batchSize, len(rows))]
		stats.Batches++
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			err := p.proc.process(ctx, batch)
			if err != nil {
				p.logger.Error("error processing batch", "rows", len(batch), "err", err)
			}
			done(len(batch), err)
		})
		if err != nil {
			wg.Done()
			done(len(batch), err)
		}
	}
	wg.Wait()
	if tracker != nil {
		tracker.Finish()
	}

	n, err := p.recordAliases(ctx, rows)
	stats.Aliases = n
	if err != nil {
		errs = append(errs, err)
	}

	p.logger.Info("load complete",
		"rows", stats.Rows,
		"indexed", stats.Indexed,
		"failed", stats.Failed,
		"aliases", stats.Aliases)

	if len(errs) > 0 {
		return stats, fmt.Errorf("%w: %w", ErrBatchFailed, errors.Join(errs...))
	}
	return stats, nil
}

// recordAliases stores the distinct ticker/company pairs of rows.
func (p *Pipeline) recordAliases(ctx context.Context, rows []Row) (int, error) {
	if p.aliases == nil {
		return 0, nil
	}
	seen := map[string]bool{}
	var pairs []core.Alias
	for _, r := range rows {
		a, ok := r.Alias()
		if !ok || seen[a.Key()] {
			continue
		}
		seen[a.Key()] = true
		pairs = append(pairs, a)
	}
	if len(pairs) == 0 {
		return 0, nil
	}
	if err := p.aliases.AddAliases(ctx, pairs...); err != nil {
		return 0, fmt.Errorf("record aliases: %w", err)
	}
	return len(pairs), nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
