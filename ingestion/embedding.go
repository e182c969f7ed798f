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
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/memorag/ai"
	"github.com/poiesic/memorag/storage"
)

// processor indexes one batch of rows.
type processor interface {
	process(ctx context.Context, rows []Row) error
}

// embeddingProcessor embeds a batch of row documents in one call and
// stores them in the fact index.
type embeddingProcessor struct {
	index          storage.FactIndex
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
	logger         *slog.Logger
}

var _ processor = (*embeddingProcessor)(nil)

func newEmbeddingProcessor(index storage.FactIndex, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration, logger *slog.Logger) (*embeddingProcessor, error) {
	if index == nil {
		return nil, ErrFactIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &embeddingProcessor{
		index:          index,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
		logger:         logger.With("processor", "embeddings"),
	}, nil
}

// process embeds rows, retrying the embedding call with backoff, then
// adds them to the index.
func (ep *embeddingProcessor) process(ctx context.Context, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}

	texts := make([]string, len(rows))
	for i, row := range rows {
		texts[i] = row.Document()
	}

	var embeddings [][]float32
	err := retryWithBackoff(ctx, ep.logger, func() error {
		var err error
		embeddings, err = ep.embedder.EmbedTexts(ctx, texts)
		return err
	}, ep.maxRetries, ep.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", ep.maxRetries, err)
	}
	if len(embeddings) != len(rows) {
		return fmt.Errorf("embedding result mismatch. expected %d, received %d", len(rows), len(embeddings))
	}

	docs := make([]storage.FactDocument, len(rows))
	for i, row := range rows {
		docs[i] = row.factDocument(embeddings[i])
	}
	if err := ep.index.Add(ctx, docs); err != nil {
		return fmt.Errorf("failed to index batch: %w", err)
	}

	ep.logger.Debug("indexed batch", "rows", len(rows))
	return nil
}
