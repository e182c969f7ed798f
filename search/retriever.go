package search

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/poiesic/memorag/ai"
	"github.com/poiesic/memorag/core"
	"github.com/poiesic/memorag/query"
	"github.com/poiesic/memorag/storage"
)

const (
	// OversampleFactor multiplies the requested result count when asking
	// the index for neighbours.
	OversampleFactor = 5

	// OversampleLimit caps the number of neighbours fetched per query.
	OversampleLimit = 50

	defaultEmbeddingTTL = 10 * time.Minute
)

// Oversample returns how many neighbours to request for n final results.
func Oversample(n int) int {
	return min(OversampleLimit, n*OversampleFactor)
}

// Retriever embeds optimized queries and fetches annotated candidates from
// the fact index.
type Retriever struct {
	index     storage.FactIndex
	embedder  ai.Embedder
	annotator *query.Annotator
	vectors   *cache.Cache
	logger    *slog.Logger
}

// NewRetriever creates a retriever. Query embeddings are cached by text for
// ttl; a ttl <= 0 selects ten minutes.
func NewRetriever(index storage.FactIndex, embedder ai.Embedder, ttl time.Duration) (*Retriever, error) {
	if index == nil {
		return nil, ErrFactIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if ttl <= 0 {
		ttl = defaultEmbeddingTTL
	}
	return &Retriever{
		index:     index,
		embedder:  embedder,
		annotator: query.NewAnnotator(nil),
		vectors:   cache.New(ttl, 2*ttl),
		logger:    slog.Default().With("component", "retriever"),
	}, nil
}

// Retrieve returns up to Oversample(n) candidates for optimized in index
// order, each annotated with facts parsed from its document text.
// On failure it returns an empty slice together with an error wrapping
// ErrRetrievalFailed.
func (r *Retriever) Retrieve(ctx context.Context, optimized string, n int) ([]*core.Candidate, error) {
	if n <= 0 {
		return []*core.Candidate{}, nil
	}

	vector, err := r.embed(ctx, optimized)
	if err != nil {
		r.logger.Error("failed to embed query", "query", optimized, "err", err)
		return []*core.Candidate{}, fmt.Errorf("%w: embedding: %w", ErrRetrievalFailed, err)
	}

	hits, err := r.index.Query(ctx, vector, Oversample(n))
	if err != nil {
		r.logger.Error("similarity index query failed", "index", r.index.Name(), "err", err)
		return []*core.Candidate{}, fmt.Errorf("%w: %w", ErrRetrievalFailed, err)
	}

	candidates := make([]*core.Candidate, len(hits))
	for i, hit := range hits {
		candidates[i] = core.NewCandidate(hit.ID, hit.Content, hit.Metadata, hit.Distance, i)
	}
	r.annotator.AnnotateAll(candidates)

	r.logger.Debug("retrieved candidates", "requested", Oversample(n), "returned", len(candidates))
	return candidates, nil
}

func (r *Retriever) embed(ctx context.Context, text string) ([]float32, error) {
	if cached, ok := r.vectors.Get(text); ok {
		return cached.([]float32), nil
	}
	vector, err := r.embedder.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}
	r.vectors.SetDefault(text, vector)
	return vector, nil
}
