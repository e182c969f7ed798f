package storage

import (
	"context"
	"time"

	"github.com/poiesic/memorag/core"
)

// FactDocument is one corpus passage ready to be indexed.
type FactDocument struct {
	ID        string
	Content   string
	Metadata  map[string]string
	Embedding []float32
}

// IndexHit is a single nearest-neighbour result from a FactIndex.
// Distance is cosine distance, so 0 means identical direction.
type IndexHit struct {
	ID       string
	Content  string
	Metadata map[string]string
	Distance float64
}

// FactIndex is the similarity index holding the embedded ESG fact corpus.
// Implementations must be thread-safe and support concurrent access.
type FactIndex interface {
	// Add stores pre-embedded documents. Existing IDs are overwritten.
	Add(ctx context.Context, docs []FactDocument) error

	// Query returns up to n hits closest to vector, nearest first.
	// n is capped at Count(); an empty index yields no hits and no error.
	Query(ctx context.Context, vector []float32, n int) ([]IndexHit, error)

	// Count returns the number of indexed documents.
	Count() int

	// Dimension returns the embedding width of the indexed documents,
	// or 0 when the index is empty.
	Dimension(ctx context.Context) (int, error)

	// Name identifies the underlying collection.
	Name() string

	// Close releases resources held by the index.
	Close() error
}

// HistoryRepository stores the bounded log of answered queries.
type HistoryRepository interface {
	// AppendInteraction stores a record, assigning an ID when it has none.
	// Once the log exceeds its capacity the oldest records are removed.
	AppendInteraction(ctx context.Context, record *core.InteractionRecord) (*core.InteractionRecord, error)

	// RecentInteractions returns up to limit records, oldest first.
	// A limit <= 0 returns every stored record.
	RecentInteractions(ctx context.Context, limit int) ([]*core.InteractionRecord, error)

	// InteractionsSince returns records with Timestamp >= since, oldest first.
	InteractionsSince(ctx context.Context, since time.Time) ([]*core.InteractionRecord, error)

	// CountInteractions returns the number of stored records.
	CountInteractions(ctx context.Context) (int, error)

	// ClearInteractions removes every stored record.
	ClearInteractions(ctx context.Context) error
}

// AliasRepository stores ticker and legal-name pairs learned from the corpus.
type AliasRepository interface {
	// AddAliases stores pairs, ignoring ones already present.
	AddAliases(ctx context.Context, aliases ...core.Alias) error

	// ListAliases returns every stored pair ordered by key.
	ListAliases(ctx context.Context) ([]core.Alias, error)
}

// MetaRepository stores small string settings such as the index dimension.
type MetaRepository interface {
	// PutMeta sets key to value.
	PutMeta(ctx context.Context, key, value string) error

	// GetMeta returns the value for key, or ErrNotFound.
	GetMeta(ctx context.Context, key string) (string, error)
}
