package chromem

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/philippgille/chromem-go"
	"github.com/poiesic/memorag/storage"
)

// DefaultCollection is the collection name the ingestion pipeline writes to.
const DefaultCollection = "esg_facts"

// MetaDimensionKey is the settings key under which the embedding width of
// the indexed corpus is recorded.
const MetaDimensionKey = "index.dimension"

var errNoEmbedding = errors.New("fact index stores pre-computed embeddings only")

// Config configures a chromem-backed fact index.
type Config struct {
	// Path is the persistence directory. Empty keeps the index in memory.
	Path string

	// Collection names the chromem collection. Defaults to DefaultCollection.
	Collection string

	// Compress gzips persisted documents.
	Compress bool

	// Concurrency bounds parallel document writes within one Add call.
	Concurrency int

	// Meta, when set, records the corpus embedding width so it survives
	// restarts.
	Meta storage.MetaRepository

	Logger *slog.Logger
}

// Index implements storage.FactIndex on a chromem-go collection using
// cosine similarity.
type Index struct {
	db          *chromem.DB
	collection  *chromem.Collection
	meta        storage.MetaRepository
	concurrency int
	logger      *slog.Logger

	mu        sync.Mutex
	dimension int
}

var _ storage.FactIndex = (*Index)(nil)

// Open opens or creates the index described by config.
func Open(config Config) (*Index, error) {
	if config.Collection == "" {
		config.Collection = DefaultCollection
	}
	if config.Concurrency < 1 {
		config.Concurrency = 4
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "fact-index", "collection", config.Collection)

	var db *chromem.DB
	if config.Path == "" {
		db = chromem.NewDB()
	} else {
		path, err := expandPath(config.Path)
		if err != nil {
			return nil, fmt.Errorf("expanding path: %w", err)
		}
		db, err = chromem.NewPersistentDB(path, config.Compress)
		if err != nil {
			return nil, fmt.Errorf("opening chromem DB: %w", err)
		}
	}

	collection, err := db.GetOrCreateCollection(config.Collection, nil, refuseEmbedding)
	if err != nil {
		return nil, fmt.Errorf("getting/creating collection %s: %w", config.Collection, err)
	}

	logger.Info("fact index opened", "path", config.Path, "documents", collection.Count())
	return &Index{
		db:          db,
		collection:  collection,
		meta:        config.Meta,
		concurrency: config.Concurrency,
		logger:      logger,
	}, nil
}

func refuseEmbedding(context.Context, string) ([]float32, error) {
	return nil, errNoEmbedding
}

// expandPath expands ~ to home directory.
func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// Name returns the collection name.
func (x *Index) Name() string {
	return x.collection.Name
}

// Count returns the number of indexed documents.
func (x *Index) Count() int {
	return x.collection.Count()
}

// Add stores pre-embedded documents. Every embedding in the batch must share
// one width, which must also match previously indexed documents.
func (x *Index) Add(ctx context.Context, docs []storage.FactDocument) error {
	if len(docs) == 0 {
		return storage.ErrEmptyDocuments
	}

	width := len(docs[0].Embedding)
	converted := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		if len(doc.Embedding) == 0 || len(doc.Embedding) != width {
			return fmt.Errorf("%w: document %q has %d values, batch has %d",
				storage.ErrMixedDimensions, doc.ID, len(doc.Embedding), width)
		}
		converted[i] = chromem.Document{
			ID:        doc.ID,
			Content:   doc.Content,
			Metadata:  doc.Metadata,
			Embedding: doc.Embedding,
		}
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	current, err := x.loadDimension(ctx)
	if err != nil {
		return err
	}
	if current != 0 && current != width {
		return fmt.Errorf("%w: index has %d, batch has %d", storage.ErrMixedDimensions, current, width)
	}

	if err := x.collection.AddDocuments(ctx, converted, x.concurrency); err != nil {
		return fmt.Errorf("adding documents: %w", err)
	}

	if current == 0 {
		if err := x.recordDimension(ctx, width); err != nil {
			return err
		}
	}
	x.logger.Debug("added documents", "count", len(docs), "total", x.Count())
	return nil
}

func (x *Index) recordDimension(ctx context.Context, width int) error {
	x.dimension = width
	if x.meta == nil {
		return nil
	}
	if err := x.meta.PutMeta(ctx, MetaDimensionKey, strconv.Itoa(width)); err != nil {
		return fmt.Errorf("recording index dimension: %w", err)
	}
	return nil
}

// Dimension returns the embedding width of the corpus, or 0 when the index
// is empty or the width was never recorded.
func (x *Index) Dimension(ctx context.Context) (int, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.loadDimension(ctx)
}

func (x *Index) loadDimension(ctx context.Context) (int, error) {
	if x.dimension != 0 || x.Count() == 0 {
		return x.dimension, nil
	}
	if x.meta == nil {
		return 0, nil
	}

	value, err := x.meta.GetMeta(ctx, MetaDimensionKey)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	width, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: stored dimension %q", storage.ErrSerializationFailed, value)
	}
	x.dimension = width
	return width, nil
}

// Query returns up to n nearest documents by cosine distance.
func (x *Index) Query(ctx context.Context, vector []float32, n int) ([]storage.IndexHit, error) {
	if len(vector) == 0 || n <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	// chromem requires nResults <= document count
	count := x.Count()
	if count == 0 {
		return []storage.IndexHit{}, nil
	}
	if n > count {
		n = count
	}

	results, err := x.collection.QueryEmbedding(ctx, vector, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying collection %s: %w", x.collection.Name, err)
	}

	hits := make([]storage.IndexHit, len(results))
	for i, r := range results {
		hits[i] = storage.IndexHit{
			ID:       r.ID,
			Content:  r.Content,
			Metadata: r.Metadata,
			Distance: 1 - float64(r.Similarity),
		}
	}
	return hits, nil
}

// Close is a no-op; chromem persists synchronously on every write.
func (x *Index) Close() error {
	return nil
}
