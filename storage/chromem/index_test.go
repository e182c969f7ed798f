package chromem

import (
	"context"
	"testing"

	"github.com/poiesic/memorag/ai/mock"
	"github.com/poiesic/memorag/storage"
	"github.com/poiesic/memorag/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fact(id, content string, dim int) storage.FactDocument {
	return storage.FactDocument{
		ID:        id,
		Content:   content,
		Metadata:  map[string]string{"company": "Alcoa Corporation", "year": "2007"},
		Embedding: mock.Vector(content, dim),
	}
}

func TestIndex_EmptyQuery(t *testing.T) {
	index, err := Open(Config{})
	require.NoError(t, err)

	hits, err := index.Query(context.Background(), mock.Vector("x", 8), 5)
	require.NoError(t, err)
	assert.Empty(t, hits)

	dim, err := index.Dimension(context.Background())
	require.NoError(t, err)
	assert.Zero(t, dim)
	assert.Equal(t, DefaultCollection, index.Name())
}

func TestIndex_AddAndQuery(t *testing.T) {
	ctx := context.Background()
	index, err := Open(Config{})
	require.NoError(t, err)

	docs := []storage.FactDocument{
		fact("1", "passage: Alcoa Corp in 2007: Nitrogen Oxide Emissions = 12.5", 16),
		fact("2", "passage: Agilent Technologies Inc in 2015: Pct Women in Workforce = 37", 16),
		fact("3", "passage: Alcoa Corp in 2008: Total Energy Consumption = 900", 16),
	}
	require.NoError(t, index.Add(ctx, docs))
	assert.Equal(t, 3, index.Count())

	// n above the document count is capped
	hits, err := index.Query(ctx, docs[1].Embedding, 50)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "2", hits[0].ID)
	assert.InDelta(t, 0.0, hits[0].Distance, 1e-4)
	assert.Equal(t, "Alcoa Corporation", hits[0].Metadata["company"])
	for i := 1; i < len(hits); i++ {
		assert.GreaterOrEqual(t, hits[i].Distance, hits[i-1].Distance)
	}
}

func TestIndex_RejectsMixedDimensions(t *testing.T) {
	ctx := context.Background()
	index, err := Open(Config{})
	require.NoError(t, err)

	err = index.Add(ctx, []storage.FactDocument{fact("1", "a", 8), fact("2", "b", 16)})
	assert.ErrorIs(t, err, storage.ErrMixedDimensions)

	require.NoError(t, index.Add(ctx, []storage.FactDocument{fact("1", "a", 8)}))
	err = index.Add(ctx, []storage.FactDocument{fact("2", "b", 16)})
	assert.ErrorIs(t, err, storage.ErrMixedDimensions)

	assert.ErrorIs(t, index.Add(ctx, nil), storage.ErrEmptyDocuments)
}

func TestIndex_DimensionSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	stores, err := badger.NewMemoryStores(0)
	require.NoError(t, err)
	defer stores.Close()

	index, err := Open(Config{Path: dir, Meta: stores.Meta})
	require.NoError(t, err)
	require.NoError(t, index.Add(ctx, []storage.FactDocument{fact("1", "a", 24)}))

	reopened, err := Open(Config{Path: dir, Meta: stores.Meta})
	require.NoError(t, err)
	assert.Equal(t, 1, reopened.Count())

	dim, err := reopened.Dimension(ctx)
	require.NoError(t, err)
	assert.Equal(t, 24, dim)
}

func TestIndex_InvalidQuery(t *testing.T) {
	index, err := Open(Config{})
	require.NoError(t, err)

	_, err = index.Query(context.Background(), nil, 3)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}
