package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrigpt/models"
)

func chunk(text string) models.Chunk {
	return models.Chunk{Text: text, Source: "t.txt"}
}

func TestNewIndex_Validation(t *testing.T) {
	_, err := NewIndex("m", []models.Chunk{chunk("a")}, nil)
	assert.Error(t, err, "count mismatch")

	_, err = NewIndex("m", []models.Chunk{chunk("a"), chunk("b")}, [][]float32{{1, 0}, {1}})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = NewIndex("m", []models.Chunk{chunk("a")}, [][]float32{{}})
	assert.Error(t, err, "empty vector")
}

func TestIndex_SearchOrdersByCosine(t *testing.T) {
	ix, err := NewIndex("m",
		[]models.Chunk{chunk("east"), chunk("north"), chunk("north-east")},
		[][]float32{{1, 0}, {0, 1}, {1, 1}},
	)
	require.NoError(t, err)
	assert.Equal(t, 3, ix.Len())
	assert.Equal(t, 2, ix.Dimension())
	assert.Equal(t, "m", ix.Model())

	hits, err := ix.Search([]float32{0, 2}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "north", hits[0].Chunk.Text)
	assert.Equal(t, "north-east", hits[1].Chunk.Text)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-9)

	hits, err = ix.Search([]float32{1, 1}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 3, "k larger than the index returns everything")
}

func TestIndex_TiesKeepInsertionOrder(t *testing.T) {
	ix, err := NewIndex("m",
		[]models.Chunk{chunk("first"), chunk("second")},
		[][]float32{{1, 0}, {2, 0}},
	)
	require.NoError(t, err)

	hits, err := ix.Search([]float32{1, 0}, 2)
	require.NoError(t, err)
	assert.Equal(t, "first", hits[0].Chunk.Text)
	assert.Equal(t, "second", hits[1].Chunk.Text)
}

func TestIndex_QueryDimensionMismatch(t *testing.T) {
	ix, err := NewIndex("m", []models.Chunk{chunk("a")}, [][]float32{{1, 0}})
	require.NoError(t, err)

	_, err = ix.Search([]float32{1, 0, 0}, 1)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestIndex_EmptyAndNil(t *testing.T) {
	var nilIndex *Index
	assert.Equal(t, 0, nilIndex.Len())
	hits, err := nilIndex.Search([]float32{1}, 3)
	assert.NoError(t, err)
	assert.Empty(t, hits)

	empty, err := NewIndex("m", nil, nil)
	require.NoError(t, err)
	hits, err = empty.Search([]float32{1}, 3)
	assert.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndex_DoesNotAliasInputs(t *testing.T) {
	chunks := []models.Chunk{chunk("a")}
	vectors := [][]float32{{1, 0}}
	ix, err := NewIndex("m", chunks, vectors)
	require.NoError(t, err)

	chunks[0].Text = "mutated"
	vectors[0][0] = 0

	hits, err := ix.Search([]float32{1, 0}, 1)
	require.NoError(t, err)
	assert.Equal(t, "a", hits[0].Chunk.Text)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
}
