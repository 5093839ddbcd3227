package services

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"agrigpt/models"
)

// Hit is one similarity search result.
type Hit struct {
	Chunk models.Chunk
	Score float64
}

// Index is an in-memory, read-only similarity index over chunk embeddings.
// It records the embedding model that produced its vectors so queries can be
// checked against it. Once built it is safe for concurrent readers.
type Index struct {
	model     string
	dimension int
	chunks    []models.Chunk
	vectors   [][]float32
	norms     []float64
}

// NewIndex pairs chunks[i] with vectors[i]. All vectors must share one non-zero dimension.
func NewIndex(model string, chunks []models.Chunk, vectors [][]float32) (*Index, error) {
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("chunks and vectors length mismatch: %d != %d", len(chunks), len(vectors))
	}
	ix := &Index{
		model:   model,
		chunks:  make([]models.Chunk, len(chunks)),
		vectors: make([][]float32, len(vectors)),
		norms:   make([]float64, len(vectors)),
	}
	copy(ix.chunks, chunks)
	for i, v := range vectors {
		if len(v) == 0 {
			return nil, errors.New("empty embedding vector")
		}
		if i == 0 {
			ix.dimension = len(v)
		} else if len(v) != ix.dimension {
			return nil, fmt.Errorf("%w: vector %d has %d, want %d", ErrDimensionMismatch, i, len(v), ix.dimension)
		}
		vec := make([]float32, len(v))
		copy(vec, v)
		ix.vectors[i] = vec
		ix.norms[i] = norm(vec)
	}
	return ix, nil
}

// Len returns the number of indexed chunks. A nil index is empty.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.chunks)
}

func (ix *Index) Model() string {
	if ix == nil {
		return ""
	}
	return ix.model
}

func (ix *Index) Dimension() int {
	if ix == nil {
		return 0
	}
	return ix.dimension
}

// Search returns up to k hits ordered by descending cosine similarity.
// Equal scores keep insertion order.
func (ix *Index) Search(query []float32, k int) ([]Hit, error) {
	if ix.Len() == 0 || k <= 0 {
		return nil, nil
	}
	if len(query) != ix.dimension {
		return nil, fmt.Errorf("%w: query has %d, index has %d", ErrDimensionMismatch, len(query), ix.dimension)
	}

	qn := norm(query)
	hits := make([]Hit, len(ix.vectors))
	for i, v := range ix.vectors {
		hits[i] = Hit{Chunk: ix.chunks[i], Score: cosine(query, qn, v, ix.norms[i])}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

func norm(v []float32) float64 {
	sum := 0.0
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func cosine(a []float32, an float64, b []float32, bn float64) float64 {
	if an == 0 || bn == 0 {
		return 0
	}
	dot := 0.0
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (an * bn)
}
