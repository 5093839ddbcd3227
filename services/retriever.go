package services

import (
	"context"
	"fmt"
	"strings"
)

// NoRelevantInformation is returned as context when nothing could be retrieved.
const NoRelevantInformation = "No relevant information found in the dataset."

// DefaultTopK is the number of chunks retrieved when the caller passes 0.
const DefaultTopK = 3

// Retriever embeds a query and looks up the closest corpus chunks.
type Retriever struct {
	index       *Index
	embedder    Embedder
	defaultTopK int
}

// NewRetriever binds a retriever to an index and to the embedder that must
// share the index's embedding model.
func NewRetriever(index *Index, embedder Embedder, defaultTopK int) *Retriever {
	if defaultTopK <= 0 {
		defaultTopK = DefaultTopK
	}
	return &Retriever{index: index, embedder: embedder, defaultTopK: defaultTopK}
}

// Search returns the top-k hits for query. An empty or missing index yields no
// hits and no error.
func (r *Retriever) Search(ctx context.Context, query string, k int) ([]Hit, error) {
	if r == nil || r.index.Len() == 0 {
		return nil, nil
	}
	if k <= 0 {
		k = r.defaultTopK
	}
	if model := r.embedder.ModelName(); model != r.index.Model() {
		return nil, fmt.Errorf("%w: %w: index built with %q, query embedded with %q",
			ErrRetrieval, ErrModelMismatch, r.index.Model(), model)
	}

	vec, err := embedOne(ctx, r.embedder, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", ErrRetrieval, err)
	}
	hits, err := r.index.Search(vec, k)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrieval, err)
	}
	return hits, nil
}

// Retrieve returns the text of the top-k chunks separated by blank lines, or
// NoRelevantInformation when there is nothing to return.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) (string, error) {
	hits, err := r.Search(ctx, query, k)
	if err != nil {
		return "", err
	}
	if len(hits) == 0 {
		return NoRelevantInformation, nil
	}

	texts := make([]string, len(hits))
	for i, h := range hits {
		texts[i] = h.Chunk.Text
	}
	return strings.Join(texts, "\n\n"), nil
}
