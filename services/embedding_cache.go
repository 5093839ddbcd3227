package services

import (
	"context"
	"log/slog"

	"agrigpt/utils"
)

// EmbeddingCache stores vectors keyed by embedding model and text key.
type EmbeddingCache interface {
	Lookup(ctx context.Context, model string, keys []string) (map[string][]float32, error)
	Store(ctx context.Context, model string, vectors map[string][]float32) error
}

// CachedEmbedder serves vectors from a cache and embeds only the misses.
// Cache failures are logged; the wrapped embedder stays authoritative.
type CachedEmbedder struct {
	inner Embedder
	cache EmbeddingCache
}

var _ Embedder = (*CachedEmbedder)(nil)

func NewCachedEmbedder(inner Embedder, cache EmbeddingCache) *CachedEmbedder {
	return &CachedEmbedder{inner: inner, cache: cache}
}

func (e *CachedEmbedder) ModelName() string { return e.inner.ModelName() }

func (e *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	model := e.inner.ModelName()

	keys := make([]string, len(texts))
	for i, t := range texts {
		keys[i] = utils.TextKey(t)
	}

	hits, err := e.cache.Lookup(ctx, model, keys)
	if err != nil {
		slog.Warn("embedding cache lookup failed", "model", model, "error", err)
		hits = nil
	}

	out := make([][]float32, len(texts))
	missPos := make(map[string]int)
	var missTexts []string
	for i, key := range keys {
		if v, ok := hits[key]; ok && len(v) > 0 {
			out[i] = v
			continue
		}
		if _, seen := missPos[key]; !seen {
			missPos[key] = len(missTexts)
			missTexts = append(missTexts, texts[i])
		}
	}
	if len(missTexts) == 0 {
		return out, nil
	}

	vecs, err := e.inner.EmbedBatch(ctx, missTexts)
	if err != nil {
		return nil, err
	}

	fresh := make(map[string][]float32, len(missPos))
	for key, pos := range missPos {
		fresh[key] = vecs[pos]
	}
	for i, key := range keys {
		if out[i] == nil {
			out[i] = fresh[key]
		}
	}

	if err := e.cache.Store(ctx, model, fresh); err != nil {
		slog.Warn("embedding cache store failed", "model", model, "error", err)
	}
	slog.Debug("embedded with cache", "model", model, "texts", len(texts), "misses", len(missTexts))
	return out, nil
}
