package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"agrigpt/models"
)

// CorpusLoader builds the similarity index from the .txt files of one directory.
type CorpusLoader struct {
	dir       string
	chunker   *Chunker
	embedder  Embedder
	batchSize int
}

// NewCorpusLoader creates a loader. batchSize bounds the number of texts per
// embedding request; zero sends all chunks in a single request.
func NewCorpusLoader(dir string, chunker *Chunker, embedder Embedder, batchSize int) *CorpusLoader {
	if chunker == nil {
		chunker = NewChunker(DefaultChunkSize, DefaultChunkOverlap)
	}
	if batchSize < 0 {
		batchSize = 0
	}
	return &CorpusLoader{dir: dir, chunker: chunker, embedder: embedder, batchSize: batchSize}
}

// Load reads, chunks and embeds the corpus. Unreadable files are logged and
// skipped; a missing directory or an empty result is an error.
func (l *CorpusLoader) Load(ctx context.Context) (*Index, error) {
	info, err := os.Stat(l.dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %q", ErrCorpusDirMissing, l.dir)
	}

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("read corpus directory %q: %w", l.dir, err)
	}

	var chunks []models.Chunk
	files := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".txt") {
			continue
		}
		path := filepath.Join(l.dir, entry.Name())
		text, err := readDocument(path)
		if err != nil {
			slog.Warn("error loading corpus file, skipping", "file", entry.Name(), "error", err)
			continue
		}
		docChunks := l.chunker.Split(entry.Name(), text)
		slog.Debug("loaded corpus file", "file", entry.Name(), "chunks", len(docChunks))
		chunks = append(chunks, docChunks...)
		files++
	}

	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyCorpus, l.dir)
	}

	vectors, err := l.embedAll(ctx, chunks)
	if err != nil {
		return nil, err
	}

	index, err := NewIndex(l.embedder.ModelName(), chunks, vectors)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	slog.Info("corpus indexed", "dir", l.dir, "files", files, "chunks", index.Len(),
		"model", index.Model(), "dimension", index.Dimension())
	return index, nil
}

func (l *CorpusLoader) embedAll(ctx context.Context, chunks []models.Chunk) ([][]float32, error) {
	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}

	size := l.batchSize
	if size == 0 {
		size = len(texts)
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += size {
		end := start + size
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := l.embedder.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embed corpus chunks %d-%d: %w", start, end-1, err)
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("embed corpus chunks %d-%d: got %d vectors", start, end-1, len(batch))
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

func readDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", errors.New("file is not valid UTF-8 text")
	}
	return string(data), nil
}
