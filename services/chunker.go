package services

import (
	"strings"

	"agrigpt/models"
)

// Default chunking parameters, in characters.
const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
)

// Chunker splits document text into fixed-size, overlapping character windows.
type Chunker struct {
	size    int
	overlap int
}

func NewChunker(size, overlap int) *Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	// Ensure overlap doesn't exceed chunk size
	if overlap >= size {
		overlap = size / 4
	}
	return &Chunker{size: size, overlap: overlap}
}

// Split returns the chunks of text attributed to source. Windows are counted
// in runes and trimmed; windows that are only whitespace are dropped.
func (c *Chunker) Split(source, text string) []models.Chunk {
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil
	}

	step := c.size - c.overlap
	chunks := make([]models.Chunk, 0, n/step+1)
	for start := 0; start < n; start += step {
		end := start + c.size
		if end > n {
			end = n
		}
		piece := strings.TrimSpace(string(runes[start:end]))
		if piece != "" {
			chunks = append(chunks, models.Chunk{
				Text:   piece,
				Source: source,
				Index:  len(chunks),
			})
		}
		if end == n {
			break
		}
	}
	return chunks
}
