package models

// Chunk is a contiguous slice of a corpus document. Chunks are produced once
// at load time and never mutated.
type Chunk struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Index  int    `json:"index"`
}
