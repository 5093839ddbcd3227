package models

import "gorm.io/gorm"

// EmbeddingRecord caches one embedding vector per (model, text hash) so a
// restart does not re-embed unchanged corpus chunks.
type EmbeddingRecord struct {
	gorm.Model
	EmbeddingModel string    `gorm:"size:128;uniqueIndex:idx_model_hash"`
	TextHash       string    `gorm:"size:64;uniqueIndex:idx_model_hash"`
	Dimension      int
	Vector         []float32 `gorm:"serializer:json;type:json"`
}
