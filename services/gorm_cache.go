package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"agrigpt/models"
)

const gormLookupBatch = 500

// GormEmbeddingCache keeps corpus embeddings in a SQL table.
type GormEmbeddingCache struct {
	db *gorm.DB
}

var _ EmbeddingCache = (*GormEmbeddingCache)(nil)

// NewGormEmbeddingCache migrates the embedding_records table.
func NewGormEmbeddingCache(db *gorm.DB) (*GormEmbeddingCache, error) {
	if err := db.AutoMigrate(&models.EmbeddingRecord{}); err != nil {
		return nil, fmt.Errorf("migrate embedding records: %w", err)
	}
	return &GormEmbeddingCache{db: db}, nil
}

func (c *GormEmbeddingCache) Lookup(ctx context.Context, model string, keys []string) (map[string][]float32, error) {
	out := make(map[string][]float32, len(keys))
	for start := 0; start < len(keys); start += gormLookupBatch {
		end := start + gormLookupBatch
		if end > len(keys) {
			end = len(keys)
		}
		var records []models.EmbeddingRecord
		err := c.db.WithContext(ctx).
			Where("embedding_model = ? AND text_hash IN ?", model, keys[start:end]).
			Find(&records).Error
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			out[r.TextHash] = r.Vector
		}
	}
	return out, nil
}

func (c *GormEmbeddingCache) Store(ctx context.Context, model string, vectors map[string][]float32) error {
	if len(vectors) == 0 {
		return nil
	}
	records := make([]models.EmbeddingRecord, 0, len(vectors))
	for key, v := range vectors {
		records = append(records, models.EmbeddingRecord{
			EmbeddingModel: model,
			TextHash:       key,
			Dimension:      len(v),
			Vector:         v,
		})
	}
	return c.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&records, 100).Error
}
