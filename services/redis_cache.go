package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis"
)

// RedisEmbeddingCache keeps query embeddings in Redis with a TTL.
type RedisEmbeddingCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ EmbeddingCache = (*RedisEmbeddingCache)(nil)

func NewRedisEmbeddingCache(client *redis.Client, ttl time.Duration) *RedisEmbeddingCache {
	return &RedisEmbeddingCache{client: client, ttl: ttl}
}

func redisEmbeddingKey(model, key string) string {
	return "agrigpt:embedding:" + model + ":" + key
}

func (c *RedisEmbeddingCache) Lookup(ctx context.Context, model string, keys []string) (map[string][]float32, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	redisKeys := make([]string, len(keys))
	for i, k := range keys {
		redisKeys[i] = redisEmbeddingKey(model, k)
	}

	vals, err := c.client.WithContext(ctx).MGet(redisKeys...).Result()
	if err != nil {
		return nil, err
	}

	out := make(map[string][]float32, len(keys))
	for i, val := range vals {
		s, ok := val.(string)
		if !ok {
			continue
		}
		var vec []float32
		if err := json.Unmarshal([]byte(s), &vec); err != nil {
			continue
		}
		out[keys[i]] = vec
	}
	return out, nil
}

func (c *RedisEmbeddingCache) Store(ctx context.Context, model string, vectors map[string][]float32) error {
	if len(vectors) == 0 {
		return nil
	}
	pipe := c.client.WithContext(ctx).TxPipeline()
	for key, vec := range vectors {
		b, err := json.Marshal(vec)
		if err != nil {
			return err
		}
		pipe.Set(redisEmbeddingKey(model, key), b, c.ttl)
	}
	_, err := pipe.Exec()
	return err
}
