package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"agrigpt/config"
	"agrigpt/services"
)

// app is the assembled pipeline plus the connections it holds open.
type app struct {
	rag     *services.RAGService
	closers []func() error
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

// buildApp connects the optional stores, loads and embeds the corpus, and
// assembles the question-answering pipeline.
func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &app{}
	ok := false
	defer func() {
		if !ok {
			_ = a.Close()
		}
	}()

	aiCfg := services.AIConfig{
		APIKey:  cfg.RAG.APIKey,
		BaseURL: cfg.RAG.APIBaseURL,
		Timeout: time.Duration(cfg.RAG.TimeoutSeconds) * time.Second,
	}
	chatCfg, embedCfg := aiCfg, aiCfg
	chatCfg.Model = cfg.RAG.ChatModel
	embedCfg.Model = cfg.RAG.EmbeddingModel

	chat, err := services.NewChatClient(chatCfg)
	if err != nil {
		return nil, err
	}
	embedClient, err := services.NewEmbeddingClient(embedCfg)
	if err != nil {
		return nil, err
	}

	var corpusEmbedder services.Embedder = embedClient
	db, err := config.InitDB(cfg)
	if err != nil {
		return nil, err
	}
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			a.closers = append(a.closers, sqlDB.Close)
		}
		cache, err := services.NewGormEmbeddingCache(db)
		if err != nil {
			return nil, err
		}
		corpusEmbedder = services.NewCachedEmbedder(embedClient, cache)
	}

	var queryEmbedder services.Embedder = embedClient
	rdb, err := config.InitRedis(cfg)
	if err != nil {
		return nil, err
	}
	if rdb != nil {
		a.closers = append(a.closers, rdb.Close)
		ttl := time.Duration(cfg.Redis.TTLSeconds) * time.Second
		queryEmbedder = services.NewCachedEmbedder(embedClient, services.NewRedisEmbeddingCache(rdb, ttl))
	}

	var events services.EventPublisher = services.NopPublisher{}
	conn, ch, err := config.InitRabbit(cfg)
	if err != nil {
		return nil, err
	}
	if conn != nil {
		a.closers = append(a.closers, conn.Close, ch.Close)
		events = services.NewAMQPPublisher(ch, cfg.RabbitMQ.Queue)
	}

	translator, err := services.NewGoogleTranslator(ctx, cfg.Translate.APIKey, cfg.Translate.Endpoint)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	chunker := services.NewChunker(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	index, err := services.NewCorpusLoader(cfg.RAG.CorpusDir, chunker, corpusEmbedder, cfg.RAG.EmbedBatchSize).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus %q: %w", cfg.RAG.CorpusDir, err)
	}
	slog.Info("corpus ready", "took", time.Since(start))

	a.rag = services.NewRAGService(
		services.NewLanguageBridge(translator, cfg.RAG.WorkingLanguage),
		services.NewRetriever(index, queryEmbedder, cfg.RAG.TopK),
		services.NewAnswerGenerator(chat),
		events,
	)
	ok = true
	return a, nil
}
