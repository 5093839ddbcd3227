package services

import (
	"context"
	"log/slog"
	"time"

	"agrigpt/models"
)

type requestIDKey struct{}

// WithRequestID attaches a request id to ctx for logging and events.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the request id carried by ctx, if any.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RAGService answers one question: bridge in, retrieve, generate, bridge out.
// It holds no per-request state and may be shared by concurrent requests.
type RAGService struct {
	bridge    *LanguageBridge
	retriever *Retriever
	generator *AnswerGenerator
	events    EventPublisher
}

func NewRAGService(bridge *LanguageBridge, retriever *Retriever, generator *AnswerGenerator, events EventPublisher) *RAGService {
	if events == nil {
		events = NopPublisher{}
	}
	return &RAGService{bridge: bridge, retriever: retriever, generator: generator, events: events}
}

// Answer runs the pipeline. Any step failing aborts the request; no partial
// answer is ever returned.
func (s *RAGService) Answer(ctx context.Context, question string) (ans models.Answer, err error) {
	start := time.Now()
	reqID := RequestIDFrom(ctx)
	log := slog.With("request_id", reqID)
	log.Info("received question", "question", truncate(question, 200))

	var query models.Query
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		event := AskEvent{
			RequestID:  reqID,
			Language:   query.Language,
			Translated: query.Translated,
			Status:     status,
			DurationMS: time.Since(start).Milliseconds(),
			At:         start.UTC(),
		}
		if perr := s.events.Publish(context.WithoutCancel(ctx), event); perr != nil {
			log.Warn("publish ask event failed", "error", perr)
		}
	}()

	query, err = s.bridge.ToWorking(ctx, question)
	if err != nil {
		log.Error("error translating question", "error", err)
		return models.Answer{}, err
	}

	retrieved, err := s.retriever.Retrieve(ctx, query.Text, 0)
	if err != nil {
		log.Error("error retrieving context", "error", err)
		return models.Answer{}, err
	}
	log.Debug("retrieved relevant text", "text", truncate(retrieved, 200))

	text, err := s.generator.Generate(ctx, query.Text, retrieved)
	if err != nil {
		log.Error("error generating AI response", "error", err)
		return models.Answer{}, err
	}
	log.Debug("generated AI response", "text", truncate(text, 200))

	ans, err = s.bridge.FromWorking(ctx, text, query.Language)
	if err != nil {
		log.Error("error translating answer", "language", query.Language, "error", err)
		return models.Answer{}, err
	}
	log.Info("answered question", "language", ans.Language, "translated", query.Translated,
		"duration", time.Since(start))
	return ans, nil
}
