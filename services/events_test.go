package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	mu   sync.Mutex
	err  error
	sent []published
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func TestAMQPPublisher_PublishesPersistentJSON(t *testing.T) {
	ch := &fakeChannel{}
	p := NewAMQPPublisher(ch, "agrigpt.ask")
	at := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

	err := p.Publish(context.Background(), AskEvent{
		RequestID:  "req-7",
		Language:   "hi",
		Translated: true,
		Status:     "ok",
		DurationMS: 1250,
		At:         at,
	})
	require.NoError(t, err)

	require.Len(t, ch.sent, 1)
	sent := ch.sent[0]
	assert.Equal(t, "", sent.exchange)
	assert.Equal(t, "agrigpt.ask", sent.key)
	assert.Equal(t, "application/json", sent.msg.ContentType)
	assert.Equal(t, amqp.Persistent, sent.msg.DeliveryMode)
	assert.True(t, at.Equal(sent.msg.Timestamp))

	var body map[string]any
	require.NoError(t, json.Unmarshal(sent.msg.Body, &body))
	assert.Equal(t, "req-7", body["request_id"])
	assert.Equal(t, "hi", body["language"])
	assert.Equal(t, true, body["translated"])
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 1250, body["duration_ms"])
	assert.NotContains(t, body, "question")
	assert.NotContains(t, body, "answer")
}

func TestAMQPPublisher_ReturnsChannelError(t *testing.T) {
	p := NewAMQPPublisher(&fakeChannel{err: errBoom}, "agrigpt.ask")

	err := p.Publish(context.Background(), AskEvent{Status: "error"})

	assert.ErrorIs(t, err, errBoom)
}

func TestAMQPPublisher_ConcurrentPublish(t *testing.T) {
	ch := &fakeChannel{}
	p := NewAMQPPublisher(ch, "agrigpt.ask")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, p.Publish(context.Background(), AskEvent{Status: "ok"}))
		}()
	}
	wg.Wait()

	assert.Len(t, ch.sent, 20)
}

func TestRAGService_PublishFailureDoesNotFailRequest(t *testing.T) {
	emb := newKeywordEmbedder(cropVocab()...)
	ix := cropIndex(t, emb, "Rice needs flooded fields.")
	svc := NewRAGService(
		NewLanguageBridge(&fakeTranslator{lang: "en"}, "en"),
		NewRetriever(ix, emb, 1),
		NewAnswerGenerator(&fakeLLM{reply: "Flood the paddy."}),
		NewAMQPPublisher(&fakeChannel{err: errBoom}, "agrigpt.ask"),
	)

	ans, err := svc.Answer(context.Background(), "rice?")

	require.NoError(t, err)
	assert.Equal(t, "Flood the paddy.", ans.Text)
}
