package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AskEvent describes one handled question. It deliberately carries no
// question or answer text.
type AskEvent struct {
	RequestID  string    `json:"request_id"`
	Language   string    `json:"language"`
	Translated bool      `json:"translated"`
	Status     string    `json:"status"`
	DurationMS int64     `json:"duration_ms"`
	At         time.Time `json:"at"`
}

// EventPublisher emits ask events.
type EventPublisher interface {
	Publish(ctx context.Context, event AskEvent) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, AskEvent) error { return nil }

// amqpChannel is the part of *amqp.Channel the publisher uses.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPPublisher publishes events as JSON to a RabbitMQ queue through the
// default exchange.
type AMQPPublisher struct {
	mu    sync.Mutex
	ch    amqpChannel
	queue string
}

func NewAMQPPublisher(ch amqpChannel, queue string) *AMQPPublisher {
	return &AMQPPublisher{ch: ch, queue: queue}
}

func (p *AMQPPublisher) Publish(ctx context.Context, event AskEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.At,
		Body:         body,
	})
}
