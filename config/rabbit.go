package config

import (
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// InitRabbit dials RabbitMQ and declares the ask-event queue. It returns nil
// handles when no URL is configured.
func InitRabbit(cfg *Config) (*amqp.Connection, *amqp.Channel, error) {
	url := cfg.RabbitMQ.Url
	if url == "" {
		slog.Info("rabbitmq url empty, skipping rabbit init")
		return nil, nil, nil
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}

	qname := cfg.RabbitMQ.Queue
	if qname == "" {
		qname = "agrigpt.ask"
		cfg.RabbitMQ.Queue = qname
	}
	if _, err = ch.QueueDeclare(qname, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("failed to declare RabbitMQ queue: %w", err)
	}

	slog.Info("RabbitMQ initialized", "queue", qname)
	return conn, ch, nil
}
