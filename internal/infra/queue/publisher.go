package queue

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/agentdesk-io/agentdesk/internal/config"
)

// Broadcaster fans activity records out to subscribed agents. Publishing
// is best-effort: the audit trail row in the store is the source of
// truth, the broadcast is a notification.
type Broadcaster interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
	Close() error
}

type amqpBroadcaster struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// NewBroadcaster dials RabbitMQ and declares the activity topic exchange.
// Returns (nil, nil) when no URL is configured; a nil Broadcaster means
// broadcast is disabled.
func NewBroadcaster(cfg *config.Config) (Broadcaster, error) {
	if cfg.RabbitMQ.URL == "" {
		return nil, nil
	}
	conn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(cfg.RabbitMQ.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &amqpBroadcaster{conn: conn, ch: ch, exchange: cfg.RabbitMQ.Exchange}, nil
}

func (b *amqpBroadcaster) Publish(ctx context.Context, routingKey string, body []byte) error {
	return b.ch.PublishWithContext(ctx, b.exchange, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now(),
		Body:        body,
	})
}

func (b *amqpBroadcaster) Close() error {
	_ = b.ch.Close()
	return b.conn.Close()
}
