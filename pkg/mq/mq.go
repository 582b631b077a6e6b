package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type Config struct {
	URL string `mapstructure:"url"`
}

// Publisher sends one message to an exchange/routing key pair. The only
// implementation here publishes persistent JSON over AMQP.
type Publisher interface {
	Publish(ctx context.Context, exchange string, routingKey string, body []byte) error
}

// RabbitMQ owns the broker connection. This service is publish-only: audit
// events go out, nothing is consumed.
type RabbitMQ struct {
	conn   *amqp.Connection
	logger *zap.Logger
}

func NewConnection(cfg Config, logger *zap.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ", zap.Error(err))
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	logger.Info("Connected to RabbitMQ")

	return &RabbitMQ{conn: conn, logger: logger}, nil
}

// DeclareTopology declares the given queues as durable. Safe to call on
// every startup; declaration is idempotent.
func (r *RabbitMQ) DeclareTopology(queues []string) error {
	ch, err := r.openChannel()
	if err != nil {
		return err
	}
	defer ch.Close()

	for _, queue := range queues {
		if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %s: %w", queue, err)
		}
	}

	r.logger.Info("Queues declared", zap.Strings("queues", queues))

	return nil
}

func (r *RabbitMQ) CreatePublisher() (Publisher, error) {
	ch, err := r.openChannel()
	if err != nil {
		return nil, err
	}
	return &rabbitPublisher{ch: ch}, nil
}

func (r *RabbitMQ) Close() error {
	if r.conn == nil || r.conn.IsClosed() {
		return nil
	}
	return r.conn.Close()
}

func (r *RabbitMQ) openChannel() (*amqp.Channel, error) {
	if r.conn == nil || r.conn.IsClosed() {
		return nil, fmt.Errorf("rabbitmq connection is closed")
	}

	ch, err := r.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	return ch, nil
}

type rabbitPublisher struct {
	ch *amqp.Channel
}

func (p *rabbitPublisher) Publish(ctx context.Context, exchange string, routingKey string, body []byte) error {
	return p.ch.PublishWithContext(ctx, exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}
