package mq

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/pressline/apiserver/config"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQPublisher wraps a RabbitMQ connection/channel pair bound to
// the configured event queue.
type RabbitMQPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

// NewRabbitMQPublisher dials the broker and declares the event queue.
func NewRabbitMQPublisher(cfg config.BrokerConfig) (*RabbitMQPublisher, error) {
	if strings.TrimSpace(cfg.RabbitMQ.URL) == "" {
		return nil, errors.New("rabbitmq url is required")
	}
	if strings.TrimSpace(cfg.Channel) == "" {
		return nil, errors.New("broker channel is required")
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

	if cfg.RabbitMQ.PrefetchCount > 0 {
		if err := ch.Qos(cfg.RabbitMQ.PrefetchCount, 0, false); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, err
		}
	}

	if _, err := ch.QueueDeclare(
		cfg.Channel,
		cfg.RabbitMQ.QueueDurable,
		cfg.RabbitMQ.QueueAutoDelete,
		false,
		false,
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	return &RabbitMQPublisher{
		conn:    conn,
		channel: ch,
		queue:   cfg.Channel,
	}, nil
}

// Publish sends the event to the declared queue.
func (r *RabbitMQPublisher) Publish(ctx context.Context, event Event) error {
	body, err := marshalEvent(event)
	if err != nil {
		return err
	}

	return r.channel.PublishWithContext(ctx, "", r.queue, false, false, amqp.Publishing{
		ContentType: "application/json",
		MessageId:   uuid.NewString(),
		Headers:     amqp.Table{"event_type": event.Type},
		Body:        body,
	})
}

// Close closes the underlying channel and connection.
func (r *RabbitMQPublisher) Close() error {
	if r.channel != nil {
		_ = r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
