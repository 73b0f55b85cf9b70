package helpers

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitPublisher publishes JSON jobs onto a single durable queue via the
// default exchange. The email worker consumes the same queue.
type RabbitPublisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	Queue string
}

func NewRabbitPublisher(url, queue string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	// Durable, so queued jobs survive a broker restart. Declaration is
	// idempotent and matches the consumer side.
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &RabbitPublisher{conn: conn, ch: ch, Queue: queue}, nil
}

func (p *RabbitPublisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// PublishJSON marshals body and publishes it as a persistent message.
func (p *RabbitPublisher) PublishJSON(ctx context.Context, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, "", p.Queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         b,
	})
}
