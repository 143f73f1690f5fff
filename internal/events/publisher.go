package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/notshort/notshort/internal/model"
)

// Publisher emits visit events to the notification channel.
type Publisher interface {
	PublishVisit(ctx context.Context, event model.VisitEvent) error
	Close() error
}

// AMQPPublisher publishes visit events to a durable RabbitMQ queue.
// Constructed once in main and injected; safe for concurrent use.
type AMQPPublisher struct {
	conn  *amqp.Connection
	queue string
	mu    sync.Mutex
}

// NewAMQPPublisher dials the broker and declares the queue up front so a
// misconfigured broker fails at startup, not on the first redirect.
func NewAMQPPublisher(url, queue string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	return &AMQPPublisher{conn: conn, queue: queue}, nil
}

// PublishVisit sends one event. Persistent delivery gives at-least-once
// semantics when the broker survives; callers that cannot block run this
// in a goroutine and only log the error.
func (p *AMQPPublisher) PublishVisit(ctx context.Context, event model.VisitEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() {
		return fmt.Errorf("broker connection is not available")
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Close shuts the broker connection down.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() {
		return nil
	}
	return p.conn.Close()
}
