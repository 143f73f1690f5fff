package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/notshort/notshort/internal/model"
	"github.com/notshort/notshort/internal/repositories"
	"github.com/notshort/notshort/internal/storage"
)

// VisitConsumer processes visit events: it records a visit row and
// archives the raw click payload to the blob sink.
type VisitConsumer struct {
	URLs   repositories.URLRepositoryInterface
	Visits repositories.VisitRepositoryInterface
	Sink   storage.BlobSink
	Logger *zap.Logger
}

// NewVisitConsumer creates a VisitConsumer.
func NewVisitConsumer(urls repositories.URLRepositoryInterface, visits repositories.VisitRepositoryInterface, sink storage.BlobSink, logger *zap.Logger) *VisitConsumer {
	return &VisitConsumer{URLs: urls, Visits: visits, Sink: sink, Logger: logger}
}

// clickPayload is the archived blob shape.
type clickPayload struct {
	SourceIP  string `json:"source_ip"`
	LongURL   string `json:"long_url"`
	UserAgent string `json:"user_agent"`
	Timestamp int64  `json:"timestamp"`
}

// Handle processes one raw message. Events whose source or type tags do
// not match the redirect producer are rejected so forged or misrouted
// messages never become visit records.
func (c *VisitConsumer) Handle(ctx context.Context, body []byte) error {
	var event model.VisitEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}

	if event.Source != model.EventSource || event.DetailType != model.EventDetailType {
		return fmt.Errorf("unexpected event tags: source=%q detail_type=%q", event.Source, event.DetailType)
	}

	rec, err := c.URLs.GetBySlug(ctx, event.Slug)
	if err != nil {
		return fmt.Errorf("resolve slug %q: %w", event.Slug, err)
	}
	if rec == nil {
		// Slug deleted between redirect and processing; nothing to record.
		c.Logger.Warn("visit for unknown slug", zap.String("slug", event.Slug))
		return nil
	}

	visit := &model.Visit{
		ID:             uuid.NewString(),
		ShortenedURLID: rec.ID,
		VisitTime:      time.Unix(event.Timestamp, 0).UTC(),
	}
	if err := c.Visits.SaveVisit(ctx, visit); err != nil {
		return fmt.Errorf("save visit: %w", err)
	}

	blob, err := json.Marshal(clickPayload{
		SourceIP:  event.SourceIP,
		LongURL:   event.LongURL,
		UserAgent: event.UserAgent,
		Timestamp: event.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("marshal click payload: %w", err)
	}

	key := fmt.Sprintf("clicks/%s/%d.json", event.Slug, event.Timestamp)
	if err := c.Sink.Put(ctx, key, blob); err != nil {
		return fmt.Errorf("archive click: %w", err)
	}
	return nil
}

// Consume attaches the consumer to the queue and processes deliveries
// until the connection closes. Failed messages are logged and acked; a
// redelivery loop on a poison message would starve the queue.
func Consume(conn *amqp.Connection, queue string, consumer *VisitConsumer, logger *zap.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.Qos(1, 0, false); err != nil {
		ch.Close()
		return fmt.Errorf("set QoS: %w", err)
	}

	msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		ch.Close()
		return fmt.Errorf("register consumer: %w", err)
	}

	go func() {
		defer ch.Close()
		for d := range msgs {
			if err := consumer.Handle(context.Background(), d.Body); err != nil {
				logger.Error("failed to process visit event", zap.Error(err))
			}
			if err := d.Ack(false); err != nil {
				logger.Error("failed to ack visit event", zap.Error(err))
			}
		}
	}()

	return nil
}
