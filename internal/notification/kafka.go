// Package notification publishes quote lifecycle events.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/wonny/underwriter/internal/contracts"
	"github.com/wonny/underwriter/pkg/logger"
)

// EventQuoteCreated is the event-type header value of quote created messages
const EventQuoteCreated = "QuoteCreated"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaPublisher writes quote events to a Kafka topic keyed by quote id,
// so every event of one quote lands on the same partition.
// ⭐ SSOT: 견적 이벤트 발행은 여기서만
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	logger *logger.Logger
}

// NewKafkaPublisher creates a publisher writing to topic on brokers
func NewKafkaPublisher(brokers []string, topic string, log *logger.Logger) *KafkaPublisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafkago.RequireAll,
	}
	return &KafkaPublisher{writer: w, topic: topic, logger: log}
}

// PublishQuoteCreated sends one QuoteCreated message
func (p *KafkaPublisher) PublishQuoteCreated(ctx context.Context, event contracts.QuoteCreatedEvent) error {
	msg, err := encodeQuoteCreated(event)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka publish to %s: %w", p.topic, err)
	}

	p.logger.WithFields(map[string]interface{}{
		"topic":    p.topic,
		"quote_id": event.QuoteID.String(),
	}).Debug("Quote created event published")
	return nil
}

// Close flushes pending messages and closes the writer
func (p *KafkaPublisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("closing writer for topic %s: %w", p.topic, err)
	}
	return nil
}

func encodeQuoteCreated(event contracts.QuoteCreatedEvent) (kafkago.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("failed to encode quote created event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.QuoteID.String()),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "event-type", Value: []byte(EventQuoteCreated)},
		},
	}, nil
}
