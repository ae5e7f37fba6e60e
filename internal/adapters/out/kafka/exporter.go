// Package kafka exports order domain events to a Kafka topic. The exporter
// is registered on the event bus as an ordinary observer, so a broker outage
// degrades to logged dispatch failures without touching the command path.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/order"

	"github.com/segmentio/kafka-go"
)

// ErrWriterIsRequired is returned when the exporter is constructed without a
// message writer.
var ErrWriterIsRequired = errors.New("message writer is required")

// messageWriter is the subset of kafka.Writer the exporter needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Exporter publishes each domain event as a JSON message keyed by order id,
// so all events of one order land in the same partition in order.
type Exporter struct {
	writer messageWriter
}

// NewExporter creates an event exporter over the given writer.
func NewExporter(writer messageWriter) (*Exporter, error) {
	if writer == nil {
		return nil, ErrWriterIsRequired
	}
	return &Exporter{writer: writer}, nil
}

// NewWriter builds a kafka.Writer for the order events topic.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

// Handle serializes the event and writes it to the topic.
func (e *Exporter) Handle(ctx context.Context, event order.DomainEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Kind(), err)
	}

	message := kafka.Message{
		Key:   []byte(event.OrderID().String()),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(event.Kind())},
			{Key: "eventId", Value: []byte(event.EventID())},
		},
	}

	if err := e.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("write %s event for order %s: %w", event.Kind(), event.OrderID().String(), err)
	}

	return nil
}
