// Package messaging delivers domain events to the platform event bus.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/lendingverse/credit-scoring/internal/domain/event"
	"github.com/lendingverse/credit-scoring/pkg/kafka"
)

// messageProducer abstracts pkg/kafka.Producer for testing.
type messageProducer interface {
	Publish(ctx context.Context, topic string, messages ...kafka.Message) error
}

// KafkaEventPublisher implements port.EventPublisher by writing events to
// Kafka, keyed by aggregate ID so events for one assessment stay ordered.
type KafkaEventPublisher struct {
	producer messageProducer
	topic    string
	logger   *slog.Logger
}

// NewKafkaEventPublisher creates a publisher writing to the given topic.
func NewKafkaEventPublisher(producer *kafka.Producer, topic string, logger *slog.Logger) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic, logger: logger}
}

// Publish serialises and sends domain events.
func (p *KafkaEventPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	messages := make([]kafka.Message, 0, len(events))
	for _, evt := range events {
		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", evt.EventType(), err)
		}
		messages = append(messages, kafka.Message{
			Key:   []byte(evt.AggregateID()),
			Value: payload,
			Headers: map[string]string{
				"event_type": evt.EventType(),
				"event_id":   evt.EventID(),
			},
		})

		p.logger.Debug("publishing domain event",
			"event_type", evt.EventType(),
			"aggregate_id", evt.AggregateID(),
			"topic", p.topic,
		)
	}

	if err := p.producer.Publish(ctx, p.topic, messages...); err != nil {
		return fmt.Errorf("publish to %s: %w", p.topic, err)
	}
	return nil
}

// LogEventPublisher implements port.EventPublisher by logging events only.
// Used when no broker is configured.
type LogEventPublisher struct {
	logger *slog.Logger
}

// NewLogEventPublisher creates a publisher that records events in the log.
func NewLogEventPublisher(logger *slog.Logger) *LogEventPublisher {
	return &LogEventPublisher{logger: logger}
}

// Publish logs each event instead of sending it anywhere.
func (p *LogEventPublisher) Publish(_ context.Context, events ...event.DomainEvent) error {
	for _, evt := range events {
		p.logger.Info("domain event (no broker configured)",
			"event_type", evt.EventType(),
			"aggregate_id", evt.AggregateID(),
		)
	}
	return nil
}
