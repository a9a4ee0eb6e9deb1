package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/twinrisk/twinrisk/pkg/events"
	"github.com/twinrisk/twinrisk/pkg/kafka"
)

// MessageProducer is the subset of kafka.Producer the publisher needs.
type MessageProducer interface {
	Publish(ctx context.Context, topic string, messages ...kafka.Message) error
}

// KafkaPublisher implements port.EventPublisher using Kafka. Messages are keyed
// by aggregate ID so events of one prediction stay ordered.
type KafkaPublisher struct {
	producer MessageProducer
	topic    string
	logger   *slog.Logger
}

// NewKafkaPublisher creates a new Kafka event publisher.
func NewKafkaPublisher(producer MessageProducer, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// Publish sends domain events to Kafka in one batch.
func (p *KafkaPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if len(evts) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(evts))
	for _, evt := range evts {
		msgs = append(msgs, kafka.Message{
			Key:     []byte(evt.AggregateID().String()),
			Value:   evt.Payload(),
			Headers: events.Headers(evt),
		})
		p.logger.Debug("publishing event",
			slog.String("event_type", evt.EventType()),
			slog.String("topic", p.topic),
			slog.Int("payload_size", len(evt.Payload())),
		)
	}

	if err := p.producer.Publish(ctx, p.topic, msgs...); err != nil {
		return fmt.Errorf("failed to publish %d event(s): %w", len(evts), err)
	}
	return nil
}

// LogPublisher implements port.EventPublisher by logging events. It is used
// when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a publisher that only logs.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, evts ...events.DomainEvent) error {
	for _, evt := range evts {
		p.logger.Debug("event not published, no broker configured",
			slog.String("event_type", evt.EventType()),
			slog.String("event_id", evt.EventID().String()),
		)
	}
	return nil
}
