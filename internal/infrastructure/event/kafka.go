package event

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// messageWriter is the part of *kafka.Writer the publisher uses
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher forwards domain events to a Kafka topic. It subscribes to
// the bus as a wildcard handler. Messages are keyed by aggregate so every
// event of one order or sale lands on the same partition, in order.
type KafkaPublisher struct {
	writer messageWriter
	logger *zap.Logger
}

// NewKafkaPublisher creates a publisher for the configured brokers and topic
func NewKafkaPublisher(cfg config.KafkaConfig, logger *zap.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: cfg.BatchTimeout,
	}
	return newKafkaPublisher(writer, logger)
}

func newKafkaPublisher(writer messageWriter, logger *zap.Logger) *KafkaPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaPublisher{writer: writer, logger: logger.Named("kafka")}
}

// Publish writes the events as one batch
func (p *KafkaPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		msg, err := toMessage(e)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d events to kafka: %w", len(msgs), err)
	}
	p.logger.Debug("events forwarded", zap.Int("count", len(msgs)))
	return nil
}

// Handle implements shared.EventHandler
func (p *KafkaPublisher) Handle(ctx context.Context, event shared.DomainEvent) error {
	return p.Publish(ctx, event)
}

// EventTypes subscribes to every event
func (p *KafkaPublisher) EventTypes() []string {
	return nil
}

// Close flushes and closes the writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func toMessage(e shared.DomainEvent) (kafka.Message, error) {
	env, err := Wrap(e)
	if err != nil {
		return kafka.Message{}, err
	}
	value, err := json.Marshal(env)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal envelope: %w", err)
	}
	return kafka.Message{
		Key:   []byte(e.AggregateType() + ":" + strconv.FormatInt(e.AggregateID(), 10)),
		Value: value,
		Time:  e.OccurredAt(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(e.EventType())},
		},
	}, nil
}

var (
	_ shared.EventPublisher = (*KafkaPublisher)(nil)
	_ shared.EventHandler   = (*KafkaPublisher)(nil)
)
