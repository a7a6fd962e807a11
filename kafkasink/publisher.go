// Package kafkasink publishes order book events to a Kafka topic.
//
// Every event becomes one message keyed by the instrument symbol, so all events of an instrument
// land on the same partition in the order the book produced them.
package kafkasink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/ffhan/matchbook"
)

// Writer is the part of *kafka.Writer the publisher uses.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	writer Writer
	logger *zap.Logger
}

var _ matchbook.EventSink = (*Publisher)(nil)

// New creates a publisher writing synchronously to topic with acknowledgement from all replicas.
func New(brokers []string, topic string, logger *zap.Logger) *Publisher {
	return NewWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		BatchTimeout: 10 * time.Millisecond,
	}, logger)
}

func NewWithWriter(writer Writer, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{writer: writer, logger: logger}
}

// Publish writes the events as one batch.
func (p *Publisher) Publish(ctx context.Context, events []matchbook.Event) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		value, err := json.Marshal(NewMessage(e))
		if err != nil {
			return fmt.Errorf("encode event %d: %w", e.Seq, err)
		}
		key, err := e.Symbol.MarshalText()
		if err != nil {
			return fmt.Errorf("encode symbol: %w", err)
		}
		msgs = append(msgs, kafka.Message{Key: key, Value: value})
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		p.logger.Warn("kafka publish failed", zap.Int("events", len(msgs)), zap.Error(err))
		return fmt.Errorf("write %d events: %w", len(msgs), err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
