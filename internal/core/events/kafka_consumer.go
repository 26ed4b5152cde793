package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/segmentio/kafka-go"
)

type KafkaReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func NewKafkaReader(brokers []string, groupID, topic string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		GroupID: groupID,
		Topic:   topic,
		Dialer:  kafka.DefaultDialer,
	})
}

// KafkaConsumer decodes events written by KafkaForwarder and hands them to a
// handler. A message is committed only after the handler succeeds.
type KafkaConsumer struct {
	reader  KafkaReader
	handler Handler
	logger  *slog.Logger
}

func NewKafkaConsumer(reader KafkaReader, handler Handler, logger *slog.Logger) *KafkaConsumer {
	return &KafkaConsumer{
		reader:  reader,
		handler: handler,
		logger:  logger.With("component", "kafka_consumer"),
	}
}

// Run consumes until ctx is cancelled.
func (c *KafkaConsumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			c.logger.Error("failed to fetch message", "error", err)
			continue
		}

		var event BaseEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			// poison message: commit so it is not redelivered forever
			c.logger.Error("failed to parse event", "error", err, "offset", msg.Offset)
			c.commit(ctx, msg)
			continue
		}

		if err := c.handler(ctx, event); err != nil {
			c.logger.Error("failed to handle event", "error", err, "event_type", event.Type)
			continue
		}
		c.commit(ctx, msg)
	}
}

func (c *KafkaConsumer) commit(ctx context.Context, msg kafka.Message) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.logger.Error("failed to commit message", "error", err, "offset", msg.Offset)
	}
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
