package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

var jsonMarshal = json.Marshal

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaWriter builds a writer that partitions by message key.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
}

// KafkaForwarder copies bus events onto a Kafka topic through a buffered
// queue. When the queue is full new events are dropped and logged.
type KafkaForwarder struct {
	writer    KafkaWriter
	queue     chan Event
	logger    *slog.Logger
	closeChan chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func NewKafkaForwarder(writer KafkaWriter, bufferSize int, logger *slog.Logger) *KafkaForwarder {
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	f := &KafkaForwarder{
		writer:    writer,
		queue:     make(chan Event, bufferSize),
		logger:    logger.With("component", "kafka_forwarder"),
		closeChan: make(chan struct{}),
		done:      make(chan struct{}),
	}
	go f.loop()
	return f
}

// Handle is an events.Handler that enqueues event for delivery.
func (f *KafkaForwarder) Handle(_ context.Context, event Event) error {
	select {
	case f.queue <- event:
		return nil
	default:
		f.logger.Warn("kafka forwarder queue full, dropping event",
			"event_type", event.EventType(),
			"event_id", event.EventID())
		return fmt.Errorf("kafka forwarder queue full")
	}
}

func (f *KafkaForwarder) loop() {
	defer close(f.done)
	for {
		select {
		case event := <-f.queue:
			f.send(context.Background(), event)
		case <-f.closeChan:
			// drain what is already queued
			for {
				select {
				case event := <-f.queue:
					f.send(context.Background(), event)
				default:
					return
				}
			}
		}
	}
}

func (f *KafkaForwarder) send(ctx context.Context, event Event) {
	value, err := jsonMarshal(event)
	if err != nil {
		f.logger.Error("failed to serialize event", "error", err, "event_id", event.EventID())
		return
	}

	err = f.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(messageKey(event)),
		Value: value,
		Time:  event.OccurredAt(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType())},
		},
	})
	if err != nil {
		f.logger.Error("failed to produce event",
			"error", err,
			"event_type", event.EventType(),
			"event_id", event.EventID())
	}
}

// messageKey keys request events by request id so one request's events
// stay ordered on a partition.
func messageKey(event Event) string {
	if data, ok := event.Payload().(map[string]interface{}); ok {
		if id, ok := data["request_id"]; ok {
			return fmt.Sprint(id)
		}
	}
	return event.EventID()
}

// Close flushes queued events and closes the writer.
func (f *KafkaForwarder) Close() error {
	var err error
	f.closeOnce.Do(func() {
		close(f.closeChan)
		<-f.done
		err = f.writer.Close()
	})
	return err
}
