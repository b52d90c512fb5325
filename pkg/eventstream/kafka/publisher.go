// Package kafka publishes progress events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/papercomputeco/tutor/pkg/eventstream"
	"github.com/papercomputeco/tutor/pkg/logger"
)

// ErrNoBrokers is returned when the publisher is built without brokers.
var ErrNoBrokers = errors.New("kafka publisher needs at least one broker")

// MessageWriter is the part of kafka-go's Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Config configures a Kafka publisher.
type Config struct {
	Brokers []string
	Topic   string

	// WriteTimeout bounds a single publish. Zero means 10 seconds.
	WriteTimeout time.Duration

	Logger *slog.Logger
}

// Publisher writes one Kafka message per event, keyed by the record id so
// the events of a record stay on one partition.
type Publisher struct {
	writer  MessageWriter
	timeout time.Duration
	log     *slog.Logger
}

// NewPublisher creates a publisher backed by a kafka-go Writer.
func NewPublisher(cfg Config) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrNoBrokers
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka publisher needs a topic")
	}

	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return NewPublisherWithWriter(w, cfg), nil
}

// NewPublisherWithWriter creates a publisher on an existing writer.
func NewPublisherWithWriter(w MessageWriter, cfg Config) *Publisher {
	timeout := cfg.WriteTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Publisher{writer: w, timeout: timeout, log: log}
}

// PublishProgress encodes event as JSON and writes it.
func (p *Publisher) PublishProgress(ctx context.Context, event *eventstream.ProgressRecordedEvent) error {
	if event == nil {
		return eventstream.ErrNilProgressEvent
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding progress event: %w", err)
	}

	var key []byte
	if event.Record != nil {
		key = []byte(event.Record.ID.String())
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	msg := kafkago.Message{
		Key:   key,
		Value: value,
		Time:  event.EmittedAt,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "schema_version", Value: []byte(strconv.Itoa(event.SchemaVersion))},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publishing progress event %s: %w", event.EventID, err)
	}

	p.log.Debug("published progress event", "event_id", event.EventID, "event_type", event.EventType)
	return nil
}

// Close flushes and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ eventstream.Publisher = (*Publisher)(nil)
