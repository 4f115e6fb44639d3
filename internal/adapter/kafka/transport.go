package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/delivery-event-generator/internal/domain"
)

// Name identifies this transport in receipts, logs and metric labels.
const Name = "kafka"

// Config names the brokers and topic to produce to.
type Config struct {
	Brokers []string
	Topic   string
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Transport produces each event as a single message on the configured topic.
type Transport struct {
	writer messageWriter
	logger *slog.Logger
}

// New creates a Kafka producer for cfg.Topic.
func New(cfg Config, logger *slog.Logger) *Transport {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Transport{writer: w, logger: logger}
}

// Send writes one message keyed by the event ID.
func (t *Transport) Send(ctx context.Context, event domain.Event) (domain.Receipt, error) {
	msgID := uuid.NewString()
	msg, err := serializeToMessage(event, msgID)
	if err != nil {
		return domain.Receipt{}, domain.NewSendError(Name, event, err)
	}
	if err := t.writer.WriteMessages(ctx, msg); err != nil {
		t.logger.Error("send failed", "transport", Name, "event_id", event.EventID, "error", err)
		return domain.Receipt{}, domain.NewSendError(Name, event, err)
	}
	t.logger.Info("event sent", "transport", Name, "event_id", event.EventID, "message_id", msgID)
	return domain.Receipt{Transport: Name, MessageID: msgID}, nil
}

func (t *Transport) Close() error {
	return t.writer.Close()
}

// serializeToMessage marshals an Event into a Kafka message.
func serializeToMessage(event domain.Event, msgID string) (kafkago.Message, error) {
	data, err := domain.MarshalEvent(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize delivery event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.EventID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "type", Value: []byte(event.Type)},
			{Key: "datetime", Value: []byte(event.Datetime)},
			{Key: "message_id", Value: []byte(msgID)},
		},
	}, nil
}
