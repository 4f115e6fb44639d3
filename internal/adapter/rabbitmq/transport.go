// Package rabbitmq publishes delivery events to a durable RabbitMQ queue.
package rabbitmq

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/couchcryptid/delivery-event-generator/internal/domain"
)

// Name identifies this transport in receipts, logs and metric labels.
const Name = "rabbitmq"

// Config holds broker coordinates and the target queue.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	VHost    string
	Queue    string
}

// URL renders the AMQP URI for the broker.
func (c Config) URL() string {
	return amqp.URI{
		Scheme:   "amqp",
		Host:     c.Host,
		Port:     c.Port,
		Username: c.Username,
		Password: c.Password,
		Vhost:    c.VHost,
	}.String()
}

type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type connection interface {
	Channel() (channel, error)
	Close() error
}

type dialFunc func(url string) (connection, error)

type amqpConnection struct {
	*amqp.Connection
}

func (c amqpConnection) Channel() (channel, error) {
	ch, err := c.Connection.Channel()
	if err != nil {
		return nil, err
	}
	return ch, nil
}

func dialAMQP(url string) (connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	return amqpConnection{conn}, nil
}

// Transport opens a fresh connection for every message. Nothing is held
// between sends, so a broker restart never leaves a stale channel behind.
type Transport struct {
	cfg    Config
	dial   dialFunc
	logger *slog.Logger
}

// New creates a Transport for cfg. No connection is made until Send.
func New(cfg Config, logger *slog.Logger) *Transport {
	return &Transport{cfg: cfg, dial: dialAMQP, logger: logger}
}

// Send dials, declares the queue durable, publishes the event to the default
// exchange and closes everything again.
func (t *Transport) Send(ctx context.Context, event domain.Event) (domain.Receipt, error) {
	receipt, err := t.publish(ctx, event)
	if err != nil {
		t.logger.Error("send failed",
			"transport", Name, "queue", t.cfg.Queue, "event_id", event.EventID, "error", err)
		return domain.Receipt{}, domain.NewSendError(Name, event, err)
	}
	t.logger.Info("event sent",
		"transport", Name, "queue", t.cfg.Queue, "event_id", event.EventID, "message_id", receipt.MessageID)
	return receipt, nil
}

func (t *Transport) publish(ctx context.Context, event domain.Event) (domain.Receipt, error) {
	body, err := domain.MarshalEvent(event)
	if err != nil {
		return domain.Receipt{}, err
	}

	conn, err := t.dial(t.cfg.URL())
	if err != nil {
		return domain.Receipt{}, err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return domain.Receipt{}, err
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(t.cfg.Queue, true, false, false, false, nil); err != nil {
		return domain.Receipt{}, err
	}

	msgID := uuid.NewString()
	err = ch.PublishWithContext(ctx, "", t.cfg.Queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msgID,
		Timestamp:    time.Now().UTC(),
		Type:         event.Type,
		Body:         body,
	})
	if err != nil {
		return domain.Receipt{}, err
	}
	return domain.Receipt{Transport: Name, MessageID: msgID}, nil
}
