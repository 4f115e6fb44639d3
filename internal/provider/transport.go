package provider

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/delivery-event-generator/internal/adapter/kafka"
	"github.com/couchcryptid/delivery-event-generator/internal/adapter/rabbitmq"
	"github.com/couchcryptid/delivery-event-generator/internal/adapter/sqs"
	"github.com/couchcryptid/delivery-event-generator/internal/config"
	"github.com/couchcryptid/delivery-event-generator/internal/domain"
)

// TransportConfig carries the settings for exactly one transport kind. Only
// the block matching Kind is read.
type TransportConfig struct {
	Kind     TransportKind
	RabbitMQ rabbitmq.Config
	SQS      sqs.Config
	Kafka    kafka.Config
}

// TransportConfigFrom translates environment configuration.
func TransportConfigFrom(cfg *config.Config) (TransportConfig, error) {
	kind, err := ParseTransportKind(cfg.Transport)
	if err != nil {
		return TransportConfig{}, err
	}
	return TransportConfig{
		Kind: kind,
		RabbitMQ: rabbitmq.Config{
			Host:     cfg.RabbitMQHost,
			Port:     cfg.RabbitMQPort,
			Username: cfg.RabbitMQUser,
			Password: cfg.RabbitMQPassword,
			VHost:    cfg.RabbitMQVHost,
			Queue:    cfg.RabbitMQQueue,
		},
		SQS: sqs.Config{
			QueueURL: cfg.SQSQueueURL,
			Region:   cfg.AWSRegion,
			Endpoint: cfg.SQSEndpoint,
		},
		Kafka: kafka.Config{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		},
	}, nil
}

// NewTransport constructs the transport named by tc.Kind. On error nothing is
// returned.
func NewTransport(_ context.Context, tc TransportConfig, logger *slog.Logger) (domain.Transport, error) {
	switch tc.Kind {
	case TransportRabbitMQ:
		return rabbitmq.New(tc.RabbitMQ, logger), nil
	case TransportSQS:
		tr, err := sqs.New(tc.SQS, logger)
		if err != nil {
			return nil, err
		}
		return tr, nil
	case TransportKafka:
		return kafka.New(tc.Kafka, logger), nil
	default:
		_, err := ParseTransportKind(string(tc.Kind))
		return nil, fmt.Errorf("new transport: %w", err)
	}
}

// String returns the tag, which doubles as the metrics label.
func (k TransportKind) String() string { return string(k) }
