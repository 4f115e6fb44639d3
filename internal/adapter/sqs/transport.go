// Package sqs publishes delivery events to an Amazon SQS queue.
package sqs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	awssqs "github.com/aws/aws-sdk-go/service/sqs"
	"github.com/aws/aws-sdk-go/service/sqs/sqsiface"

	"github.com/couchcryptid/delivery-event-generator/internal/domain"
)

// Name identifies this transport in receipts, logs and metric labels.
const Name = "sqs"

// ErrMissingQueueURL is returned by New when no queue URL is configured.
var ErrMissingQueueURL = errors.New("sqs queue url is required")

// Config locates the queue. Endpoint overrides the regional endpoint, e.g.
// for LocalStack.
type Config struct {
	QueueURL string
	Region   string
	Endpoint string
}

// Transport sends every event through one long-lived SQS client.
type Transport struct {
	client   sqsiface.SQSAPI
	queueURL string
	logger   *slog.Logger
}

// New builds the SQS client once. Credentials come from the default AWS
// provider chain.
func New(cfg Config, logger *slog.Logger) (*Transport, error) {
	if cfg.QueueURL == "" {
		return nil, ErrMissingQueueURL
	}

	awsCfg := aws.NewConfig().WithRegion(cfg.Region)
	if cfg.Endpoint != "" {
		awsCfg = awsCfg.WithEndpoint(cfg.Endpoint)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	return newTransport(awssqs.New(sess), cfg.QueueURL, logger), nil
}

func newTransport(client sqsiface.SQSAPI, queueURL string, logger *slog.Logger) *Transport {
	return &Transport{client: client, queueURL: queueURL, logger: logger}
}

// Send issues a single SendMessage call. The receipt carries the message ID
// assigned by SQS.
func (t *Transport) Send(ctx context.Context, event domain.Event) (domain.Receipt, error) {
	body, err := domain.MarshalEvent(event)
	if err != nil {
		return domain.Receipt{}, domain.NewSendError(Name, event, err)
	}

	out, err := t.client.SendMessageWithContext(ctx, &awssqs.SendMessageInput{
		QueueUrl:    aws.String(t.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]*awssqs.MessageAttributeValue{
			"type": {
				DataType:    aws.String("String"),
				StringValue: aws.String(event.Type),
			},
			"event_id": {
				DataType:    aws.String("String"),
				StringValue: aws.String(event.EventID),
			},
		},
	})
	if err != nil {
		t.logger.Error("send failed", "transport", Name, "event_id", event.EventID, "error", err)
		return domain.Receipt{}, domain.NewSendError(Name, event, err)
	}

	msgID := aws.StringValue(out.MessageId)
	t.logger.Info("event sent", "transport", Name, "event_id", event.EventID, "message_id", msgID)
	return domain.Receipt{Transport: Name, MessageID: msgID}, nil
}
