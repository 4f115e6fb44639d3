// Package provider selects and constructs the DataSource and Transport
// implementations named in configuration.
package provider

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// ErrUnknownKind is wrapped by every parse failure.
var ErrUnknownKind = errors.New("unknown provider kind")

// SourceKind enumerates the supported data sources.
type SourceKind string

const (
	SourceCSV      SourceKind = "csv"
	SourceRedis    SourceKind = "redis"
	SourcePostgres SourceKind = "postgres"
)

// SourceKinds lists every accepted data source tag.
var SourceKinds = []SourceKind{SourceCSV, SourceRedis, SourcePostgres}

// TransportKind enumerates the supported message transports.
type TransportKind string

const (
	TransportRabbitMQ TransportKind = "rabbitmq"
	TransportSQS      TransportKind = "sqs"
	TransportKafka    TransportKind = "kafka"
)

// TransportKinds lists every accepted transport tag.
var TransportKinds = []TransportKind{TransportRabbitMQ, TransportSQS, TransportKafka}

// ParseSourceKind maps a configuration tag onto a SourceKind.
func ParseSourceKind(s string) (SourceKind, error) {
	return parseKind("data source", s, SourceKinds)
}

// ParseTransportKind maps a configuration tag onto a TransportKind.
func ParseTransportKind(s string) (TransportKind, error) {
	return parseKind("transport", s, TransportKinds)
}

func parseKind[K ~string](what, s string, accepted []K) (K, error) {
	k := K(strings.ToLower(strings.TrimSpace(s)))
	if lo.Contains(accepted, k) {
		return k, nil
	}
	names := lo.Map(accepted, func(k K, _ int) string { return string(k) })
	return "", fmt.Errorf("%w: %s %q (accepted: %s)", ErrUnknownKind, what, s, strings.Join(names, ", "))
}
