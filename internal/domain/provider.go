package domain

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by a DataSource when the key has no record.
var ErrNotFound = errors.New("record not found")

// DataSource resolves address keys to records.
type DataSource interface {
	// Get returns the record stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (Record, error)

	// Size reports the number of addressable records.
	Size(ctx context.Context) (int, error)
}

// Receipt acknowledges a delivered event.
type Receipt struct {
	Transport string
	MessageID string
}

// Transport delivers events to an external system.
type Transport interface {
	// Send publishes one event. Failures are returned as *SendError.
	Send(ctx context.Context, event Event) (Receipt, error)
}

// SendError reports a failed delivery. The cause is available via errors.Unwrap.
type SendError struct {
	Transport string
	EventID   string
	Err       error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("%s: send event %s: %v", e.Transport, e.EventID, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }

// NewSendError wraps err as a delivery failure for event on transport.
func NewSendError(transport string, event Event, err error) *SendError {
	return &SendError{Transport: transport, EventID: event.EventID, Err: err}
}
