package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrEmptySource is returned when the data source has no records to sample.
var ErrEmptySource = errors.New("data source is empty")

// Generator builds delivery request events from a data source and the
// hub/sub terminal tables.
type Generator struct {
	source DataSource
	hubs   Table
	subs   Table
	random Random
	logger *slog.Logger
	misses Incrementer
}

// Incrementer counts events; prometheus.Counter satisfies it.
type Incrementer interface {
	Inc()
}

// GeneratorOption configures optional Generator behavior.
type GeneratorOption func(*Generator)

// WithMissCounter counts lookups that fell back to an empty destination.
func WithMissCounter(c Incrementer) GeneratorOption {
	return func(g *Generator) { g.misses = c }
}

// NewGenerator creates a Generator. The tables are read but never modified.
func NewGenerator(source DataSource, hubs, subs Table, random Random, logger *slog.Logger, opts ...GeneratorOption) *Generator {
	g := &Generator{
		source: source,
		hubs:   hubs,
		subs:   subs,
		random: random,
		logger: logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate draws a uniformly random record and terminal pair and stamps them
// with the current time.
//
// A key the source cannot resolve degrades to an empty destination. Any other
// source error is returned.
func (g *Generator) Generate(ctx context.Context) (Event, error) {
	now := clock.Now().UTC()

	size, err := g.source.Size(ctx)
	if err != nil {
		return Event{}, fmt.Errorf("data source size: %w", err)
	}
	if size <= 0 {
		return Event{}, ErrEmptySource
	}

	key := AddressKey(g.random.IntN(size) + 1)
	record, err := g.source.Get(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
		g.logger.Warn("address record not found, using defaults", "key", key)
		if g.misses != nil {
			g.misses.Inc()
		}
		record = nil
	case err != nil:
		return Event{}, fmt.Errorf("data source get %s: %w", key, err)
	}

	hub := g.hubs.Lookup(HubKey(g.random.IntN(HubCount)+1), UnknownHub)
	sub := g.subs.Lookup(record.Field(FieldDistrictName), UnknownSub)

	return Event{
		EventID:     FormatEventID(now, 1000+g.random.IntN(9000)),
		Type:        EventType,
		Datetime:    FormatDatetime(now),
		HubStation:  hub,
		SubStation:  sub,
		Destination: NewDestination(record),
	}, nil
}
