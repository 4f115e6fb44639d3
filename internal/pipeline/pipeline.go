// Package pipeline drives the generate, send, snapshot and pause loop.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/delivery-event-generator/internal/domain"
	"github.com/couchcryptid/delivery-event-generator/internal/observability"
)

// EventGenerator produces one event per call.
type EventGenerator interface {
	Generate(ctx context.Context) (domain.Event, error)
}

// SnapshotWriter records the most recent event.
type SnapshotWriter interface {
	Write(event domain.Event) error
}

// FailurePolicy decides what a failed send does to the run.
type FailurePolicy string

const (
	// PolicyContinue logs the failure and moves on to the next iteration.
	PolicyContinue FailurePolicy = "continue"
	// PolicyAbort ends the run with the send error.
	PolicyAbort FailurePolicy = "abort"
)

// ParseFailurePolicy maps a configuration value onto a FailurePolicy.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch p := FailurePolicy(strings.ToLower(s)); p {
	case PolicyContinue, PolicyAbort:
		return p, nil
	}
	return "", fmt.Errorf("unknown send failure policy %q", s)
}

// Options tunes pacing and failure handling. Zero values fall back to no
// delay, PolicyContinue, no snapshot, the real clock and a seeded PCG source.
type Options struct {
	DelayMin time.Duration
	DelayMax time.Duration
	Policy   FailurePolicy
	Snapshot SnapshotWriter
	Clock    clockwork.Clock
	Random   domain.Random
}

// Summary counts what a run did.
type Summary struct {
	Generated int
	Sent      int
	Failed    int
}

// Pipeline runs a fixed number of generate-and-send iterations.
type Pipeline struct {
	generator EventGenerator
	transport domain.Transport
	logger    *slog.Logger
	metrics   *observability.Metrics
	opts      Options

	ready     atomic.Bool
	generated atomic.Int64
	sent      atomic.Int64
	failed    atomic.Int64
}

// New creates a Pipeline with the given stages and observability.
func New(g EventGenerator, t domain.Transport, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	if opts.Policy == "" {
		opts.Policy = PolicyContinue
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Random == nil {
		opts.Random = domain.NewRandom()
	}
	return &Pipeline{
		generator: g,
		transport: t,
		logger:    logger,
		metrics:   metrics,
		opts:      opts,
	}
}

// CheckReadiness returns nil once at least one event has been delivered,
// or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no event has been delivered yet")
	}
	return nil
}

// Progress reports the running counters. Safe to call while Run is active.
func (p *Pipeline) Progress() (generated, sent, failed int) {
	return int(p.generated.Load()), int(p.sent.Load()), int(p.failed.Load())
}

func (p *Pipeline) summary() Summary {
	g, s, f := p.Progress()
	return Summary{Generated: g, Sent: s, Failed: f}
}

// Run executes count iterations. A generation error ends the run; a send
// error ends it only under PolicyAbort. Cancelling ctx stops the loop at the
// next step boundary and returns ctx.Err().
func (p *Pipeline) Run(ctx context.Context, count int) (Summary, error) {
	p.logger.Info("pipeline started", "count", count, "policy", p.opts.Policy,
		"delay_min", p.opts.DelayMin, "delay_max", p.opts.DelayMax)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	for i := range count {
		if err := ctx.Err(); err != nil {
			return p.stop(err)
		}

		if err := p.iterate(ctx, i+1); err != nil {
			return p.summary(), err
		}

		if i == count-1 {
			break
		}
		if !sleepWithContext(ctx, p.opts.Clock, randomDelay(p.opts.Random, p.opts.DelayMin, p.opts.DelayMax)) {
			return p.stop(ctx.Err())
		}
	}

	s := p.summary()
	p.logger.Info("pipeline finished", "generated", s.Generated, "sent", s.Sent, "failed", s.Failed)
	return s, nil
}

func (p *Pipeline) stop(err error) (Summary, error) {
	s := p.summary()
	p.logger.Info("pipeline stopping", "reason", err, "generated", s.Generated, "sent", s.Sent, "failed", s.Failed)
	return s, err
}

// iterate performs one generate, send, snapshot step. n is 1-based.
func (p *Pipeline) iterate(ctx context.Context, n int) error {
	event, err := p.generator.Generate(ctx)
	if err != nil {
		return fmt.Errorf("generate event %d: %w", n, err)
	}
	p.generated.Add(1)
	p.metrics.EventsGenerated.Inc()

	if err := p.send(ctx, n, event); err != nil && p.opts.Policy == PolicyAbort {
		return err
	}

	if p.opts.Snapshot != nil {
		if err := p.opts.Snapshot.Write(event); err != nil {
			p.logger.Warn("snapshot write failed", "event_id", event.EventID, "error", err)
		}
	}
	return nil
}

func (p *Pipeline) send(ctx context.Context, n int, event domain.Event) error {
	start := p.opts.Clock.Now()
	receipt, err := p.transport.Send(ctx, event)
	elapsed := p.opts.Clock.Since(start).Seconds()

	if err != nil {
		label := "unknown"
		var sendErr *domain.SendError
		if errors.As(err, &sendErr) {
			label = sendErr.Transport
		}
		p.failed.Add(1)
		p.metrics.SendDuration.WithLabelValues(label).Observe(elapsed)
		p.metrics.SendFailures.WithLabelValues(label).Inc()
		p.logger.Warn("send failed", "iteration", n, "event_id", event.EventID, "policy", p.opts.Policy, "error", err)
		return fmt.Errorf("send event %d: %w", n, err)
	}

	p.sent.Add(1)
	p.ready.Store(true)
	p.metrics.SendDuration.WithLabelValues(receipt.Transport).Observe(elapsed)
	p.metrics.EventsSent.WithLabelValues(receipt.Transport).Inc()
	p.logger.Debug("iteration complete", "iteration", n, "event_id", event.EventID,
		"sub_station", event.SubStation, "message_id", receipt.MessageID)
	return nil
}

// randomDelay draws uniformly from [lo, hi]. hi below lo yields lo.
func randomDelay(r domain.Random, lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(r.IntN(int(hi-lo)+1))
}

func sleepWithContext(ctx context.Context, clock clockwork.Clock, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
