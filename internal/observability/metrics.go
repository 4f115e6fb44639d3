package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "delivery_events"

// Metrics holds the Prometheus counters, histograms, and gauges for the generator.
type Metrics struct {
	EventsGenerated prometheus.Counter
	EventsSent      *prometheus.CounterVec // labels: transport
	SendFailures    *prometheus.CounterVec // labels: transport
	RecordMisses    prometheus.Counter
	SendDuration    *prometheus.HistogramVec // labels: transport
	PipelineRunning prometheus.Gauge
}

func newMetrics() *Metrics {
	return &Metrics{
		EventsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_generated_total",
			Help:      "Total delivery events generated.",
		}),
		EventsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_sent_total",
			Help:      "Events accepted by the transport.",
		}, []string{"transport"}),
		SendFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "send_failures_total",
			Help:      "Events the transport failed to deliver.",
		}, []string{"transport"}),
		RecordMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_misses_total",
			Help:      "Address lookups that found no record and fell back to defaults.",
		}),
		SendDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "send_duration_seconds",
			Help:      "Time spent in a single transport send.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"transport"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 while the generator loop is active, 0 otherwise.",
		}),
	}
}

// NewMetrics creates and registers all generator metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.EventsGenerated,
		m.EventsSent,
		m.SendFailures,
		m.RecordMisses,
		m.SendDuration,
		m.PipelineRunning,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
