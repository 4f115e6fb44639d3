package observability

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "info", "json")

	logger.Debug("hidden")
	logger.Info("event sent", "event_id", "EVT-20250304091530-1234")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "event sent", line["msg"])
	assert.Equal(t, "EVT-20250304091530-1234", line["event_id"])
	assert.Equal(t, "delivery-event-generator", line["service"])
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "debug", "text")

	logger.Debug("drawing record")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), `msg="drawing record"`)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestMetricsForTesting(t *testing.T) {
	m := NewMetricsForTesting()
	m.EventsSent.WithLabelValues("sqs").Inc()
	m.EventsSent.WithLabelValues("sqs").Inc()
	m.RecordMisses.Inc()

	assert.InDelta(t, 2, testutil.ToFloat64(m.EventsSent.WithLabelValues("sqs")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.RecordMisses), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.EventsGenerated), 0)

	// A second set must not collide with the first.
	assert.NotPanics(t, func() { NewMetricsForTesting() })
}
