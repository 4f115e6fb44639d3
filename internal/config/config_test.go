package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testQueueURL = "https://sqs.us-east-1.amazonaws.com/123456789012/delivery-events"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Empty(t, cfg.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	assert.Equal(t, "csv", cfg.DataSource)
	assert.Equal(t, "files/addr_data.csv", cfg.AddressFile)
	assert.Equal(t, "files/hub_terminal.json", cfg.HubTerminalFile)
	assert.Equal(t, "files/sub_terminal.json", cfg.SubTerminalFile)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Empty(t, cfg.RedisPassword)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, "addresses", cfg.PostgresTable)

	assert.Equal(t, "rabbitmq", cfg.Transport)
	assert.Equal(t, "localhost", cfg.RabbitMQHost)
	assert.Equal(t, 5672, cfg.RabbitMQPort)
	assert.Equal(t, "guest", cfg.RabbitMQUser)
	assert.Equal(t, "guest", cfg.RabbitMQPassword)
	assert.Equal(t, "/", cfg.RabbitMQVHost)
	assert.Equal(t, "delivery_events", cfg.RabbitMQQueue)
	assert.Empty(t, cfg.SQSQueueURL)
	assert.Equal(t, "us-east-1", cfg.AWSRegion)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "delivery_events", cfg.KafkaTopic)

	assert.Empty(t, cfg.SnapshotPath)
	assert.Equal(t, 500*time.Millisecond, cfg.DelayMin)
	assert.Equal(t, 1500*time.Millisecond, cfg.DelayMax)
	assert.Equal(t, "continue", cfg.SendFailurePolicy)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("DATA_SOURCE", "Redis")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_PASSWORD", "s3cret")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("TRANSPORT", "sqs")
	t.Setenv("SQS_QUEUE_URL", testQueueURL)
	t.Setenv("AWS_REGION", "ap-northeast-2")
	t.Setenv("SQS_ENDPOINT", "http://localhost:4566")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("SNAPSHOT_PATH", "/tmp/last_event.json")
	t.Setenv("DELAY_MIN", "0s")
	t.Setenv("DELAY_MAX", "250ms")
	t.Setenv("SEND_FAILURE_POLICY", "abort")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "redis", cfg.DataSource)
	assert.Equal(t, "cache:6380", cfg.RedisAddr)
	assert.Equal(t, "s3cret", cfg.RedisPassword)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, "sqs", cfg.Transport)
	assert.Equal(t, testQueueURL, cfg.SQSQueueURL)
	assert.Equal(t, "ap-northeast-2", cfg.AWSRegion)
	assert.Equal(t, "http://localhost:4566", cfg.SQSEndpoint)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "/tmp/last_event.json", cfg.SnapshotPath)
	assert.Equal(t, time.Duration(0), cfg.DelayMin)
	assert.Equal(t, 250*time.Millisecond, cfg.DelayMax)
	assert.Equal(t, "abort", cfg.SendFailurePolicy)
}

func TestLoad_UnknownKindsLeftToProviders(t *testing.T) {
	t.Setenv("DATA_SOURCE", "xml")
	t.Setenv("TRANSPORT", "carrier-pigeon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "xml", cfg.DataSource)
	assert.Equal(t, "carrier-pigeon", cfg.Transport)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "shutdown timeout", env: map[string]string{"SHUTDOWN_TIMEOUT": "not-a-duration"}, want: "SHUTDOWN_TIMEOUT"},
		{name: "negative shutdown timeout", env: map[string]string{"SHUTDOWN_TIMEOUT": "-1s"}, want: "SHUTDOWN_TIMEOUT"},
		{name: "redis db", env: map[string]string{"REDIS_DB": "one"}, want: "REDIS_DB"},
		{name: "negative redis db", env: map[string]string{"REDIS_DB": "-1"}, want: "REDIS_DB"},
		{name: "rabbitmq port", env: map[string]string{"RABBITMQ_PORT": "70000"}, want: "RABBITMQ_PORT"},
		{name: "delay min", env: map[string]string{"DELAY_MIN": "soon"}, want: "DELAY_MIN"},
		{name: "negative delay", env: map[string]string{"DELAY_MIN": "-1s", "DELAY_MAX": "-1s"}, want: "DELAY_MIN"},
		{name: "delay max below min", env: map[string]string{"DELAY_MIN": "2s", "DELAY_MAX": "1s"}, want: "DELAY_MAX"},
		{name: "log format", env: map[string]string{"LOG_FORMAT": "xml"}, want: "LOG_FORMAT"},
		{name: "log level", env: map[string]string{"LOG_LEVEL": "verbose"}, want: "LOG_LEVEL"},
		{name: "failure policy", env: map[string]string{"SEND_FAILURE_POLICY": "retry"}, want: "SEND_FAILURE_POLICY"},
		{name: "sqs without queue url", env: map[string]string{"TRANSPORT": "sqs"}, want: "SQS_QUEUE_URL"},
		{name: "sqs endpoint", env: map[string]string{"SQS_ENDPOINT": "::not a url"}, want: "SQS_ENDPOINT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
