//go:build integration

package integration_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node KRaft broker and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	ctr, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("delivery-events-test"))
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err, "start kafka container")

	brokers, err := ctr.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrlConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrlConn.Close()

	require.NoError(t, ctrlConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

const addressCSV = `province_name,district_name,township,road_name,full_address,latitude,longitude
서울특별시,강남구,역삼동,테헤란로,서울특별시 강남구 테헤란로 152,37.5001,127.0364
서울특별시,송파구,잠실동,올림픽로,서울특별시 송파구 올림픽로 300,37.5133,127.1028
서울특별시,마포구,서교동,양화로,서울특별시 마포구 양화로 45,37.5559,126.9220
`

// writeReferenceData writes the address CSV and terminal tables to a temp dir.
func writeReferenceData(t *testing.T) (csvPath, hubPath, subPath string) {
	t.Helper()
	dir := t.TempDir()
	csvPath = filepath.Join(dir, "addr_data.csv")
	hubPath = filepath.Join(dir, "hub_terminal.json")
	subPath = filepath.Join(dir, "sub_terminal.yaml")

	require.NoError(t, os.WriteFile(csvPath, []byte(addressCSV), 0o600))
	require.NoError(t, os.WriteFile(hubPath, []byte(`{"hub:1":"Gangnam HUB","hub:2":"Songpa HUB","hub:3":"Seocho HUB"}`), 0o600))
	require.NoError(t, os.WriteFile(subPath, []byte("강남구: 강남 Sub\n송파구: 송파 Sub\n마포구: 마포 Sub\n"), 0o600))
	return csvPath, hubPath, subPath
}
