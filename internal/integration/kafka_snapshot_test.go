//go:build integration

package integration_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/fathomscience/fischcast-qc/internal/adapter/kafka"
	"github.com/fathomscience/fischcast-qc/internal/config"
	"github.com/fathomscience/fischcast-qc/internal/dataset"
	"github.com/fathomscience/fischcast-qc/internal/observability"
)

const testTopic = "test-model-skill-stats"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node broker and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("fischcast-qc-test"),
	)
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a single-partition topic through the cluster controller.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestSnapshotRoundTrip publishes a dataset and checks the reader makes it the
// active snapshot with the version the publisher reported.
func TestSnapshotRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	raw, err := os.ReadFile("../dataset/testdata/model_skill_stats.json")
	require.NoError(t, err)

	publisher := kafka.NewPublisher([]string{broker}, testTopic)
	t.Cleanup(func() { _ = publisher.Close() })

	raw2 := append(append([]byte(nil), raw...), ' ')

	_, err = publisher.Publish(ctx, []byte(`{"region": [`))
	require.Error(t, err, "publisher rejects invalid payloads")

	version, err := publisher.Publish(ctx, raw)
	require.NoError(t, err)

	// A malformed message written around the publisher must be skipped.
	producer := &kafkago.Writer{Addr: kafkago.TCP(broker), Topic: testTopic}
	t.Cleanup(func() { _ = producer.Close() })
	require.NoError(t, producer.WriteMessages(ctx, kafkago.Message{Value: []byte(`{"region": [`)}))

	version2, err := publisher.Publish(ctx, raw2)
	require.NoError(t, err)
	require.NotEqual(t, version, version2)

	cfg := &config.Config{
		KafkaBrokers:      []string{broker},
		KafkaDatasetTopic: testTopic,
		KafkaGroupID:      fmt.Sprintf("test-reader-%d", time.Now().UnixNano()),
	}
	store := dataset.NewStore(discardLogger(), observability.NewMetricsForTesting())
	reader := kafka.NewSnapshotReader(cfg, store, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	runCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- reader.Run(runCtx) }()

	require.Eventually(t, func() bool {
		snap := store.Current()
		return snap != nil && snap.Version == version2
	}, 60*time.Second, 100*time.Millisecond, "latest published dataset should become active")

	stop()
	require.NoError(t, <-done)

	snap := store.Current()
	assert.Equal(t, dataset.SourceKafka, snap.Source)
	assert.Equal(t, raw2, snap.Raw)
	assert.Len(t, snap.Dataset.Region, 2)
}
