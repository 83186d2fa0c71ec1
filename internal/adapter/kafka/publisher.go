package kafka

import (
	"context"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/fathomscience/fischcast-qc/internal/dataset"
)

// Message headers attached to published datasets.
const (
	HeaderDatasetVersion = "dataset_version"
	HeaderPublishedAt    = "published_at"
)

// Publisher writes full dataset payloads to a topic.
type Publisher struct {
	writer *kafkago.Writer
}

// NewPublisher creates a producer for topic.
func NewPublisher(brokers []string, topic string) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
		BatchBytes:   maxPayloadBytes,
	}
	return &Publisher{writer: w}
}

// Publish validates raw as a dataset and writes it. It returns the version
// the dashboard will report once it loads the message.
func (p *Publisher) Publish(ctx context.Context, raw []byte) (string, error) {
	if _, err := dataset.Parse(raw); err != nil {
		return "", err
	}
	msg := snapshotMessage(raw, time.Now())
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return "", fmt.Errorf("publish dataset: %w", err)
	}
	return string(msg.Key), nil
}

// Close flushes and closes the producer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// snapshotMessage wraps a payload keyed by its content version.
func snapshotMessage(raw []byte, now time.Time) kafkago.Message {
	version := dataset.Version(raw)
	return kafkago.Message{
		Key:   []byte(version),
		Value: raw,
		Headers: []kafkago.Header{
			{Key: HeaderDatasetVersion, Value: []byte(version)},
			{Key: HeaderPublishedAt, Value: []byte(now.UTC().Format(time.RFC3339))},
		},
	}
}
