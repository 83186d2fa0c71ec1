package kafka

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/fathomscience/fischcast-qc/internal/config"
	"github.com/fathomscience/fischcast-qc/internal/dataset"
)

// maxPayloadBytes bounds a single dataset message. Brokers must allow at
// least this much (message.max.bytes) for large datasets.
const maxPayloadBytes = 16 << 20

// SnapshotLoader accepts full dataset payloads.
type SnapshotLoader interface {
	Load(raw []byte, source string) (*dataset.Snapshot, error)
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// SnapshotReader consumes dataset payloads from a topic. Every message is a
// complete dataset; the newest valid one becomes the active snapshot.
type SnapshotReader struct {
	reader     messageReader
	loader     SnapshotLoader
	logger     *slog.Logger
	newBackOff func() backoff.BackOff
}

// NewSnapshotReader creates a consumer-group reader for the dataset topic.
func NewSnapshotReader(cfg *config.Config, loader SnapshotLoader, logger *slog.Logger) *SnapshotReader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     cfg.KafkaBrokers,
		GroupID:     cfg.KafkaGroupID,
		Topic:       cfg.KafkaDatasetTopic,
		MinBytes:    1,
		MaxBytes:    maxPayloadBytes,
		StartOffset: kafkago.FirstOffset,
	})
	return &SnapshotReader{
		reader:     r,
		loader:     loader,
		logger:     logger,
		newBackOff: defaultBackOff,
	}
}

// defaultBackOff starts at 200ms and caps at 5s, retrying until cancelled.
func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = 0
	return b
}

// Run consumes until ctx is cancelled. Payloads that fail to load are logged,
// committed and skipped so one bad message cannot block the topic.
func (r *SnapshotReader) Run(ctx context.Context) error {
	r.logger.Info("dataset reader started")
	for {
		msg, err := r.fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				r.logger.Info("dataset reader stopping", "reason", ctx.Err())
				return nil
			}
			return err
		}

		if snap, err := r.loader.Load(msg.Value, dataset.SourceKafka); err != nil {
			r.logger.Warn("invalid dataset payload, skipping message",
				"error", err,
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
			)
		} else {
			r.logger.Debug("dataset message applied", "version", snap.Version, "offset", msg.Offset)
		}

		if err := r.reader.CommitMessages(ctx, msg); err != nil {
			r.logger.Warn("commit offset failed", "error", err,
				"topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)
		}
	}
}

// fetch reads the next message, retrying transient errors with backoff.
func (r *SnapshotReader) fetch(ctx context.Context) (kafkago.Message, error) {
	var msg kafkago.Message
	op := func() error {
		m, err := r.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		msg = m
		return nil
	}
	notify := func(err error, wait time.Duration) {
		r.logger.Error("fetch dataset message failed", "error", err, "retry_in", wait)
	}
	err := backoff.RetryNotify(op, backoff.WithContext(r.newBackOff(), ctx), notify)
	return msg, err
}

// Close releases the underlying consumer.
func (r *SnapshotReader) Close() error {
	return r.reader.Close()
}
