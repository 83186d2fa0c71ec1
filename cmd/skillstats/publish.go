package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	kafkaadapter "github.com/fathomscience/fischcast-qc/internal/adapter/kafka"
)

type publishCmd struct {
	Dataset string        `required:"" type:"existingfile" help:"Dataset JSON file."`
	Brokers []string      `default:"localhost:9092" help:"Kafka brokers."`
	Topic   string        `default:"model-skill-stats" help:"Snapshot topic."`
	Timeout time.Duration `default:"30s" help:"Publish timeout."`
}

func (c *publishCmd) Run(out io.Writer) error {
	raw, err := os.ReadFile(c.Dataset)
	if err != nil {
		return fmt.Errorf("read dataset: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	p := kafkaadapter.NewPublisher(c.Brokers, c.Topic)
	version, err := p.Publish(ctx, raw)
	if closeErr := p.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("close publisher: %w", closeErr)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "published %s to %s (version %s)\n", c.Dataset, c.Topic, version)
	return nil
}
