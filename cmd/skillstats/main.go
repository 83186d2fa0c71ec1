// Command skillstats is the operator CLI for model skill datasets: it prints
// metric summaries, validates payloads, generates synthetic data and publishes
// snapshots to Kafka.
//
// Usage:
//
//	skillstats summary --dataset data/model_skill_stats.json --region 1
//	skillstats validate --dataset data/model_skill_stats.json
//	skillstats genmock --out data/mock.json --regions 4 --seed 7
//	skillstats publish --dataset data/model_skill_stats.json --brokers localhost:9092
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/fathomscience/fischcast-qc/internal/dataset"
	"github.com/fathomscience/fischcast-qc/internal/domain"
)

type cli struct {
	Summary  summaryCmd  `cmd:"" help:"Print min/avg/max/trend per region, model and variable."`
	Validate validateCmd `cmd:"" help:"Check a dataset for structural inconsistencies."`
	Genmock  genmockCmd  `cmd:"" help:"Generate a deterministic synthetic dataset."`
	Publish  publishCmd  `cmd:"" help:"Publish a dataset to the snapshot topic."`
}

func main() {
	var c cli
	ctx := kong.Parse(&c,
		kong.Name("skillstats"),
		kong.Description("Inspect and distribute forecast model skill datasets."),
		kong.UsageOnError(),
		kong.BindTo(os.Stdout, (*io.Writer)(nil)),
	)
	ctx.FatalIfErrorf(ctx.Run())
}

// readDataset loads and parses a payload from disk.
func readDataset(path string) ([]byte, *domain.Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read dataset: %w", err)
	}
	d, err := dataset.Parse(raw)
	if err != nil {
		return nil, nil, err
	}
	return raw, d, nil
}
