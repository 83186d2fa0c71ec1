package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fathomscience/fischcast-qc/internal/dataset"
	"github.com/fathomscience/fischcast-qc/internal/mockdata"
)

type genmockCmd struct {
	Out          string  `required:"" help:"Output JSON file."`
	Regions      int     `default:"4" help:"Number of regions."`
	Models       int     `default:"3" help:"Models per region."`
	ForecastDays int     `default:"7" help:"Forecast days per variable."`
	Timesteps    int     `default:"30" help:"Timesteps per forecast day."`
	Seed         uint64  `default:"1" help:"Random seed."`
	MissingRate  float64 `default:"0.02" help:"Probability that a value is absent."`
}

func (c *genmockCmd) Validate() error {
	if c.Regions <= 0 || c.Models <= 0 || c.ForecastDays <= 0 || c.Timesteps <= 0 {
		return fmt.Errorf("regions, models, forecast-days and timesteps must be positive")
	}
	if c.MissingRate < 0 || c.MissingRate >= 1 {
		return fmt.Errorf("missing-rate must be in [0, 1)")
	}
	return nil
}

func (c *genmockCmd) Run(out io.Writer) error {
	d := mockdata.Generate(mockdata.Options{
		Regions:      c.Regions,
		Models:       c.Models,
		ForecastDays: c.ForecastDays,
		Timesteps:    c.Timesteps,
		Seed:         c.Seed,
		MissingRate:  c.MissingRate,
	})

	raw, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}
	if err := os.WriteFile(c.Out, raw, 0o644); err != nil { //nolint:gosec // generated fixtures are meant to be shared
		return fmt.Errorf("write %s: %w", c.Out, err)
	}

	fmt.Fprintf(out, "wrote %s: %d regions, %d models, version %s\n", c.Out, c.Regions, c.Models, dataset.Version(raw))
	return nil
}
