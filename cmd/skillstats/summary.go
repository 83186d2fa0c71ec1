package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fathomscience/fischcast-qc/internal/domain"
)

type summaryCmd struct {
	Dataset string `required:"" type:"existingfile" help:"Dataset JSON file."`
	Region  *int   `help:"Only summarize this region id."`
}

func (c *summaryCmd) Run(out io.Writer) error {
	_, d, err := readDataset(c.Dataset)
	if err != nil {
		return err
	}

	regions := d.Region
	if c.Region != nil {
		r, ok := d.RegionByID(*c.Region)
		if !ok {
			return fmt.Errorf("region with ID %d not found", *c.Region)
		}
		regions = []domain.Region{*r}
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "REGION\tMODEL\tVARIABLE\tMIN\tAVG\tMAX\tTREND")
	for _, r := range regions {
		name := domain.FormatRegionName(r.Label)
		for _, m := range r.Model {
			for _, v := range m.Variable {
				s := domain.Summarize(v.Value)
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.3f\t%.3f\t%.3f\t%s\n",
					name, m.Label, v.Label, s.Min, s.Average, s.Max, s.Trend)
			}
		}
	}
	return tw.Flush()
}
