package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fathomscience/fischcast-qc/internal/dataset"
	"github.com/fathomscience/fischcast-qc/internal/domain"
)

type validateCmd struct {
	Dataset string `required:"" type:"existingfile" help:"Dataset JSON file."`
}

// phase tracks pass/fail for one group of checks.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

var errValidationFailed = errors.New("validation failed")

func (c *validateCmd) Run(out io.Writer) error {
	raw, d, err := readDataset(c.Dataset)
	if err != nil {
		return err
	}

	phases := []*phase{
		structurePhase(d),
		lookupPhase(d),
	}

	fmt.Fprintf(out, "Dataset %s (version %s): %d regions\n\n", c.Dataset, dataset.Version(raw), len(d.Region))
	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d warnings)", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-24s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if !allPassed {
		return errValidationFailed
	}
	fmt.Fprintln(out, "\nAll validations passed.")
	return nil
}

func structurePhase(d *domain.Dataset) *phase {
	p := &phase{name: "Structure"}
	for _, w := range domain.Validate(d) {
		p.errorf("%s", w)
	}
	return p
}

// lookupPhase checks that every region and model resolves by id the way the
// API resolves them.
func lookupPhase(d *domain.Dataset) *phase {
	p := &phase{name: "Lookups"}
	for _, r := range d.Region {
		got, ok := d.RegionByID(r.ID)
		if !ok || got.Label != r.Label {
			p.errorf("region %d resolves to a different region", r.ID)
			continue
		}
		seen := make(map[int]struct{}, len(r.Model))
		for _, m := range r.Model {
			if _, dup := seen[m.ID]; dup {
				p.errorf("region %d: model id %d appears more than once", r.ID, m.ID)
			}
			seen[m.ID] = struct{}{}
		}
	}
	return p
}
