package domain

import "fmt"

// Validate checks d for structural inconsistencies and returns one
// human-readable warning per problem found. It never fails: the dashboard
// renders whatever is present, and the warnings tell operators why a view
// may look sparse.
func Validate(d *Dataset) []string {
	var warnings []string
	warnf := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	if want := d.Metadata.Dimensions.Region.Length; want != len(d.Region) {
		warnf("metadata declares %d regions, payload has %d", want, len(d.Region))
	}

	declared := make(map[string]struct{}, len(d.Metadata.Variables))
	for _, v := range d.Metadata.Variables {
		declared[LabelKey(v.Name)] = struct{}{}
	}
	forecastDays := len(d.Metadata.Dimensions.ForecastDay.Label)

	seenRegions := make(map[int]struct{}, len(d.Region))
	for _, r := range d.Region {
		if _, dup := seenRegions[r.ID]; dup {
			warnf("region id %d appears more than once", r.ID)
		}
		seenRegions[r.ID] = struct{}{}

		for _, m := range r.Model {
			where := fmt.Sprintf("region %d model %q", r.ID, m.Label)
			seenVars := make(map[string]struct{}, len(m.Variable))
			for _, v := range m.Variable {
				key := LabelKey(v.Label)
				if _, dup := seenVars[key]; dup {
					warnf("%s: variable %q appears more than once", where, v.Label)
				}
				seenVars[key] = struct{}{}

				if len(declared) > 0 {
					if _, ok := declared[key]; !ok {
						warnf("%s: variable %q is not declared in metadata", where, v.Label)
					}
				}
				if forecastDays > 0 && len(v.Value) != forecastDays {
					warnf("%s: variable %q has %d forecast day rows, expected %d", where, v.Label, len(v.Value), forecastDays)
				}
				for fd, row := range v.Value {
					if fd >= len(d.Date) {
						break
					}
					if want := len(d.Date[fd].Label); len(row) != want {
						warnf("%s: variable %q forecast day %d has %d timesteps, date table has %d", where, v.Label, fd, len(row), want)
					}
				}
			}
		}
	}
	return warnings
}
