package domain

import "golang.org/x/text/cases"

// Well-known variable labels used by the bias and RMSE views.
const (
	VariableBias = "BIAS"
	VariableRMSE = "RMSE"
)

// LabelKey normalizes a label with Unicode full case folding. Two labels name
// the same entity when their keys are equal.
func LabelKey(label string) string {
	// cases.Caser is stateful, so one per call.
	return cases.Fold().String(label)
}

// SameLabel reports whether two labels name the same entity. Every label
// comparison in the dashboard goes through here or through [LabelKey].
func SameLabel(a, b string) bool {
	return a == b || LabelKey(a) == LabelKey(b)
}

// BuildIndex prepares the keyed region lookup. It is called once per loaded
// snapshot; the first region wins when ids repeat.
func (d *Dataset) BuildIndex() {
	d.index = make(map[int]int, len(d.Region))
	for i, r := range d.Region {
		if _, dup := d.index[r.ID]; !dup {
			d.index[r.ID] = i
		}
	}
}

// RegionByID returns the region with the given id.
func (d *Dataset) RegionByID(id int) (*Region, bool) {
	if d.index != nil {
		i, ok := d.index[id]
		if !ok {
			return nil, false
		}
		return &d.Region[i], true
	}
	for i := range d.Region {
		if d.Region[i].ID == id {
			return &d.Region[i], true
		}
	}
	return nil, false
}

// ForecastDayLabels returns the display labels of the forecast day axis.
func (d *Dataset) ForecastDayLabels() []string {
	return d.Metadata.Dimensions.ForecastDay.Label
}

// DateLabels returns the timestep date labels of one forecast day, or nil
// when the dataset has no date table for it.
func (d *Dataset) DateLabels(forecastDay int) []string {
	if forecastDay < 0 || forecastDay >= len(d.Date) {
		return nil
	}
	return d.Date[forecastDay].Label
}

// ModelByID returns the model with the given id.
func (r *Region) ModelByID(id int) (*Model, bool) {
	for i := range r.Model {
		if r.Model[i].ID == id {
			return &r.Model[i], true
		}
	}
	return nil, false
}

// ModelByLabel returns the model whose label matches.
func (r *Region) ModelByLabel(label string) (*Model, bool) {
	for i := range r.Model {
		if SameLabel(r.Model[i].Label, label) {
			return &r.Model[i], true
		}
	}
	return nil, false
}

// VariableCount is the number of variables across all models of the region.
func (r *Region) VariableCount() int {
	n := 0
	for _, m := range r.Model {
		n += len(m.Variable)
	}
	return n
}

// VariableByLabel returns the variable whose label matches.
func (m *Model) VariableByLabel(label string) (*Variable, bool) {
	for i := range m.Variable {
		if SameLabel(m.Variable[i].Label, label) {
			return &m.Variable[i], true
		}
	}
	return nil, false
}
