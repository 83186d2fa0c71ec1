package domain

import (
	"fmt"
	"math"
	"strconv"
)

// Record field names shared by the reshaping functions.
const (
	FieldForecastDay = "forecastDay"
	FieldDate        = "date"
	FieldValue       = "value"
	FieldTimestep    = "timestep"
)

// ByForecastDay produces one record per matrix row:
//
//	{forecastDay: <label>, value_0: row[0], value_1: row[1], ...}
//
// Labels missing from forecastDayLabels fall back to "Day <index>". Absent
// entries are kept as explicit nil fields so every record of a row carries
// one value_i field per timestep.
func ByForecastDay(m Matrix, forecastDayLabels []string) []Record {
	out := make([]Record, 0, len(m))
	for day, row := range m {
		rec := make(Record, len(row)+1)
		rec[FieldForecastDay] = labelOr(forecastDayLabels, day, "Day ")
		for i, v := range row {
			rec[ValueField(i)] = valueOrNil(v)
		}
		out = append(out, rec)
	}
	return out
}

// ValueField is the record key for the i-th timestep in [ByForecastDay].
func ValueField(i int) string {
	return "value_" + strconv.Itoa(i)
}

// Timeseries produces one record per timestep of a single forecast day:
//
//	{date: <label>, value: v, timestep: i}
//
// Labels missing from dateLabels fall back to "T<index>". An out-of-range
// forecast day yields an empty sequence.
func Timeseries(m Matrix, forecastDay int, dateLabels []string) []Record {
	row, ok := m.Row(forecastDay)
	if !ok {
		return []Record{}
	}

	out := make([]Record, 0, len(row))
	for i, v := range row {
		out = append(out, Record{
			FieldDate:     labelOr(dateLabels, i, "T"),
			FieldValue:    valueOrNil(v),
			FieldTimestep: i,
		})
	}
	return out
}

// Consolidate builds the cross-model view of one variable on one forecast
// day: a record per timestep holding {timestep, date} plus one field per
// model, keyed by the model label, with that model's value.
//
// The first model's row decides how many records there are. Other models
// contribute positionally; a model whose value is absent or out of range at
// a timestep has no field in that record. No interpolation or resampling
// takes place. If the first model lacks the variable or the forecast day the
// result is empty. Models labelled "timestep" or "date" would clobber the axis
// fields and are left out.
func Consolidate(models []Model, variable string, forecastDay int, dateLabels []string) []Record {
	if len(models) == 0 {
		return []Record{}
	}
	base, ok := models[0].VariableByLabel(variable)
	if !ok {
		return []Record{}
	}
	row, ok := base.Value.Row(forecastDay)
	if !ok {
		return []Record{}
	}

	matrices := make([]Matrix, len(models))
	for i := range models {
		if isAxisField(models[i].Label) {
			continue
		}
		if v, ok := models[i].VariableByLabel(variable); ok {
			matrices[i] = v.Value
		}
	}

	out := make([]Record, 0, len(row))
	for ts := range row {
		rec := Record{
			FieldTimestep: ts,
			FieldDate:     labelOr(dateLabels, ts, "T"),
		}
		for i, model := range models {
			if v, ok := matrices[i].At(forecastDay, ts); ok {
				rec[model.Label] = v
			}
		}
		out = append(out, rec)
	}
	return out
}

func isAxisField(key string) bool {
	return key == FieldTimestep || key == FieldDate
}

// labelOr returns labels[i], or prefix+i when the label is missing or empty.
func labelOr(labels []string, i int, prefix string) string {
	if i < len(labels) && labels[i] != "" {
		return labels[i]
	}
	return fmt.Sprintf("%s%d", prefix, i)
}

// valueOrNil unwraps v so records hold plain float64 or untyped nil. NaN
// has no JSON encoding and is reported as absent.
func valueOrNil(v *float64) any {
	if v == nil || math.IsNaN(*v) {
		return nil
	}
	return *v
}
