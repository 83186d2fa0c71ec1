package domain

import "math"

// Dataset is the root of the model skill statistics payload.
type Dataset struct {
	Metadata Metadata    `json:"metadata"`
	Date     []DateTable `json:"date"`
	Region   []Region    `json:"region"`

	index map[int]int // region id -> position in Region
}

// Metadata describes the dataset dimensions and the variables it carries.
type Metadata struct {
	Dimensions Dimensions    `json:"dimensions"`
	Variables  []VariableDef `json:"variables"`
}

// Dimensions holds one descriptor per axis of the dataset.
type Dimensions struct {
	Region      LabeledDimension     `json:"region"`
	Model       LabeledDimension     `json:"model"`
	ForecastDay ForecastDayDimension `json:"forecast_day"`
	Date        DateDimension        `json:"date"`
}

// LabeledDimension describes the region and model axes.
type LabeledDimension struct {
	Description string   `json:"description"`
	Length      int      `json:"length"`
	Labels      []string `json:"labels"`
}

// ForecastDayDimension describes the forecast day axis. The upstream payload
// names the label list "label" (singular) on this dimension only.
type ForecastDayDimension struct {
	Description string   `json:"description"`
	Length      int      `json:"length"`
	Label       []string `json:"label"`
}

// DateDimension describes the timestep/date axis.
type DateDimension struct {
	Description string `json:"description"`
	Format      string `json:"format"`
	Length      int    `json:"length"`
}

// VariableDef declares a metric in the metadata block.
type VariableDef struct {
	Name        string   `json:"name"`
	Dimensions  []string `json:"dimensions"`
	Shape       []int    `json:"shape"`
	Description string   `json:"description"`
}

// DateTable maps the timesteps of one forecast day to calendar date labels.
type DateTable struct {
	ForecastDay int      `json:"forecast_day"`
	Label       []string `json:"label"`
}

// Region is a verification region with the models evaluated over it.
type Region struct {
	ID    int     `json:"id"`
	Label string  `json:"label"`
	Model []Model `json:"model"`
}

// Model is a forecast model and its skill metrics for one region.
type Model struct {
	ID       int        `json:"id"`
	Label    string     `json:"label"`
	Variable []Variable `json:"variable"`
}

// Variable is a named metric (RMSE, Bias, ...) with its values.
type Variable struct {
	Label string `json:"label"`
	Value Matrix `json:"value"`
}

// Matrix is indexed [forecast day][timestep]. A nil entry is an absent value
// and round-trips as JSON null.
type Matrix [][]*float64

// Row returns the timestep values of one forecast day, or false when the
// index is out of range.
func (m Matrix) Row(forecastDay int) ([]*float64, bool) {
	if forecastDay < 0 || forecastDay >= len(m) {
		return nil, false
	}
	return m[forecastDay], true
}

// At returns the present value at [forecastDay][timestep]. Out-of-range
// positions, absent entries and NaN all report false.
func (m Matrix) At(forecastDay, timestep int) (float64, bool) {
	row, ok := m.Row(forecastDay)
	if !ok || timestep < 0 || timestep >= len(row) || row[timestep] == nil || math.IsNaN(*row[timestep]) {
		return 0, false
	}
	return *row[timestep], true
}

// Record is a flat, chart-ready row keyed by field name.
type Record map[string]any
