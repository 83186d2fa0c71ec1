// Package mockdata generates synthetic model skill datasets for local runs
// and demos. Output is fully determined by Options, including the seed.
package mockdata

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/fathomscience/fischcast-qc/internal/domain"
)

// Options sizes the generated dataset.
type Options struct {
	Regions      int
	Models       int
	ForecastDays int
	Timesteps    int
	Seed         uint64
	Start        time.Time // first valid date; zero means 2024-01-01
	MissingRate  float64   // probability of an absent value
}

var (
	regionLabels = []string{"north_west_shelf", "coral_sea", "great_australian_bight", "tasman_sea", "gulf_of_carpentaria", "southern_ocean"}
	modelLabels  = []string{"ACCESS-S", "ECMWF", "GFS", "UKMO", "CMC"}
)

const dateFormat = "2006-01-02"

// variableDescriptions lists the generated metrics in output order.
var variableDescriptions = []struct {
	name, description string
}{
	{"RMSE", "Root mean square error"},
	{"Bias", "Mean forecast minus observation"},
	{"ACC", "Anomaly correlation coefficient"},
}

// Generate builds a dataset. Error grows with lead time, bias wanders around
// a per-model offset and correlation decays with lead time.
func Generate(o Options) *domain.Dataset {
	if o.Start.IsZero() {
		o.Start = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	rng := rand.New(rand.NewPCG(o.Seed, o.Seed^0x9e3779b97f4a7c15))

	d := &domain.Dataset{
		Metadata: domain.Metadata{
			Dimensions: domain.Dimensions{
				Region:      domain.LabeledDimension{Description: "Verification region", Length: o.Regions},
				Model:       domain.LabeledDimension{Description: "Forecast model", Length: o.Models},
				ForecastDay: domain.ForecastDayDimension{Description: "Forecast lead time", Length: o.ForecastDays},
				Date:        domain.DateDimension{Description: "Valid date of the forecast", Format: "YYYY-MM-DD", Length: o.Timesteps},
			},
		},
		Date:   make([]domain.DateTable, 0, o.ForecastDays),
		Region: make([]domain.Region, 0, o.Regions),
	}

	for _, v := range variableDescriptions {
		d.Metadata.Variables = append(d.Metadata.Variables, domain.VariableDef{
			Name:        v.name,
			Dimensions:  []string{"forecast_day", "date"},
			Shape:       []int{o.ForecastDays, o.Timesteps},
			Description: v.description,
		})
	}

	for fd := range o.ForecastDays {
		d.Metadata.Dimensions.ForecastDay.Label = append(d.Metadata.Dimensions.ForecastDay.Label, fmt.Sprintf("Day %d", fd+1))
		labels := make([]string, o.Timesteps)
		for ts := range labels {
			labels[ts] = o.Start.AddDate(0, 0, fd+ts).Format(dateFormat)
		}
		d.Date = append(d.Date, domain.DateTable{ForecastDay: fd, Label: labels})
	}

	for m := range o.Models {
		d.Metadata.Dimensions.Model.Labels = append(d.Metadata.Dimensions.Model.Labels, label(modelLabels, m))
	}

	for r := range o.Regions {
		region := domain.Region{ID: r + 1, Label: label(regionLabels, r)}
		d.Metadata.Dimensions.Region.Labels = append(d.Metadata.Dimensions.Region.Labels, region.Label)

		for m := range o.Models {
			skill := 0.6 + rng.Float64()*0.8 // per region/model error scale
			offset := rng.NormFloat64() * 0.3
			region.Model = append(region.Model, domain.Model{
				ID:    m + 1,
				Label: label(modelLabels, m),
				Variable: []domain.Variable{
					{Label: "RMSE", Value: o.matrix(rng, func(fd, _ int) float64 {
						return skill * (1 + 0.25*float64(fd)) * (1 + 0.1*rng.NormFloat64())
					})},
					{Label: "Bias", Value: o.matrix(rng, func(fd, _ int) float64 {
						return offset + 0.05*float64(fd) + 0.2*rng.NormFloat64()
					})},
					{Label: "ACC", Value: o.matrix(rng, func(fd, _ int) float64 {
						return math.Max(-1, math.Min(1, 0.95*math.Exp(-0.12*float64(fd))+0.03*rng.NormFloat64()))
					})},
				},
			})
		}
		d.Region = append(d.Region, region)
	}
	return d
}

func (o Options) matrix(rng *rand.Rand, value func(fd, ts int) float64) domain.Matrix {
	m := make(domain.Matrix, o.ForecastDays)
	for fd := range m {
		row := make([]*float64, o.Timesteps)
		for ts := range row {
			if o.MissingRate > 0 && rng.Float64() < o.MissingRate {
				continue
			}
			v := round(value(fd, ts), 4)
			row[ts] = &v
		}
		m[fd] = row
	}
	return m
}

// label cycles through names, suffixing a counter once they run out.
func label(names []string, i int) string {
	if i < len(names) {
		return names[i]
	}
	return fmt.Sprintf("%s_%d", names[i%len(names)], i/len(names)+1)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
