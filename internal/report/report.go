// Package report assembles the region views of the dashboard: model cards,
// per-model metric summaries, the cross-model comparison table and the
// records behind the bias, RMSE and radar charts.
package report

import (
	"github.com/fathomscience/fischcast-qc/internal/dataset"
	"github.com/fathomscience/fischcast-qc/internal/domain"
)

// maxHighlights is the number of metrics previewed on a model card.
const maxHighlights = 3

// Report is everything the region page and its charts need.
type Report struct {
	Version      string          `json:"version"`
	Region       RegionInfo      `json:"region"`
	ForecastDays []string        `json:"forecastDays"`
	Models       []ModelCard     `json:"models"`
	Metrics      []ModelMetrics  `json:"metrics"`
	Comparison   Comparison      `json:"comparison"`
	Bias         []BiasRow       `json:"bias"`
	RMSE         []Series        `json:"rmse"`
	Radar        []domain.Record `json:"radar"`

	summaries int
}

// RegionInfo identifies the region a report describes.
type RegionInfo struct {
	ID          int    `json:"id"`
	Label       string `json:"label"`
	DisplayName string `json:"displayName"`
}

// ModelCard is the compact overview of one model.
type ModelCard struct {
	ID          int         `json:"id"`
	Label       string      `json:"label"`
	MetricCount int         `json:"metricCount"`
	Highlights  []Highlight `json:"highlights"`
	More        int         `json:"more"` // metrics not listed in Highlights
}

// Highlight previews one metric on a model card.
type Highlight struct {
	Label   string       `json:"label"`
	Average float64      `json:"average"`
	Trend   domain.Trend `json:"trend"`
}

// ModelMetrics lists the summary of every variable of one model.
type ModelMetrics struct {
	Model   string          `json:"model"`
	Metrics []MetricSummary `json:"metrics"`
}

// MetricSummary is the summary of one variable.
type MetricSummary struct {
	Label string `json:"label"`
	domain.Summary
}

// Comparison is the model-by-metric table. Columns are the first model's
// variable labels; a nil cell means the model lacks that metric.
type Comparison struct {
	Columns []string        `json:"columns"`
	Rows    []ComparisonRow `json:"rows"`
}

// ComparisonRow holds one model's cells, aligned with Comparison.Columns.
type ComparisonRow struct {
	Model string            `json:"model"`
	Cells []*ComparisonCell `json:"cells"`
}

// ComparisonCell is the average and trend of one metric.
type ComparisonCell struct {
	Average float64      `json:"average"`
	Trend   domain.Trend `json:"trend"`
}

// BiasRow is the bias summary of one model; zero when it has no bias metric.
type BiasRow struct {
	Model   string  `json:"model"`
	AvgBias float64 `json:"avgBias"`
	MinBias float64 `json:"minBias"`
	MaxBias float64 `json:"maxBias"`
}

// Series is one model's by-forecast-day records for a variable.
type Series struct {
	Model   string          `json:"model"`
	Records []domain.Record `json:"records"`
}

// Build assembles the report of region r from the snapshot it belongs to.
func Build(snap *dataset.Snapshot, r *domain.Region) *Report {
	d := snap.Dataset
	rep := &Report{
		Version: snap.Version,
		Region: RegionInfo{
			ID:          r.ID,
			Label:       r.Label,
			DisplayName: domain.FormatRegionName(r.Label),
		},
		ForecastDays: d.ForecastDayLabels(),
		Models:       make([]ModelCard, 0, len(r.Model)),
		Metrics:      make([]ModelMetrics, 0, len(r.Model)),
		Bias:         make([]BiasRow, 0, len(r.Model)),
		RMSE:         []Series{},
		Radar:        []domain.Record{},
	}

	summaries := make([][]MetricSummary, len(r.Model))
	for i, m := range r.Model {
		summaries[i] = summarizeModel(m)
		rep.summaries += len(summaries[i])

		rep.Models = append(rep.Models, modelCard(m, summaries[i]))
		rep.Metrics = append(rep.Metrics, ModelMetrics{Model: m.Label, Metrics: summaries[i]})
		rep.Bias = append(rep.Bias, biasRow(m.Label, summaries[i]))

		if v, ok := r.Model[i].VariableByLabel(domain.VariableRMSE); ok {
			rep.RMSE = append(rep.RMSE, Series{
				Model:   m.Label,
				Records: domain.ByForecastDay(v.Value, rep.ForecastDays),
			})
		}
	}

	rep.Comparison = comparison(r.Model, summaries)
	rep.Radar = radar(r.Model, summaries)
	return rep
}

func summarizeModel(m domain.Model) []MetricSummary {
	out := make([]MetricSummary, 0, len(m.Variable))
	for _, v := range m.Variable {
		out = append(out, MetricSummary{Label: v.Label, Summary: domain.Summarize(v.Value)})
	}
	return out
}

func findSummary(summaries []MetricSummary, label string) (domain.Summary, bool) {
	for _, s := range summaries {
		if domain.SameLabel(s.Label, label) {
			return s.Summary, true
		}
	}
	return domain.Summary{}, false
}

func modelCard(m domain.Model, summaries []MetricSummary) ModelCard {
	n := min(len(summaries), maxHighlights)
	card := ModelCard{
		ID:          m.ID,
		Label:       m.Label,
		MetricCount: len(summaries),
		Highlights:  make([]Highlight, 0, n),
		More:        len(summaries) - n,
	}
	for _, s := range summaries[:n] {
		card.Highlights = append(card.Highlights, Highlight{Label: s.Label, Average: s.Average, Trend: s.Trend})
	}
	return card
}

func biasRow(model string, summaries []MetricSummary) BiasRow {
	s, _ := findSummary(summaries, domain.VariableBias)
	return BiasRow{Model: model, AvgBias: s.Average, MinBias: s.Min, MaxBias: s.Max}
}

func comparison(models []domain.Model, summaries [][]MetricSummary) Comparison {
	c := Comparison{Columns: []string{}, Rows: make([]ComparisonRow, 0, len(models))}
	if len(models) == 0 {
		return c
	}
	for _, v := range models[0].Variable {
		c.Columns = append(c.Columns, v.Label)
	}
	for i, m := range models {
		row := ComparisonRow{Model: m.Label, Cells: make([]*ComparisonCell, len(c.Columns))}
		for j, col := range c.Columns {
			if s, ok := findSummary(summaries[i], col); ok {
				row.Cells[j] = &ComparisonCell{Average: s.Average, Trend: s.Trend}
			}
		}
		c.Rows = append(c.Rows, row)
	}
	return c
}

func radar(models []domain.Model, summaries [][]MetricSummary) []domain.Record {
	if len(models) == 0 {
		return []domain.Record{}
	}
	out := make([]domain.Record, 0, len(models[0].Variable))
	for _, v := range models[0].Variable {
		rec := domain.Record{"metric": v.Label}
		for i, m := range models {
			if s, ok := findSummary(summaries[i], v.Label); ok {
				rec[m.Label] = s.Average
			}
		}
		out = append(out, rec)
	}
	return out
}
