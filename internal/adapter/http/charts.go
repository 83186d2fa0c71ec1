package http

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/fathomscience/fischcast-qc/internal/dataset"
	"github.com/fathomscience/fischcast-qc/internal/domain"
	"github.com/fathomscience/fischcast-qc/internal/report"
)

// missing is how echarts marks a gap in a series.
const missing = "-"

var chartSize = opts.Initialization{Width: "100%", Height: "420px"}

func (s *Server) handleChartsPage(w http.ResponseWriter, r *http.Request) {
	snap, rerr := s.snapshot()
	if rerr != nil {
		http.Error(w, rerr.message, rerr.status)
		return
	}
	region, rerr := regionFromPath(r, snap)
	if rerr != nil {
		http.Error(w, rerr.message, rerr.status)
		return
	}
	fd, rerr := forecastDayParam(r)
	if rerr != nil {
		http.Error(w, rerr.message, rerr.status)
		return
	}
	rep, _ := s.reports.Get(snap, region.ID)

	page := chartsPage(snap, region, rep, fd)
	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		s.logger.Error("chart render error", "region", region.ID, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w) //nolint:errcheck // client went away
}

// chartsPage lays out the RMSE, bias and radar charts followed by one
// consolidated timeseries per metric of the region's first model.
func chartsPage(snap *dataset.Snapshot, region *domain.Region, rep *report.Report, forecastDay int) *components.Page {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("%s charts", rep.Region.DisplayName)
	page.AddCharts(
		rmseChart(rep),
		biasChart(rep),
		radarChart(rep),
	)

	dates := snap.Dataset.DateLabels(forecastDay)
	for _, label := range rep.Comparison.Columns {
		records := domain.Consolidate(region.Model, label, forecastDay, dates)
		page.AddCharts(timeseriesChart(rep, region.Model, label, forecastDay, records))
	}
	return page
}

func rmseChart(rep *report.Report) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s: RMSE by forecast day", rep.Region.DisplayName),
			Subtitle: "First timestep of each forecast day",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "RMSE", Type: "value"}),
		charts.WithInitializationOpts(chartSize),
	)

	var days []string
	for _, series := range rep.RMSE {
		data := make([]opts.LineData, 0, len(series.Records))
		for _, rec := range series.Records {
			data = append(data, opts.LineData{Value: valueOrMissing(rec[domain.ValueField(0)])})
		}
		if len(series.Records) > len(days) {
			days = days[:0]
			for _, rec := range series.Records {
				days = append(days, fmt.Sprint(rec[domain.FieldForecastDay]))
			}
		}
		line.AddSeries(series.Model, data)
	}
	line.SetXAxis(days)
	return line
}

func biasChart(rep *report.Report) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Bias by model"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
		charts.WithInitializationOpts(chartSize),
	)

	models := make([]string, 0, len(rep.Bias))
	avg := make([]opts.BarData, 0, len(rep.Bias))
	lo := make([]opts.BarData, 0, len(rep.Bias))
	hi := make([]opts.BarData, 0, len(rep.Bias))
	for _, b := range rep.Bias {
		models = append(models, b.Model)
		avg = append(avg, opts.BarData{Value: b.AvgBias})
		lo = append(lo, opts.BarData{Value: b.MinBias})
		hi = append(hi, opts.BarData{Value: b.MaxBias})
	}
	bar.SetXAxis(models).
		AddSeries("Average", avg).
		AddSeries("Min", lo).
		AddSeries("Max", hi)
	return bar
}

func radarChart(rep *report.Report) *charts.Radar {
	radar := charts.NewRadar()

	indicators := make([]*opts.Indicator, 0, len(rep.Radar))
	for _, rec := range rep.Radar {
		indicators = append(indicators, &opts.Indicator{Name: fmt.Sprint(rec["metric"])})
	}
	radar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Average metric by model"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
		charts.WithRadarComponentOpts(opts.RadarComponent{Indicator: indicators}),
		charts.WithInitializationOpts(chartSize),
	)

	for _, card := range rep.Models {
		values := make([]any, 0, len(rep.Radar))
		for _, rec := range rep.Radar {
			values = append(values, valueOrMissing(rec[card.Label]))
		}
		radar.AddSeries(card.Label, []opts.RadarData{{Name: card.Label, Value: values}})
	}
	return radar
}

func timeseriesChart(rep *report.Report, models []domain.Model, variable string, forecastDay int, records []domain.Record) *charts.Line {
	line := charts.NewLine()

	day := fmt.Sprintf("Day %d", forecastDay)
	if forecastDay >= 0 && forecastDay < len(rep.ForecastDays) {
		day = rep.ForecastDays[forecastDay]
	}
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s timeseries", variable),
			Subtitle: day,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", AxisLabel: &opts.AxisLabel{Rotate: 45}}),
		charts.WithYAxisOpts(opts.YAxis{Name: variable, Type: "value"}),
		charts.WithInitializationOpts(chartSize),
	)

	dates := make([]string, 0, len(records))
	for _, rec := range records {
		dates = append(dates, fmt.Sprint(rec[domain.FieldDate]))
	}
	line.SetXAxis(dates)

	for _, m := range models {
		data := make([]opts.LineData, 0, len(records))
		for _, rec := range records {
			data = append(data, opts.LineData{Value: valueOrMissing(rec[m.Label])})
		}
		line.AddSeries(m.Label, data, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}))
	}
	return line
}

func valueOrMissing(v any) any {
	if v == nil {
		return missing
	}
	return v
}
