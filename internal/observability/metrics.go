package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "fischcast_qc"

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	// HTTP metrics, labelled by chi route pattern so ids do not explode cardinality.
	HTTPRequests        *prometheus.CounterVec   // labels: route, method, status
	HTTPRequestDuration *prometheus.HistogramVec // labels: route

	// Dataset snapshot metrics.
	DatasetLoads         *prometheus.CounterVec // labels: source={file,kafka}, outcome={success,error,unchanged}
	DatasetRegions       prometheus.Gauge
	DatasetLoadTimestamp prometheus.Gauge
	DatasetWarnings      prometheus.Gauge

	// Report metrics.
	ReportCache       *prometheus.CounterVec // labels: result={hit,miss,stale}
	SummariesComputed prometheus.Counter
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.HTTPRequests,
		m.HTTPRequestDuration,
		m.DatasetLoads,
		m.DatasetRegions,
		m.DatasetLoadTimestamp,
		m.DatasetWarnings,
		m.ReportCache,
		m.SummariesComputed,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status code.",
		}, []string{"route", "method", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"route"}),
		DatasetLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_loads_total",
			Help:      "Dataset load attempts by source and outcome.",
		}, []string{"source", "outcome"}),
		DatasetRegions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_regions",
			Help:      "Number of regions in the active dataset snapshot.",
		}),
		DatasetLoadTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_load_timestamp_seconds",
			Help:      "Unix time the active dataset snapshot was loaded.",
		}),
		DatasetWarnings: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_validation_warnings",
			Help:      "Validation warnings reported for the active dataset snapshot.",
		}),
		ReportCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_cache_total",
			Help:      "Region report cache lookups by result.",
		}, []string{"result"}),
		SummariesComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summaries_computed_total",
			Help:      "Metric summaries computed while building region reports.",
		}),
	}
}
