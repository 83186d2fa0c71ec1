package http_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/fathomscience/fischcast-qc/internal/adapter/http"
	"github.com/fathomscience/fischcast-qc/internal/dataset"
	"github.com/fathomscience/fischcast-qc/internal/observability"
	"github.com/fathomscience/fischcast-qc/internal/report"
)

const fixturePath = "../../dataset/testdata/model_skill_stats.json"

type testEnv struct {
	srv     *httpadapter.Server
	store   *dataset.Store
	metrics *observability.Metrics
	raw     []byte
}

func newTestEnv(t *testing.T, load bool, options ...httpadapter.Option) *testEnv {
	t.Helper()
	metrics := observability.NewMetricsForTesting()
	store := dataset.NewStore(slog.Default(), metrics)

	raw, err := os.ReadFile(fixturePath)
	require.NoError(t, err)
	if load {
		_, err = store.Load(raw, dataset.SourceFile)
		require.NoError(t, err)
	}

	srv := httpadapter.NewServer(":0", store, report.NewCache(8, metrics), metrics, slog.Default(), options...)
	return &testEnv{srv: srv, store: store, metrics: metrics, raw: raw}
}

func (e *testEnv) do(method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestHealthzReturns200(t *testing.T) {
	env := newTestEnv(t, false)
	rec := env.do(http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyz(t *testing.T) {
	env := newTestEnv(t, false)
	assert.Equal(t, http.StatusServiceUnavailable, env.do(http.MethodGet, "/readyz").Code)

	_, err := env.store.Load(env.raw, dataset.SourceFile)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/readyz").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, true)
	rec := env.do(http.MethodGet, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestData_ServesRawBytes(t *testing.T) {
	env := newTestEnv(t, true)
	rec := env.do(http.MethodGet, "/api/data")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, env.raw, rec.Body.Bytes())
	assert.Equal(t, `"`+dataset.Version(env.raw)+`"`, rec.Header().Get("ETag"))
}

func TestNotLoaded_Returns503(t *testing.T) {
	env := newTestEnv(t, false)

	for _, target := range []string{"/api/data", "/api/regions", "/api/regions/1", "/api/regions/1/report"} {
		rec := env.do(http.MethodGet, target)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, target)
		assert.Equal(t, "Dataset not loaded", decodeError(t, rec), target)
	}
	assert.Equal(t, http.StatusServiceUnavailable, env.do(http.MethodGet, "/").Code)
}

func TestRegions_Listing(t *testing.T) {
	env := newTestEnv(t, true)
	rec := env.do(http.MethodGet, "/api/regions")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.JSONEq(t, `{
		"regions": [
			{"id": 1, "label": "north_west_shelf", "modelCount": 2, "variableCount": 4},
			{"id": 2, "label": "coral_sea", "modelCount": 1, "variableCount": 1}
		],
		"total": 2,
		"metadata": {
			"totalModels": 2,
			"totalRegions": 2,
			"availableVariables": ["RMSE", "Bias"],
			"averageModelsPerRegion": 2
		}
	}`, rec.Body.String())
}

func TestRegion_Found(t *testing.T) {
	env := newTestEnv(t, true)
	rec := env.do(http.MethodGet, "/api/regions/2")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Metadata struct {
			Dimensions struct {
				Region struct {
					Length int `json:"length"`
				} `json:"region"`
			} `json:"dimensions"`
		} `json:"metadata"`
		Region struct {
			ID    int    `json:"id"`
			Label string `json:"label"`
			Model []struct {
				Label string `json:"label"`
			} `json:"model"`
		} `json:"region"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Metadata.Dimensions.Region.Length)
	assert.Equal(t, 2, body.Region.ID)
	assert.Equal(t, "coral_sea", body.Region.Label)
	require.Len(t, body.Region.Model, 1)
	assert.Equal(t, "ACCESS-S", body.Region.Model[0].Label)
}

func TestRegion_PreservesNulls(t *testing.T) {
	env := newTestEnv(t, true)
	rec := env.do(http.MethodGet, "/api/regions/1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `[-0.5,null,0.5]`)
}

func TestRegion_Errors(t *testing.T) {
	env := newTestEnv(t, true)

	tests := []struct {
		target string
		status int
		msg    string
	}{
		{"/api/regions/abc", http.StatusBadRequest, "Invalid region ID. Must be a number."},
		{"/api/regions/12abc", http.StatusBadRequest, "Invalid region ID. Must be a number."},
		{"/api/regions/99", http.StatusNotFound, "Region with ID 99 not found"},
		{"/api/regions/-1", http.StatusNotFound, "Region with ID -1 not found"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := env.do(http.MethodGet, tt.target)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.msg, decodeError(t, rec))
		})
	}
}

func TestRegion_Options(t *testing.T) {
	env := newTestEnv(t, true)
	rec := env.do(http.MethodOptions, "/api/regions/1")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.JSONEq(t, `{
		"regions": [{"id": 1, "label": "north_west_shelf"}, {"id": 2, "label": "coral_sea"}],
		"total": 2
	}`, rec.Body.String())
}

func TestReport(t *testing.T) {
	env := newTestEnv(t, true)
	rec := env.do(http.MethodGet, "/api/regions/1/report")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Version string `json:"version"`
		Region  struct {
			DisplayName string `json:"displayName"`
		} `json:"region"`
		Bias []struct {
			Model   string  `json:"model"`
			AvgBias float64 `json:"avgBias"`
		} `json:"bias"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, dataset.Version(env.raw), body.Version)
	assert.Equal(t, "North West Shelf", body.Region.DisplayName)
	require.Len(t, body.Bias, 2)
	assert.Equal(t, "ECMWF", body.Bias[1].Model)
	assert.Equal(t, 1.0, body.Bias[1].AvgBias)

	env.do(http.MethodGet, "/api/regions/1/report")
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.ReportCache.WithLabelValues("hit")))
}

func TestForecastDays(t *testing.T) {
	env := newTestEnv(t, true)
	rec := env.do(http.MethodGet, "/api/regions/1/models/2/variables/RMSE/forecast-days")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.JSONEq(t, `[
		{"forecastDay": "Day 1", "value_0": 2, "value_1": null, "value_2": 2},
		{"forecastDay": "Day 2", "value_0": 1, "value_1": 1, "value_2": 1}
	]`, rec.Body.String())
}

func TestTimeseries(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.do(http.MethodGet, "/api/regions/1/models/1/variables/bias/timeseries?forecastDay=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"date": "2024-01-02", "value": 0, "timestep": 0},
		{"date": "2024-01-03", "value": 0.25, "timestep": 1},
		{"date": "2024-01-04", "value": -0.25, "timestep": 2}
	]`, rec.Body.String())

	rec = env.do(http.MethodGet, "/api/regions/1/models/1/variables/bias/timeseries?forecastDay=5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestConsolidated(t *testing.T) {
	env := newTestEnv(t, true)
	rec := env.do(http.MethodGet, "/api/regions/1/variables/RMSE/consolidated")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	want := []map[string]any{
		{"timestep": 0.0, "date": "2024-01-01", "ACCESS-S": 1.0, "ECMWF": 2.0},
		{"timestep": 1.0, "date": "2024-01-02", "ACCESS-S": 2.0},
		{"timestep": 2.0, "date": "2024-01-03", "ACCESS-S": 3.0, "ECMWF": 2.0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("consolidated mismatch (-want +got):\n%s", diff)
	}
}

func TestVariableRoutes_Errors(t *testing.T) {
	env := newTestEnv(t, true)

	tests := []struct {
		target string
		status int
		msg    string
	}{
		{"/api/regions/1/models/x/variables/RMSE/forecast-days", http.StatusBadRequest, "Invalid model ID. Must be a number."},
		{"/api/regions/1/models/9/variables/RMSE/forecast-days", http.StatusNotFound, "Model with ID 9 not found in region 1"},
		{"/api/regions/1/models/1/variables/ACC/forecast-days", http.StatusNotFound, "Variable ACC not found for model ACCESS-S"},
		{"/api/regions/1/models/1/variables/RMSE/timeseries?forecastDay=first", http.StatusBadRequest, "Invalid forecast day. Must be a number."},
		{"/api/regions/1/variables/RMSE/consolidated?forecastDay=x", http.StatusBadRequest, "Invalid forecast day. Must be a number."},
		{"/api/regions/7/variables/RMSE/consolidated", http.StatusNotFound, "Region with ID 7 not found"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := env.do(http.MethodGet, tt.target)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.msg, decodeError(t, rec))
		})
	}
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t, true, httpadapter.WithRateLimit(0.001, 2))

	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/regions").Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/regions").Code)
	rec := env.do(http.MethodGet, "/api/regions")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Too many requests", decodeError(t, rec))

	// Pages and probes are not throttled.
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/healthz").Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/regions").Code)
}

func TestRequestMetrics(t *testing.T) {
	env := newTestEnv(t, true)
	env.do(http.MethodGet, "/api/regions/1")
	env.do(http.MethodGet, "/api/regions/2")
	env.do(http.MethodGet, "/api/regions/x")

	// Both ids share one route label; the statuses differ.
	assert.Equal(t, 2, testutil.CollectAndCount(env.metrics.HTTPRequests))
	assert.Equal(t, 1, testutil.CollectAndCount(env.metrics.HTTPRequestDuration))
}

func TestPages(t *testing.T) {
	env := newTestEnv(t, true)

	tests := []struct {
		target   string
		contains []string
	}{
		{"/", []string{"Model skill statistics", "2024-01-01", "2024-01-02", "RMSE, BIAS", "No structural problems found."}},
		{"/regions", []string{"North West Shelf", "Coral Sea", `href="/regions/2"`}},
		{"/regions/1", []string{"North West Shelf", "ACCESS-S", "ECMWF", "2.500", "1.400", "Model comparison"}},
		{"/regions/1/charts?forecastDay=1", []string{"North West Shelf", "RMSE by forecast day", "Bias by model", "echarts"}},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := env.do(http.MethodGet, tt.target)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))
			for _, s := range tt.contains {
				assert.Contains(t, rec.Body.String(), s)
			}
		})
	}
}

func TestPages_Errors(t *testing.T) {
	env := newTestEnv(t, true)

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/regions/abc").Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/regions/42").Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/regions/42/charts").Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/regions/1/charts?forecastDay=z").Code)
}
