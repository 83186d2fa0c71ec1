package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fathomscience/fischcast-qc/internal/dataset"
	"github.com/fathomscience/fischcast-qc/internal/domain"
)

// requestError is a client-facing failure with its status code.
type requestError struct {
	status  int
	message string
}

func (e *requestError) Error() string { return e.message }

func badRequest(msg string) *requestError { return &requestError{http.StatusBadRequest, msg} }

func notFound(format string, args ...any) *requestError {
	return &requestError{http.StatusNotFound, fmt.Sprintf(format, args...)}
}

var errNotLoaded = &requestError{http.StatusServiceUnavailable, "Dataset not loaded"}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client went away
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeRequestError(w http.ResponseWriter, err *requestError) {
	writeError(w, err.status, err.message)
}

// snapshot returns the active snapshot or errNotLoaded.
func (s *Server) snapshot() (*dataset.Snapshot, *requestError) {
	snap := s.source.Current()
	if snap == nil {
		return nil, errNotLoaded
	}
	return snap, nil
}

// regionFromPath resolves the {regionId} URL parameter against snap.
func regionFromPath(r *http.Request, snap *dataset.Snapshot) (*domain.Region, *requestError) {
	id, err := strconv.Atoi(chi.URLParam(r, "regionId"))
	if err != nil {
		return nil, badRequest("Invalid region ID. Must be a number.")
	}
	region, ok := snap.Dataset.RegionByID(id)
	if !ok {
		return nil, notFound("Region with ID %d not found", id)
	}
	return region, nil
}

// variableFromPath resolves {modelId} and {variable} within region.
func variableFromPath(r *http.Request, region *domain.Region) (*domain.Variable, *requestError) {
	modelID, err := strconv.Atoi(chi.URLParam(r, "modelId"))
	if err != nil {
		return nil, badRequest("Invalid model ID. Must be a number.")
	}
	model, ok := region.ModelByID(modelID)
	if !ok {
		return nil, notFound("Model with ID %d not found in region %d", modelID, region.ID)
	}
	label := chi.URLParam(r, "variable")
	v, ok := model.VariableByLabel(label)
	if !ok {
		return nil, notFound("Variable %s not found for model %s", label, model.Label)
	}
	return v, nil
}

// forecastDayParam reads the forecastDay query parameter, defaulting to 0.
func forecastDayParam(r *http.Request) (int, *requestError) {
	raw := r.URL.Query().Get("forecastDay")
	if raw == "" {
		return 0, nil
	}
	fd, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("Invalid forecast day. Must be a number.")
	}
	return fd, nil
}
