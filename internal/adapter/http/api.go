package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fathomscience/fischcast-qc/internal/domain"
)

// handleData serves the loaded payload byte for byte.
func (s *Server) handleData(w http.ResponseWriter, _ *http.Request) {
	snap, rerr := s.snapshot()
	if rerr != nil {
		writeRequestError(w, rerr)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", strconv.Quote(snap.Version))
	w.Header().Set("Content-Length", strconv.Itoa(len(snap.Raw)))
	w.WriteHeader(http.StatusOK)
	w.Write(snap.Raw) //nolint:errcheck // client went away
}

func (s *Server) handleRegions(w http.ResponseWriter, _ *http.Request) {
	snap, rerr := s.snapshot()
	if rerr != nil {
		writeRequestError(w, rerr)
		return
	}
	writeJSON(w, http.StatusOK, domain.ListRegions(snap.Dataset))
}

type regionResponse struct {
	Metadata domain.Metadata `json:"metadata"`
	Region   *domain.Region  `json:"region"`
}

func (s *Server) handleRegion(w http.ResponseWriter, r *http.Request) {
	snap, rerr := s.snapshot()
	if rerr != nil {
		writeRequestError(w, rerr)
		return
	}
	region, rerr := regionFromPath(r, snap)
	if rerr != nil {
		writeRequestError(w, rerr)
		return
	}
	writeJSON(w, http.StatusOK, regionResponse{Metadata: snap.Dataset.Metadata, Region: region})
}

// handleRegionRefs answers OPTIONS with the directory of all regions; the
// path id is not interpreted.
func (s *Server) handleRegionRefs(w http.ResponseWriter, _ *http.Request) {
	snap, rerr := s.snapshot()
	if rerr != nil {
		writeRequestError(w, rerr)
		return
	}
	writeJSON(w, http.StatusOK, domain.RegionRefs(snap.Dataset))
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	snap, rerr := s.snapshot()
	if rerr != nil {
		writeRequestError(w, rerr)
		return
	}
	region, rerr := regionFromPath(r, snap)
	if rerr != nil {
		writeRequestError(w, rerr)
		return
	}
	rep, ok := s.reports.Get(snap, region.ID)
	if !ok {
		writeRequestError(w, notFound("Region with ID %d not found", region.ID))
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleForecastDays(w http.ResponseWriter, r *http.Request) {
	snap, rerr := s.snapshot()
	if rerr != nil {
		writeRequestError(w, rerr)
		return
	}
	region, rerr := regionFromPath(r, snap)
	if rerr != nil {
		writeRequestError(w, rerr)
		return
	}
	v, rerr := variableFromPath(r, region)
	if rerr != nil {
		writeRequestError(w, rerr)
		return
	}
	writeJSON(w, http.StatusOK, domain.ByForecastDay(v.Value, snap.Dataset.ForecastDayLabels()))
}

func (s *Server) handleTimeseries(w http.ResponseWriter, r *http.Request) {
	snap, rerr := s.snapshot()
	if rerr != nil {
		writeRequestError(w, rerr)
		return
	}
	region, rerr := regionFromPath(r, snap)
	if rerr != nil {
		writeRequestError(w, rerr)
		return
	}
	v, rerr := variableFromPath(r, region)
	if rerr != nil {
		writeRequestError(w, rerr)
		return
	}
	fd, rerr := forecastDayParam(r)
	if rerr != nil {
		writeRequestError(w, rerr)
		return
	}
	writeJSON(w, http.StatusOK, domain.Timeseries(v.Value, fd, snap.Dataset.DateLabels(fd)))
}

func (s *Server) handleConsolidated(w http.ResponseWriter, r *http.Request) {
	snap, rerr := s.snapshot()
	if rerr != nil {
		writeRequestError(w, rerr)
		return
	}
	region, rerr := regionFromPath(r, snap)
	if rerr != nil {
		writeRequestError(w, rerr)
		return
	}
	fd, rerr := forecastDayParam(r)
	if rerr != nil {
		writeRequestError(w, rerr)
		return
	}
	variable := chi.URLParam(r, "variable")
	writeJSON(w, http.StatusOK, domain.Consolidate(region.Model, variable, fd, snap.Dataset.DateLabels(fd)))
}
