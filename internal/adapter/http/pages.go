package http

import (
	"bytes"
	"net/http"
	"time"

	"github.com/fathomscience/fischcast-qc/internal/domain"
)

type indexPage struct {
	Overview domain.DatasetOverview
	Version  string
	Source   string
	LoadedAt time.Time
	Warnings []string
}

func (s *Server) handleIndexPage(w http.ResponseWriter, _ *http.Request) {
	snap, rerr := s.snapshot()
	if rerr != nil {
		http.Error(w, rerr.message, rerr.status)
		return
	}
	s.render(w, "index.html", indexPage{
		Overview: domain.Overview(snap.Dataset),
		Version:  snap.Version,
		Source:   snap.Source,
		LoadedAt: snap.LoadedAt,
		Warnings: snap.Warnings,
	})
}

func (s *Server) handleRegionsPage(w http.ResponseWriter, _ *http.Request) {
	snap, rerr := s.snapshot()
	if rerr != nil {
		http.Error(w, rerr.message, rerr.status)
		return
	}
	s.render(w, "regions.html", domain.ListRegions(snap.Dataset))
}

func (s *Server) handleRegionPage(w http.ResponseWriter, r *http.Request) {
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
	rep, _ := s.reports.Get(snap, region.ID)
	s.render(w, "region.html", rep)
}

// render executes a template into a buffer so a failure can still produce a 500.
func (s *Server) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("template error", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w) //nolint:errcheck // client went away
}
