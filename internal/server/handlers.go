package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/chmouel/go-wfc-report/internal/dashboard"
	"github.com/chmouel/go-wfc-report/internal/excerpt"
	"github.com/chmouel/go-wfc-report/internal/filter"
	"github.com/chmouel/go-wfc-report/internal/generator"
	"github.com/chmouel/go-wfc-report/internal/model"
)

// maxFilterBody bounds the filter request body.
const maxFilterBody = 1 << 20

// FilterResponse is the body returned by POST /api/filter.
type FilterResponse struct {
	Endpoints []model.TransformedEndpoint `json:"endpoints"`
	Filtered  int                         `json:"filtered"`
	Total     int                         `json:"total"`
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /api/report", s.handleReport)
	s.mux.HandleFunc("POST /api/filter", s.handleFilter)
	s.mux.HandleFunc("GET /api/testcases/{id}", s.handleTestCase)
	s.mux.HandleFunc("GET /api/diagnostics", s.handleDiagnostics)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.Handle("GET /metrics", s.metrics.Handler())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	view := s.Session().View(s.cfg.Title)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := generator.Render(w, view, generator.Options{APIMode: true}); err != nil {
		s.logger.Error("rendering dashboard", "error", err)
		http.Error(w, "rendering dashboard failed", http.StatusInternalServerError)
	}
}

func (s *Server) handleReport(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Session().View(s.cfg.Title))
}

// handleFilter applies the posted filter state. The state lives in the
// browser; nothing is kept between requests.
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxFilterBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading request body: "+err.Error())
		return
	}
	var state filter.State
	if err := json.Unmarshal(body, &state); err != nil {
		writeError(w, http.StatusBadRequest, "invalid filter state: "+err.Error())
		return
	}

	s.metrics.filterRequests.Inc()
	all := s.Session().Transformed()
	kept := filter.Apply(all, state)
	writeJSON(w, http.StatusOK, FilterResponse{
		Endpoints: kept,
		Filtered:  len(kept),
		Total:     len(all),
	})
}

func (s *Server) handleTestCase(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ex, err := s.Session().Excerpt(id)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, dashboard.TestCaseView{Excerpt: ex})
	case errors.Is(err, dashboard.ErrUnknownTestCase):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, excerpt.ErrOutOfRange), errors.Is(err, excerpt.ErrInvalidRange):
		writeJSON(w, http.StatusUnprocessableEntity, dashboard.TestCaseView{Excerpt: ex, Error: err.Error()})
	default:
		// The test file could not be loaded: the test case is known, the
		// viewer just has nothing to show.
		writeJSON(w, http.StatusOK, dashboard.TestCaseView{Excerpt: ex, Error: err.Error()})
	}
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Session().Diagnostics())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"uptime_seconds": time.Since(s.startTime).Seconds(),
		"endpoints":      len(s.Session().Transformed()),
	})
}
