package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/syedshahzad7/diabetes-visualization/internal/dataset"
	"github.com/syedshahzad7/diabetes-visualization/internal/summary"
)

// getSummary returns the label counts, optionally narrowed by repeated
// where=column=value query parameters.
func (s *Server) getSummary(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.filtered(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, summary.Summarize(ds))
}

// getBreakdown groups by the column in the path.
func (s *Server) getBreakdown(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.filtered(w, r)
	if !ok {
		return
	}

	b, err := summary.BreakdownBy(ds, mux.Vars(r)["column"])
	if err != nil {
		writeDatasetError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, b)
}

// getIndicators reports the one-hot indicator columns sharing the path prefix.
func (s *Server) getIndicators(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.filtered(w, r)
	if !ok {
		return
	}

	b, err := summary.IndicatorBreakdown(ds, mux.Vars(r)["prefix"])
	if err != nil {
		writeDatasetError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, b)
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"dataset":   s.dataset.Path,
		"records":   s.dataset.Len(),
		"timestamp": time.Now(),
	})
}

// handleOptions handles CORS preflight requests
func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// filtered applies the request's where parameters. On failure the error
// response has already been written.
func (s *Server) filtered(w http.ResponseWriter, r *http.Request) (*dataset.Dataset, bool) {
	conds, err := dataset.ParseConditions(r.URL.Query()["where"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	ds, err := s.dataset.Where(conds...)
	if err != nil {
		writeDatasetError(w, err)
		return nil, false
	}

	return ds, true
}

func writeDatasetError(w http.ResponseWriter, err error) {
	var schemaErr *dataset.SchemaError
	if errors.As(err, &schemaErr) {
		writeError(w, http.StatusNotFound, schemaErr.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
