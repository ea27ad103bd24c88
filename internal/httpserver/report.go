package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/radiusdt/ads-console/internal/console"
	"github.com/radiusdt/ads-console/internal/models"
)

// ---- Report view ----

func (s *Server) handleOpenReport(w http.ResponseWriter, r *http.Request) {
	st, err := s.console.OpenReport()
	if err != nil {
		s.reportError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	s.jsonResponse(w, st)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	st, err := s.console.Report()
	if err != nil {
		s.reportError(w, err)
		return
	}
	s.jsonResponse(w, st)
}

func (s *Server) handleCloseReport(w http.ResponseWriter, r *http.Request) {
	s.console.CloseReport()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	series, err := s.console.Series()
	if err != nil {
		s.reportError(w, err)
		return
	}
	s.jsonResponse(w, series)
}

func (s *Server) handleEditSeriesCell(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		s.errorResponse(w, "invalid index", http.StatusBadRequest)
		return
	}
	field, err := models.ParseSeriesField(chi.URLParam(r, "field"))
	if err != nil {
		s.errorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req valueRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, "invalid json", http.StatusBadRequest)
		return
	}
	applied, err := s.console.EditSeriesCell(index, field, string(req.Value))
	if err != nil {
		s.reportError(w, err)
		return
	}
	st, err := s.console.Report()
	if err != nil {
		s.reportError(w, err)
		return
	}
	s.appliedResponse(w, applied, st)
}

// handleChart serves the chart currently bound to the surface, tagged with
// its handle id.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if s.surface != nil {
		spec, id, ok := s.surface.Current()
		if !ok {
			s.reportError(w, console.ErrReportClosed)
			return
		}
		w.Header().Set("X-Chart-Handle", id)
		s.jsonResponse(w, spec)
		return
	}
	st, err := s.console.Report()
	if err != nil {
		s.reportError(w, err)
		return
	}
	s.jsonResponse(w, st.Chart)
}

func (s *Server) handleToggleChartMetric(w http.ResponseWriter, r *http.Request) {
	m, err := console.ParseChartMetric(chi.URLParam(r, "metric"))
	if err != nil {
		s.errorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	applied, err := s.console.ToggleChartMetric(m)
	if err != nil {
		s.reportError(w, err)
		return
	}
	st, err := s.console.Report()
	if err != nil {
		s.reportError(w, err)
		return
	}
	s.appliedResponse(w, applied, st)
}

func (s *Server) handleSetScope(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Scope string `json:"scope"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := s.console.SetReportScope(req.Scope); err != nil {
		s.reportError(w, err)
		return
	}
	st, err := s.console.Report()
	if err != nil {
		s.reportError(w, err)
		return
	}
	s.jsonResponse(w, st)
}
