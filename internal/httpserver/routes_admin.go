// internal/httpserver/routes_admin.go
//
// Admin reporting endpoints: per-day wins/unique players, per-player
// per-day counts, and a per-player activity summary. Dates are
// YYYY-MM-DD in the server's local calendar.

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func (s *Server) mountAdmin() {
	s.r.Route("/admin", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/report/day", s.handleDayReport)
		r.Get("/report/user/{playerID}", s.handlePlayerDayReport)
		r.Get("/user/activity", s.handlePlayerActivity)
	})
}

// parseDate reads a required ?date=YYYY-MM-DD query parameter.
func parseDate(r *http.Request) (time.Time, bool) {
	d, err := time.ParseInLocation("2006-01-02", r.URL.Query().Get("date"), time.Local)
	return d, err == nil
}

// GET /admin/report/day?date=YYYY-MM-DD
func (s *Server) handleDayReport(w http.ResponseWriter, r *http.Request) {
	date, ok := parseDate(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errBody{Code: "INVALID_DATE", Message: "date must be YYYY-MM-DD"})
		return
	}
	sum, err := s.reports.Day(r.Context(), date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// GET /admin/report/user/{playerID}?date=YYYY-MM-DD
func (s *Server) handlePlayerDayReport(w http.ResponseWriter, r *http.Request) {
	date, ok := parseDate(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errBody{Code: "INVALID_DATE", Message: "date must be YYYY-MM-DD"})
		return
	}
	sum, err := s.reports.PlayerDay(r.Context(), chi.URLParam(r, "playerID"), date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// GET /admin/user/activity?username=...
func (s *Server) handlePlayerActivity(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		writeJSON(w, http.StatusBadRequest, errBody{Code: "INVALID_QUERY", Message: "provide username"})
		return
	}
	playerID, err := s.engine.ResolvePlayer(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}
	rows, err := s.reports.PlayerActivity(r.Context(), playerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
