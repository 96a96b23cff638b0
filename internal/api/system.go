package api

import (
	"net/http"
	"strconv"

	"github.com/Djelibeybi/lifx-emulator/internal/server"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"devices": s.deps.Manager.Count(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	var stats server.Stats
	if s.deps.Stats != nil {
		stats = s.deps.Stats.Stats()
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleActivity returns recent packet activity from the recorder.
// Without a recorder configured it returns an empty list rather than
// an error, so dashboards degrade gracefully.
func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	if s.deps.Activity == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "bad_request", "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	entries, err := s.deps.Activity.Recent(r.Context(), r.URL.Query().Get("serial"), limit)
	if err != nil {
		s.deps.Logger.Error("reading activity", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "reading activity failed")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
