package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Djelibeybi/lifx-emulator/internal/events"
	"github.com/Djelibeybi/lifx-emulator/internal/scenario"
)

func (s *Server) handleExportScenarios(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Scenarios.Export())
}

func (s *Server) handleGetScenario(w http.ResponseWriter, r *http.Request) {
	scope := scenario.Scope(chi.URLParam(r, "scope"))
	key := chi.URLParam(r, "key")

	rules, ok, err := s.deps.Scenarios.Get(scope, key)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "no rules at this scope")
		return
	}
	writeJSON(w, http.StatusOK, rules)
}

func (s *Server) handleSetScenario(w http.ResponseWriter, r *http.Request) {
	scope := scenario.Scope(chi.URLParam(r, "scope"))
	key := chi.URLParam(r, "key")

	var rules scenario.Rules
	if err := json.NewDecoder(r.Body).Decode(&rules); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if err := validateRules(&rules); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	if err := s.deps.Scenarios.Set(scope, key, &rules); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	s.publishScenarioChanged(scope, key)
	writeJSON(w, http.StatusOK, &rules)
}

func (s *Server) handleClearScenario(w http.ResponseWriter, r *http.Request) {
	scope := scenario.Scope(chi.URLParam(r, "scope"))
	key := chi.URLParam(r, "key")

	if err := s.deps.Scenarios.Clear(scope, key); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	s.publishScenarioChanged(scope, key)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) publishScenarioChanged(scope scenario.Scope, key string) {
	if s.deps.Bus == nil {
		return
	}
	s.deps.Bus.Publish(events.TypeScenarioChanged, map[string]string{
		"scope": string(scope),
		"key":   key,
	})
}

// validateRules rejects rule sets the engine would misbehave on.
func validateRules(r *scenario.Rules) error {
	for pktType, p := range r.DropPackets {
		if p < 0 || p > 1 {
			return &ruleError{field: "drop_packets", pktType: pktType}
		}
	}
	for pktType, secs := range r.ResponseDelays {
		if secs < 0 {
			return &ruleError{field: "response_delays", pktType: pktType}
		}
	}
	return nil
}

type ruleError struct {
	field   string
	pktType uint16
}

func (e *ruleError) Error() string {
	return "invalid value in " + e.field
}
