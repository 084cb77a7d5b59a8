package http

import (
	"net/http"
	"strings"

	"penny/internal/core"
	"penny/internal/services"
)

func (s *Server) handleAddPlan(w http.ResponseWriter, r *http.Request) {
	user, err := parseUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in services.PlanInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if t, err := core.ParseEntryType(string(in.Type)); err == nil {
		in.Type = t
	}
	in.Category = sanitizeInput(in.Category)

	rec, err := s.svc.Plans.AddPlan(r.Context(), user, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newPlanResponse(rec))
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	user, err := parseUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	period, err := parsePeriodParam(r, "period")
	if err != nil {
		writeError(w, r, err)
		return
	}
	view, err := s.svc.Plans.View(r.Context(), user, period)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handlePlanDetails(w http.ResponseWriter, r *http.Request) {
	user, err := parseUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	period, err := parsePeriodParam(r, "period")
	if err != nil {
		writeError(w, r, err)
		return
	}
	t, err := core.ParseEntryType(r.URL.Query().Get("type"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	details, err := s.svc.Plans.PlanDetails(r.Context(), user, period, t, category)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (s *Server) handleCopyPlan(w http.ResponseWriter, r *http.Request) {
	user, err := parseUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req copyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	n, err := s.svc.Plans.CopyPlan(r.Context(), user, req.From, req.To)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"copied": n})
}

func (s *Server) handleAvailableYears(w http.ResponseWriter, r *http.Request) {
	user, err := parseUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	current, err := parseIntParam(r, "current", s.now().Year())
	if err != nil {
		writeError(w, r, err)
		return
	}
	years, err := s.svc.Plans.AvailableYears(r.Context(), user, current)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]int{"years": years})
}
