package http

import (
	"net/http"
)

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	user, err := parseUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	months, err := parseIntParam(r, "months", 0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	now, err := parseNow(r, s.now)
	if err != nil {
		writeError(w, r, err)
		return
	}
	trends, err := s.svc.Trends.MonthlyTrends(r.Context(), user, now, months)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]trendResponse, len(trends))
	for i, t := range trends {
		out[i] = trendResponse{Period: t.Period, Income: t.Income, Expenses: t.Expenses, Savings: t.Savings, Balance: t.Balance}
	}
	writeJSON(w, http.StatusOK, out)
}
