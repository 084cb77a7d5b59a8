package http

import (
	"net/http"

	"penny/internal/recurrence"
)

// handleParseRecurrence previews how custom recurrence text is understood
// without storing anything.
func (s *Server) handleParseRecurrence(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	rule, err := recurrence.Parse(req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pattern, err := recurrence.EncodePattern(rule.Pattern)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, parseResponse{
		Shape:   string(rule.Pattern.Shape()),
		Pattern: pattern,
		Text:    recurrence.Format(rule),
	})
}
