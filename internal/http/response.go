package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"penny/internal/core"
	"penny/internal/log"
	"penny/internal/recurrence"
)

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	Shape string `json:"shape,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to status codes. Parse and validation
// messages go back verbatim; anything unexpected is logged and hidden.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		pe *recurrence.ParseError
		ve *core.ValidationError
	)
	switch {
	case errors.As(err, &pe):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: pe.Message, Shape: string(pe.Shape)})
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: ve.Error(), Field: ve.Field})
	case errors.Is(err, core.ErrNothingToUndo):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "nothing to undo"})
	case errors.Is(err, core.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	case errors.Is(err, core.ErrIDConflict):
		writeJSON(w, http.StatusConflict, errorBody{Error: "the restored transaction id is already in use"})
	default:
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			log.FieldPath, r.URL.Path,
			log.FieldError, err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}
