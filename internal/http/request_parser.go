package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"penny/internal/core"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 64 << 10

var errBadRequest = errors.New("malformed request")

func badRequest(field string, err error) error {
	return &core.ValidationError{Field: field, Err: err}
}

func parseUser(r *http.Request) (core.UserID, error) {
	id, err := strconv.ParseInt(r.PathValue("user"), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("user", fmt.Errorf("%w: %q", errBadRequest, r.PathValue("user")))
	}
	return core.UserID(id), nil
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("id", fmt.Errorf("%w: %q", errBadRequest, r.PathValue("id")))
	}
	return id, nil
}

func parsePeriodParam(r *http.Request, name string) (core.Period, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return core.Period{}, badRequest(name, fmt.Errorf("%w: missing %s", errBadRequest, name))
	}
	p, err := core.ParsePeriod(v)
	if err != nil {
		return core.Period{}, badRequest(name, err)
	}
	return p, nil
}

// parseIntParam reads an optional integer query parameter, returning def when absent.
func parseIntParam(r *http.Request, name string, def int) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, badRequest(name, fmt.Errorf("%w: %q is not a number", errBadRequest, v))
	}
	return n, nil
}

// parseDateRange reads either from/to (ISO dates) or period.
func parseDateRange(r *http.Request) (core.DateRange, error) {
	q := r.URL.Query()
	if q.Get("period") != "" {
		p, err := parsePeriodParam(r, "period")
		if err != nil {
			return core.DateRange{}, err
		}
		return p.Range(), nil
	}
	from, err := core.ParseDate(q.Get("from"))
	if err != nil {
		return core.DateRange{}, badRequest("from", err)
	}
	to, err := core.ParseDate(q.Get("to"))
	if err != nil {
		return core.DateRange{}, badRequest("to", err)
	}
	return core.DateRange{From: from, To: to}, nil
}

// parseNow reads an optional ISO date overriding the server clock.
func parseNow(r *http.Request, clock func() time.Time) (time.Time, error) {
	v := strings.TrimSpace(r.URL.Query().Get("now"))
	if v == "" {
		return clock(), nil
	}
	d, err := core.ParseDate(v)
	if err != nil {
		return time.Time{}, badRequest("now", err)
	}
	return d.Time, nil
}

// decodeJSON reads one JSON object into dst, rejecting unknown fields and
// trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var ve *core.ValidationError
		if errors.As(err, &ve) {
			return ve
		}
		return badRequest("body", fmt.Errorf("%w: %v", errBadRequest, err))
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return badRequest("body", fmt.Errorf("%w: trailing data", errBadRequest))
	}
	return nil
}

// sanitizeInput drops control characters other than tab and newlines and
// trims surrounding whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}
