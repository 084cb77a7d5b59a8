package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"penny/internal/core"
)

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Groceries  ", "Groceries"},
		{"Rent\x00\x07", "Rent"},
		{"line\nbreak\ttab", "line\nbreak\ttab"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"text":"last friday"}`, false},
		{"unknown field", `{"text":"x","other":1}`, true},
		{"trailing data", `{"text":"x"} {"text":"y"}`, true},
		{"not json", `text=x`, true},
		{"empty", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst parseRequest
			err := decodeJSON(httptest.NewRecorder(), req, &dst)
			if (err != nil) != tt.wantErr {
				t.Fatalf("decodeJSON error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !core.IsValidation(err) {
				t.Errorf("decodeJSON error %v is not a validation error", err)
			}
		})
	}
}

func TestDecodeJSONKeepsPeriodValidation(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"from":"March 2025","to":"Smarch 2025"}`))
	var dst copyRequest
	err := decodeJSON(httptest.NewRecorder(), req, &dst)
	if !core.IsValidation(err) {
		t.Fatalf("error = %v, want validation error", err)
	}
}

func TestParseDateRange(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?period=February%202024", nil)
	r, err := parseDateRange(req)
	if err != nil {
		t.Fatal(err)
	}
	if r.From.Day() != 1 || r.To.Day() != 29 || r.To.Month() != time.February {
		t.Errorf("range = %v..%v", r.From, r.To)
	}

	req = httptest.NewRequest(http.MethodGet, "/?from=2025-01-05&to=2025-01-09", nil)
	r, err = parseDateRange(req)
	if err != nil {
		t.Fatal(err)
	}
	if r.From.Day() != 5 || r.To.Day() != 9 {
		t.Errorf("range = %v..%v", r.From, r.To)
	}

	req = httptest.NewRequest(http.MethodGet, "/?from=2025-01-05", nil)
	var ve *core.ValidationError
	if _, err := parseDateRange(req); !errors.As(err, &ve) || ve.Field != "to" {
		t.Errorf("missing to error = %v", err)
	}
}

func TestParseNow(t *testing.T) {
	fixed := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return fixed }

	got, err := parseNow(httptest.NewRequest(http.MethodGet, "/", nil), clock)
	if err != nil || !got.Equal(fixed) {
		t.Errorf("parseNow default = %v, %v", got, err)
	}
	got, err = parseNow(httptest.NewRequest(http.MethodGet, "/?now=2025-03-10", nil), clock)
	if err != nil || got.Year() != 2025 || got.Day() != 10 {
		t.Errorf("parseNow override = %v, %v", got, err)
	}
	if _, err := parseNow(httptest.NewRequest(http.MethodGet, "/?now=yesterday", nil), clock); !core.IsValidation(err) {
		t.Errorf("parseNow invalid error = %v", err)
	}
}
