package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in      string
		want    Period
		wantKey string
	}{
		{"January 2025", MonthPeriod(2025, time.January), "January 2025"},
		{"feb 2024", MonthPeriod(2024, time.February), "February 2024"},
		{"2025", YearPeriod(2025), "2025"},
		{"Total Year 2025", YearPeriod(2025), "2025"},
		{"  December   2030 ", MonthPeriod(2030, time.December), "December 2030"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePeriod(tt.in)
			if err != nil {
				t.Fatalf("ParsePeriod(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParsePeriod(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
			if got.Key() != tt.wantKey {
				t.Errorf("Key() = %q, want %q", got.Key(), tt.wantKey)
			}
		})
	}

	for _, bad := range []string{"", "Smarch 2025", "January", "Total 2025", "0", "January twenty"} {
		if _, err := ParsePeriod(bad); !errors.Is(err, ErrInvalidPeriod) {
			t.Errorf("ParsePeriod(%q) error = %v, want ErrInvalidPeriod", bad, err)
		}
	}
}

func TestPeriodMonthsAndPrevious(t *testing.T) {
	months := YearPeriod(2024).Months()
	if len(months) != 12 || months[0] != MonthPeriod(2024, time.January) || months[11] != MonthPeriod(2024, time.December) {
		t.Fatalf("Months() = %v", months)
	}
	if got := MonthPeriod(2025, time.January).Previous(); got != MonthPeriod(2024, time.December) {
		t.Errorf("Previous() = %v", got)
	}
	if got := MonthPeriod(2025, time.March).Months(); len(got) != 1 {
		t.Errorf("month Months() = %v", got)
	}
}

func TestPeriodRange(t *testing.T) {
	r := MonthPeriod(2024, time.February).Range()
	if !r.From.Equal(NewDate(2024, 2, 1).Time) || !r.To.Equal(NewDate(2024, 2, 29).Time) {
		t.Fatalf("Range() = %v..%v", r.From, r.To)
	}
	if !r.Contains(NewDate(2024, 2, 29)) || r.Contains(NewDate(2024, 3, 1)) {
		t.Fatal("Contains() wrong at month boundary")
	}
	y := YearPeriod(2025).Range()
	if !y.To.Equal(NewDate(2025, 12, 31).Time) {
		t.Fatalf("year Range().To = %v", y.To)
	}
}

func TestWeekOf(t *testing.T) {
	// 2025-03-13 is a Thursday.
	w := WeekOf(time.Date(2025, 3, 13, 15, 30, 0, 0, time.UTC))
	if !w.From.Equal(NewDate(2025, 3, 10).Time) || !w.To.Equal(NewDate(2025, 3, 16).Time) {
		t.Fatalf("WeekOf = %v..%v", w.From, w.To)
	}
	sunday := WeekOf(time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC))
	if !sunday.From.Equal(NewDate(2025, 3, 10).Time) {
		t.Fatalf("WeekOf(sunday).From = %v", sunday.From)
	}
	d := DayRange(time.Date(2025, 3, 13, 23, 0, 0, 0, time.UTC))
	if !d.Contains(NewDate(2025, 3, 13)) || d.Contains(NewDate(2025, 3, 14)) {
		t.Fatal("DayRange bounds wrong")
	}
}

func TestDateRangeValidate(t *testing.T) {
	r := DateRange{From: NewDate(2025, 3, 2), To: NewDate(2025, 3, 1)}
	if err := r.Validate(); !IsValidation(err) {
		t.Fatalf("reversed range error = %v", err)
	}
}

func TestPeriodJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		P Period `json:"period"`
	}{MonthPeriod(2025, time.May)})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"period":"May 2025"}` {
		t.Fatalf("marshal = %s", b)
	}
	var out struct {
		P Period `json:"period"`
	}
	if err := json.Unmarshal([]byte(`{"period":"Total Year 2026"}`), &out); err != nil {
		t.Fatal(err)
	}
	if out.P != YearPeriod(2026) {
		t.Fatalf("unmarshal = %+v", out.P)
	}
}
