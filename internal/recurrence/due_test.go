package recurrence

import (
	"errors"
	"testing"
)

func TestParseDue(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		days    int
		want    DayOfMonth
		wantErr error
	}{
		{"ordinal", "10th", 31, DayOfMonth{Day: 10}, nil},
		{"first", "1st", 30, DayOfMonth{Day: 1}, nil},
		{"upper case", "22ND", 31, DayOfMonth{Day: 22}, nil},
		{"last", " Last ", 28, LastDay, nil},
		{"end of leap february", "29th", 29, DayOfMonth{Day: 29}, nil},
		{"past february", "30th", 29, DayOfMonth{}, ErrDueOutOfRange},
		{"zero", "0th", 31, DayOfMonth{}, ErrDueOutOfRange},
		{"missing", "", 31, DayOfMonth{}, ErrDueRequired},
		{"no suffix", "10", 31, DayOfMonth{}, ErrInvalidDue},
		{"word", "tenth", 31, DayOfMonth{}, ErrInvalidDue},
		{"signed", "+5th", 31, DayOfMonth{}, ErrInvalidDue},
		{"only suffix", "th", 31, DayOfMonth{}, ErrInvalidDue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDue(tt.in, tt.days)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseDue(%q) error = %v, want %v", tt.in, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDue(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseDue(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseWeekdays(t *testing.T) {
	got, err := ParseWeekdays("Mon, wednesday,FRI,mon")
	if err != nil {
		t.Fatal(err)
	}
	if !equalWeekdays(got, []Weekday{Monday, Wednesday, Friday}) {
		t.Errorf("ParseWeekdays = %v", got)
	}

	all, err := ParseWeekdays(" , ")
	if err != nil {
		t.Fatal(err)
	}
	if !equalWeekdays(all, AllWeekdays) {
		t.Errorf("empty selection = %v, want all weekdays", all)
	}

	if _, err := ParseWeekdays("Mon,Someday"); !errors.Is(err, ErrInvalidDay) {
		t.Errorf("error = %v, want ErrInvalidDay", err)
	}
}
