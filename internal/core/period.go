package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"penny/internal/calendar"
)

// Period is either one calendar month or a whole year (Month == 0).
type Period struct {
	Year  int
	Month time.Month
}

func MonthPeriod(year int, month time.Month) Period { return Period{Year: year, Month: month} }

func YearPeriod(year int) Period { return Period{Year: year} }

// PeriodOf returns the month containing t.
func PeriodOf(t time.Time) Period { return MonthPeriod(t.Year(), t.Month()) }

func (p Period) IsYear() bool { return p.Month == 0 }

// Key is the stored period label: "January 2025" for a month, "2025" for a year.
func (p Period) Key() string {
	if p.IsYear() {
		return strconv.Itoa(p.Year)
	}
	return fmt.Sprintf("%s %d", p.Month, p.Year)
}

func (p Period) String() string { return p.Key() }

func (p Period) Validate() error {
	if p.Year < 1 || p.Year > 9999 {
		return fmt.Errorf("%w: year %d", ErrInvalidPeriod, p.Year)
	}
	if p.Month < 0 || p.Month > time.December {
		return fmt.Errorf("%w: month %d", ErrInvalidPeriod, p.Month)
	}
	return nil
}

// ParsePeriod reads "January 2025", "2025" or "Total Year 2025".
func ParsePeriod(s string) (Period, error) {
	fields := strings.Fields(s)
	if len(fields) == 3 && strings.EqualFold(fields[0], "total") && strings.EqualFold(fields[1], "year") {
		fields = fields[2:]
	}
	var p Period
	switch len(fields) {
	case 1:
		year, err := strconv.Atoi(fields[0])
		if err != nil {
			return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
		}
		p = YearPeriod(year)
	case 2:
		month, ok := calendar.MonthByName(fields[0])
		if !ok {
			return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
		}
		year, err := strconv.Atoi(fields[1])
		if err != nil {
			return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
		}
		p = MonthPeriod(year, month)
	default:
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// Months lists the month periods covered by p in calendar order.
func (p Period) Months() []Period {
	if !p.IsYear() {
		return []Period{p}
	}
	months := make([]Period, 0, 12)
	for m := time.January; m <= time.December; m++ {
		months = append(months, MonthPeriod(p.Year, m))
	}
	return months
}

// Previous returns the preceding month, or the preceding year for a year period.
func (p Period) Previous() Period {
	if p.IsYear() {
		return YearPeriod(p.Year - 1)
	}
	if p.Month == time.January {
		return MonthPeriod(p.Year-1, time.December)
	}
	return MonthPeriod(p.Year, p.Month-1)
}

// DaysInMonth is the length of the month, or 31 for a year period.
func (p Period) DaysInMonth() int {
	if p.IsYear() {
		return 31
	}
	return calendar.DaysInMonth(p.Month, p.Year)
}

// Range returns the first and last day of the period.
func (p Period) Range() DateRange {
	if p.IsYear() {
		return DateRange{
			From: NewDate(p.Year, 1, 1),
			To:   NewDate(p.Year, 12, 31),
		}
	}
	return DateRange{
		From: NewDate(p.Year, int(p.Month), 1),
		To:   NewDate(p.Year, int(p.Month), p.DaysInMonth()),
	}
}

func (p Period) MarshalText() ([]byte, error) { return []byte(p.Key()), nil }

func (p *Period) UnmarshalText(b []byte) error {
	parsed, err := ParsePeriod(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// DateRange is an inclusive range of days.
type DateRange struct {
	From Date
	To   Date
}

// DayRange covers the single day of t.
func DayRange(t time.Time) DateRange {
	d := NewDate(t.Year(), int(t.Month()), t.Day())
	return DateRange{From: d, To: d}
}

// WeekOf covers the Monday-first week containing t.
func WeekOf(t time.Time) DateRange {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	start = start.AddDate(0, 0, -calendar.MondayIndex(start.Weekday()))
	return DateRange{From: Date{Time: start}, To: Date{Time: start.AddDate(0, 0, 6)}}
}

func (r DateRange) Validate() error {
	if err := r.From.Validate(); err != nil {
		return &ValidationError{Field: "from", Err: err}
	}
	if err := r.To.Validate(); err != nil {
		return &ValidationError{Field: "to", Err: err}
	}
	if r.To.Before(r.From.Time) {
		return &ValidationError{Field: "to", Err: fmt.Errorf("%w: range ends before it starts", ErrInvalidDate)}
	}
	return nil
}

// Contains reports whether the day of d lies within the range.
func (r DateRange) Contains(d Date) bool {
	day := NewDate(d.Year(), int(d.Month()), d.Day())
	return !day.Before(r.From.Time) && !day.After(r.To.Time)
}
