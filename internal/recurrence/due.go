package recurrence

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrDueRequired   = errors.New("due day is required for monthly plans")
	ErrInvalidDue    = errors.New("due day must be like '10th' or 'last'")
	ErrInvalidDay    = errors.New("unknown weekday")
	ErrDueOutOfRange = errors.New("due day is outside the month")
)

// ParseDue validates the due value of a Monthly plan: "last" or an ordinal
// day such as "1st" or "28th" that exists in a month of daysInMonth days.
func ParseDue(text string, daysInMonth int) (DayOfMonth, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return DayOfMonth{}, ErrDueRequired
	}
	if s == "last" {
		return LastDay, nil
	}
	if len(s) < 3 {
		return DayOfMonth{}, fmt.Errorf("%w: %q", ErrInvalidDue, text)
	}
	switch s[len(s)-2:] {
	case "st", "nd", "rd", "th":
	default:
		return DayOfMonth{}, fmt.Errorf("%w: %q", ErrInvalidDue, text)
	}
	day, err := strconv.Atoi(s[:len(s)-2])
	if err != nil || strings.ContainsAny(s[:len(s)-2], "+-") {
		return DayOfMonth{}, fmt.Errorf("%w: %q", ErrInvalidDue, text)
	}
	if day < 1 || day > daysInMonth {
		return DayOfMonth{}, fmt.Errorf("%w: %d of %d", ErrDueOutOfRange, day, daysInMonth)
	}
	return DayOfMonth{Day: day}, nil
}

// ParseWeekdays parses a comma separated list of weekday names for a Daily
// plan. Duplicates are dropped and an empty list selects every day.
func ParseWeekdays(text string) ([]Weekday, error) {
	var days []Weekday
	seen := make(map[Weekday]bool)
	for _, tok := range strings.Split(text, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		wd, ok := WeekdayFromName(tok)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDay, tok)
		}
		if !seen[wd] {
			seen[wd] = true
			days = append(days, wd)
		}
	}
	if len(days) == 0 {
		return append([]Weekday(nil), AllWeekdays...), nil
	}
	return days, nil
}
