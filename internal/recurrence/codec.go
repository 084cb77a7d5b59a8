package recurrence

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPattern is returned when a stored custom pattern cannot be decoded.
var ErrInvalidPattern = errors.New("invalid stored recurrence pattern")

type patternJSON struct {
	Type      Shape          `json:"type"`
	Interval  int            `json:"interval,omitempty"`
	StartDay  int            `json:"start_day,omitempty"`
	Days      []int          `json:"days,omitempty"`
	Nth       int            `json:"nth,omitempty"`
	Weekday   string         `json:"weekday,omitempty"`
	Instances []instanceJSON `json:"instances,omitempty"`
}

type instanceJSON struct {
	Weekday string `json:"weekday"`
	Nth     int    `json:"nth"`
}

func weekdayKey(w Weekday) string { return strings.ToLower(w.String()) }

// EncodePattern serializes a custom pattern to its JSON record,
// e.g. {"type":"interval","interval":5,"start_day":3}.
func EncodePattern(p Pattern) (string, error) {
	var rec patternJSON
	switch p := p.(type) {
	case Interval:
		rec = patternJSON{Type: ShapeInterval, Interval: p.Every, StartDay: p.StartDay}
	case MultipleDays:
		rec = patternJSON{Type: ShapeMultipleDays, Days: p.Days}
	case NthWeekday:
		rec = patternJSON{Type: ShapeNthWeekday, Nth: p.Nth, Weekday: weekdayKey(p.Weekday)}
	case LastWeekday:
		rec = patternJSON{Type: ShapeLastWeekday, Weekday: weekdayKey(p.Weekday)}
	case NthWeek:
		rec = patternJSON{Type: ShapeNthWeek, Interval: p.Every, Weekday: weekdayKey(p.Weekday), StartDay: p.StartDay}
	case WeekdayCombinations:
		rec = patternJSON{Type: ShapeWeekdayCombinations}
		for _, in := range p.Instances {
			rec.Instances = append(rec.Instances, instanceJSON{Weekday: weekdayKey(in.Weekday), Nth: in.Nth})
		}
	default:
		return "", fmt.Errorf("%w: unsupported pattern %T", ErrInvalidPattern, p)
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshal pattern: %w", err)
	}
	return string(b), nil
}

// DecodePattern parses a JSON record written by EncodePattern and checks its ranges.
func DecodePattern(data string) (Pattern, error) {
	var rec patternJSON
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}

	weekday := func(name string) (Weekday, error) {
		wd, ok := WeekdayFromName(name)
		if !ok {
			return 0, fmt.Errorf("%w: weekday %q", ErrInvalidPattern, name)
		}
		return wd, nil
	}

	var p Pattern
	switch rec.Type {
	case ShapeInterval:
		p = Interval{Every: rec.Interval, StartDay: defaultStart(rec.StartDay)}
	case ShapeMultipleDays:
		p = MultipleDays{Days: rec.Days}
	case ShapeNthWeekday:
		wd, err := weekday(rec.Weekday)
		if err != nil {
			return nil, err
		}
		p = NthWeekday{Nth: rec.Nth, Weekday: wd}
	case ShapeLastWeekday:
		wd, err := weekday(rec.Weekday)
		if err != nil {
			return nil, err
		}
		p = LastWeekday{Weekday: wd}
	case ShapeNthWeek:
		wd, err := weekday(rec.Weekday)
		if err != nil {
			return nil, err
		}
		p = NthWeek{Every: rec.Interval, Weekday: wd, StartDay: defaultStart(rec.StartDay)}
	case ShapeWeekdayCombinations:
		combo := WeekdayCombinations{}
		for _, in := range rec.Instances {
			wd, err := weekday(in.Weekday)
			if err != nil {
				return nil, err
			}
			combo.Instances = append(combo.Instances, WeekdayOrdinal{Nth: in.Nth, Weekday: wd})
		}
		p = combo
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidPattern, rec.Type)
	}
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	return p, nil
}

func defaultStart(d int) int {
	if d == 0 {
		return 1
	}
	return d
}

// EncodeRule splits a rule into the recurrence, due and custom_period columns.
func EncodeRule(r Rule) (recurrence, due, custom string, err error) {
	recurrence = r.Kind.String()
	switch r.Kind {
	case KindDaily:
		due = FormatWeekdays(r.Weekdays)
	case KindMonthly:
		due = FormatDue(r.Due)
	case KindCustom:
		custom, err = EncodePattern(r.Pattern)
		if err != nil {
			return "", "", "", err
		}
	}
	return recurrence, due, custom, nil
}

// DecodeRule rebuilds a rule from the stored column triple.
func DecodeRule(recurrence, due, custom string) (Rule, error) {
	kind, ok := ParseKind(recurrence)
	if !ok {
		return Rule{}, fmt.Errorf("%w: recurrence %q", ErrInvalidPattern, recurrence)
	}
	switch kind {
	case KindDaily:
		days, err := ParseWeekdays(due)
		if err != nil {
			return Rule{}, fmt.Errorf("decode daily rule: %w", err)
		}
		return Daily(days...), nil
	case KindMonthly:
		d, err := ParseDue(due, 31)
		if err != nil {
			return Rule{}, fmt.Errorf("decode monthly rule: %w", err)
		}
		return Monthly(d), nil
	case KindCustom:
		p, err := DecodePattern(custom)
		if err != nil {
			return Rule{}, fmt.Errorf("decode custom rule: %w", err)
		}
		return Custom(p), nil
	}
	return None(), nil
}
