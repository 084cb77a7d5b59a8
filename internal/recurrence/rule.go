// Package recurrence models when a planned amount recurs and converts between
// the canonical rule, the free-text phrases users type and the stored form.
package recurrence

import (
	"penny/internal/calendar"
)

// Kind is the top-level recurrence variant selected for a plan.
type Kind int

const (
	KindNone Kind = iota
	KindDaily
	KindMonthly
	KindCustom
)

func (k Kind) String() string {
	switch k {
	case KindDaily:
		return "Daily"
	case KindMonthly:
		return "Monthly"
	case KindCustom:
		return "Custom"
	default:
		return "None"
	}
}

// ParseKind maps a stored or submitted recurrence column value to a Kind.
// Blank input is treated as None.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "", "None", "none":
		return KindNone, true
	case "Daily", "daily":
		return KindDaily, true
	case "Monthly", "monthly":
		return KindMonthly, true
	case "Custom", "custom":
		return KindCustom, true
	}
	return KindNone, false
}

// Weekday is a Monday-first day of the week (Monday=0 ... Sunday=6).
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// AllWeekdays is Monday through Sunday in order.
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func (w Weekday) String() string { return calendar.WeekdayName(int(w)) }

// Short returns the three letter label ("Mon").
func (w Weekday) Short() string {
	name := w.String()
	if len(name) < 3 {
		return name
	}
	return name[:3]
}

func (w Weekday) valid() bool { return w >= Monday && w <= Sunday }

// WeekdayFromName resolves a full or abbreviated weekday name in any case.
func WeekdayFromName(name string) (Weekday, bool) {
	i, ok := calendar.WeekdayIndex(name)
	return Weekday(i), ok
}

// DayOfMonth is the due day of a Monthly rule: an ordinal day or the last day.
type DayOfMonth struct {
	Day  int
	Last bool
}

// LastDay is the due value "last".
var LastDay = DayOfMonth{Last: true}

// Rule is the canonical recurrence of a plan. Only the fields belonging to
// Kind are meaningful: Weekdays for Daily, Due for Monthly, Pattern for Custom.
type Rule struct {
	Kind     Kind
	Weekdays []Weekday
	Due      DayOfMonth
	Pattern  Pattern
}

// None is the rule of a plan that does not recur.
func None() Rule { return Rule{Kind: KindNone} }

// Daily recurs on the given weekdays; an empty set means every day.
func Daily(days ...Weekday) Rule {
	if len(days) == 0 {
		days = append([]Weekday(nil), AllWeekdays...)
	}
	return Rule{Kind: KindDaily, Weekdays: days}
}

// Monthly recurs once a month on due.
func Monthly(due DayOfMonth) Rule { return Rule{Kind: KindMonthly, Due: due} }

// Custom wraps one of the custom patterns.
func Custom(p Pattern) Rule { return Rule{Kind: KindCustom, Pattern: p} }

// Equal reports whether two rules describe the same recurrence.
func (r Rule) Equal(o Rule) bool {
	if r.Kind != o.Kind {
		return false
	}
	switch r.Kind {
	case KindDaily:
		return equalWeekdays(r.Weekdays, o.Weekdays)
	case KindMonthly:
		return r.Due == o.Due
	case KindCustom:
		return patternsEqual(r.Pattern, o.Pattern)
	}
	return true
}

func equalWeekdays(a, b []Weekday) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Shape identifies a custom pattern variant. Its value is also the JSON type tag.
type Shape string

const (
	ShapeInterval            Shape = "interval"
	ShapeMultipleDays        Shape = "multiple_days"
	ShapeNthWeekday          Shape = "nth_weekday"
	ShapeLastWeekday         Shape = "last_weekday"
	ShapeNthWeek             Shape = "nth_week"
	ShapeWeekdayCombinations Shape = "weekday_combinations"
)

// Pattern is a custom recurrence. The set of implementations is closed.
type Pattern interface {
	Shape() Shape
	validate() error
}

// Interval recurs every Every days starting on StartDay of the month.
type Interval struct {
	Every    int
	StartDay int
}

// MultipleDays recurs on each listed day of the month.
type MultipleDays struct {
	Days []int
}

// NthWeekday recurs on the Nth given weekday of the month.
type NthWeekday struct {
	Nth     int
	Weekday Weekday
}

// LastWeekday recurs on the last given weekday of the month.
type LastWeekday struct {
	Weekday Weekday
}

// NthWeek recurs on Weekday every Every weeks starting on StartDay.
type NthWeek struct {
	Every    int
	Weekday  Weekday
	StartDay int
}

// WeekdayOrdinal is one "{nth} {weekday}" instance.
type WeekdayOrdinal struct {
	Nth     int
	Weekday Weekday
}

// WeekdayCombinations recurs on each of at least two ordinal weekdays.
type WeekdayCombinations struct {
	Instances []WeekdayOrdinal
}

func (Interval) Shape() Shape            { return ShapeInterval }
func (MultipleDays) Shape() Shape        { return ShapeMultipleDays }
func (NthWeekday) Shape() Shape          { return ShapeNthWeekday }
func (LastWeekday) Shape() Shape         { return ShapeLastWeekday }
func (NthWeek) Shape() Shape             { return ShapeNthWeek }
func (WeekdayCombinations) Shape() Shape { return ShapeWeekdayCombinations }

func inDayRange(n int) bool { return n >= 1 && n <= 31 }

func (p Interval) validate() error {
	if !inDayRange(p.Every) || !inDayRange(p.StartDay) {
		return newShapeError(ShapeInterval)
	}
	return nil
}

func (p MultipleDays) validate() error {
	if len(p.Days) == 0 {
		return newShapeError(ShapeMultipleDays)
	}
	seen := make(map[int]bool, len(p.Days))
	for _, d := range p.Days {
		if !inDayRange(d) || seen[d] {
			return newShapeError(ShapeMultipleDays)
		}
		seen[d] = true
	}
	return nil
}

func (p NthWeekday) validate() error {
	if p.Nth < 1 || p.Nth > 5 || !p.Weekday.valid() {
		return &ParseError{Shape: ShapeNthWeekday, Message: genericMessage}
	}
	return nil
}

func (p LastWeekday) validate() error {
	if !p.Weekday.valid() {
		return &ParseError{Shape: ShapeLastWeekday, Message: genericMessage}
	}
	return nil
}

func (p NthWeek) validate() error {
	if p.Every < 1 || p.Every > 4 || !inDayRange(p.StartDay) || !p.Weekday.valid() {
		return newShapeError(ShapeNthWeek)
	}
	return nil
}

func (p WeekdayCombinations) validate() error {
	if len(p.Instances) < 2 {
		return newShapeError(ShapeWeekdayCombinations)
	}
	for _, in := range p.Instances {
		if in.Nth < 1 || in.Nth > 5 || !in.Weekday.valid() {
			return newShapeError(ShapeWeekdayCombinations)
		}
	}
	return nil
}

func patternsEqual(a, b Pattern) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case MultipleDays:
		y, ok := b.(MultipleDays)
		if !ok || len(x.Days) != len(y.Days) {
			return false
		}
		for i := range x.Days {
			if x.Days[i] != y.Days[i] {
				return false
			}
		}
		return true
	case WeekdayCombinations:
		y, ok := b.(WeekdayCombinations)
		if !ok || len(x.Instances) != len(y.Instances) {
			return false
		}
		for i := range x.Instances {
			if x.Instances[i] != y.Instances[i] {
				return false
			}
		}
		return true
	}
	return a == b
}
