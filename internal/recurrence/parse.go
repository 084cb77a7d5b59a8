package recurrence

import (
	"regexp"
	"strconv"
	"strings"
)

const genericMessage = "Invalid custom recurrence. Use formats like 'every 5 days from 3', 'on days 1, 15', '2nd Tuesday', 'last Friday', 'every 2 weeks on Monday from 4', or '1st and 3rd Monday'."

// ParseError reports custom recurrence text that could not be turned into a
// rule. Message is meant to be shown to the user as is.
type ParseError struct {
	// Shape is the grammar that matched but failed validation; empty when
	// nothing matched.
	Shape   Shape
	Message string
}

func (e *ParseError) Error() string { return e.Message }

const (
	ordinalAlt = `1st|first|2nd|second|3rd|third|4th|fourth|5th|fifth`
	weekdayAlt = `monday|tuesday|wednesday|thursday|friday|saturday|sunday`
)

// grammar is one entry of the ordered dispatch table. Extraction and
// validation live in extract, keyed by shape.
type grammar struct {
	shape Shape
	re    *regexp.Regexp
	hint  string
}

var grammars = []grammar{
	{
		shape: ShapeInterval,
		re:    regexp.MustCompile(`^every\s+(\d+)\s+days?(?:\s+from\s+(\d+))?$`),
		hint:  "Invalid interval or start day. Use 'every N days [from M]' where N and M are 1–31.",
	},
	{
		shape: ShapeMultipleDays,
		re:    regexp.MustCompile(`^on\s+days?\s+(\d+(?:\s*,\s*\d+)*)$`),
		hint:  "Invalid days. Use 'on days 1, 15, 25' with days 1–31.",
	},
	{
		shape: ShapeNthWeekday,
		re:    regexp.MustCompile(`^(` + ordinalAlt + `)\s+(` + weekdayAlt + `)$`),
	},
	{
		shape: ShapeLastWeekday,
		re:    regexp.MustCompile(`^last\s+(` + weekdayAlt + `)$`),
	},
	{
		shape: ShapeNthWeek,
		re:    regexp.MustCompile(`^every\s+(\d+)\s+weeks?\s+on\s+(` + weekdayAlt + `)(?:\s+from\s+(\d+))?$`),
		hint:  "Invalid week interval or start day. Use 'every N weeks on weekday [from M]' where N is 1–4 and M is 1–31.",
	},
	{
		shape: ShapeWeekdayCombinations,
		re:    regexp.MustCompile(`^(?:(?:` + ordinalAlt + `)\s+(?:` + weekdayAlt + `)(?:\s+and\s+)?)+$`),
		hint:  "Invalid weekday combinations. Use '1st and 3rd Monday' or similar with at least two instances.",
	},
}

var ordinalInstance = regexp.MustCompile(`(` + ordinalAlt + `)\s+(` + weekdayAlt + `)`)

var ordinals = map[string]int{
	"1st": 1, "first": 1,
	"2nd": 2, "second": 2,
	"3rd": 3, "third": 3,
	"4th": 4, "fourth": 4,
	"5th": 5, "fifth": 5,
}

func newShapeError(shape Shape) *ParseError {
	for _, g := range grammars {
		if g.shape == shape && g.hint != "" {
			return &ParseError{Shape: shape, Message: g.hint}
		}
	}
	return &ParseError{Shape: shape, Message: genericMessage}
}

// Parse turns custom recurrence text such as "every 5 days from 3" or
// "1st monday and 3rd friday" into a Custom rule. Matching is case-insensitive
// and the first grammar that matches decides the outcome.
func Parse(text string) (Rule, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	for _, g := range grammars {
		m := g.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		p, err := extract(g.shape, s, m)
		if err != nil {
			return Rule{}, err
		}
		return Custom(p), nil
	}
	return Rule{}, &ParseError{Message: genericMessage}
}

func extract(shape Shape, s string, m []string) (Pattern, error) {
	var p Pattern
	switch shape {
	case ShapeInterval:
		every, ok1 := atoi(m[1])
		start, ok2 := optionalDay(m[2])
		if !ok1 || !ok2 {
			return nil, newShapeError(shape)
		}
		p = Interval{Every: every, StartDay: start}
	case ShapeMultipleDays:
		var days []int
		seen := make(map[int]bool)
		for _, tok := range strings.Split(m[1], ",") {
			d, ok := atoi(strings.TrimSpace(tok))
			if !ok {
				return nil, newShapeError(shape)
			}
			if !seen[d] {
				seen[d] = true
				days = append(days, d)
			}
		}
		p = MultipleDays{Days: days}
	case ShapeNthWeekday:
		wd, _ := WeekdayFromName(m[2])
		p = NthWeekday{Nth: ordinals[m[1]], Weekday: wd}
	case ShapeLastWeekday:
		wd, _ := WeekdayFromName(m[1])
		p = LastWeekday{Weekday: wd}
	case ShapeNthWeek:
		every, ok1 := atoi(m[1])
		start, ok2 := optionalDay(m[3])
		if !ok1 || !ok2 {
			return nil, newShapeError(shape)
		}
		wd, _ := WeekdayFromName(m[2])
		p = NthWeek{Every: every, Weekday: wd, StartDay: start}
	case ShapeWeekdayCombinations:
		var instances []WeekdayOrdinal
		for _, in := range ordinalInstance.FindAllStringSubmatch(s, -1) {
			wd, _ := WeekdayFromName(in[2])
			instances = append(instances, WeekdayOrdinal{Nth: ordinals[in[1]], Weekday: wd})
		}
		p = WeekdayCombinations{Instances: instances}
	default:
		return nil, &ParseError{Message: genericMessage}
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	return n, err == nil
}

// optionalDay parses an omitted "from M" clause as day 1.
func optionalDay(s string) (int, bool) {
	if s == "" {
		return 1, true
	}
	return atoi(s)
}
