package recurrence

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Pattern
	}{
		{"interval with start", "every 5 days from 3", Interval{Every: 5, StartDay: 3}},
		{"interval default start", "every 10 days", Interval{Every: 10, StartDay: 1}},
		{"interval singular", "Every 1 day", Interval{Every: 1, StartDay: 1}},
		{"multiple days", "on days 1, 15, 25", MultipleDays{Days: []int{1, 15, 25}}},
		{"multiple days tight commas", "on day 3,7", MultipleDays{Days: []int{3, 7}}},
		{"multiple days duplicates dropped", "on days 15, 1, 15", MultipleDays{Days: []int{15, 1}}},
		{"nth weekday", "2nd Tuesday", NthWeekday{Nth: 2, Weekday: Tuesday}},
		{"nth weekday words", "second tuesday", NthWeekday{Nth: 2, Weekday: Tuesday}},
		{"single ordinal matches nth weekday", "1st Monday", NthWeekday{Nth: 1, Weekday: Monday}},
		{"last weekday", "last Friday", LastWeekday{Weekday: Friday}},
		{"nth week", "every 2 weeks on Monday from 4", NthWeek{Every: 2, Weekday: Monday, StartDay: 4}},
		{"nth week default start", "every 1 week on sunday", NthWeek{Every: 1, Weekday: Sunday, StartDay: 1}},
		{"combinations", "1st Monday and 3rd Monday", WeekdayCombinations{Instances: []WeekdayOrdinal{{1, Monday}, {3, Monday}}}},
		{"combinations mixed forms", "first friday and 3rd wednesday and fifth sunday", WeekdayCombinations{Instances: []WeekdayOrdinal{{1, Friday}, {3, Wednesday}, {5, Sunday}}}},
		{"surrounding whitespace", "  LAST sunday  ", LastWeekday{Weekday: Sunday}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.in, err)
			}
			if got.Kind != KindCustom {
				t.Fatalf("Parse(%q) kind = %v, want Custom", tt.in, got.Kind)
			}
			if !got.Equal(Custom(tt.want)) {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.in, got.Pattern, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantShape Shape
		wantMsg   string
	}{
		{
			name:      "interval too large",
			in:        "every 40 days",
			wantShape: ShapeInterval,
			wantMsg:   "Invalid interval or start day. Use 'every N days [from M]' where N and M are 1–31.",
		},
		{
			name:      "interval zero",
			in:        "every 0 days from 2",
			wantShape: ShapeInterval,
		},
		{
			name:      "interval start out of range",
			in:        "every 3 days from 32",
			wantShape: ShapeInterval,
		},
		{
			name:      "interval overflow",
			in:        "every 99999999999999999999 days",
			wantShape: ShapeInterval,
		},
		{
			name:      "day out of range",
			in:        "on days 1, 99",
			wantShape: ShapeMultipleDays,
			wantMsg:   "Invalid days. Use 'on days 1, 15, 25' with days 1–31.",
		},
		{
			name:      "day zero",
			in:        "on day 0",
			wantShape: ShapeMultipleDays,
		},
		{
			name:      "week interval too large",
			in:        "every 5 weeks on monday",
			wantShape: ShapeNthWeek,
			wantMsg:   "Invalid week interval or start day. Use 'every N weeks on weekday [from M]' where N is 1–4 and M is 1–31.",
		},
		{
			name:    "unknown phrase",
			in:      "whenever I feel like it",
			wantMsg: genericMessage,
		},
		{
			name:    "empty",
			in:      "",
			wantMsg: genericMessage,
		},
		{
			name:    "shared weekday shorthand",
			in:      "1st and 3rd Monday",
			wantMsg: genericMessage,
		},
		{
			name:    "sixth ordinal",
			in:      "6th monday",
			wantMsg: genericMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.in)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Parse(%q) error = %v, want *ParseError", tt.in, err)
			}
			if pe.Shape != tt.wantShape {
				t.Errorf("Shape = %q, want %q", pe.Shape, tt.wantShape)
			}
			if tt.wantMsg != "" && pe.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", pe.Message, tt.wantMsg)
			}
		})
	}
}

func TestCombinationsNeedTwoInstances(t *testing.T) {
	g := grammars[len(grammars)-1]
	if g.shape != ShapeWeekdayCombinations {
		t.Fatalf("last grammar = %q", g.shape)
	}

	s := "1st monday"
	m := g.re.FindStringSubmatch(s)
	if m == nil {
		t.Fatalf("combination grammar should match a single instance")
	}
	_, err := extract(g.shape, s, m)
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Shape != ShapeWeekdayCombinations {
		t.Fatalf("extract single instance error = %v, want combinations ParseError", err)
	}
	if pe.Message != "Invalid weekday combinations. Use '1st and 3rd Monday' or similar with at least two instances." {
		t.Errorf("Message = %q", pe.Message)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	patterns := []Pattern{
		Interval{Every: 5, StartDay: 3},
		Interval{Every: 31, StartDay: 31},
		MultipleDays{Days: []int{1, 15, 25}},
		MultipleDays{Days: []int{7}},
		NthWeekday{Nth: 1, Weekday: Monday},
		NthWeekday{Nth: 2, Weekday: Tuesday},
		NthWeekday{Nth: 3, Weekday: Wednesday},
		NthWeekday{Nth: 5, Weekday: Sunday},
		LastWeekday{Weekday: Friday},
		NthWeek{Every: 2, Weekday: Monday, StartDay: 4},
		NthWeek{Every: 4, Weekday: Saturday, StartDay: 1},
		WeekdayCombinations{Instances: []WeekdayOrdinal{{1, Monday}, {3, Monday}}},
		WeekdayCombinations{Instances: []WeekdayOrdinal{{2, Thursday}, {4, Friday}, {5, Saturday}}},
	}

	for _, p := range patterns {
		text := FormatPattern(p)
		t.Run(text, func(t *testing.T) {
			got, err := Parse(text)
			if err != nil {
				t.Fatalf("Parse(Format(%#v)) error = %v", p, err)
			}
			if !got.Equal(Custom(p)) {
				t.Errorf("round trip of %#v via %q = %#v", p, text, got.Pattern)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		rule Rule
		want string
	}{
		{None(), ""},
		{Daily(Monday, Tuesday), "Mon,Tue"},
		{Daily(), "Mon,Tue,Wed,Thu,Fri,Sat,Sun"},
		{Monthly(DayOfMonth{Day: 10}), "10th"},
		{Monthly(DayOfMonth{Day: 22}), "22nd"},
		{Monthly(LastDay), "last"},
		{Custom(Interval{Every: 5, StartDay: 3}), "every 5 days from 3"},
		{Custom(WeekdayCombinations{Instances: []WeekdayOrdinal{{1, Monday}, {3, Monday}}}), "1st Monday and 3rd Monday"},
		{Custom(NthWeek{Every: 2, Weekday: Monday, StartDay: 4}), "every 2 weeks on Monday from 4"},
	}
	for _, tt := range tests {
		if got := Format(tt.rule); got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.rule.Kind, got, tt.want)
		}
	}
}
