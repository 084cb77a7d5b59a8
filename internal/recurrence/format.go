package recurrence

import (
	"fmt"
	"strconv"
	"strings"

	"penny/internal/calendar"
)

// Format renders r as the text shown to users. Custom rules render to text
// that Parse accepts and maps back to the same rule.
func Format(r Rule) string {
	switch r.Kind {
	case KindDaily:
		return FormatWeekdays(r.Weekdays)
	case KindMonthly:
		return FormatDue(r.Due)
	case KindCustom:
		return FormatPattern(r.Pattern)
	}
	return ""
}

// FormatDue renders a monthly due day ("10th", "last").
func FormatDue(d DayOfMonth) string {
	if d.Last {
		return "last"
	}
	if d.Day == 0 {
		return ""
	}
	return calendar.OrdinalSuffix(d.Day)
}

// FormatWeekdays renders a daily selection as "Mon,Tue,Wed".
func FormatWeekdays(days []Weekday) string {
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.Short()
	}
	return strings.Join(names, ",")
}

// FormatPattern renders a custom pattern as parseable text.
func FormatPattern(p Pattern) string {
	switch p := p.(type) {
	case Interval:
		return fmt.Sprintf("every %d days from %d", p.Every, p.StartDay)
	case MultipleDays:
		days := make([]string, len(p.Days))
		for i, d := range p.Days {
			days[i] = strconv.Itoa(d)
		}
		return "on days " + strings.Join(days, ", ")
	case NthWeekday:
		return calendar.OrdinalSuffix(p.Nth) + " " + p.Weekday.String()
	case LastWeekday:
		return "last " + p.Weekday.String()
	case NthWeek:
		return fmt.Sprintf("every %d weeks on %s from %d", p.Every, p.Weekday, p.StartDay)
	case WeekdayCombinations:
		parts := make([]string, len(p.Instances))
		for i, in := range p.Instances {
			parts[i] = calendar.OrdinalSuffix(in.Nth) + " " + in.Weekday.String()
		}
		return strings.Join(parts, " and ")
	}
	return ""
}
