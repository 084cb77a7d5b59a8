// Package calendar holds the small amount of date arithmetic the planner
// needs: month lengths, ordinal day labels and weekday/month name lookups.
package calendar

import (
	"strconv"
	"strings"
	"time"
)

var monthLengths = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// IsLeap reports whether year is a Gregorian leap year.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days of month in year.
// Out of range months return 31, the widest month.
func DaysInMonth(month time.Month, year int) int {
	if month < time.January || month > time.December {
		return 31
	}
	if month == time.February && IsLeap(year) {
		return 29
	}
	return monthLengths[month-1]
}

// OrdinalSuffix renders day with its English ordinal suffix ("1st", "12th", "23rd").
func OrdinalSuffix(day int) string {
	suffix := "th"
	if n := day % 100; n < 11 || n > 20 {
		switch day % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(day) + suffix
}

var weekdayNames = [7]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// WeekdayIndex maps a weekday name to its Monday-first index (Monday=0 ... Sunday=6).
// Full names and three letter abbreviations are accepted in any case.
func WeekdayIndex(name string) (int, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if len(name) < 3 {
		return 0, false
	}
	for i, full := range weekdayNames {
		if name == full || name == full[:3] {
			return i, true
		}
	}
	return 0, false
}

// WeekdayName returns the capitalised full name for a Monday-first index.
func WeekdayName(index int) string {
	if index < 0 || index > 6 {
		return ""
	}
	n := weekdayNames[index]
	return strings.ToUpper(n[:1]) + n[1:]
}

// MondayIndex converts a time.Weekday (Sunday=0) to the Monday-first index.
func MondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// MonthByName resolves an English month name ("March", "mar") to a time.Month.
func MonthByName(name string) (time.Month, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if len(name) < 3 {
		return 0, false
	}
	for m := time.January; m <= time.December; m++ {
		full := strings.ToLower(m.String())
		if name == full || name == full[:3] {
			return m, true
		}
	}
	return 0, false
}
