package models

import (
	"fmt"
	"time"
)

// Time-of-day values are naive local wall-clock "HH:MM" strings for a single
// location. They are kept as strings at rest and converted to minutes since
// midnight only while calculating.

// ParseTimeOfDay parses a strict 24h "HH:MM" string into minutes since
// midnight. The second return value is false for malformed or out-of-range
// input.
func ParseTimeOfDay(s string) (int, bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, false
	}

	hours := s[0:2]
	minutes := s[3:5]
	if !isNumeric(hours) || !isNumeric(minutes) {
		return 0, false
	}

	h := parseNumber(hours)
	m := parseNumber(minutes)
	if h > 23 || m > 59 {
		return 0, false
	}

	return h*60 + m, true
}

// MinutesBetween returns end minus start in minutes, clamped to zero when the
// end precedes the start. It does not handle overnight wraparound: callers
// that need it add a full day to the end themselves.
func MinutesBetween(start, end string) (int, bool) {
	s, ok := ParseTimeOfDay(start)
	if !ok {
		return 0, false
	}
	e, ok := ParseTimeOfDay(end)
	if !ok {
		return 0, false
	}

	if e < s {
		return 0, true
	}
	return e - s, true
}

// CeilToHours rounds a minute count up to whole hours. Non-positive input
// yields 0.
func CeilToHours(minutes int) int {
	if minutes <= 0 {
		return 0
	}
	return (minutes + 59) / 60
}

// CombineDateAndTime builds a concrete timestamp from a YYYY-MM-DD date and a
// HH:MM time of day. The second return value is false when either part fails
// to parse.
func CombineDateAndTime(isoDate, timeOfDay string) (time.Time, bool) {
	day, err := ParseDate(isoDate)
	if err != nil {
		return time.Time{}, false
	}

	minutes, ok := ParseTimeOfDay(timeOfDay)
	if !ok {
		return time.Time{}, false
	}

	return day.Add(time.Duration(minutes) * time.Minute), true
}

// FormatTimeOfDay converts minutes since midnight back to "HH:MM", clamping
// into a single day.
func FormatTimeOfDay(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	if minutes >= 24*60 {
		minutes = 24*60 - 1
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// DateRange represents a range of dates
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// FormatDate formats a time as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// ParseDate parses a YYYY-MM-DD string into a time.Time
func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse("2006-01-02", dateStr)
}

// AddDays shifts a YYYY-MM-DD date by the given number of days. Invalid dates
// come back unchanged.
func AddDays(isoDate string, days int) string {
	t, err := ParseDate(isoDate)
	if err != nil {
		return isoDate
	}
	return FormatDate(t.AddDate(0, 0, days))
}

// GetWeekStartingFrom returns a date range for a week starting from the given date
func GetWeekStartingFrom(date time.Time) DateRange {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := start.AddDate(0, 0, 6)
	return DateRange{Start: start, End: end}
}

// WeekDates expands a YYYY-MM-DD week start into its 7 consecutive dates.
func WeekDates(weekStart string) []string {
	dates := make([]string, 0, 7)
	start, err := ParseDate(weekStart)
	if err != nil {
		return dates
	}
	for i := 0; i < 7; i++ {
		dates = append(dates, FormatDate(start.AddDate(0, 0, i)))
	}
	return dates
}

// GetWeekdayNumber returns the weekday as a number (0=Monday, 6=Sunday)
func GetWeekdayNumber(t time.Time) int {
	weekday := int(t.Weekday())
	if weekday == 0 { // Sunday
		return 6
	}
	return weekday - 1
}

// IsValidTimeOfDay reports whether the string is a well-formed HH:MM value.
func IsValidTimeOfDay(s string) bool {
	_, ok := ParseTimeOfDay(s)
	return ok
}

// isNumeric checks if a string contains only digits
func isNumeric(s string) bool {
	for _, char := range s {
		if char < '0' || char > '9' {
			return false
		}
	}
	return len(s) > 0
}

// parseNumber converts a numeric string to int (assumes valid input)
func parseNumber(s string) int {
	result := 0
	for _, char := range s {
		result = result*10 + int(char-'0')
	}
	return result
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

// HasErrors returns true if there are validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// GetMessages returns all error messages as a slice of strings
func (ve ValidationErrors) GetMessages() []string {
	messages := make([]string, len(ve))
	for i, err := range ve {
		messages[i] = err.Message
	}
	return messages
}
