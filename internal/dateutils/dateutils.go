// Package dateutils provides the date operations used by the toll parser,
// holiday calendar and reports.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Date layouts used by toll exports and reports.
const (
	DateLayoutISO        = "2006-01-02"
	DateLayoutTollLong   = "2-Jan-2006"
	DateLayoutTollShort  = "2-Jan-06"
	DateLayoutTollExport = "02-Jan-2006"
)

// TollFormats lists the accepted day-month-abbreviation layouts, four-digit year first.
var TollFormats = []string{
	DateLayoutTollLong,
	DateLayoutTollShort,
}

var whitespace = regexp.MustCompile(`\s+`)

// CleanDateString trims and collapses whitespace.
func CleanDateString(dateStr string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ParseTollDate parses "25-Dec-2024" or "25-Dec-24" into a UTC date.
func ParseTollDate(dateStr string) (time.Time, error) {
	clean := CleanDateString(dateStr)
	for _, layout := range TollFormats {
		if t, err := time.Parse(layout, clean); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// DateOf returns the calendar date of t at UTC midnight.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ToISODate formats a date as YYYY-MM-DD.
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// IsWeekend checks if a date falls on a weekend (Saturday or Sunday).
func IsWeekend(date time.Time) bool {
	day := date.Weekday()
	return day == time.Saturday || day == time.Sunday
}

// IsChristmas reports whether date is December 25th of any year.
func IsChristmas(date time.Time) bool {
	return date.Month() == time.December && date.Day() == 25
}

// PreviousMonth returns the month before the one containing now.
func PreviousMonth(now time.Time) (int, time.Month) {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	last := firstOfMonth.AddDate(0, 0, -1)
	return last.Year(), last.Month()
}
