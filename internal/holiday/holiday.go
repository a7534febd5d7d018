// Package holiday computes the fixed set of US federal holidays used to
// decide whether a weekday counts as a work day.
package holiday

import (
	"sort"
	"sync"
	"time"

	"fjacquet/toll-expense/internal/dateutils"
)

// Holiday names.
const (
	NewYearsDay     = "New Year's Day"
	MLKDay          = "Martin Luther King Jr. Day"
	PresidentsDay   = "Presidents Day"
	MemorialDay     = "Memorial Day"
	Juneteenth      = "Juneteenth"
	IndependenceDay = "Independence Day"
	LaborDay        = "Labor Day"
	ColumbusDay     = "Columbus Day"
	VeteransDay     = "Veterans Day"
	Thanksgiving    = "Thanksgiving Day"
	ChristmasDay    = "Christmas Day"
)

// Count is the number of holidays in every calendar year.
const Count = 11

// Entry is one dated holiday.
type Entry struct {
	Date time.Time `json:"date" yaml:"date"`
	Name string    `json:"name" yaml:"name"`
}

// Calendar maps ISO dates to holiday names for a single year. It is
// immutable once built.
type Calendar struct {
	year  int
	dates map[string]string
}

// New computes the holiday calendar for year. Observed-day shifts for
// holidays falling on a weekend are not applied.
func New(year int) *Calendar {
	entries := []Entry{
		{fixed(year, time.January, 1), NewYearsDay},
		{NthWeekday(year, time.January, time.Monday, 3), MLKDay},
		{NthWeekday(year, time.February, time.Monday, 3), PresidentsDay},
		{LastWeekday(year, time.May, time.Monday), MemorialDay},
		{fixed(year, time.June, 19), Juneteenth},
		{fixed(year, time.July, 4), IndependenceDay},
		{NthWeekday(year, time.September, time.Monday, 1), LaborDay},
		{NthWeekday(year, time.October, time.Monday, 2), ColumbusDay},
		{fixed(year, time.November, 11), VeteransDay},
		{NthWeekday(year, time.November, time.Thursday, 4), Thanksgiving},
		{fixed(year, time.December, 25), ChristmasDay},
	}

	dates := make(map[string]string, len(entries))
	for _, e := range entries {
		dates[dateutils.ToISODate(e.Date)] = e.Name
	}
	return &Calendar{year: year, dates: dates}
}

// Year returns the calendar's year.
func (c *Calendar) Year() int { return c.year }

// Len returns the number of holidays.
func (c *Calendar) Len() int { return len(c.dates) }

// Lookup returns the holiday name for date.
func (c *Calendar) Lookup(date time.Time) (string, bool) {
	name, ok := c.dates[dateutils.ToISODate(dateutils.DateOf(date))]
	return name, ok
}

// IsHoliday reports whether date is a holiday in this calendar.
func (c *Calendar) IsHoliday(date time.Time) bool {
	_, ok := c.Lookup(date)
	return ok
}

// Entries returns the holidays sorted by date.
func (c *Calendar) Entries() []Entry {
	entries := make([]Entry, 0, len(c.dates))
	for iso, name := range c.dates {
		d, _ := time.Parse(dateutils.DateLayoutISO, iso)
		entries = append(entries, Entry{Date: d, Name: name})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
	return entries
}

// IsChristmas is the standalone December 25th rule. It always agrees with
// the ChristmasDay entry of New(year).
func IsChristmas(date time.Time) bool {
	return dateutils.IsChristmas(date)
}

// NthWeekday returns the n-th (1-based) occurrence of weekday in month.
func NthWeekday(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	first := fixed(year, month, 1)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	return first.AddDate(0, 0, offset+7*(n-1))
}

// LastWeekday returns the last occurrence of weekday in month.
func LastWeekday(year int, month time.Month, weekday time.Weekday) time.Time {
	last := fixed(year, month+1, 0)
	offset := (int(last.Weekday()) - int(weekday) + 7) % 7
	return last.AddDate(0, 0, -offset)
}

func fixed(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Set lazily builds one Calendar per year so records spanning a year
// boundary are checked against their own year. Safe for concurrent use.
type Set struct {
	mu        sync.Mutex
	calendars map[int]*Calendar
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{calendars: make(map[int]*Calendar)}
}

// For returns the calendar for year, building it on first use.
func (s *Set) For(year int) *Calendar {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.calendars[year]; ok {
		return c
	}
	c := New(year)
	s.calendars[year] = c
	return c
}

// Lookup returns the holiday name for date using that date's year.
func (s *Set) Lookup(date time.Time) (string, bool) {
	return s.For(date.Year()).Lookup(date)
}
