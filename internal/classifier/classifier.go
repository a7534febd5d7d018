// Package classifier decides whether a toll transaction was incurred during
// work travel. Reports and receipt filtering both go through Classifier so
// the business rules live in one place.
package classifier

import (
	"fmt"
	"time"

	"fjacquet/toll-expense/internal/dateutils"
	"fjacquet/toll-expense/internal/holiday"
	"fjacquet/toll-expense/internal/models"
)

// WorkWindow is the inclusive time-of-day range counted as work travel.
type WorkWindow struct {
	Start models.TimeOfDay `json:"start" yaml:"start"`
	End   models.TimeOfDay `json:"end" yaml:"end"`
}

// DefaultWorkWindow is 08:00:00-20:00:00.
var DefaultWorkWindow = WorkWindow{
	Start: models.NewTimeOfDay(8, 0, 0),
	End:   models.NewTimeOfDay(20, 0, 0),
}

// NewWorkWindow validates and builds a window.
func NewWorkWindow(start, end models.TimeOfDay) (WorkWindow, error) {
	if !start.Valid() || !end.Valid() {
		return WorkWindow{}, fmt.Errorf("work window bounds must be within one day")
	}
	if end < start {
		return WorkWindow{}, fmt.Errorf("work window end %s is before start %s", end, start)
	}
	return WorkWindow{Start: start, End: end}, nil
}

// ParseWorkWindow parses HH:MM:SS bounds.
func ParseWorkWindow(start, end string) (WorkWindow, error) {
	s, err := models.ParseTimeOfDay(start)
	if err != nil {
		return WorkWindow{}, err
	}
	e, err := models.ParseTimeOfDay(end)
	if err != nil {
		return WorkWindow{}, err
	}
	return NewWorkWindow(s, e)
}

// Contains reports whether t lies within the window, bounds included.
func (w WorkWindow) Contains(t models.TimeOfDay) bool {
	return t >= w.Start && t <= w.End
}

// String renders the window as used in report headings, e.g. "8AM-8PM".
func (w WorkWindow) String() string {
	return clock(w.Start) + "-" + clock(w.End)
}

func clock(t models.TimeOfDay) string {
	h := t.Hour()
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	if h%12 == 0 {
		h = 12
	} else {
		h %= 12
	}
	if t.Minute() == 0 && t.Second() == 0 {
		return fmt.Sprintf("%d%s", h, suffix)
	}
	return fmt.Sprintf("%d:%02d%s", h, t.Minute(), suffix)
}

// Classifier applies the weekend, Christmas, holiday and work-window rules.
type Classifier struct {
	holidays *holiday.Set
	window   WorkWindow
}

// New creates a Classifier. A nil set gets a fresh one.
func New(holidays *holiday.Set, window WorkWindow) *Classifier {
	if holidays == nil {
		holidays = holiday.NewSet()
	}
	return &Classifier{holidays: holidays, window: window}
}

// Window returns the configured work window.
func (c *Classifier) Window() WorkWindow {
	return c.window
}

// Holidays returns the holiday set in use.
func (c *Classifier) Holidays() *holiday.Set {
	return c.holidays
}

// Decide returns the category and reason for a date and time. The reason is
// the first match of weekend, Christmas, holiday, outside work hours.
func (c *Classifier) Decide(date time.Time, t models.TimeOfDay) (models.Category, models.Reason, string) {
	if dateutils.IsWeekend(date) {
		return models.NonExpensable, models.ReasonWeekend, ""
	}
	name, isHoliday := c.holidays.Lookup(date)
	if holiday.IsChristmas(date) {
		if name == "" {
			name = models.ChristmasLabel
		}
		return models.NonExpensable, models.ReasonChristmas, name
	}
	if isHoliday {
		return models.NonExpensable, models.ReasonHoliday, name
	}
	if !c.window.Contains(t) {
		return models.NonExpensable, models.ReasonOutsideWorkHours, ""
	}
	return models.Expensable, models.ReasonNone, ""
}

// IsExpensable is the predicate shared by reporting and receipt filtering.
func (c *Classifier) IsExpensable(date time.Time, t models.TimeOfDay) bool {
	category, _, _ := c.Decide(date, t)
	return category == models.Expensable
}

// Classify classifies a single record.
func (c *Classifier) Classify(record models.TransactionRecord) models.ClassificationResult {
	category, reason, name := c.Decide(record.Date, record.Time)
	return models.ClassificationResult{
		Record:      record,
		Category:    category,
		Reason:      reason,
		HolidayName: name,
	}
}

// ClassifyAll classifies records in order.
func (c *Classifier) ClassifyAll(records []models.TransactionRecord) []models.ClassificationResult {
	results := make([]models.ClassificationResult, len(records))
	for i, r := range records {
		results[i] = c.Classify(r)
	}
	return results
}
