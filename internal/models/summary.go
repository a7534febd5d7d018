package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkWeek lists the weekdays reported in a DailySummary, in order.
var WorkWeek = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

// DayTotal is the expensable total for one weekday.
type DayTotal struct {
	Weekday string          `json:"weekday" yaml:"weekday"`
	Total   decimal.Decimal `json:"total" yaml:"total"`
	Count   int             `json:"count" yaml:"count"`
}

// DailySummary holds Monday..Friday totals; absent days are zero-filled.
type DailySummary []DayTotal

// NewDailySummary returns a zeroed summary for the work week.
func NewDailySummary() DailySummary {
	s := make(DailySummary, len(WorkWeek))
	for i, d := range WorkWeek {
		s[i] = DayTotal{Weekday: d.String(), Total: decimal.Zero}
	}
	return s
}

// Add accumulates amount on the given weekday. Weekend days are ignored.
func (s DailySummary) Add(day time.Weekday, amount decimal.Decimal) {
	for i := range s {
		if s[i].Weekday == day.String() {
			s[i].Total = s[i].Total.Add(amount)
			s[i].Count++
			return
		}
	}
}

// Get returns the total for a weekday name.
func (s DailySummary) Get(day time.Weekday) DayTotal {
	for _, d := range s {
		if d.Weekday == day.String() {
			return d
		}
	}
	return DayTotal{Weekday: day.String(), Total: decimal.Zero}
}
