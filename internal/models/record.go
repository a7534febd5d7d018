// Package models defines the toll transaction types shared by the parser,
// classifier, reporter and receipt rewriter.
package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRecord is one cleaned row of a toll export.
type TransactionRecord struct {
	TransponderID string          `json:"transponder_id" yaml:"transponder_id"`
	Date          time.Time       `json:"date" yaml:"date"`
	Time          TimeOfDay       `json:"time" yaml:"time"`
	PostingDate   *time.Time      `json:"posting_date,omitempty" yaml:"posting_date,omitempty"`
	Location      string          `json:"location" yaml:"location"`
	Amount        decimal.Decimal `json:"amount" yaml:"amount"`
	TollType      string          `json:"toll_type" yaml:"toll_type"`
}

// Weekday returns the weekday of the transaction date.
func (r TransactionRecord) Weekday() time.Weekday {
	return r.Date.Weekday()
}

// Before orders records by (date, time).
func (r TransactionRecord) Before(other TransactionRecord) bool {
	if !r.Date.Equal(other.Date) {
		return r.Date.Before(other.Date)
	}
	return r.Time < other.Time
}

// TimeOfDay is a wall-clock time expressed in seconds since midnight.
type TimeOfDay int

const secondsPerDay = 24 * 60 * 60

// NewTimeOfDay builds a TimeOfDay from its components.
func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay(hour*3600 + minute*60 + second)
}

// ParseTimeOfDay parses an HH:MM:SS value.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return NewTimeOfDay(t.Hour(), t.Minute(), t.Second()), nil
}

// Hour returns the hour component.
func (t TimeOfDay) Hour() int { return int(t) / 3600 }

// Minute returns the minute component.
func (t TimeOfDay) Minute() int { return int(t) % 3600 / 60 }

// Second returns the second component.
func (t TimeOfDay) Second() int { return int(t) % 60 }

// Valid reports whether t lies within a single day.
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < secondsPerDay
}

// String renders t as HH:MM:SS.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}

// MarshalText implements encoding.TextMarshaler so reports show HH:MM:SS.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TimeOfDay) UnmarshalText(b []byte) error {
	v, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
