package models

// Category is the expense category of a transaction.
type Category string

const (
	Expensable    Category = "expensable"
	NonExpensable Category = "non-expensable"
)

// Reason explains why a transaction is non-expensable.
type Reason string

const (
	ReasonNone             Reason = "none"
	ReasonWeekend          Reason = "weekend"
	ReasonHoliday          Reason = "holiday"
	ReasonChristmas        Reason = "christmas"
	ReasonOutsideWorkHours Reason = "outside_work_hours"
)

// ChristmasLabel is the label used when no calendar name is known for Dec 25.
const ChristmasLabel = "Christmas Day"

// ClassificationResult pairs a record with its category and reason.
// Expensable results always carry ReasonNone.
type ClassificationResult struct {
	Record      TransactionRecord `json:"record" yaml:"record"`
	Category    Category          `json:"category" yaml:"category"`
	Reason      Reason            `json:"reason" yaml:"reason"`
	HolidayName string            `json:"holiday_name,omitempty" yaml:"holiday_name,omitempty"`
}

// IsExpensable reports whether the result is in the Expensable category.
func (c ClassificationResult) IsExpensable() bool {
	return c.Category == Expensable
}

// Label returns the bracketed annotation printed next to holiday rows, or "".
func (c ClassificationResult) Label() string {
	switch c.Reason {
	case ReasonHoliday, ReasonChristmas:
		if c.HolidayName != "" {
			return "[" + c.HolidayName + "]"
		}
		return "[" + ChristmasLabel + "]"
	default:
		return ""
	}
}
