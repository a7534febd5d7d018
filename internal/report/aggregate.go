// Package report aggregates classified toll transactions and renders the
// monthly expense report.
package report

import (
	"sort"
	"time"

	"fjacquet/toll-expense/internal/classifier"
	"fjacquet/toll-expense/internal/fileutils"
	"fjacquet/toll-expense/internal/logging"
	"fjacquet/toll-expense/internal/models"

	"github.com/shopspring/decimal"
)

// Label identifies the month a report covers.
type Label struct {
	Month string `json:"month" yaml:"month"`
	Year  string `json:"year" yaml:"year"`
}

// UnknownLabel is used when the source file name carries no month.
var UnknownLabel = Label{Month: fileutils.UnknownLabel, Year: fileutils.UnknownLabel}

// LabelFromPath derives the label from a MM_YYYY.csv file name.
func LabelFromPath(path string) Label {
	month, year := fileutils.MonthYearLabel(path)
	return Label{Month: month, Year: year}
}

// String renders "January 2025".
func (l Label) String() string {
	return l.Month + " " + l.Year
}

// Report is the aggregated view of one month of toll transactions.
type Report struct {
	Label      Label  `json:"label" yaml:"label"`
	WorkWindow string `json:"work_window" yaml:"work_window"`

	Expensable      []models.ClassificationResult `json:"expensable" yaml:"expensable"`
	DailySummary    models.DailySummary           `json:"daily_summary" yaml:"daily_summary"`
	ExpensableDays  int                           `json:"expensable_days" yaml:"expensable_days"`
	ExpensableTotal decimal.Decimal               `json:"expensable_total" yaml:"expensable_total"`
	AveragePerDay   decimal.Decimal               `json:"average_per_day" yaml:"average_per_day"`

	NonExpensable      []models.ClassificationResult `json:"non_expensable" yaml:"non_expensable"`
	NonExpensableCount int                           `json:"non_expensable_count" yaml:"non_expensable_count"`
	NonExpensableTotal decimal.Decimal               `json:"non_expensable_total" yaml:"non_expensable_total"`

	Diagnostics []logging.LogEntry `json:"-" yaml:"-"`
}

// Aggregate builds a Report from classified results. Both listings are
// sorted by (date, time); rows with equal keys keep their input order.
func Aggregate(results []models.ClassificationResult, label Label, window classifier.WorkWindow) *Report {
	r := &Report{
		Label:              label,
		WorkWindow:         window.String(),
		DailySummary:       models.NewDailySummary(),
		ExpensableTotal:    decimal.Zero,
		AveragePerDay:      decimal.Zero,
		NonExpensableTotal: decimal.Zero,
	}

	days := make(map[time.Time]struct{})
	for _, res := range results {
		if res.IsExpensable() {
			r.Expensable = append(r.Expensable, res)
			r.DailySummary.Add(res.Record.Weekday(), res.Record.Amount)
			r.ExpensableTotal = r.ExpensableTotal.Add(res.Record.Amount)
			days[res.Record.Date] = struct{}{}
			continue
		}
		r.NonExpensable = append(r.NonExpensable, res)
		r.NonExpensableTotal = r.NonExpensableTotal.Add(res.Record.Amount)
	}

	sortResults(r.Expensable)
	sortResults(r.NonExpensable)

	r.ExpensableDays = len(days)
	r.NonExpensableCount = len(r.NonExpensable)
	if r.ExpensableDays > 0 {
		r.AveragePerDay = r.ExpensableTotal.Div(decimal.NewFromInt(int64(r.ExpensableDays)))
	}
	return r
}

// ExpensableRecords returns the records of the expensable listing.
func (r *Report) ExpensableRecords() []models.TransactionRecord {
	records := make([]models.TransactionRecord, len(r.Expensable))
	for i, res := range r.Expensable {
		records[i] = res.Record
	}
	return records
}

func sortResults(results []models.ClassificationResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Record.Before(results[j].Record)
	})
}
