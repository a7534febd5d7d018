// Package export writes the expensable subset of a report back to CSV in the
// toll export column layout, so the file can be re-read by tollparser.
package export

import (
	"fmt"

	"fjacquet/toll-expense/internal/dateutils"
	"fjacquet/toll-expense/internal/fileutils"
	"fjacquet/toll-expense/internal/models"
	"fjacquet/toll-expense/internal/report"

	"github.com/gocarina/gocsv"
)

// Row is one exported line.
type Row struct {
	TransponderNumber string `csv:"Transponder Number"`
	Date              string `csv:"Date"`
	Time              string `csv:"Time"`
	PostingDate       string `csv:"Posting Date"`
	Location          string `csv:"Location"`
	Amount            string `csv:"Amount"`
	TollType          string `csv:"Toll Type"`
	Weekday           string `csv:"Weekday"`
}

// NewRow converts a record to its exported form.
func NewRow(rec models.TransactionRecord) *Row {
	row := &Row{
		TransponderNumber: rec.TransponderID,
		Date:              rec.Date.Format(dateutils.DateLayoutTollExport),
		Time:              rec.Time.String(),
		Location:          rec.Location,
		Amount:            rec.Amount.StringFixed(2),
		TollType:          rec.TollType,
		Weekday:           rec.Weekday().String(),
	}
	if rec.PostingDate != nil {
		row.PostingDate = rec.PostingDate.Format(dateutils.DateLayoutTollExport)
	}
	return row
}

// MarshalExpensable renders records followed by a total row labelled totalLabel.
func MarshalExpensable(records []models.TransactionRecord, totalLabel string) ([]byte, error) {
	rows := make([]*Row, 0, len(records)+1)
	for _, rec := range records {
		rows = append(rows, NewRow(rec))
	}
	rows = append(rows, &Row{Location: totalLabel, Amount: models.Sum(records).StringFixed(2)})

	data, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal expensable rows: %w", err)
	}
	return data, nil
}

// ExpensablePath returns the expensable_<name> path next to src.
func ExpensablePath(src string) string {
	return fileutils.PrefixedPath(src, fileutils.ExpensablePrefix)
}

// WriteExpensableCSV writes the report's expensable listing to path.
func WriteExpensableCSV(path string, r *report.Report, totalLabel string) error {
	data, err := MarshalExpensable(r.ExpensableRecords(), totalLabel)
	if err != nil {
		return err
	}
	if err := fileutils.AtomicWriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
