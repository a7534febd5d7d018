package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"fjacquet/toll-expense/internal/dateutils"
	"fjacquet/toll-expense/internal/logging"
	"fjacquet/toll-expense/internal/models"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// Supported report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatXLSX = "xlsx"
)

// Workbook sheet names.
const (
	SheetExpensable    = "Expensable"
	SheetDailySummary  = "Daily Summary"
	SheetNonExpensable = "Non-Expensable"
)

var (
	heavyRule = strings.Repeat("=", 60)
	lightRule = strings.Repeat("-", 60)
)

// ReportGenerator renders reports in the supported formats.
type ReportGenerator struct {
	logger logging.Logger
}

// NewReportGenerator creates a new instance of ReportGenerator.
func NewReportGenerator(logger logging.Logger) *ReportGenerator {
	if logger == nil {
		logger = logging.Discard()
	}
	return &ReportGenerator{logger: logger.WithField("component", "ReportGenerator")}
}

// GenerateReport renders report in the given format (text, json, yaml or xlsx).
func (g *ReportGenerator) GenerateReport(report *Report, format string) ([]byte, error) {
	switch format {
	case FormatText, "":
		var buf bytes.Buffer
		if err := g.WriteText(&buf, report); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatJSON:
		return g.generateJSONReport(report)
	case FormatYAML:
		return g.generateYAMLReport(report)
	case FormatXLSX:
		return g.generateXLSXReport(report)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// WriteText writes the console report.
func (g *ReportGenerator) WriteText(w io.Writer, r *Report) error {
	tw := &textWriter{w: w}

	tw.line("")
	tw.line("Toll Expense Report for " + r.Label.String())
	tw.line(heavyRule)
	tw.line(fmt.Sprintf("EXPENSABLE TRANSACTIONS (Workdays %s):", r.WorkWindow))
	tw.line(lightRule)
	for _, res := range r.Expensable {
		tw.line(transactionLine(res.Record))
	}

	tw.line("")
	tw.line("EXPENSABLE DAILY SUMMARY:")
	tw.line(lightRule)
	for _, wd := range models.WorkWeek {
		day := r.DailySummary.Get(wd)
		tw.line(fmt.Sprintf("%s: %s (%d transactions)", day.Weekday, models.FormatUSD(day.Total), day.Count))
	}

	tw.line("")
	tw.line("EXPENSABLE SUMMARY:")
	tw.line(lightRule)
	tw.line(fmt.Sprintf("Number of days with expensable transactions: %d", r.ExpensableDays))
	tw.line("Total work week expenses: " + models.FormatUSD(r.ExpensableTotal))
	tw.line("Average cost per day: " + models.FormatUSD(r.AveragePerDay))

	tw.line("")
	tw.line("NON-EXPENSABLE TRANSACTIONS:")
	tw.line(heavyRule)
	tw.line("Transactions outside work hours, weekends, and holidays:")
	for _, res := range r.NonExpensable {
		line := transactionLine(res.Record)
		if label := res.Label(); label != "" {
			line += " " + label
		}
		tw.line(line)
	}

	tw.line("")
	tw.line("NON-EXPENSABLE SUMMARY:")
	tw.line(lightRule)
	tw.line(fmt.Sprintf("Total non-expensable transactions: %d", r.NonExpensableCount))
	tw.line("Total non-expensable amount: " + models.FormatUSD(r.NonExpensableTotal))
	tw.line(heavyRule)

	if tw.err != nil {
		g.logger.WithError(tw.err).Error("Failed to write text report")
		return fmt.Errorf("failed to write text report: %w", tw.err)
	}
	return nil
}

func transactionLine(rec models.TransactionRecord) string {
	return fmt.Sprintf("%s, %s, %s: %s - %s",
		rec.Weekday(), dateutils.ToISODate(rec.Date), rec.Time, models.FormatUSD(rec.Amount), rec.Location)
}

type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) line(s string) {
	if t.err != nil {
		return
	}
	_, t.err = io.WriteString(t.w, s+"\n")
}

// generateJSONReport generates a report in JSON format.
func (g *ReportGenerator) generateJSONReport(report *Report) ([]byte, error) {
	jsonReport, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return jsonReport, nil
}

// generateYAMLReport generates a report in YAML format.
func (g *ReportGenerator) generateYAMLReport(report *Report) ([]byte, error) {
	yamlReport, err := yaml.Marshal(report)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return yamlReport, nil
}

// generateXLSXReport builds a workbook with one sheet per report section.
func (g *ReportGenerator) generateXLSXReport(r *Report) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			g.logger.WithError(err).Warn("Failed to close workbook")
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), SheetExpensable); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	for _, name := range []string{SheetDailySummary, SheetNonExpensable} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	header := []interface{}{"Weekday", "Date", "Time", "Amount", "Location", "Toll Type"}
	rows := [][]interface{}{header}
	for _, res := range r.Expensable {
		rows = append(rows, resultRow(res))
	}
	rows = append(rows, []interface{}{"", "", "", r.ExpensableTotal.InexactFloat64(), "Total", ""})
	if err := writeRows(f, SheetExpensable, rows); err != nil {
		return nil, err
	}

	rows = [][]interface{}{{"Weekday", "Total", "Transactions"}}
	for _, day := range r.DailySummary {
		rows = append(rows, []interface{}{day.Weekday, day.Total.InexactFloat64(), day.Count})
	}
	rows = append(rows,
		[]interface{}{},
		[]interface{}{"Days with expensable transactions", r.ExpensableDays},
		[]interface{}{"Total work week expenses", r.ExpensableTotal.InexactFloat64()},
		[]interface{}{"Average cost per day", r.AveragePerDay.Round(2).InexactFloat64()},
	)
	if err := writeRows(f, SheetDailySummary, rows); err != nil {
		return nil, err
	}

	rows = [][]interface{}{append(append([]interface{}{}, header...), "Reason", "Holiday")}
	for _, res := range r.NonExpensable {
		rows = append(rows, append(resultRow(res), string(res.Reason), res.HolidayName))
	}
	rows = append(rows, []interface{}{"", "", "", r.NonExpensableTotal.InexactFloat64(), "Total", ""})
	if err := writeRows(f, SheetNonExpensable, rows); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		g.logger.WithError(err).Error("Failed to write workbook")
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func resultRow(res models.ClassificationResult) []interface{} {
	rec := res.Record
	return []interface{}{
		rec.Weekday().String(),
		dateutils.ToISODate(rec.Date),
		rec.Time.String(),
		rec.Amount.InexactFloat64(),
		rec.Location,
		rec.TollType,
	}
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
