// Package tollparser turns toll transponder exports into clean transaction
// records. Exports start with free-form account text; the transaction table
// begins at the line carrying the column header signature.
package tollparser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"fjacquet/toll-expense/internal/dateutils"
	"fjacquet/toll-expense/internal/logging"
	"fjacquet/toll-expense/internal/models"
	"fjacquet/toll-expense/internal/parsererror"

	"github.com/gocarina/gocsv"
)

// HeaderSignature is the column header that starts the transaction table.
const HeaderSignature = "Transponder Number,Date,Time,Posting Date,Location,Amount,Toll Type"

// Column names.
const (
	ColTransponder = "Transponder Number"
	ColDate        = "Date"
	ColTime        = "Time"
	ColPostingDate = "Posting Date"
	ColLocation    = "Location"
	ColAmount      = "Amount"
	ColTollType    = "Toll Type"
)

// Row is one raw table row as decoded by gocsv.
type Row struct {
	TransponderNumber string `csv:"Transponder Number"`
	Date              string `csv:"Date"`
	Time              string `csv:"Time"`
	PostingDate       string `csv:"Posting Date"`
	Location          string `csv:"Location"`
	Amount            string `csv:"Amount"`
	TollType          string `csv:"Toll Type"`
}

// Result is the outcome of parsing one export.
type Result struct {
	Records     []models.TransactionRecord
	Dropped     int
	Diagnostics []logging.LogEntry
}

// Parser parses toll exports.
type Parser struct {
	logger logging.Logger
}

// NewParser creates a Parser. A nil logger discards output.
func NewParser(logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Parser{logger: logger}
}

// ParseFile reads and parses the export at path.
func (p *Parser) ParseFile(path string) (*Result, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- CLI tool reads user-selected exports
	if err != nil {
		return nil, &parsererror.FileError{FilePath: path, Err: err}
	}
	res, err := p.parse(data, p.logger.WithField(logging.FieldFile, path))
	if err != nil {
		return nil, parsererror.WithPath(err, path)
	}
	return res, nil
}

// Parse parses an export from r.
func (p *Parser) Parse(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &parsererror.FileError{Err: err}
	}
	return p.parse(data, p.logger)
}

// ValidateFormat reports whether path contains the header signature.
func (p *Parser) ValidateFormat(path string) (bool, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- CLI tool reads user-selected exports
	if err != nil {
		return false, &parsererror.FileError{FilePath: path, Err: err}
	}
	_, ok := findHeader(splitLines(data))
	return ok, nil
}

func (p *Parser) parse(data []byte, logger logging.Logger) (*Result, error) {
	rec := logging.NewRecorder(logger)

	lines := splitLines(data)
	idx, ok := findHeader(lines)
	if !ok {
		return nil, &parsererror.HeaderNotFoundError{Header: HeaderSignature}
	}
	rec.Debug("Found transaction header", logging.F(logging.FieldLine, idx+1))

	table := normalizeHeader(lines[idx]) + "\n" + strings.Join(lines[idx+1:], "\n")
	rows, err := decodeRows(table)
	if err != nil {
		return nil, fmt.Errorf("error reading transaction table: %w", err)
	}

	res := &Result{Records: make([]models.TransactionRecord, 0, len(rows))}
	for i, row := range rows {
		record, err := convertRow(i+1, row)
		if err != nil {
			res.Dropped++
			rec.WithError(err).Debug("Dropped row", logging.F(logging.FieldRow, i+1))
			continue
		}
		res.Records = append(res.Records, record)
	}

	rec.Info("Parsed toll transactions",
		logging.F(logging.FieldCount, len(res.Records)),
		logging.F("dropped", res.Dropped))
	res.Diagnostics = rec.Entries()
	return res, nil
}

func decodeRows(table string) ([]*Row, error) {
	reader := csv.NewReader(strings.NewReader(table))
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var rows []*Row
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, err
	}
	return rows, nil
}

// Clean strips wrapping quotes and whitespace from a field.
func Clean(field string) string {
	return strings.Trim(field, "\" \t\r")
}

// IsPlaceholder reports whether a field consists solely of dashes.
func IsPlaceholder(field string) bool {
	return field != "" && strings.Trim(field, "-") == ""
}

// ConvertFields converts the seven cleaned columns of a row into a record.
// row is used for error reporting only.
func ConvertFields(row int, fields []string) (models.TransactionRecord, error) {
	if len(fields) < 7 {
		return models.TransactionRecord{}, &parsererror.RowParseError{
			Row: row, Field: "columns", Value: fmt.Sprint(len(fields)), Err: errors.New("expected 7 columns"),
		}
	}
	return convertRow(row, &Row{
		TransponderNumber: fields[0],
		Date:              fields[1],
		Time:              fields[2],
		PostingDate:       fields[3],
		Location:          fields[4],
		Amount:            fields[5],
		TollType:          fields[6],
	})
}

func convertRow(n int, row *Row) (models.TransactionRecord, error) {
	dateStr, timeStr, amountStr := Clean(row.Date), Clean(row.Time), Clean(row.Amount)

	for _, f := range []struct{ name, value string }{
		{ColDate, dateStr}, {ColTime, timeStr}, {ColAmount, amountStr},
	} {
		if IsPlaceholder(f.value) {
			return models.TransactionRecord{}, &parsererror.RowParseError{
				Row: n, Field: f.name, Value: f.value, Err: errors.New("placeholder value"),
			}
		}
	}

	amount, err := models.ParseAmount(amountStr)
	if err != nil {
		return models.TransactionRecord{}, &parsererror.RowParseError{Row: n, Field: ColAmount, Value: amountStr, Err: err}
	}
	date, err := dateutils.ParseTollDate(dateStr)
	if err != nil {
		return models.TransactionRecord{}, &parsererror.RowParseError{Row: n, Field: ColDate, Value: dateStr, Err: err}
	}
	tod, err := models.ParseTimeOfDay(timeStr)
	if err != nil {
		return models.TransactionRecord{}, &parsererror.RowParseError{Row: n, Field: ColTime, Value: timeStr, Err: err}
	}

	record := models.TransactionRecord{
		TransponderID: Clean(row.TransponderNumber),
		Date:          date,
		Time:          tod,
		Location:      Clean(row.Location),
		Amount:        amount,
		TollType:      Clean(row.TollType),
	}
	if posting, err := dateutils.ParseTollDate(Clean(row.PostingDate)); err == nil {
		record.PostingDate = &posting
	}
	return record, nil
}

func splitLines(data []byte) []string {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	lines := strings.Split(string(data), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	return lines
}

// ContainsHeader reports whether line carries the header signature. Quotes
// and spaces around the commas are ignored.
func ContainsHeader(line string) bool {
	return strings.Contains(normalizeHeader(line), HeaderSignature)
}

func findHeader(lines []string) (int, bool) {
	for i, line := range lines {
		if ContainsHeader(line) {
			return i, true
		}
	}
	return -1, false
}

func normalizeHeader(line string) string {
	parts := strings.Split(line, ",")
	for i, p := range parts {
		parts[i] = Clean(p)
	}
	return strings.Join(parts, ",")
}
