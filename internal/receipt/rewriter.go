package receipt

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"fjacquet/toll-expense/internal/classifier"
	"fjacquet/toll-expense/internal/fileutils"
	"fjacquet/toll-expense/internal/logging"
	"fjacquet/toll-expense/internal/models"
	"fjacquet/toll-expense/internal/parsererror"
	"fjacquet/toll-expense/internal/tollparser"

	"github.com/shopspring/decimal"
)

// DefaultTotalLabel marks the synthesized total row.
const DefaultTotalLabel = "TOTAL EXPENSABLE"

const columnCount = 7

// Result summarizes one rewrite.
type Result struct {
	Kept           int
	Skipped        int
	Malformed      int
	Total          decimal.Decimal
	AlreadyTotaled bool
	Diagnostics    []logging.LogEntry
}

// Rewriter filters and totals receipt documents.
type Rewriter struct {
	classifier *classifier.Classifier
	prefix     string
	totalLabel string
	logger     logging.Logger
}

// NewRewriter creates a Rewriter. Rows are kept when their transponder starts
// with prefix; an empty prefix matches every row. An empty label falls back to
// DefaultTotalLabel.
func NewRewriter(c *classifier.Classifier, prefix, totalLabel string, logger logging.Logger) *Rewriter {
	if totalLabel == "" {
		totalLabel = DefaultTotalLabel
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Rewriter{classifier: c, prefix: prefix, totalLabel: totalLabel, logger: logger}
}

// TotalLabel returns the marker written in total rows.
func (rw *Rewriter) TotalLabel() string {
	return rw.totalLabel
}

// Prefix returns the transponder prefix; empty matches every row.
func (rw *Rewriter) Prefix() string {
	return rw.prefix
}

// Filter keeps the Vehicle Activity rows that match the transponder prefix and
// are expensable, then appends a total row. The header sections are copied
// unchanged.
func (rw *Rewriter) Filter(doc *Document) (*Document, *Result) {
	rec := logging.NewRecorder(rw.logger)
	out := doc.clone()
	out.Rows = nil

	res := &Result{Total: decimal.Zero}
	for i, row := range doc.Rows {
		record, ok := rw.parseRow(rec, i+1, row, res)
		if !ok {
			continue
		}
		if !rw.classifier.IsExpensable(record.Date, record.Time) {
			res.Skipped++
			continue
		}
		out.Rows = append(out.Rows, row)
		res.Kept++
		res.Total = res.Total.Add(record.Amount)
	}

	out.Rows = append(out.Rows, Row{Line: out.totalLine(rw.totalLabel, res.Total.StringFixed(2))})
	rec.Info("Filtered receipt",
		logging.F("kept", res.Kept),
		logging.F("skipped", res.Skipped),
		logging.F(logging.FieldTotal, res.Total.StringFixed(2)))
	res.Diagnostics = rec.Entries()
	return out, res
}

// AppendTotal appends a total of every prefix-matching row. A document that
// already contains the total label, raw or CSV-quoted, is returned unchanged.
func (rw *Rewriter) AppendTotal(doc *Document) (*Document, *Result) {
	rec := logging.NewRecorder(rw.logger)
	res := &Result{Total: decimal.Zero}

	if doc.Contains(rw.totalLabel) || doc.Contains(quote(rw.totalLabel)) {
		res.AlreadyTotaled = true
		rec.Info("Receipt already totaled")
		res.Diagnostics = rec.Entries()
		return doc, res
	}

	out := doc.clone()
	for len(out.Rows) > 0 && out.Rows[len(out.Rows)-1].Blank() {
		out.Rows = out.Rows[:len(out.Rows)-1]
	}
	for i, row := range out.Rows {
		record, ok := rw.parseRow(rec, i+1, row, res)
		if !ok {
			continue
		}
		res.Kept++
		res.Total = res.Total.Add(record.Amount)
	}

	out.Rows = append(out.Rows, Row{Line: out.totalLine(rw.totalLabel, res.Total.StringFixed(2))})
	rec.Info("Appended receipt total", logging.F(logging.FieldTotal, res.Total.StringFixed(2)))
	res.Diagnostics = rec.Entries()
	return out, res
}

// parseRow returns the record of a data row that matches the transponder
// prefix. Blank, malformed and foreign rows update res and return false.
func (rw *Rewriter) parseRow(log logging.Logger, n int, row Row, res *Result) (models.TransactionRecord, bool) {
	if row.Blank() {
		return models.TransactionRecord{}, false
	}
	fields, err := row.Fields()
	if err == nil && len(fields) != columnCount {
		err = fmt.Errorf("expected %d columns, got %d", columnCount, len(fields))
	}
	var record models.TransactionRecord
	if err == nil {
		record, err = tollparser.ConvertFields(n, fields)
	}
	if err != nil {
		res.Malformed++
		log.WithError(err).Debug("Skipped malformed row", logging.F(logging.FieldRow, n))
		return models.TransactionRecord{}, false
	}
	if !strings.HasPrefix(record.TransponderID, rw.prefix) {
		res.Skipped++
		log.Debug("Skipped row for another transponder",
			logging.F(logging.FieldRow, n),
			logging.F(logging.FieldTransponder, record.TransponderID))
		return models.TransactionRecord{}, false
	}
	return record, true
}

// ReceiptPath returns the receipt_<name> path next to src.
func ReceiptPath(src string) string {
	return fileutils.PrefixedPath(src, fileutils.ReceiptPrefix)
}

// FilterFile filters src and writes the result to dst.
func (rw *Rewriter) FilterFile(src, dst string) (*Result, error) {
	doc, err := readDocument(src)
	if err != nil {
		return nil, err
	}
	out, res := rw.Filter(doc)
	if err := writeDocument(dst, out); err != nil {
		return res, err
	}
	return res, nil
}

// AppendTotalFile appends a total row to path in place unless it already has one.
func (rw *Rewriter) AppendTotalFile(path string) (*Result, error) {
	doc, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	out, res := rw.AppendTotal(doc)
	if res.AlreadyTotaled {
		return res, nil
	}
	if err := writeDocument(path, out); err != nil {
		return res, err
	}
	return res, nil
}

func readDocument(path string) (*Document, error) {
	f, err := os.Open(path) // #nosec G304 -- CLI tool reads user-selected receipts
	if err != nil {
		return nil, &parsererror.FileError{FilePath: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	doc, err := ParseDocument(f)
	if err != nil {
		return nil, parsererror.WithPath(err, path)
	}
	return doc, nil
}

func writeDocument(path string, doc *Document) error {
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return err
	}
	if err := fileutils.AtomicWriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write receipt %s: %w", path, err)
	}
	return nil
}
