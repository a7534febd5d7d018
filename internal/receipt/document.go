// Package receipt rewrites receipt-style toll exports. A receipt carries an
// "Account Activity" block that is passed through unchanged and a
// "Vehicle Activity" block whose rows are filtered and totalled.
package receipt

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"fjacquet/toll-expense/internal/parsererror"
	"fjacquet/toll-expense/internal/tollparser"
)

// Section markers.
const (
	AccountActivityMarker = "Account Activity"
	VehicleActivityMarker = "Vehicle Activity"
)

// Row is one raw line of the Vehicle Activity block.
type Row struct {
	Line string
}

// Fields splits the row into cleaned CSV fields.
func (r Row) Fields() ([]string, error) {
	reader := csv.NewReader(strings.NewReader(strings.TrimRight(r.Line, "\r")))
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	fields, err := reader.Read()
	if err != nil {
		return nil, err
	}
	for i, f := range fields {
		fields[i] = tollparser.Clean(f)
	}
	return fields, nil
}

// Blank reports whether the row holds no content.
func (r Row) Blank() bool {
	return strings.TrimSpace(r.Line) == ""
}

// Document is a parsed receipt. Lines keep their original bytes, including
// any carriage return.
type Document struct {
	// Header is every line before the Vehicle Activity marker.
	Header []string
	// VehicleHeader is the marker line and the column header after it.
	VehicleHeader []string
	Rows          []Row

	crlf bool
}

// ParseDocument reads a receipt. Both section markers must be present,
// Account Activity first.
func ParseDocument(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &parsererror.FileError{Err: err}
	}

	lines := strings.Split(string(data), "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	account := indexOf(lines, AccountActivityMarker, 0)
	if account < 0 {
		return nil, &parsererror.SectionNotFoundError{Section: AccountActivityMarker}
	}
	vehicle := indexOf(lines, VehicleActivityMarker, account+1)
	if vehicle < 0 {
		return nil, &parsererror.SectionNotFoundError{Section: VehicleActivityMarker}
	}

	headerEnd := vehicle + 2
	if headerEnd > len(lines) {
		headerEnd = len(lines)
	}

	doc := &Document{
		Header:        append([]string(nil), lines[:vehicle]...),
		VehicleHeader: append([]string(nil), lines[vehicle:headerEnd]...),
		crlf:          len(lines) > 0 && strings.HasSuffix(lines[0], "\r"),
	}
	for _, line := range lines[headerEnd:] {
		doc.Rows = append(doc.Rows, Row{Line: line})
	}
	return doc, nil
}

func indexOf(lines []string, marker string, from int) int {
	for i := from; i < len(lines); i++ {
		if strings.Contains(lines[i], marker) {
			return i
		}
	}
	return -1
}

// Contains reports whether any line of the document contains s.
func (d *Document) Contains(s string) bool {
	for _, sections := range [][]string{d.Header, d.VehicleHeader} {
		for _, line := range sections {
			if strings.Contains(line, s) {
				return true
			}
		}
	}
	for _, row := range d.Rows {
		if strings.Contains(row.Line, s) {
			return true
		}
	}
	return false
}

// Lines returns every line of the document in order.
func (d *Document) Lines() []string {
	lines := make([]string, 0, len(d.Header)+len(d.VehicleHeader)+len(d.Rows))
	lines = append(lines, d.Header...)
	lines = append(lines, d.VehicleHeader...)
	for _, row := range d.Rows {
		lines = append(lines, row.Line)
	}
	return lines
}

// WriteTo writes the document, one newline-terminated line at a time.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var n int64
	for _, line := range d.Lines() {
		written, err := io.WriteString(w, line+"\n")
		n += int64(written)
		if err != nil {
			return n, fmt.Errorf("failed to write receipt: %w", err)
		}
	}
	return n, nil
}

// String renders the document.
func (d *Document) String() string {
	var sb strings.Builder
	_, _ = d.WriteTo(&sb)
	return sb.String()
}

func (d *Document) clone() *Document {
	return &Document{
		Header:        append([]string(nil), d.Header...),
		VehicleHeader: append([]string(nil), d.VehicleHeader...),
		Rows:          append([]Row(nil), d.Rows...),
		crlf:          d.crlf,
	}
}

// totalLine formats the synthesized total row.
func (d *Document) totalLine(label, amount string) string {
	line := `"","","","",` + quote(label) + "," + quote(amount) + `,""`
	if d.crlf {
		line += "\r"
	}
	return line
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
