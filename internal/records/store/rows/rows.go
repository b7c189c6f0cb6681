// Package rows is the delimited-row codec shared by the row-oriented backends.
// Row one is always the header; every later row must have exactly three
// fields to count as a record.
package rows

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"roster/internal/records/models"
	dErrors "roster/pkg/domain-errors"
	"roster/pkg/platform/sentinel"
)

// FieldCount is the number of columns in every data row.
const FieldCount = 3

// Header is the fixed first row of every backing store.
var Header = []string{"First Name", "Last Name", "Date of Birth"}

// Row is one raw row with the physical line it came from.
type Row struct {
	Line   int
	Fields []string
}

// Parse turns raw rows (header first) into records numbered among valid rows.
// Malformed rows are skipped, or reported as corrupt when strict is set.
func Parse(raw []Row, strict bool) ([]models.Record, error) {
	records := []models.Record{}
	if len(raw) == 0 {
		return records, nil
	}
	for _, row := range raw[1:] {
		if len(row.Fields) != FieldCount {
			if strict {
				return []models.Record{}, dErrors.Wrap(
					fmt.Errorf("%w: line %d has %d fields", sentinel.ErrCorrupt, row.Line, len(row.Fields)),
					dErrors.CodeCorrupt,
					fmt.Sprintf("Malformed row at line %d: expected %d fields, got %d.", row.Line, FieldCount, len(row.Fields)),
				)
			}
			continue
		}
		records = append(records, models.Record{
			Index: len(records) + 1,
			Person: models.Person{
				FirstName:   row.Fields[0],
				LastName:    row.Fields[1],
				DateOfBirth: row.Fields[2],
			},
		})
	}
	return records, nil
}

// Encode returns the columns for one record.
func Encode(p models.Person) []string {
	return []string{p.FirstName, p.LastName, p.DateOfBirth}
}

// IsHeader reports whether fields are the header row.
func IsHeader(fields []string) bool {
	if len(fields) != len(Header) {
		return false
	}
	for i, f := range fields {
		if strings.TrimSpace(f) != Header[i] {
			return false
		}
	}
	return true
}

// EncodeLine renders fields as a single CSV line without the trailing newline.
func EncodeLine(fields []string) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(fields); err != nil {
		return "", err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\r\n"), nil
}

// NewReader returns a CSV reader that tolerates ragged rows so they can be
// classified by Parse instead of aborting the read.
func NewReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}

// ReadRows reads every row from r with its starting line number.
func ReadRows(r io.Reader) ([]Row, error) {
	cr := NewReader(r)
	var out []Row
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		out = append(out, Row{Line: line, Fields: fields})
	}
}

// DecodeLine splits one CSV line into fields. Blank lines decode to no fields.
func DecodeLine(line string) ([]string, error) {
	if strings.TrimSpace(line) == "" {
		return nil, nil
	}
	r := NewReader(strings.NewReader(line))
	return r.Read()
}
