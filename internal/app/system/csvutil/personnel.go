// Package csvutil parses the semicolon-delimited personnel extract.
package csvutil

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Column headers in the personnel extract.
const (
	HeaderDepartment = "Dept ID Desc"
	HeaderName       = "Name"
	HeaderJobCode    = "Job Code"
	HeaderUnit       = "Unit"
)

var requiredHeaders = []string{HeaderDepartment, HeaderName, HeaderJobCode, HeaderUnit}

// ErrTooManyRows is returned when the extract exceeds ParseOptions.MaxRows.
var ErrTooManyRows = errors.New("too many rows")

// MissingHeaderError reports header columns absent from the first row.
type MissingHeaderError struct {
	Missing []string
}

func (e *MissingHeaderError) Error() string {
	return "missing column(s): " + strings.Join(e.Missing, ", ")
}

// RowError describes a row that could not be read.
type RowError struct {
	Line   int
	Reason string
	Raw    []string
}

func (e RowError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	return e.Reason
}

// ParseOptions controls limits applied while reading.
type ParseOptions struct {
	MaxRows int // 0 means unlimited
}

// PersonnelRow is one extract record, fields trimmed but not otherwise
// validated. Line is the 1-based line in the file (header is line 1).
type PersonnelRow struct {
	DepartmentLabel string
	WorkerName      string
	JobCode         string
	UnitLabel       string
	Line            int
}

// ParsedResult holds the rows and row-level read errors.
type ParsedResult struct {
	Rows   []PersonnelRow
	Errors []RowError
}

// HasErrors returns true if any row could not be read.
func (r *ParsedResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// ParsePersonnelCSV reads a semicolon-delimited extract whose first row
// names the columns. Columns may appear in any order and extra columns are
// ignored. A missing required column returns *MissingHeaderError; an empty
// file yields an empty result.
func ParsePersonnelCSV(r io.Reader, opts ParseOptions) (ParsedResult, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var result ParsedResult

	header, err := reader.Read()
	if err == io.EOF {
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	var missing []string
	for _, h := range requiredHeaders {
		if _, ok := cols[strings.ToLower(h)]; !ok {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		return result, &MissingHeaderError{Missing: missing}
	}

	field := func(rec []string, name string) string {
		i := cols[strings.ToLower(name)]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var line int
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.Line
			}
			result.Errors = append(result.Errors, RowError{Line: line, Reason: err.Error()})
			continue
		}
		line, _ := reader.FieldPos(0)
		if blank(rec) {
			continue
		}
		if opts.MaxRows > 0 && len(result.Rows) >= opts.MaxRows {
			return result, ErrTooManyRows
		}

		result.Rows = append(result.Rows, PersonnelRow{
			DepartmentLabel: field(rec, HeaderDepartment),
			WorkerName:      field(rec, HeaderName),
			JobCode:         field(rec, HeaderJobCode),
			UnitLabel:       field(rec, HeaderUnit),
			Line:            line,
		})
	}

	return result, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
