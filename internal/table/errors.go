package table

import (
	"fmt"
	"strings"
)

// UnsupportedFormatError indicates a file whose extension or content is not a
// supported tabular format.
type UnsupportedFormatError struct {
	Filename string
	Ext      string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Ext == "" {
		return fmt.Sprintf("unsupported format: %s has no file extension (use .csv, .tsv, .xlsx or .xls)", e.Filename)
	}
	return fmt.Sprintf("unsupported format %q for %s (use .csv, .tsv, .xlsx or .xls)", e.Ext, e.Filename)
}

// ParseError indicates malformed tabular content.
type ParseError struct {
	Filename string
	Row      int // 1-based data row, 0 when not tied to a row
	Err      error
}

func (e *ParseError) Error() string {
	var parts []string
	parts = append(parts, "parse "+e.Filename)
	if e.Row > 0 {
		parts = append(parts, fmt.Sprintf("row %d", e.Row))
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *ParseError) Unwrap() error { return e.Err }

// DegenerateColumnError indicates a statistic that is undefined for a column,
// e.g. the mean of a column without any value.
type DegenerateColumnError struct {
	Column string
	Op     string // operation that needed the statistic, e.g. "mean imputation"
	Reason string
}

func (e *DegenerateColumnError) Error() string {
	return fmt.Sprintf("degenerate column %q in %s: %s", e.Column, e.Op, e.Reason)
}

// EmptyInputError indicates a table with zero rows or zero columns.
type EmptyInputError struct {
	Filename string
	Reason   string
}

func (e *EmptyInputError) Error() string {
	if e.Filename == "" {
		return "empty input: " + e.Reason
	}
	return fmt.Sprintf("empty input %s: %s", e.Filename, e.Reason)
}

// NewAllMissing builds the error raised when a column has no values to
// compute a statistic from.
func NewAllMissing(column, op string) *DegenerateColumnError {
	return &DegenerateColumnError{Column: column, Op: op, Reason: "every value is missing"}
}
