// Package export serializes tables as CSV, XLSX or Parquet.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

// Format is an output file format.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatXLSX    Format = "xlsx"
	FormatParquet Format = "parquet"
)

// ParseFormat validates a format name; "" selects CSV.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX, FormatParquet:
		return f, nil
	case "":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unknown output format %q (use csv, xlsx or parquet)", s)
	}
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatParquet:
		return "application/vnd.apache.parquet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string { return "." + string(f) }

// Write serializes t in format f.
func Write(w io.Writer, t *table.Table, f Format) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, t)
	case FormatXLSX:
		return WriteXLSX(w, t, DefaultSheet)
	case FormatParquet:
		return WriteParquet(w, t)
	default:
		return fmt.Errorf("unknown output format %q", f)
	}
}

// FileName derives an output name such as "cleaned_data.csv" from an input
// file name.
func FileName(input, prefix string, f Format) string {
	base := input
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	if base == "" {
		base = "data"
	}
	return prefix + base + f.Extension()
}
