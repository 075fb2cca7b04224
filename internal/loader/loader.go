// Package loader turns uploaded bytes into typed tables. Formats are chosen
// by file extension through a small registry.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

// Loader reads one tabular format.
type Loader interface {
	CanLoad(filename string) bool
	Load(filename string, content []byte, opt Options) (*table.Table, error)
}

// Options controls how files are read.
type Options struct {
	// Delimiter for CSV. If 0, '\t' for .tsv files and ',' otherwise.
	Delimiter rune
	// Sheet names the workbook sheet to read; empty means the first one.
	Sheet string
	// MaxRows caps the number of data rows; 0 means unlimited. Larger inputs
	// are rejected rather than truncated.
	MaxRows int
	Infer   table.InferOptions
}

// DefaultOptions returns options with the default missing markers.
func DefaultOptions() Options {
	return Options{Infer: table.DefaultInferOptions()}
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// Extensions lists the accepted file extensions.
func Extensions() []string {
	return []string{".csv", ".tsv", ".xlsx", ".xls"}
}

// Load selects a loader by filename and parses content into a table.
func Load(filename string, content []byte, opt Options) (*table.Table, error) {
	name := filepath.Base(filename)
	ext := strings.ToLower(filepath.Ext(name))
	for _, l := range registry {
		if !l.CanLoad(name) {
			continue
		}
		if len(content) == 0 {
			return nil, &table.EmptyInputError{Filename: name, Reason: "file is empty"}
		}
		return l.Load(name, content, opt)
	}
	return nil, &table.UnsupportedFormatError{Filename: name, Ext: ext}
}

// LoadFile reads path from disk and loads it.
func LoadFile(path string, opt Options) (*table.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Load(path, data, opt)
}

func hasExt(filename string, exts ...string) bool {
	name := strings.ToLower(filename)
	for _, e := range exts {
		if strings.HasSuffix(name, e) {
			return true
		}
	}
	return false
}

// rectangular pads short spreadsheet rows with blank cells so every row is as
// wide as the widest one. Workbooks drop trailing empty cells, so a short row
// is not malformed there.
func rectangular(rows [][]string) [][]string {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	for i, r := range rows {
		if len(r) < width {
			padded := make([]string, width)
			copy(padded, r)
			rows[i] = padded
		}
	}
	return rows
}

// fromGrid splits a spreadsheet grid into header and data rows.
func fromGrid(name string, grid [][]string, opt Options) (*table.Table, error) {
	grid = rectangular(grid)
	if len(grid) == 0 || len(grid[0]) == 0 {
		return nil, &table.EmptyInputError{Filename: name, Reason: "no columns"}
	}
	data := grid[1:]
	if opt.MaxRows > 0 && len(data) > opt.MaxRows {
		return nil, tooManyRows(name, opt.MaxRows)
	}
	return table.FromRecords(name, grid[0], data, opt.Infer)
}

func tooManyRows(name string, limit int) error {
	return &table.ParseError{Filename: name, Err: fmt.Errorf("too many rows (limit %d)", limit)}
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
	Register(xlsLoader{})
}
