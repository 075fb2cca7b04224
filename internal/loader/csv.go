package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type csvLoader struct{}

func (csvLoader) CanLoad(filename string) bool { return hasExt(filename, ".csv", ".tsv") }

func (csvLoader) Load(name string, content []byte, opt Options) (*table.Table, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	if !utf8.Valid(content) {
		return nil, &table.ParseError{Filename: name, Err: errors.New("content is not valid UTF-8")}
	}
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(name)
	}
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &table.EmptyInputError{Filename: name, Reason: "no header row"}
		}
		return nil, csvError(name, err)
	}
	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(name, err)
		}
		if opt.MaxRows > 0 && len(rows) == opt.MaxRows {
			return nil, tooManyRows(name, opt.MaxRows)
		}
		rows = append(rows, rec)
	}
	return table.FromRecords(name, header, rows, opt.Infer)
}

// csvError converts a reader error into a ParseError numbered by data row.
func csvError(name string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		row := pe.StartLine - 1
		if row < 0 {
			row = 0
		}
		return &table.ParseError{Filename: name, Row: row, Err: fmt.Errorf("line %d, column %d: %w", pe.Line, pe.Column, pe.Err)}
	}
	return &table.ParseError{Filename: name, Err: err}
}

func sniffDelimiter(name string) rune {
	if hasExt(name, ".tsv") {
		return '\t'
	}
	return ','
}
