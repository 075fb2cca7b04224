package export

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

// DefaultSheet is the sheet name used for single-table workbooks.
const DefaultSheet = "Cleaned Data"

// WriteXLSX writes t as a single-sheet workbook.
func WriteXLSX(w io.Writer, t *table.Table, sheet string) error {
	f := excelize.NewFile()
	defer f.Close()
	if sheet == "" {
		sheet = DefaultSheet
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := WriteSheet(f, sheet, t); err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// WriteSheet fills an existing sheet with t: a header row, one row per
// record, numbers as numbers and missing cells left blank. Columns are sized
// to their widest cell plus two characters.
func WriteSheet(f *excelize.File, sheet string, t *table.Table) error {
	header := make([]any, t.Width())
	for j, name := range t.Header() {
		header[j] = name
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < t.Rows(); i++ {
		row := make([]any, t.Width())
		for j, c := range t.Columns {
			row[j] = c.Value(i)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	return AutoWidth(f, sheet, t)
}

// AutoWidth sets each column's width to max(cell length, header length) + 2.
func AutoWidth(f *excelize.File, sheet string, t *table.Table) error {
	for j, c := range t.Columns {
		width := utf8.RuneCountInString(c.Name)
		for i := 0; i < c.Len(); i++ {
			if n := utf8.RuneCountInString(c.Cell(i)); n > width {
				width = n
			}
		}
		name, err := excelize.ColumnNumberToName(j + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, float64(width+2)); err != nil {
			return fmt.Errorf("set width of %s: %w", c.Name, err)
		}
	}
	return nil
}
