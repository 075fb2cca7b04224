package loader

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

type xlsxLoader struct{}

func (xlsxLoader) CanLoad(filename string) bool { return hasExt(filename, ".xlsx") }

func (xlsxLoader) Load(name string, content []byte, opt Options) (*table.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, &table.ParseError{Filename: name, Err: fmt.Errorf("open workbook: %w", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &table.EmptyInputError{Filename: name, Reason: "workbook has no sheets"}
	}
	sheet := sheets[0]
	if opt.Sheet != "" {
		if idx, err := f.GetSheetIndex(opt.Sheet); err != nil || idx < 0 {
			return nil, &table.ParseError{Filename: name, Err: fmt.Errorf("sheet %q not found", opt.Sheet)}
		}
		sheet = opt.Sheet
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &table.ParseError{Filename: name, Err: fmt.Errorf("read sheet %q: %w", sheet, err)}
	}
	return fromGrid(name, rows, opt)
}
