package loader

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"

	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

type xlsLoader struct{}

func (xlsLoader) CanLoad(filename string) bool { return hasExt(filename, ".xls") }

func (xlsLoader) Load(name string, content []byte, opt Options) (t *table.Table, err error) {
	// The BIFF reader panics on some truncated files.
	defer func() {
		if r := recover(); r != nil {
			t, err = nil, &table.ParseError{Filename: name, Err: fmt.Errorf("corrupt workbook: %v", r)}
		}
	}()
	wb, err := xls.OpenReader(bytes.NewReader(content), "utf-8")
	if err != nil {
		return nil, &table.ParseError{Filename: name, Err: fmt.Errorf("open workbook: %w", err)}
	}
	if wb.NumSheets() == 0 {
		return nil, &table.EmptyInputError{Filename: name, Reason: "workbook has no sheets"}
	}
	sheet := wb.GetSheet(0)
	if opt.Sheet != "" {
		sheet = nil
		for i := 0; i < wb.NumSheets(); i++ {
			if s := wb.GetSheet(i); s != nil && s.Name == opt.Sheet {
				sheet = s
				break
			}
		}
	}
	if sheet == nil {
		return nil, &table.ParseError{Filename: name, Err: fmt.Errorf("sheet %q not found", opt.Sheet)}
	}

	var grid [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			grid = append(grid, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for j := row.FirstCol(); j < row.LastCol(); j++ {
			cells[j] = row.Col(j)
		}
		grid = append(grid, cells)
	}
	for len(grid) > 0 && len(grid[len(grid)-1]) == 0 {
		grid = grid[:len(grid)-1]
	}
	return fromGrid(name, grid, opt)
}
