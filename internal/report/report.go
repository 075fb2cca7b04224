// Package report assembles the multi-sheet workbook handed back to users:
// the uploaded data, the cleaned data, summary statistics and the missing
// value and outlier charts.
package report

import (
	"errors"
	"fmt"
	"io"
	"math"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/dataprep-cli/internal/analysis"
	"github.com/KaramelBytes/dataprep-cli/internal/charts"
	"github.com/KaramelBytes/dataprep-cli/internal/clean"
	"github.com/KaramelBytes/dataprep-cli/internal/export"
	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

// Sheet names in workbook order.
const (
	SheetData     = "Data"
	SheetCleaned  = "Cleaned Data"
	SheetSummary  = "Summary"
	SheetMissing  = "Missing Values"
	SheetOutliers = "Outlier Analysis"
)

// NoMissingText is written instead of a chart when nothing is missing.
const NoMissingText = "No missing values found in the data."

// Build creates the workbook for original. When res is nil the cleaned data
// sheet is left out. Statistics and charts describe the original data.
func Build(original *table.Table, res *clean.Result) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetData); err != nil {
		f.Close()
		return nil, err
	}
	steps := []struct {
		name string
		fn   func() error
	}{
		{SheetData, func() error { return export.WriteSheet(f, SheetData, original) }},
		{SheetCleaned, func() error {
			if res == nil {
				return nil
			}
			if _, err := f.NewSheet(SheetCleaned); err != nil {
				return err
			}
			return export.WriteSheet(f, SheetCleaned, res.Table)
		}},
		{SheetSummary, func() error { return summarySheet(f, original) }},
		{SheetMissing, func() error { return missingSheet(f, original) }},
		{SheetOutliers, func() error { return outlierSheet(f, original) }},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %s: %w", s.name, err)
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

// Write builds the workbook and streams it to w.
func Write(w io.Writer, original *table.Table, res *clean.Result) error {
	f, err := Build(original, res)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func summarySheet(f *excelize.File, t *table.Table) error {
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return err
	}
	header := append([]string{"Metric"}, analysis.SummaryHeader...)
	widths := make([]int, len(header))
	row := make([]any, len(header))
	for j, h := range header {
		row[j] = h
		widths[j] = utf8.RuneCountInString(h)
	}
	if err := f.SetSheetRow(SheetSummary, "A1", &row); err != nil {
		return err
	}
	for i, s := range analysis.Describe(t) {
		row := make([]any, len(header))
		row[0] = s.Column
		widths[0] = max(widths[0], utf8.RuneCountInString(s.Column))
		for j, v := range s.Values() {
			if math.IsNaN(v) {
				continue
			}
			row[j+1] = v
			widths[j+1] = max(widths[j+1], len(analysis.FormatStat(v)))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetSummary, cell, &row); err != nil {
			return err
		}
	}
	for j, w := range widths {
		col, err := excelize.ColumnNumberToName(j + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetSummary, col, col, float64(w+2)); err != nil {
			return err
		}
	}
	return nil
}

func missingSheet(f *excelize.File, t *table.Table) error {
	if _, err := f.NewSheet(SheetMissing); err != nil {
		return err
	}
	img, err := charts.MissingValuesPNG(analysis.Missing(t))
	if errors.Is(err, charts.ErrNoMissing) {
		return f.SetCellValue(SheetMissing, "A1", NoMissingText)
	}
	if err != nil {
		return err
	}
	return addPNG(f, SheetMissing, img)
}

func outlierSheet(f *excelize.File, t *table.Table) error {
	if _, err := f.NewSheet(SheetOutliers); err != nil {
		return err
	}
	img, err := charts.OutliersPNG(t, analysis.Outliers(t))
	if errors.Is(err, charts.ErrNoNumeric) {
		return f.SetCellValue(SheetOutliers, "A1", "No numeric columns to analyze.")
	}
	if err != nil {
		return err
	}
	return addPNG(f, SheetOutliers, img)
}

func addPNG(f *excelize.File, sheet string, img []byte) error {
	return f.AddPictureFromBytes(sheet, "A1", &excelize.Picture{
		Extension: ".png",
		File:      img,
		Format:    &excelize.GraphicOptions{ScaleX: 0.75, ScaleY: 0.75},
	})
}
