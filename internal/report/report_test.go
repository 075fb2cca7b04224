package report_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/dataprep-cli/internal/clean"
	"github.com/KaramelBytes/dataprep-cli/internal/report"
	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

func sample(t *testing.T, withMissing bool) *table.Table {
	t.Helper()
	tbl := table.New("sales.csv")
	null := []bool{false, false, false, false}
	if withMissing {
		null[1] = true
	}
	require.NoError(t, tbl.AddNumeric("units", []float64{1, 2, 3, 100}, null))
	require.NoError(t, tbl.AddCategorical("region", []string{"north", "south", "north", "east"}, nil))
	return tbl
}

func TestWrite(t *testing.T) {
	t.Parallel()

	tbl := sample(t, true)
	res, err := clean.Run(tbl, clean.DefaultOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, tbl, res))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{
		report.SheetData, report.SheetCleaned, report.SheetSummary, report.SheetMissing, report.SheetOutliers,
	}, f.GetSheetList())

	rows, err := f.GetRows(report.SheetSummary)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Metric", "count", "mean", "std", "min", "25%", "50%", "75%", "max"}, rows[0])
	assert.Equal(t, "units", rows[1][0])
	assert.Equal(t, "3", rows[1][1])

	pics, err := f.GetPictures(report.SheetMissing, "A1")
	require.NoError(t, err)
	assert.Len(t, pics, 1)

	pics, err = f.GetPictures(report.SheetOutliers, "A1")
	require.NoError(t, err)
	assert.Len(t, pics, 1)

	width, err := f.GetColWidth(report.SheetData, "B")
	require.NoError(t, err)
	assert.Equal(t, float64(len("region")+2), width)
}

func TestBuild_NoMissingWritesMessage(t *testing.T) {
	t.Parallel()

	f, err := report.Build(sample(t, false), nil)
	require.NoError(t, err)
	defer f.Close()

	assert.NotContains(t, f.GetSheetList(), report.SheetCleaned)
	v, err := f.GetCellValue(report.SheetMissing, "A1")
	require.NoError(t, err)
	assert.Equal(t, report.NoMissingText, v)
}
