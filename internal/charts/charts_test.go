package charts_test

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/dataprep-cli/internal/analysis"
	"github.com/KaramelBytes/dataprep-cli/internal/charts"
	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

func sample(t *testing.T) *table.Table {
	t.Helper()
	tbl := table.New("s")
	require.NoError(t, tbl.AddNumeric("x", []float64{1, 2, 3, 100}, nil))
	require.NoError(t, tbl.AddNumeric("y", []float64{4, 0, 6, 5}, []bool{false, true, false, false}))
	require.NoError(t, tbl.AddCategorical("c", []string{"a", "", "b", "a"}, []bool{false, true, false, false}))
	return tbl
}

func TestMissingValuesPNG(t *testing.T) {
	t.Parallel()

	img, err := charts.MissingValuesPNG(analysis.Missing(sample(t)))
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Greater(t, cfg.Width, 0)
}

func TestMissingValuesPNG_NothingMissing(t *testing.T) {
	t.Parallel()

	tbl := table.New("full")
	require.NoError(t, tbl.AddNumeric("x", []float64{1, 2}, nil))
	_, err := charts.MissingValuesPNG(analysis.Missing(tbl))
	assert.True(t, errors.Is(err, charts.ErrNoMissing))
}

func TestOutliersPNG(t *testing.T) {
	t.Parallel()

	tbl := sample(t)
	img, err := charts.OutliersPNG(tbl, analysis.Outliers(tbl))
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Greater(t, cfg.Height, cfg.Width, "bar chart and box plot are stacked")

	cats := table.New("cats")
	require.NoError(t, cats.AddCategorical("c", []string{"a"}, nil))
	_, err = charts.OutliersPNG(cats, analysis.Outliers(cats))
	assert.True(t, errors.Is(err, charts.ErrNoNumeric))
}

func TestOutliersPNG_InfiniteCellsLoadAsMissing(t *testing.T) {
	t.Parallel()

	tbl, err := table.FromRecords("inf.csv", []string{"x", "y"},
		[][]string{{"1", "1"}, {"2", "2"}, {"3", "inf"}, {"4", "4"}, {"5", "5"}},
		table.DefaultInferOptions())
	require.NoError(t, err)

	img, err := charts.OutliersPNG(tbl, analysis.Outliers(tbl))
	require.NoError(t, err)
	_, err = png.DecodeConfig(bytes.NewReader(img))
	require.NoError(t, err)
}
