package loader_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/dataprep-cli/internal/loader"
	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

const harvest = "date,plot,alpha_acids,moisture\n" +
	"2024-08-10,A1,12.5%,74\n" +
	"2024-08-12,A1,11.8%,\n" +
	"2024-08-15,B3,10.2%,68\n"

func TestLoadCSV(t *testing.T) {
	t.Parallel()

	tbl, err := loader.Load("hop_harvest.csv", []byte(harvest), loader.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "hop_harvest.csv", tbl.Name)
	assert.Equal(t, []string{"date", "plot", "alpha_acids", "moisture"}, tbl.Header())
	assert.Equal(t, 3, tbl.Rows())

	cl := tbl.Classify()
	assert.Equal(t, []string{"alpha_acids", "moisture"}, cl.Numeric())
	assert.Equal(t, []string{"date", "plot"}, cl.Categorical())

	m, _ := tbl.Column("moisture")
	assert.True(t, m.IsMissing(1))
}

func TestLoadCSV_BOMAndTSV(t *testing.T) {
	t.Parallel()

	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a\tb\n1\tx\n2\ty\n")...)
	tbl, err := loader.Load("data.tsv", content, loader.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tbl.Header())

	opt := loader.DefaultOptions()
	opt.Delimiter = ';'
	tbl, err = loader.Load("semi.csv", []byte("a;b\n1;2\n"), opt)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Width())
}

func TestLoadCSV_ParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content []byte
		row     int
	}{
		{"ragged", []byte("a,b\n1,2\n3\n"), 2},
		{"bad quote", []byte("a,b\n1,\"x\"y\n"), 1},
		{"invalid utf8", []byte("a,b\n1,\xff\xfe\n"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.Load("bad.csv", tt.content, loader.DefaultOptions())
			var perr *table.ParseError
			require.True(t, errors.As(err, &perr), "got %v", err)
			assert.Equal(t, tt.row, perr.Row)
		})
	}
}

func TestLoad_EmptyAndUnsupported(t *testing.T) {
	t.Parallel()

	var eerr *table.EmptyInputError
	_, err := loader.Load("empty.csv", nil, loader.DefaultOptions())
	require.True(t, errors.As(err, &eerr))

	_, err = loader.Load("header.csv", []byte("a,b\n"), loader.DefaultOptions())
	require.True(t, errors.As(err, &eerr))

	var uerr *table.UnsupportedFormatError
	_, err = loader.Load("notes.txt", []byte("hello"), loader.DefaultOptions())
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, ".txt", uerr.Ext)

	_, err = loader.Load("README", []byte("hello"), loader.DefaultOptions())
	require.True(t, errors.As(err, &uerr))
}

func TestLoad_MaxRows(t *testing.T) {
	t.Parallel()

	opt := loader.DefaultOptions()
	opt.MaxRows = 2
	_, err := loader.Load("big.csv", []byte(harvest), opt)
	var perr *table.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Contains(t, perr.Error(), "too many rows")
}

func workbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"id", "name", "score"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{1, "ada", 9.5}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{2, "bob"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]any{3, "cy", 7}))
	_, err := f.NewSheet("Other")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Other", "A1", &[]any{"k"}))
	require.NoError(t, f.SetSheetRow("Other", "A2", &[]any{"v"}))
	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestLoadXLSX(t *testing.T) {
	t.Parallel()

	data := workbook(t)
	tbl, err := loader.Load("scores.xlsx", data, loader.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "score"}, tbl.Header())
	assert.Equal(t, 3, tbl.Rows())

	score, _ := tbl.Column("score")
	assert.Equal(t, table.KindNumeric, score.Kind)
	assert.True(t, score.IsMissing(1), "short rows are padded with missing cells")
	assert.Equal(t, []float64{9.5, 7}, score.Valid())

	opt := loader.DefaultOptions()
	opt.Sheet = "Other"
	tbl, err = loader.Load("scores.xlsx", data, opt)
	require.NoError(t, err)
	assert.Equal(t, []string{"k"}, tbl.Header())

	opt.Sheet = "Missing"
	_, err = loader.Load("scores.xlsx", data, opt)
	var perr *table.ParseError
	require.True(t, errors.As(err, &perr))
}

func TestLoadWorkbook_Corrupt(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"broken.xlsx", "broken.xls"} {
		_, err := loader.Load(name, []byte("definitely not a workbook"), loader.DefaultOptions())
		var perr *table.ParseError
		assert.True(t, errors.As(err, &perr), "%s: got %v", name, err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "hop_harvest.csv")
	if err := os.WriteFile(p, []byte(harvest), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tbl, err := loader.LoadFile(p, loader.DefaultOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tbl.Rows() != 3 {
		t.Fatalf("expected 3 rows, got %d", tbl.Rows())
	}

	if _, err := loader.LoadFile(filepath.Join(dir, "nope.csv"), loader.DefaultOptions()); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
