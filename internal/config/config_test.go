package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/dataprep-cli/internal/clean"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8000", c.ListenAddr)
	assert.EqualValues(t, 32<<20, c.MaxUploadBytes)
	assert.Equal(t, "knn", c.ImputationStrategy)
	assert.Equal(t, 5, c.KNNNeighbors)
	assert.Contains(t, c.MissingMarkers, "NA")
	require.NoError(t, c.Validate())

	opt, err := c.PipelineOptions()
	require.NoError(t, err)
	assert.Equal(t, clean.DefaultOptions(), opt)

	lopt, err := c.LoaderOptions()
	require.NoError(t, err)
	assert.Zero(t, lopt.Delimiter)
	assert.Zero(t, lopt.Infer.DecimalSeparator)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "imputation_strategy: mean\nknn_neighbors: 3\ncsv_delimiter: \";\"\ndecimal_separator: \",\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("DATAPREP_KNN_NEIGHBORS", "7")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mean", c.ImputationStrategy)
	assert.Equal(t, 7, c.KNNNeighbors, "env overrides the file")

	lopt, err := c.LoaderOptions()
	require.NoError(t, err)
	assert.Equal(t, ';', lopt.Delimiter)
	assert.Equal(t, ',', lopt.Infer.DecimalSeparator)
	assert.Equal(t, '.', lopt.Infer.ThousandsSeparator)
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	t.Setenv("HOME", t.TempDir())

	c, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, c.Set("knn_weights", "uniform"))
	require.NoError(t, c.Set("normalize_ddof", "1"))
	require.NoError(t, c.Set("missing_markers", "?, -"))
	require.NoError(t, c.Set("csv_delimiter", "tab"))
	require.NoError(t, Save(c, path))

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "uniform", again.KNNWeights)
	assert.Equal(t, 1, again.NormalizeDDOF)
	assert.Equal(t, []string{"?", "-"}, again.MissingMarkers)

	lopt, err := again.LoaderOptions()
	require.NoError(t, err)
	assert.Equal(t, '\t', lopt.Delimiter)
}

func TestSet_Rejects(t *testing.T) {
	t.Parallel()

	c := &Global{}
	for key, val := range map[string]string{
		"imputation_strategy": "median",
		"knn_weights":         "gaussian",
		"normalize_ddof":      "2",
		"max_upload_bytes":    "-1",
		"csv_delimiter":       "ab",
		"log_format":          "xml",
		"tracing_enabled":     "maybe",
		"nope":                "1",
	} {
		assert.Error(t, c.Set(key, val), key)
	}
}
