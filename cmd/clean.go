package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dataprep-cli/internal/clean"
	"github.com/KaramelBytes/dataprep-cli/internal/export"
	"github.com/KaramelBytes/dataprep-cli/internal/utils"
)

var (
	cleanOutput string
	cleanFormat string
	cleanLoad   loadFlags
	cleanPipe   pipelineFlags
)

var cleanCmd = &cobra.Command{
	Use:   "clean <file>",
	Short: "Impute, de-outlier and standardize a dataset",
	Long: `Clean a CSV, TSV, XLSX or XLS file: numeric gaps are imputed (KNN or mean),
values outside the 1.5*IQR fence are replaced with the column mean, numeric
columns are standardized and categorical gaps take the column mode.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		format, err := export.ParseFormat(cleanFormat)
		if err != nil {
			return err
		}
		t, err := cleanLoad.load(path)
		if err != nil {
			return err
		}
		res, err := cleanPipe.run(t)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := export.Write(&buf, res.Table, format); err != nil {
			return err
		}
		out := utils.OutputPath(path, cleanOutput, export.FileName(filepath.Base(path), "cleaned_", format))
		if err := utils.SafeWriteFile(out, buf.Bytes()); err != nil {
			return err
		}
		printCleanSummary(cmd, res)
		fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s (%s)\n", okMark, out, humanize.Bytes(uint64(buf.Len())))
		return nil
	},
}

func printCleanSummary(cmd *cobra.Command, res *clean.Result) {
	w := cmd.OutOrStdout()
	t := res.Table
	fmt.Fprintf(w, "%s Cleaned %s: %s rows, %d numeric and %d categorical columns\n",
		okMark, bold(t.Name), humanize.Comma(int64(t.Rows())),
		len(res.Classification.Numeric()), len(res.Classification.Categorical()))
	for _, name := range sortedKeys(res.Imputed) {
		fmt.Fprintf(w, "  imputed %d value(s) in %s\n", res.Imputed[name], name)
	}
	if n := res.ReplacedTotal(); n > 0 {
		fmt.Fprintf(w, "  replaced %d outlier(s)\n", n)
	}
	for _, warn := range res.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", warnMark, warn)
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVarP(&cleanOutput, "output", "o", "", "output path (default cleaned_<name> next to the input)")
	cleanCmd.Flags().StringVarP(&cleanFormat, "format", "f", "csv", "output format: csv | xlsx | parquet")
	cleanLoad.register(cleanCmd)
	cleanPipe.register(cleanCmd)
}
