package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dataprep-cli/internal/export"
	"github.com/KaramelBytes/dataprep-cli/internal/report"
	"github.com/KaramelBytes/dataprep-cli/internal/utils"
)

var (
	reportOutput string
	reportLoad   loadFlags
	reportPipe   pipelineFlags
)

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Write an Excel workbook with the data, cleaned data, statistics and charts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		t, err := reportLoad.load(path)
		if err != nil {
			return err
		}
		res, err := reportPipe.run(t)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := report.Write(&buf, t, res); err != nil {
			return err
		}
		out := utils.OutputPath(path, reportOutput, export.FileName(filepath.Base(path), "report_", export.FormatXLSX))
		if err := utils.SafeWriteFile(out, buf.Bytes()); err != nil {
			return err
		}
		printCleanSummary(cmd, res)
		fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote report %s (%s)\n", okMark, out, humanize.Bytes(uint64(buf.Len())))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "output path (default report_<name>.xlsx next to the input)")
	reportLoad.register(reportCmd)
	reportPipe.register(reportCmd)
}
