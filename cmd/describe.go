package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dataprep-cli/internal/analysis"
	"github.com/KaramelBytes/dataprep-cli/internal/utils"
)

var (
	descMarkdown bool
	descJSON     bool
	descOutput   string
	descLoad     loadFlags
)

var describeCmd = &cobra.Command{
	Use:   "describe <file>",
	Short: "Print summary statistics, missing values and outliers of a dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if descMarkdown && descJSON {
			return fmt.Errorf("--markdown and --json are mutually exclusive")
		}
		t, err := descLoad.load(args[0])
		if err != nil {
			return err
		}
		rep := analysis.Analyze(t)

		var body []byte
		switch {
		case descJSON:
			if body, err = utils.PrettyJSON(rep); err != nil {
				return err
			}
		case descMarkdown:
			body = []byte(rep.Markdown())
		default:
			if descOutput != "" {
				return fmt.Errorf("--output needs --markdown or --json")
			}
			renderReport(cmd.OutOrStdout(), rep)
			return nil
		}
		if descOutput != "" {
			if err := utils.SafeWriteFile(descOutput, body); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote analysis to %s\n", okMark, descOutput)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(body))
		return nil
	},
}

// renderReport prints the report as terminal tables.
func renderReport(w io.Writer, rep *analysis.Report) {
	fmt.Fprintf(w, "%s: %d rows, %d columns\n\n", bold(rep.Name), rep.Rows, len(rep.Cols))

	schema := newTable(w, "Schema")
	schema.AppendHeader(table.Row{"Column", "Kind", "Non-null", "Unique", "Top"})
	for _, c := range rep.Cols {
		schema.AppendRow(table.Row{c.Name, c.Kind, c.NonNull, c.Unique, c.Top})
	}
	schema.Render()

	if len(rep.Summary) > 0 {
		stats := newTable(w, "Summary Statistics")
		header := table.Row{"Metric"}
		for _, h := range analysis.SummaryHeader {
			header = append(header, h)
		}
		stats.AppendHeader(header)
		for _, s := range rep.Summary {
			row := table.Row{s.Column, strconv.Itoa(s.Count)}
			for _, v := range s.Values()[1:] {
				row = append(row, analysis.FormatStat(v))
			}
			stats.AppendRow(row)
		}
		stats.SetColumnConfigs(numericColumns(len(header)))
		stats.Render()
	}

	names, counts := rep.Missing.Affected()
	if len(names) == 0 {
		fmt.Fprintln(w, "\nNo missing values found in the data.")
	} else {
		miss := newTable(w, "Missing Values")
		miss.AppendHeader(table.Row{"Column", "Missing", "Percent"})
		for i, n := range names {
			miss.AppendRow(table.Row{n, counts[i], fmt.Sprintf("%.1f%%", rep.Missing.Columns[n].Percentage)})
		}
		miss.AppendFooter(table.Row{"rows affected", len(rep.Missing.RowsWithMissing), ""})
		miss.Render()
	}

	if len(rep.Outliers.Order) > 0 {
		out := newTable(w, "Outliers (1.5 IQR)")
		out.AppendHeader(table.Row{"Column", "Count", "Lower", "Upper"})
		for _, n := range rep.Outliers.Order {
			f := rep.Outliers.Fences[n]
			out.AppendRow(table.Row{n, rep.Outliers.Counts[n], analysis.FormatStat(f.Lower), analysis.FormatStat(f.Upper)})
		}
		out.Render()
	}

	for _, warn := range rep.Warnings {
		fmt.Fprintf(w, "%s %s\n", warnMark, warn)
	}
}

func newTable(w io.Writer, title string) table.Writer {
	fmt.Fprintln(w)
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetTitle(title)
	tw.SetStyle(table.StyleLight)
	return tw
}

func numericColumns(n int) []table.ColumnConfig {
	cfgs := make([]table.ColumnConfig, 0, n-1)
	for i := 2; i <= n; i++ {
		cfgs = append(cfgs, table.ColumnConfig{Number: i, Align: text.AlignRight})
	}
	return cfgs
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().BoolVar(&descMarkdown, "markdown", false, "print a Markdown report instead of tables")
	describeCmd.Flags().BoolVar(&descJSON, "json", false, "print the report as JSON")
	describeCmd.Flags().StringVarP(&descOutput, "output", "o", "", "write the Markdown or JSON report to this path")
	descLoad.register(describeCmd)
}
