package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dataprep-cli/internal/clean"
	"github.com/KaramelBytes/dataprep-cli/internal/loader"
	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	warnMark = color.New(color.FgYellow).Sprint("⚠")
	bold     = color.New(color.Bold).SprintFunc()
)

// loadFlags are the dataset reading flags shared by every file command.
type loadFlags struct {
	delimiter string
	decimal   string
	sheet     string
	maxRows   int
}

func (f *loadFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab' (default: tab for .tsv, comma otherwise)")
	cmd.Flags().StringVar(&f.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma'")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "XLSX/XLS: sheet name to read (first sheet if omitted)")
	cmd.Flags().IntVar(&f.maxRows, "max-rows", 0, "reject inputs with more data rows (0 = config value)")
}

// options merges the flags over the configured loader options.
func (f *loadFlags) options() (loader.Options, error) {
	c, err := settings()
	if err != nil {
		return loader.Options{}, err
	}
	opt, err := c.LoaderOptions()
	if err != nil {
		return opt, err
	}
	switch strings.ToLower(f.delimiter) {
	case "":
	case ",":
		opt.Delimiter = ','
	case ";":
		opt.Delimiter = ';'
	case "|":
		opt.Delimiter = '|'
	case "tab", "\t", `\t`:
		opt.Delimiter = '\t'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", f.delimiter)
	}
	switch strings.ToLower(strings.TrimSpace(f.decimal)) {
	case "":
	case ".", "dot":
		opt.Infer.DecimalSeparator = '.'
		opt.Infer.ThousandsSeparator = 0
	case ",", "comma":
		opt.Infer.DecimalSeparator = ','
		opt.Infer.ThousandsSeparator = '.'
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", f.decimal)
	}
	opt.Sheet = f.sheet
	if f.maxRows > 0 {
		opt.MaxRows = f.maxRows
	}
	return opt, nil
}

func (f *loadFlags) load(path string) (*table.Table, error) {
	opt, err := f.options()
	if err != nil {
		return nil, err
	}
	t, err := loader.LoadFile(path, opt)
	if err != nil {
		return nil, err
	}
	slog.Debug("dataset loaded", "file", path, "rows", t.Rows(), "columns", t.Width())
	return t, nil
}

// pipelineFlags override the configured cleaning options.
type pipelineFlags struct {
	strategy string
	k        int
	weights  string
	ddof     int
}

func (f *pipelineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.strategy, "strategy", "", "numeric imputation: knn | mean (config value if omitted)")
	cmd.Flags().IntVarP(&f.k, "k", "k", 0, "KNN neighbours (config value if omitted)")
	cmd.Flags().StringVar(&f.weights, "weights", "", "KNN weighting: distance | uniform")
	cmd.Flags().IntVar(&f.ddof, "ddof", -1, "standardization degrees of freedom: 0 | 1")
}

func (f *pipelineFlags) options() (clean.Options, error) {
	c, err := settings()
	if err != nil {
		return clean.Options{}, err
	}
	opt, err := c.PipelineOptions()
	if err != nil {
		return opt, err
	}
	if f.strategy != "" {
		if opt.Strategy, err = clean.ParseStrategy(f.strategy); err != nil {
			return opt, err
		}
	}
	if f.weights != "" {
		if opt.Weighting, err = clean.ParseWeighting(f.weights); err != nil {
			return opt, err
		}
	}
	if f.k != 0 {
		opt.Neighbors = f.k
	}
	if f.ddof >= 0 {
		opt.DDOF = f.ddof
	}
	return opt, opt.Validate()
}

func (f *pipelineFlags) run(t *table.Table) (*clean.Result, error) {
	opt, err := f.options()
	if err != nil {
		return nil, err
	}
	return clean.Run(t, opt)
}
