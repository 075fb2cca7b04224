package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/dataprep-cli/internal/config"
	"github.com/KaramelBytes/dataprep-cli/internal/observability"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global

	closeLogger = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "dataprep",
	Short: "dataprep: clean, analyze and report on tabular datasets",
	Long: `dataprep loads CSV, TSV, XLSX and XLS files, imputes missing values, replaces
IQR outliers, standardizes numeric columns and produces summaries, charts and
Excel reports. Run it as a CLI or serve the same pipeline over HTTP.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	err := rootCmd.Execute()
	closeLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.dataprep/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
	if debug {
		cfg.LogLevel = "debug"
	}
	logger, closeFn := observability.SetupLogger(cfg.LogConfig(), os.Stderr)
	slog.SetDefault(logger)
	closeLogger = closeFn
}

// settings returns the loaded configuration, loading it when commands run
// without Execute (as in tests).
func settings() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg = c
	return cfg, nil
}
