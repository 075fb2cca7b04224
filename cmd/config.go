package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/dataprep-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set dataprep configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := settings()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "listen_addr: %s\n", c.ListenAddr)
		fmt.Fprintf(out, "max_upload_bytes: %d\n", c.MaxUploadBytes)
		fmt.Fprintf(out, "read_timeout_sec: %d\n", c.ReadTimeoutSec)
		fmt.Fprintf(out, "write_timeout_sec: %d\n", c.WriteTimeoutSec)
		fmt.Fprintf(out, "imputation_strategy: %s\n", c.ImputationStrategy)
		fmt.Fprintf(out, "knn_neighbors: %d\n", c.KNNNeighbors)
		fmt.Fprintf(out, "knn_weights: %s\n", c.KNNWeights)
		fmt.Fprintf(out, "normalize_ddof: %d\n", c.NormalizeDDOF)
		fmt.Fprintf(out, "missing_markers: %s\n", strings.Join(c.MissingMarkers, ","))
		if c.DecimalSeparator != "" {
			fmt.Fprintf(out, "decimal_separator: %s\n", c.DecimalSeparator)
		}
		if c.CSVDelimiter != "" {
			fmt.Fprintf(out, "csv_delimiter: %q\n", c.CSVDelimiter)
		}
		fmt.Fprintf(out, "max_rows: %d\n", c.MaxRows)
		fmt.Fprintf(out, "log_level: %s\n", c.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", c.LogFormat)
		if c.SeqURL != "" {
			fmt.Fprintf(out, "seq_url: %s\n", c.SeqURL)
		}
		fmt.Fprintf(out, "tracing_enabled: %t\n", c.TracingEnabled)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := settings()
		if err != nil {
			return err
		}
		if err := c.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
