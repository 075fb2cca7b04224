package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/dataprep-cli/internal/clean"
	"github.com/KaramelBytes/dataprep-cli/internal/loader"
	"github.com/KaramelBytes/dataprep-cli/internal/observability"
	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

const (
	envPrefix = "DATAPREP"
	dirName   = ".dataprep"
)

// Global configuration structure.
type Global struct {
	// HTTP server
	ListenAddr      string `mapstructure:"listen_addr" yaml:"listen_addr"`
	MaxUploadBytes  int64  `mapstructure:"max_upload_bytes" yaml:"max_upload_bytes"`
	ReadTimeoutSec  int    `mapstructure:"read_timeout_sec" yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `mapstructure:"write_timeout_sec" yaml:"write_timeout_sec"`

	// Cleaning pipeline
	ImputationStrategy string `mapstructure:"imputation_strategy" yaml:"imputation_strategy"`
	KNNNeighbors       int    `mapstructure:"knn_neighbors" yaml:"knn_neighbors"`
	KNNWeights         string `mapstructure:"knn_weights" yaml:"knn_weights"`
	NormalizeDDOF      int    `mapstructure:"normalize_ddof" yaml:"normalize_ddof"`

	// Loading
	MissingMarkers   []string `mapstructure:"missing_markers" yaml:"missing_markers"`
	DecimalSeparator string   `mapstructure:"decimal_separator" yaml:"decimal_separator"`
	CSVDelimiter     string   `mapstructure:"csv_delimiter" yaml:"csv_delimiter"`
	MaxRows          int      `mapstructure:"max_rows" yaml:"max_rows"`

	// Observability
	LogLevel       string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat      string `mapstructure:"log_format" yaml:"log_format"`
	SeqURL         string `mapstructure:"seq_url" yaml:"seq_url"`
	TracingEnabled bool   `mapstructure:"tracing_enabled" yaml:"tracing_enabled"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.dataprep/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, dirName)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("listen_addr", ":8000")
	v.SetDefault("max_upload_bytes", int64(32<<20))
	v.SetDefault("read_timeout_sec", 30)
	v.SetDefault("write_timeout_sec", 120)
	v.SetDefault("imputation_strategy", string(clean.StrategyKNN))
	v.SetDefault("knn_neighbors", 5)
	v.SetDefault("knn_weights", string(clean.WeightDistance))
	v.SetDefault("normalize_ddof", 0)
	v.SetDefault("missing_markers", table.DefaultMissingMarkers)
	v.SetDefault("decimal_separator", ".")
	v.SetDefault("csv_delimiter", "")
	v.SetDefault("max_rows", 0)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("seq_url", "")
	v.SetDefault("tracing_enabled", false)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, dirName))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Validate reports the first invalid setting.
func (c *Global) Validate() error {
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive")
	}
	if _, err := c.PipelineOptions(); err != nil {
		return err
	}
	_, err := c.LoaderOptions()
	return err
}

// PipelineOptions derives the cleaning options.
func (c *Global) PipelineOptions() (clean.Options, error) {
	opt := clean.DefaultOptions()
	st, err := clean.ParseStrategy(c.ImputationStrategy)
	if err != nil {
		return opt, err
	}
	w, err := clean.ParseWeighting(c.KNNWeights)
	if err != nil {
		return opt, err
	}
	opt.Strategy = st
	opt.Weighting = w
	if c.KNNNeighbors != 0 {
		opt.Neighbors = c.KNNNeighbors
	}
	opt.DDOF = c.NormalizeDDOF
	return opt, opt.Validate()
}

// LoaderOptions derives the file loading options.
func (c *Global) LoaderOptions() (loader.Options, error) {
	opt := loader.DefaultOptions()
	opt.MaxRows = c.MaxRows
	if c.MissingMarkers != nil {
		opt.Infer.MissingMarkers = c.MissingMarkers
	}
	dec, err := singleRune("decimal_separator", c.DecimalSeparator)
	if err != nil {
		return opt, err
	}
	if dec != '.' {
		opt.Infer.DecimalSeparator = dec
		if dec == ',' {
			opt.Infer.ThousandsSeparator = '.'
		}
	}
	delim, err := singleRune("csv_delimiter", c.CSVDelimiter)
	if err != nil {
		return opt, err
	}
	opt.Delimiter = delim
	return opt, nil
}

// LogConfig derives the logger settings.
func (c *Global) LogConfig() observability.LogConfig {
	return observability.LogConfig{Level: c.LogLevel, Format: c.LogFormat, SeqURL: c.SeqURL, Service: "dataprep"}
}

// ReadTimeout returns the server read timeout.
func (c *Global) ReadTimeout() time.Duration { return time.Duration(c.ReadTimeoutSec) * time.Second }

// WriteTimeout returns the server write timeout.
func (c *Global) WriteTimeout() time.Duration { return time.Duration(c.WriteTimeoutSec) * time.Second }

// Set assigns one key from its string form, as used by `config set`.
func (c *Global) Set(key, val string) error {
	switch key {
	case "listen_addr":
		c.ListenAddr = val
	case "max_upload_bytes":
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid positive int for max_upload_bytes: %v", val)
		}
		c.MaxUploadBytes = n
	case "read_timeout_sec", "write_timeout_sec", "knn_neighbors", "max_rows", "normalize_ddof":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for %s: %v", key, val)
		}
		switch key {
		case "read_timeout_sec":
			c.ReadTimeoutSec = i
		case "write_timeout_sec":
			c.WriteTimeoutSec = i
		case "knn_neighbors":
			c.KNNNeighbors = i
		case "max_rows":
			c.MaxRows = i
		default:
			if i > 1 {
				return fmt.Errorf("invalid normalize_ddof: %d (use 0 or 1)", i)
			}
			c.NormalizeDDOF = i
		}
	case "imputation_strategy":
		st, err := clean.ParseStrategy(val)
		if err != nil {
			return err
		}
		c.ImputationStrategy = string(st)
	case "knn_weights":
		w, err := clean.ParseWeighting(val)
		if err != nil {
			return err
		}
		c.KNNWeights = string(w)
	case "missing_markers":
		var markers []string
		for _, m := range strings.Split(val, ",") {
			if m = strings.TrimSpace(m); m != "" {
				markers = append(markers, m)
			}
		}
		c.MissingMarkers = markers
	case "decimal_separator":
		if _, err := singleRune(key, val); err != nil {
			return err
		}
		c.DecimalSeparator = val
	case "csv_delimiter":
		if _, err := singleRune(key, val); err != nil {
			return err
		}
		c.CSVDelimiter = val
	case "log_level":
		c.LogLevel = strings.ToLower(val)
	case "log_format":
		switch strings.ToLower(val) {
		case "text", "json":
			c.LogFormat = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_format: %s (use text or json)", val)
		}
	case "seq_url":
		c.SeqURL = val
	case "tracing_enabled":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for tracing_enabled: %v", val)
		}
		c.TracingEnabled = b
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

// singleRune parses a one-character setting; "" yields 0 and "tab" or "\t"
// yields a tab.
func singleRune(key, s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%s must be a single character, got %q", key, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
