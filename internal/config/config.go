package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Reduce  ReduceConfig  `mapstructure:"reduce"`
	Logging LoggingConfig `mapstructure:"logging"`
	History HistoryConfig `mapstructure:"history"`
}

type ReduceConfig struct {
	Scale        float64 `mapstructure:"scale"`
	Quality      float64 `mapstructure:"quality"`
	ExemptWidth  int     `mapstructure:"exempt_width"`
	ExemptHeight int     `mapstructure:"exempt_height"`
	CMYKProfile  string  `mapstructure:"cmyk_profile"`
	Intent       string  `mapstructure:"intent"`
	Workers      int     `mapstructure:"workers"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	JSONFormat bool   `mapstructure:"json_format"`
}

type HistoryConfig struct {
	Path string `mapstructure:"path"` // empty disables the run ledger
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"scale":         "reduce.scale",
	"quality":       "reduce.quality",
	"exempt-width":  "reduce.exempt_width",
	"exempt-height": "reduce.exempt_height",
	"cmyk-profile":  "reduce.cmyk_profile",
	"intent":        "reduce.intent",
	"workers":       "reduce.workers",
	"log-level":     "logging.level",
	"log-json":      "logging.json_format",
	"history-db":    "history.path",
}

// Load reads configuration from defaults, an optional YAML file, PDFREDUCE_*
// environment variables and, when flags is non-nil, any of its flags that
// were set. configFile overrides the config search path.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("reduce.scale", 0.5)
	v.SetDefault("reduce.quality", 0.5)
	v.SetDefault("reduce.exempt_width", 0)
	v.SetDefault("reduce.exempt_height", 0)
	v.SetDefault("reduce.cmyk_profile", "")
	v.SetDefault("reduce.intent", "perceptual")
	v.SetDefault("reduce.workers", 1)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.json_format", false)
	v.SetDefault("history.path", "")

	// Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("pdfreduce")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/pdfreduce")
		v.AddConfigPath("/etc/pdfreduce")
	}

	// Environment variables
	v.SetEnvPrefix("PDFREDUCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	// Read config file (optional unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if !(c.Reduce.Scale > 0) {
		return fmt.Errorf("reduce.scale must be greater than 0")
	}
	if !(c.Reduce.Quality >= 0 && c.Reduce.Quality <= 1) {
		return fmt.Errorf("reduce.quality must be between 0 and 1")
	}
	if c.Reduce.ExemptWidth < 0 || c.Reduce.ExemptHeight < 0 {
		return fmt.Errorf("reduce.exempt_width and reduce.exempt_height must not be negative")
	}
	if c.Reduce.Workers < 1 {
		return fmt.Errorf("reduce.workers must be at least 1")
	}
	switch c.Reduce.Intent {
	case "perceptual", "relative", "saturation", "absolute":
	default:
		return fmt.Errorf("reduce.intent must be one of perceptual, relative, saturation, absolute")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error")
	}
	return nil
}

// NewLogger builds the process logger described by the logging section.
func (c LoggingConfig) NewLogger(w io.Writer) *slog.Logger {
	var logLevel slog.Level
	switch c.Level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if c.JSONFormat {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}
