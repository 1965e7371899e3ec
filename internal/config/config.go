// Package config loads lunge-counter settings from defaults, an optional config
// file, LUNGE_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lowaak/smart-trainer/lunge-counter/internal/pose"
	"github.com/lowaak/smart-trainer/lunge-counter/internal/repcounter"
)

const EnvPrefix = "LUNGE"

// Config is the full CLI configuration.
type Config struct {
	Input        string    `mapstructure:"input"`
	Selection    string    `mapstructure:"selection"`
	Convention   string    `mapstructure:"convention"`
	MinKneeAngle float64   `mapstructure:"min_knee_angle"`
	MaxKneeAngle float64   `mapstructure:"max_knee_angle"`
	UI           bool      `mapstructure:"ui"`
	Realtime     bool      `mapstructure:"realtime"`
	SummaryPath  string    `mapstructure:"summary"`
	Log          LogConfig `mapstructure:"log"`
}

// LogConfig controls the rotating log file.
type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"input":           "input",
	"selection":       "selection",
	"convention":      "convention",
	"min-angle":       "min_knee_angle",
	"max-angle":       "max_knee_angle",
	"ui":              "ui",
	"realtime":        "realtime",
	"summary":         "summary",
	"log-file":        "log.file",
	"log-max-size-mb": "log.max_size_mb",
}

// DefaultLogPath returns ~/.lunge-counter/lunge-counter.log.
func DefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".lunge-counter", "lunge-counter.log")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input", "")
	v.SetDefault("selection", repcounter.SelectMin.String())
	v.SetDefault("convention", pose.ConventionSegment.String())
	v.SetDefault("min_knee_angle", repcounter.DefaultMinKneeAngle)
	v.SetDefault("max_knee_angle", repcounter.DefaultMaxKneeAngle)
	v.SetDefault("ui", false)
	v.SetDefault("realtime", false)
	v.SetDefault("summary", "")
	v.SetDefault("log.file", DefaultLogPath())
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
}

// NewFlagSet declares the CLI flags. Flags the user did not set rank below the
// config file and environment.
func NewFlagSet(name string) *pflag.FlagSet {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.StringP("config", "c", "", "config file (yaml, json or toml)")
	flags.StringP("input", "i", "", "landmark recording (JSON Lines), - for stdin")
	flags.String("selection", repcounter.SelectMin.String(), "knee angle driving the counter: min, left, right or max")
	flags.String("convention", pose.ConventionSegment.String(), "knee angle convention: segment or interior")
	flags.Float64("min-angle", repcounter.DefaultMinKneeAngle, "angle at or below which the lunge position is reached")
	flags.Float64("max-angle", repcounter.DefaultMaxKneeAngle, "angle above which a rep is completed")
	flags.Bool("ui", false, "show the terminal dashboard")
	flags.Bool("realtime", false, "pace frames by their recorded timestamps")
	flags.String("summary", "", "write a JSON session summary to this path")
	flags.String("log-file", DefaultLogPath(), "rotating log file")
	flags.Int("log-max-size-mb", 10, "log file size before rotation")
	return flags
}

// Load parses args into flags and resolves the layered configuration.
func Load(flags *pflag.FlagSet, args []string) (*Config, error) {
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if path, _ := flags.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings the session depends on.
func (c *Config) Validate() error {
	_, err := c.SessionConfig()
	if err != nil {
		return err
	}
	if c.Log.MaxSizeMB <= 0 {
		return fmt.Errorf("log max size must be positive, got %d", c.Log.MaxSizeMB)
	}
	return nil
}

// SessionConfig converts the settings into a repcounter.Config.
func (c *Config) SessionConfig() (repcounter.Config, error) {
	selection, err := repcounter.ParseSelection(c.Selection)
	if err != nil {
		return repcounter.Config{}, err
	}
	convention, err := pose.ParseConvention(c.Convention)
	if err != nil {
		return repcounter.Config{}, err
	}
	thresholds := repcounter.Thresholds{MinKneeAngle: c.MinKneeAngle, MaxKneeAngle: c.MaxKneeAngle}
	if err := thresholds.Validate(); err != nil {
		return repcounter.Config{}, err
	}
	return repcounter.Config{
		Thresholds: thresholds,
		Selection:  selection,
		Convention: convention,
	}, nil
}
