// Package config loads and persists application settings: report detail
// thresholds plus cosmetic display options. Thresholds feed the insight and
// visualization layers; theme and language never affect computed statistics.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/datateller/datateller/internal/insight"
)

// Global configuration structure.
type Global struct {
	// MissingPctThreshold flags columns whose missing-value percentage
	// meets or exceeds it (percent of rows).
	MissingPctThreshold float64 `mapstructure:"missing_pct_threshold" yaml:"missing_pct_threshold"`
	// CorrelationThreshold flags column pairs at or above this absolute
	// Pearson correlation.
	CorrelationThreshold float64 `mapstructure:"correlation_threshold" yaml:"correlation_threshold"`
	// TopK caps categorical frequency tables.
	TopK int `mapstructure:"top_k" yaml:"top_k"`
	// MaxBoxCategories caps the categories drawn per box plot.
	MaxBoxCategories int `mapstructure:"max_box_categories" yaml:"max_box_categories"`
	// TopInsights caps the report's executive summary.
	TopInsights int `mapstructure:"top_insights" yaml:"top_insights"`

	// Cosmetic only.
	Theme    string `mapstructure:"theme" yaml:"theme"`
	Language string `mapstructure:"language" yaml:"language"`
}

// Default returns the built-in defaults without touching disk or env.
func Default() *Global {
	th := insight.DefaultThresholds()
	return &Global{
		MissingPctThreshold:  th.MissingPct,
		CorrelationThreshold: th.Correlation,
		TopK:                 10,
		MaxBoxCategories:     12,
		TopInsights:          6,
		Theme:                "light",
		Language:             "en",
	}
}

// Thresholds adapts the configuration for the insight generator.
func (c *Global) Thresholds() insight.Thresholds {
	return insight.Thresholds{
		MissingPct:  c.MissingPctThreshold,
		Correlation: c.CorrelationThreshold,
	}
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ~/.datateller/config.yaml, creating the directory if
// necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".datateller")
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
	v.SetEnvPrefix("DATATELLER")
	v.AutomaticEnv()

	th := insight.DefaultThresholds()
	v.SetDefault("missing_pct_threshold", th.MissingPct)
	v.SetDefault("correlation_threshold", th.Correlation)
	v.SetDefault("top_k", 10)
	v.SetDefault("max_box_categories", 12)
	v.SetDefault("top_insights", 6)
	v.SetDefault("theme", "light")
	v.SetDefault("language", "en")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".datateller")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
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
