// Package config loads process-level engine configuration from YAML via
// viper, falling back to compiled-in defaults when no file is present.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the engine's tunable defaults: cell dimensions, viewport
// overscan, and cooperative-calculation budgets.
type Config struct {
	Dimensions   DimensionsConfig   `mapstructure:"dimensions"`
	Viewport     ViewportConfig     `mapstructure:"viewport"`
	Cooperative  CooperativeConfig  `mapstructure:"cooperative"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// DimensionsConfig holds default cell sizing.
type DimensionsConfig struct {
	DefaultRowHeight float64 `mapstructure:"default_row_height"`
	DefaultColWidth  float64 `mapstructure:"default_col_width"`
}

// ViewportConfig holds rendering overscan.
type ViewportConfig struct {
	OverscanRows int `mapstructure:"overscan_rows"`
	OverscanCols int `mapstructure:"overscan_cols"`
}

// CooperativeConfig holds cooperative-calculation slice budgets.
type CooperativeConfig struct {
	SliceMs    int `mapstructure:"slice_ms"`
	CellBudget int `mapstructure:"cell_budget"`
}

// LoggingConfig holds logging verbosity.
type LoggingConfig struct {
	Verbose bool `mapstructure:"verbose"`
}

// Load reads configuration from path (YAML), falling back to compiled-in
// defaults for any key it doesn't set. A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		path = "sheetengine.yaml"
	}
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if !isNotFound(err) {
			return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal: %w", err)
	}
	return &cfg, nil
}

func isNotFound(err error) bool {
	if os.IsNotExist(err) {
		return true
	}
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return true
	}
	return strings.Contains(err.Error(), "no such file")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dimensions.default_row_height", 21.0)
	v.SetDefault("dimensions.default_col_width", 100.0)
	v.SetDefault("viewport.overscan_rows", 5)
	v.SetDefault("viewport.overscan_cols", 3)
	v.SetDefault("cooperative.slice_ms", 16)
	v.SetDefault("cooperative.cell_budget", 100)
	v.SetDefault("logging.verbose", false)
}
