// Package config provides configuration structures and loading for arity-generator.
package config

import (
	"arity-generator/internal/oracle"
	"arity-generator/internal/search"
)

// Config represents the complete generator configuration.
type Config struct {
	// Packages are the go/packages patterns to load.
	Packages []string `yaml:"packages" mapstructure:"packages"`
	// BuildTags are passed to the go command when loading packages.
	BuildTags []string `yaml:"build_tags,omitempty" mapstructure:"build_tags"`
	// Records are counted and emitted as constants.
	Records []string `yaml:"records,omitempty" mapstructure:"records"`
	// Pairs must keep equal field counts.
	Pairs []PairConfig `yaml:"pairs,omitempty" mapstructure:"pairs"`
	// Discover adds records and pairs declared with //arity: directives.
	Discover bool          `yaml:"discover" mapstructure:"discover"`
	Search   SearchConfig  `yaml:"search" mapstructure:"search"`
	Output   OutputConfig  `yaml:"output" mapstructure:"output"`
	Logging  LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

// PairConfig links a legacy record to the wrapper that mirrors it.
type PairConfig struct {
	Name    string `yaml:"name,omitempty" mapstructure:"name"`
	Legacy  string `yaml:"legacy" mapstructure:"legacy"`
	Wrapper string `yaml:"wrapper" mapstructure:"wrapper"`
}

// SearchConfig controls the arity search.
type SearchConfig struct {
	MaxProbe      int    `yaml:"max_probe" mapstructure:"max_probe"`
	Oracle        string `yaml:"oracle" mapstructure:"oracle"` // structural, checker
	Engine        string `yaml:"engine" mapstructure:"engine"` // exponential, linear
	CrossValidate bool   `yaml:"cross_validate" mapstructure:"cross_validate"`
	Workers       int    `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig controls the generated file.
type OutputConfig struct {
	Package  string `yaml:"package" mapstructure:"package"`
	Dir      string `yaml:"dir" mapstructure:"dir"`
	File     string `yaml:"file" mapstructure:"file"`
	Comments bool   `yaml:"comments" mapstructure:"comments"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json, text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Packages: []string{"./..."},
		Discover: true,
		Search: SearchConfig{
			MaxProbe: search.DefaultMaxProbe,
			Oracle:   string(oracle.KindChecker),
			Engine:   "exponential",
			Workers:  4,
		},
		Output: OutputConfig{
			Package:  "arity",
			Dir:      "./internal/arity",
			File:     "arity_gen.go",
			Comments: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// ApplyOverrides applies CLI flag overrides to the configuration.
// Only non-zero values are applied.
func (c *Config) ApplyOverrides(logLevel, logFormat string, maxProbe int, oracleKind string) {
	if logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat != "" {
		c.Logging.Format = logFormat
	}

	if maxProbe > 0 {
		c.Search.MaxProbe = maxProbe
	}

	if oracleKind != "" {
		c.Search.Oracle = oracleKind
	}
}

// SearchSettings converts the search section to engine settings.
func (c *Config) SearchSettings() search.Config {
	return search.Config{MaxProbe: c.Search.MaxProbe}
}
