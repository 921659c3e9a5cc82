package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile    string
	logLevel   string
	logFormat  string
	maxProbe   int
	oracleKind string
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:   "arity-generator",
	Short: "Build-time field-count discovery for Go record types",
	Long: `arity-generator discovers how many top-level fields a record type has by
probing how it can be positionally constructed, and keeps hand-maintained
wrapper types in step with the legacy records they mirror.

Features:
  - Exponential probe search, O(log F) construction checks per type
  - Structural and type-checker construction oracles
  - Generated untyped constants with compile-time drift guards
  - //arity:mirror and //arity:count directives
  - Watch mode for regeneration on save`,
	Version:      Version,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "arity.yaml",
		"Path to configuration file")

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	rootCmd.PersistentFlags().IntVar(&maxProbe, "max-probe", 0,
		"Override the largest field count that can be resolved")
	rootCmd.PersistentFlags().StringVar(&oracleKind, "oracle", "",
		"Override the construction oracle (structural, checker)")

	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable coloured output")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// CLIOverrides contains flag values that override config file settings
type CLIOverrides struct {
	LogLevel  string
	LogFormat string
	MaxProbe  int
	Oracle    string
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() CLIOverrides {
	return CLIOverrides{
		LogLevel:  logLevel,
		LogFormat: logFormat,
		MaxProbe:  maxProbe,
		Oracle:    oracleKind,
	}
}
