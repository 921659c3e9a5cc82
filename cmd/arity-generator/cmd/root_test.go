package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandStructure(t *testing.T) {
	assert.Equal(t, "arity-generator", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestRootPersistentFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()

	cfg := flags.Lookup("config")
	require.NotNil(t, cfg)
	assert.Equal(t, "c", cfg.Shorthand)
	assert.Equal(t, "arity.yaml", cfg.DefValue)

	for _, name := range []string{"log-level", "log-format", "max-probe", "oracle", "no-color"} {
		assert.NotNil(t, flags.Lookup(name), name)
	}
}

func TestGetConfigFile(t *testing.T) {
	originalCfgFile := cfgFile
	defer func() {
		cfgFile = originalCfgFile
	}()

	tests := []struct {
		name     string
		cfgValue string
		want     string
	}{
		{
			name:     "empty config file",
			cfgValue: "",
			want:     "",
		},
		{
			name:     "custom config file",
			cfgValue: "/path/to/custom.yaml",
			want:     "/path/to/custom.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfgFile = tt.cfgValue
			assert.Equal(t, tt.want, GetConfigFile())
		})
	}
}

func TestGetCLIOverrides(t *testing.T) {
	originalLogLevel := logLevel
	originalLogFormat := logFormat
	originalMaxProbe := maxProbe
	originalOracle := oracleKind
	defer func() {
		logLevel = originalLogLevel
		logFormat = originalLogFormat
		maxProbe = originalMaxProbe
		oracleKind = originalOracle
	}()

	tests := []struct {
		name      string
		logLevel  string
		logFormat string
		maxProbe  int
		oracle    string
		want      CLIOverrides
	}{
		{
			name: "empty overrides",
			want: CLIOverrides{},
		},
		{
			name:      "all overrides set",
			logLevel:  "debug",
			logFormat: "json",
			maxProbe:  64,
			oracle:    "structural",
			want: CLIOverrides{
				LogLevel:  "debug",
				LogFormat: "json",
				MaxProbe:  64,
				Oracle:    "structural",
			},
		},
		{
			name:     "partial overrides",
			logLevel: "warn",
			maxProbe: 1024,
			want: CLIOverrides{
				LogLevel: "warn",
				MaxProbe: 1024,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logLevel = tt.logLevel
			logFormat = tt.logFormat
			maxProbe = tt.maxProbe
			oracleKind = tt.oracle

			assert.Equal(t, tt.want, GetCLIOverrides())
		})
	}
}

func TestExecute(t *testing.T) {
	assert.NotNil(t, Execute)
}
