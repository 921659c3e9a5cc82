package cmd

import (
	"github.com/spf13/cobra"

	"arity-generator/internal/config"
)

var (
	initForce    bool
	initPackages []string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Long: `Init writes a configuration file with default settings to the path given
by --config. An existing file is left alone unless --force is set.

Example:
  arity-generator init
  arity-generator init -c tools/arity.yaml -p ./legacy -p ./wrapper`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing config file")
	initCmd.Flags().StringSliceVarP(&initPackages, "packages", "p", nil, "Package patterns to analyze")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if len(initPackages) > 0 {
		cfg.Packages = initPackages
	}

	path := GetConfigFile()
	if err := config.WriteFile(cfg, path, initForce); err != nil {
		return err
	}

	cmd.Printf("wrote %s\n", path)

	return nil
}
