package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"arity-generator/internal/gen"
)

var genStdout bool

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Resolve field counts and write the constants file",
	Long: `Gen loads the configured packages, resolves the field count of every
record, pair member and pinned type, and writes a Go file of untyped
constants with a drift guard per pair and pin.

A drift guard fails to compile when its counts disagree, so the generated
file is written even when drift is found and the command exits non-zero.

Example:
  arity-generator gen --config arity.yaml
  arity-generator gen --stdout`,
	RunE: runGen,
}

func init() {
	genCmd.Flags().BoolVar(&genStdout, "stdout", false, "Print the generated file instead of writing it")
	rootCmd.AddCommand(genCmd)
}

func runGen(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = s.log.Sync() }()

	if err := s.load(); err != nil {
		return err
	}

	return s.generate(cmd.Context(), cmd)
}

// generate runs one resolution and writes (or prints) the constants file.
func (s *session) generate(ctx context.Context, cmd *cobra.Command) error {
	out, err := s.run(ctx)
	if err != nil {
		return err
	}

	file, err := gen.NewGenerator(s.generatorConfig()).Generate(out.plan, out.results)
	if err != nil {
		return fmt.Errorf("failed to generate: %w", err)
	}

	if genStdout {
		if _, err := cmd.OutOrStdout().Write(file.Content); err != nil {
			return err
		}

		return out.diags.Error()
	}

	if err := gen.WriteFiles([]gen.GeneratedFile{*file}, s.cfg.Output.Dir); err != nil {
		return err
	}

	s.log.Infow("wrote", "file", s.outputPath(), "records", out.results.Len())

	rep := newReporter(cmd.OutOrStdout())
	if err := rep.Diagnostics(&out.diags); err != nil {
		return err
	}

	return out.diags.Error()
}
