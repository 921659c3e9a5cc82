package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"arity-generator/internal/diagnostic"
	"arity-generator/internal/gen"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report field counts, drift and stale generated output",
	Long: `Check resolves every configured record without writing anything and
prints a table of counts followed by any drift between paired or pinned
types. It also compares the constants file on disk with what gen would
write.

The command exits non-zero when a record cannot be resolved, a pair or pin
drifts, or the generated file is out of date.

Example:
  arity-generator check --config arity.yaml`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = s.log.Sync() }()

	if err := s.load(); err != nil {
		return err
	}

	out, err := s.run(cmd.Context())
	if err != nil {
		return err
	}

	rep := newReporter(cmd.OutOrStdout())

	if err := rep.Counts(out.results); err != nil {
		return err
	}

	if err := rep.Drifts(out.drifts); err != nil {
		return err
	}

	file, err := gen.NewGenerator(s.generatorConfig()).Generate(out.plan, out.results)
	if err != nil {
		return fmt.Errorf("failed to generate: %w", err)
	}

	stale, err := gen.IsStale(*file, s.cfg.Output.Dir)
	if err != nil {
		return err
	}

	if stale {
		out.diags.AddError(diagnostic.CodeStale, "generated file is out of date", s.outputPath(), "")

		if err := rep.Stale(s.outputPath()); err != nil {
			return err
		}
	}

	if err := rep.Diagnostics(&out.diags); err != nil {
		return err
	}

	errs := len(out.diags.Errors) - len(out.drifts)
	if err := rep.Summary(out.results.Len(), len(out.drifts), errs); err != nil {
		return err
	}

	return out.diags.Error()
}
