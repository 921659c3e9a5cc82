package cmd

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/spf13/cobra"

	"arity-generator/internal/analyze"
	"arity-generator/internal/diagnostic"
	"arity-generator/internal/resolve"
)

var (
	countPackages []string
	countTrace    bool
)

var countCmd = &cobra.Command{
	Use:   "count <type>...",
	Short: "Print the field count of the named types",
	Long: `Count resolves ad-hoc type references against the loaded packages and
prints their field counts. References may be fully qualified
(example.com/legacy.Order), package-qualified (legacy.Order) or bare (Order)
when unambiguous.

With --trace every probe the search made is dumped after the table.

Example:
  arity-generator count legacy.Order wrapper.Order
  arity-generator count -p ./examples/... --trace legacy.Order`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCount,
}

func init() {
	countCmd.Flags().StringSliceVarP(&countPackages, "packages", "p", nil,
		"Package patterns to load (defaults to the configured packages)")
	countCmd.Flags().BoolVar(&countTrace, "trace", false, "Dump the probe trace of each type")
	rootCmd.AddCommand(countCmd)
}

func runCount(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = s.log.Sync() }()

	if len(countPackages) > 0 {
		s.cfg.Packages = countPackages
	}

	if err := s.load(); err != nil {
		return err
	}

	var diags diagnostic.Diagnostics

	var ids []analyze.TypeID

	for _, ref := range args {
		info, err := s.graph.Resolve(ref)
		if err != nil {
			diags.AddError(diagnostic.CodeNotFound, err.Error(), ref, "")

			continue
		}

		ids = append(ids, info.ID)
	}

	r, err := s.resolver()
	if err != nil {
		return err
	}

	results := orderedmap.NewOrderedMap[analyze.TypeID, resolve.Record]()
	for _, id := range ids {
		results.Set(id, r.Resolve(id))
	}

	resolve.Verify(resolve.Plan{}, results, &diags)

	out := cmd.OutOrStdout()
	rep := newReporter(out)

	if err := rep.Counts(results); err != nil {
		return err
	}

	if countTrace {
		for el := results.Front(); el != nil; el = el.Next() {
			fmt.Fprintf(out, "\n%s\n", el.Key)
			spew.Fdump(out, el.Value.Trace)
		}
	}

	if err := rep.Diagnostics(&diags); err != nil {
		return err
	}

	return diags.Error()
}
