package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"arity-generator/internal/watch"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate the constants file when sources change",
	Long: `Watch runs gen once, then watches the directories of the loaded packages
and runs it again whenever a non-test .go file changes. The generated file
itself is ignored. Stop with Ctrl-C.

Example:
  arity-generator watch --config arity.yaml`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce,
		"Quiet period after the last change before regenerating")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = s.log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	regenerate := func(ctx context.Context) error {
		if err := s.load(); err != nil {
			return err
		}

		return s.generate(ctx, cmd)
	}

	if err := s.load(); err != nil {
		return err
	}

	if err := s.generate(ctx, cmd); err != nil {
		s.log.Errorw("initial generation failed", "error", err)
	}

	output, err := filepath.Abs(s.outputPath())
	if err != nil {
		return err
	}

	w := watch.New(s.packageDirs(), regenerate,
		watch.WithDebounce(watchDebounce),
		watch.WithIgnore(output),
		watch.WithLogger(s.log),
	)

	return w.Run(ctx)
}
