package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"arity-generator/internal/analyze"
	"arity-generator/internal/config"
	"arity-generator/internal/diagnostic"
	"arity-generator/internal/gen"
	"arity-generator/internal/logger"
	"arity-generator/internal/oracle"
	"arity-generator/internal/report"
	"arity-generator/internal/resolve"
	"arity-generator/internal/search"
)

// session is the state shared by subcommands: configuration, logger and
// the loaded type graph.
type session struct {
	cfg   *config.Config
	log   *logger.Logger
	graph *analyze.TypeGraph
}

// outcome is the result of one resolution run.
type outcome struct {
	plan    resolve.Plan
	results *resolve.Results
	drifts  []resolve.Drift
	diags   diagnostic.Diagnostics
}

// loadConfig reads the config file. A missing default config file falls
// back to defaults; a missing file named with --config is an error.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := GetConfigFile()

	var cfg *config.Config

	_, statErr := os.Stat(path)

	switch {
	case statErr == nil:
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}

		cfg = loaded
	case errors.Is(statErr, fs.ErrNotExist) && !cmd.Flags().Changed("config"):
		cfg = config.DefaultConfig()
	default:
		return nil, fmt.Errorf("failed to load config: %w", statErr)
	}

	o := GetCLIOverrides()
	cfg.ApplyOverrides(o.LogLevel, o.LogFormat, o.MaxProbe, o.Oracle)

	return cfg, nil
}

// newSession loads config and logger. Packages are loaded by load.
func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return &session{cfg: cfg, log: log}, nil
}

func (s *session) load() error {
	s.log.Debugw("loading packages", "patterns", s.cfg.Packages)

	graph, err := analyze.NewAnalyzer(analyze.WithBuildTags(s.cfg.BuildTags...)).LoadPackages(s.cfg.Packages...)
	if err != nil {
		return fmt.Errorf("failed to load packages: %w", err)
	}

	s.graph = graph
	s.log.Debugw("loaded", "packages", len(graph.Packages), "types", len(graph.Types))

	return nil
}

func (s *session) resolver() (*resolve.Resolver, error) {
	engine, err := search.ByName(s.cfg.Search.Engine)
	if err != nil {
		return nil, err
	}

	var o oracle.Oracle
	if oracle.Kind(s.cfg.Search.Oracle) == oracle.KindChecker {
		o = oracle.NewChecker(s.graph.TypesPackage)
	} else if o, err = oracle.New(oracle.Kind(s.cfg.Search.Oracle)); err != nil {
		return nil, err
	}

	s.log.WithFields(map[string]any{
		"oracle":         s.cfg.Search.Oracle,
		"engine":         s.cfg.Search.Engine,
		"max_probe":      s.cfg.Search.MaxProbe,
		"cross_validate": s.cfg.Search.CrossValidate,
	}).Debug("resolver")

	return resolve.New(s.graph,
		resolve.WithOracle(o),
		resolve.WithEngine(engine),
		resolve.WithSearchConfig(s.cfg.SearchSettings()),
		resolve.WithCrossValidation(s.cfg.Search.CrossValidate),
		resolve.WithWorkers(s.cfg.Search.Workers),
		resolve.WithLogger(s.log),
	), nil
}

// run builds the plan, resolves every record and verifies pairs and pins.
func (s *session) run(ctx context.Context) (*outcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	out := &outcome{}
	out.plan = resolve.BuildPlan(s.graph, s.cfg, &out.diags)

	r, err := s.resolver()
	if err != nil {
		return nil, err
	}

	out.results, err = r.ResolveAll(ctx, out.plan.Records)
	if err != nil {
		return nil, err
	}

	out.drifts = resolve.Verify(out.plan, out.results, &out.diags)

	for _, d := range out.drifts {
		if d.Pair != nil {
			s.log.WithPair(d.Pair.Name).Warnw("drift", "legacy", d.LegacyCount, "wrapper", d.WrapperCount)
		}
	}

	s.log.Infow("resolved",
		"records", out.results.Len(),
		"pairs", len(out.plan.Pairs),
		"pins", len(out.plan.Pins),
		"drifts", len(out.drifts),
	)

	return out, nil
}

// newReporter returns a table reporter for w honouring --no-color.
func newReporter(w io.Writer) *report.Reporter {
	var opts []report.Option
	if noColor {
		opts = append(opts, report.WithColor(false))
	}

	return report.New(w, opts...)
}

func (s *session) generatorConfig() gen.GeneratorConfig {
	return gen.GeneratorConfig{
		PackageName:      s.cfg.Output.Package,
		OutputDir:        s.cfg.Output.Dir,
		Filename:         s.cfg.Output.File,
		GenerateComments: s.cfg.Output.Comments,
	}
}

func (s *session) outputPath() string {
	return filepath.Join(s.cfg.Output.Dir, s.cfg.Output.File)
}

// packageDirs lists the directories of the loaded packages.
func (s *session) packageDirs() []string {
	seen := make(map[string]bool)

	var dirs []string

	for _, path := range s.graph.Files() {
		dir := filepath.Dir(path)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	return dirs
}
