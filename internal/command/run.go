package command

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joeycumines/go-goap/internal/config"
	"github.com/joeycumines/go-goap/internal/sim"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
)

// RunCommand runs one or more scenarios.
type RunCommand struct {
	*BaseCommand
	logLevel string
	logFile  string
	seed     uint64
	duration time.Duration
	realtime bool
	fixed    bool
	parallel int
	quiet    bool
	lang     string
}

// NewRunCommand creates a new run command.
func NewRunCommand() *RunCommand {
	return &RunCommand{
		BaseCommand: NewBaseCommand(
			"run",
			"Run scenarios and print a report for each",
			"run [options] [scenario.toml...]",
		),
	}
}

// SetupFlags configures the flags for the run command.
func (c *RunCommand) SetupFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from scenario)")
	fs.StringVar(&c.logFile, "log-file", "", "Write JSON logs to this file, rotated")
	fs.Uint64Var(&c.seed, "seed", 0, "Override simulation.seed")
	fs.DurationVar(&c.duration, "duration", 0, "Override simulation.duration")
	fs.BoolVar(&c.realtime, "realtime", false, "Pace frames on the wall clock")
	fs.BoolVar(&c.fixed, "fixed", false, "Run as fast as possible even if a scenario asks for real time")
	fs.IntVar(&c.parallel, "parallel", runtime.GOMAXPROCS(0), "Maximum number of scenarios run at once")
	fs.BoolVar(&c.quiet, "quiet", false, "Do not print reports")
	fs.StringVar(&c.lang, "lang", "en", "Language of report number formatting")
}

type scenarioFile struct {
	name string
	cfg  *config.Config
}

// Execute runs the scenarios named by args, or the default scenario.
func (c *RunCommand) Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if c.realtime && c.fixed {
		return errors.New("-realtime and -fixed are mutually exclusive")
	}
	tag, err := language.Parse(c.lang)
	if err != nil {
		return fmt.Errorf("invalid -lang: %w", err)
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{""}
	}
	files := make([]scenarioFile, 0, len(paths))
	for _, path := range paths {
		cfg, err := loadScenario(path)
		if err != nil {
			return err
		}
		c.override(cfg)
		name := "default"
		if path != "" {
			name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		files = append(files, scenarioFile{name: name, cfg: cfg})
	}

	// the first scenario's [log] table configures the shared logger
	lc, err := resolveLogConfig(c.logFile, c.logLevel, files[0].cfg, stderr)
	if err != nil {
		return err
	}
	defer lc.Close()

	scenarios := make([]*sim.Scenario, len(files))
	for i, f := range files {
		s, err := sim.Build(f.name, f.cfg, sim.BuildOptions{
			Logger: lc.logger,
			Fixed:  c.fixed,
		})
		if err != nil {
			return fmt.Errorf("scenario %s: %w", f.name, err)
		}
		scenarios[i] = s
	}

	summaries := make([]sim.Summary, len(scenarios))
	g, gctx := errgroup.WithContext(ctx)
	if c.parallel > 0 {
		g.SetLimit(c.parallel)
	}
	for i, s := range scenarios {
		g.Go(func() error {
			lc.logger.Info("scenario started", "scenario", s.Name, "seed", s.Seed)
			sum, err := s.Run(gctx)
			summaries[i] = sum
			if err != nil {
				return fmt.Errorf("scenario %s: %w", s.Name, err)
			}
			return nil
		})
	}
	runErr := g.Wait()

	if !c.quiet {
		for i, sum := range summaries {
			if i > 0 {
				_, _ = fmt.Fprintln(stdout)
			}
			if err := sim.WriteReport(stdout, sum, tag); err != nil {
				return err
			}
		}
	}
	if runErr != nil {
		lc.logger.Error("run failed", "error", runErr)
	}
	return runErr
}

func (c *RunCommand) override(cfg *config.Config) {
	if c.seed != 0 {
		cfg.Simulation.Seed = c.seed
	}
	if c.duration > 0 {
		cfg.Simulation.Duration = config.Duration(c.duration)
	}
	if c.realtime {
		cfg.Simulation.Realtime = true
	}
}
