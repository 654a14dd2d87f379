package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	bt "github.com/joeycumines/go-behaviortree"
	"golang.org/x/time/rate"
)

// Progress is passed to the progress callback of a Runner.
type Progress struct {
	Scenario  string
	Elapsed   time.Duration
	Duration  time.Duration
	Frames    int
	Destroyed int
	Intact    int
}

// RunnerConfig configures a Runner.
type RunnerConfig struct {
	// Name labels logs and the summary.
	Name string
	// Tick is the simulated time per frame.
	Tick time.Duration
	// Duration is the simulated time of a run.
	Duration time.Duration
	// Speed scales the wall clock in RunRealtime. Zero means 1.
	Speed float64
	// ReportInterval is the minimum wall clock time between progress
	// reports. Zero disables them.
	ReportInterval time.Duration
	// StopWhenCleared ends the run once every object is destroyed.
	StopWhenCleared bool
	// OnProgress receives progress reports. Nil logs them.
	OnProgress func(Progress)
	Logger     *slog.Logger
}

// Runner steps a World until its duration elapses.
type Runner struct {
	world      *World
	stats      *Stats
	cfg        RunnerConfig
	logger     *slog.Logger
	report     *rate.Sometimes
	onProgress func(Progress)
}

// NewRunner creates a Runner. stats may be nil.
func NewRunner(w *World, stats *Stats, cfg RunnerConfig) (*Runner, error) {
	if w == nil {
		return nil, errors.New("sim: world is required")
	}
	if cfg.Tick <= 0 {
		return nil, fmt.Errorf("sim: tick must be positive, got %s", cfg.Tick)
	}
	if cfg.Duration <= 0 {
		return nil, fmt.Errorf("sim: duration must be positive, got %s", cfg.Duration)
	}
	if cfg.Speed < 0 {
		return nil, fmt.Errorf("sim: speed cannot be negative, got %v", cfg.Speed)
	}
	if cfg.Speed == 0 {
		cfg.Speed = 1
	}
	if stats == nil {
		stats = NewStats()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := &Runner{
		world:      w,
		stats:      stats,
		cfg:        cfg,
		logger:     logger.With("scenario", cfg.Name),
		onProgress: cfg.OnProgress,
	}
	if cfg.ReportInterval > 0 {
		r.report = &rate.Sometimes{Interval: cfg.ReportInterval}
	}
	if r.onProgress == nil {
		r.onProgress = r.logProgress
	}
	return r, nil
}

// World returns the world being run.
func (r *Runner) World() *World { return r.world }

// Stats returns the event statistics.
func (r *Runner) Stats() *Stats { return r.stats }

// Done reports whether the run is over.
func (r *Runner) Done() bool {
	if r.world.Elapsed() >= r.cfg.Duration {
		return true
	}
	return r.cfg.StopWhenCleared && r.world.Cleared()
}

// Frame steps the world once.
func (r *Runner) Frame() {
	r.world.Step(r.cfg.Tick)
	if r.report != nil {
		r.report.Do(func() { r.onProgress(r.progress()) })
	}
}

// RunFixed steps the world as fast as possible. It stops early if ctx is
// cancelled, returning the context error with the partial summary.
func (r *Runner) RunFixed(ctx context.Context) (Summary, error) {
	r.logger.Debug("run started", "mode", "fixed", "tick", r.cfg.Tick, "duration", r.cfg.Duration)
	for !r.Done() {
		if err := ctx.Err(); err != nil {
			return r.Summary(), err
		}
		r.Frame()
	}
	return r.finish(), nil
}

// RunRealtime steps the world once per Tick/Speed of wall clock time, on a
// behaviour tree ticker that stops when the run is over.
func (r *Runner) RunRealtime(ctx context.Context) (Summary, error) {
	interval := time.Duration(float64(r.cfg.Tick) / r.cfg.Speed)
	if interval <= 0 {
		interval = time.Nanosecond
	}
	r.logger.Debug("run started", "mode", "realtime", "interval", interval, "duration", r.cfg.Duration)

	ticker := bt.NewTickerStopOnFailure(ctx, interval, bt.New(func([]bt.Node) (bt.Status, error) {
		if r.Done() {
			return bt.Failure, nil
		}
		r.Frame()
		return bt.Success, nil
	}))
	<-ticker.Done()
	if err := ticker.Err(); err != nil {
		return r.Summary(), err
	}
	if err := ctx.Err(); err != nil {
		return r.Summary(), err
	}
	return r.finish(), nil
}

func (r *Runner) finish() Summary {
	s := r.Summary()
	r.logger.Info("run finished",
		"elapsed", s.Elapsed,
		"frames", s.Frames,
		"destroyed", s.Destroyed,
		"objects", s.Objects,
		"cleared", s.Cleared)
	return s
}

// Summary combines the statistics with the world state.
func (r *Runner) Summary() Summary {
	s := r.stats.Summary()
	s.Scenario = r.cfg.Name
	s.Elapsed = r.world.Elapsed()
	s.Frames = r.world.Frames()
	s.Objects = len(r.world.Room().Objects())
	s.Destroyed = r.world.Room().DestroyedCount()
	s.Cleared = r.world.Cleared()
	return s
}

func (r *Runner) progress() Progress {
	room := r.world.Room()
	return Progress{
		Scenario:  r.cfg.Name,
		Elapsed:   r.world.Elapsed(),
		Duration:  r.cfg.Duration,
		Frames:    r.world.Frames(),
		Destroyed: room.DestroyedCount(),
		Intact:    room.IntactCount(),
	}
}

func (r *Runner) logProgress(p Progress) {
	r.logger.Info("progress",
		"elapsed", p.Elapsed,
		"duration", p.Duration,
		"frames", p.Frames,
		"destroyed", p.Destroyed,
		"intact", p.Intact)
}
