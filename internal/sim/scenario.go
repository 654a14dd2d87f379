package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/joeycumines/go-goap/internal/cat"
	"github.com/joeycumines/go-goap/internal/config"
	"github.com/joeycumines/go-goap/internal/eval"
	"github.com/joeycumines/go-goap/internal/goap"
	"github.com/joeycumines/go-goap/internal/world"
)

// Scenario is a ready-to-run simulation assembled from a config.
type Scenario struct {
	Name   string
	Seed   uint64
	World  *World
	Stats  *Stats
	Runner *Runner

	realtime bool
}

// BuildOptions tune Build beyond what the config holds.
type BuildOptions struct {
	Logger *slog.Logger
	// OnEvent additionally receives every agent event.
	OnEvent goap.EventHandler
	// OnProgress overrides progress logging.
	OnProgress func(Progress)
	// Fixed forces RunFixed even if the config asks for real time.
	Fixed bool
}

// Build validates cfg and assembles its room, cats and runner.
func Build(name string, cfg *config.Config, opts BuildOptions) (*Scenario, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	seeds := rand.New(rand.NewPCG(seed, seed>>1|1))

	room := world.NewRoom(cfg.Room.Width, cfg.Room.Height, logger)
	for _, obj := range cfg.Room.Objects {
		if err := room.Add(world.NewDestructible(obj.Name, world.Vec2{X: obj.X, Y: obj.Y}, obj.MaxHits)); err != nil {
			return nil, err
		}
	}

	w := NewWorld(room)
	stats := NewStats()
	onEvent := stats.Record
	if opts.OnEvent != nil {
		onEvent = func(ev goap.Event) {
			stats.Record(ev)
			opts.OnEvent(ev)
		}
	}
	procedural, err := goap.ParseProceduralPolicy(cfg.Agent.Procedural)
	if err != nil {
		return nil, err
	}
	cache := eval.NewCache(eval.DefaultCacheSize)

	for _, cc := range cfg.Cats {
		c, err := cat.New(room, catOptions(cfg, cc, catSettings{
			logger:     logger,
			seed:       seeds.Uint64(),
			procedural: procedural,
			cache:      cache,
			onEvent:    onEvent,
			population: w.Population,
			stats:      stats,
		}))
		if err != nil {
			return nil, fmt.Errorf("sim: cat %s: %w", cc.Name, err)
		}
		if err := w.AddCat(c); err != nil {
			return nil, err
		}
	}

	runner, err := NewRunner(w, stats, RunnerConfig{
		Name:            name,
		Tick:            cfg.Simulation.Tick.D(),
		Duration:        cfg.Simulation.Duration.D(),
		Speed:           cfg.Simulation.Speed,
		ReportInterval:  cfg.Simulation.ReportInterval.D(),
		StopWhenCleared: cfg.Simulation.StopWhenCleared,
		OnProgress:      opts.OnProgress,
		Logger:          logger,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("scenario built",
		"scenario", name,
		"seed", seed,
		"cats", w.Population(),
		"objects", len(room.Objects()))
	return &Scenario{
		Name:     name,
		Seed:     seed,
		World:    w,
		Stats:    stats,
		Runner:   runner,
		realtime: cfg.Simulation.Realtime && !opts.Fixed,
	}, nil
}

// Run runs the scenario in the mode its config selects.
func (s *Scenario) Run(ctx context.Context) (Summary, error) {
	if s.realtime {
		return s.Runner.RunRealtime(ctx)
	}
	return s.Runner.RunFixed(ctx)
}

type catSettings struct {
	logger     *slog.Logger
	seed       uint64
	procedural goap.ProceduralPolicy
	cache      *eval.Cache
	onEvent    goap.EventHandler
	population func() int
	stats      *Stats
}

func catOptions(cfg *config.Config, cc config.CatConfig, s catSettings) cat.Options {
	tuning := cat.DefaultTuning()
	if cc.Speed > 0 {
		tuning.Speed = cc.Speed
	}
	var personality cat.Personality
	personality.Curiosity, personality.Aggression, personality.Affection = cc.Personality.Multipliers()
	opts := cat.Options{
		Name:        cc.Name,
		Position:    world.Vec2{X: cc.X, Y: cc.Y},
		Facing:      cc.Facing,
		Tuning:      &tuning,
		Personality: &personality,
		Reactive:    cfg.CatMode(cc) == config.ModeReactive,
		ActionTags:  cc.Actions,
		GoalTags:    cc.Goals,
		Cache:       s.cache,
		Agent: goap.AgentConfig{
			Logger:          s.logger,
			ReplanInterval:  cfg.Agent.ReplanInterval.D(),
			ReplanJitter:    cfg.Agent.ReplanJitter,
			InitialDelayMin: cfg.Agent.InitialDelayMin.D(),
			InitialDelayMax: cfg.Agent.InitialDelayMax.D(),
			Seed:            s.seed,
			Procedural:      s.procedural,
			OnEvent:         s.onEvent,
		},
		Population: s.population,
		OnDestroyed: func(c *cat.Cat, obj *world.Destructible) {
			s.stats.RecordDestroyed(c.Name())
			s.logger.Info("object destroyed", "cat", c.Name(), "object", obj.Name())
		},
	}
	for _, name := range cfg.CatExprGoals(cc) {
		g := cfg.Goals[name]
		opts.ExprGoals = append(opts.ExprGoals, cat.ExprGoalSpec{
			Name:       name,
			Desired:    g.Desired,
			Priority:   g.Priority,
			Achievable: g.Achievable,
		})
	}
	if cfg.CatBrain(cc) {
		b := cfg.Brain
		opts.Brain = &cat.BrainConfig{
			IdleMin:              b.IdleMin.D(),
			IdleMax:              b.IdleMax.D(),
			ForcedActionInterval: b.ForcedActionInterval.D(),
			CalmMin:              b.CalmMin.D(),
			CalmMax:              b.CalmMax.D(),
			IdleChance:           b.IdleChance,
			WalkChance:           b.WalkChance,
		}
	}
	return opts
}
