package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/joeycumines/go-goap/internal/eval"
	"github.com/joeycumines/go-goap/internal/goap"
)

// Validate checks the scenario. Hard errors are joined and wrap ErrInvalid;
// dubious but usable values are appended to Warnings.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	sim := c.Simulation
	if sim.Tick <= 0 {
		fail("simulation.tick must be positive, got %s", sim.Tick.D())
	}
	if sim.Duration <= 0 {
		fail("simulation.duration must be positive, got %s", sim.Duration.D())
	}
	if sim.Realtime && sim.Speed <= 0 {
		fail("simulation.speed must be positive, got %v", sim.Speed)
	}
	if sim.ReportInterval < 0 {
		fail("simulation.report_interval cannot be negative")
	}

	if c.Room.Width <= 0 || c.Room.Height <= 0 {
		fail("room size must be positive, got %vx%v", c.Room.Width, c.Room.Height)
	}
	inside := func(x, y float64) bool {
		return x >= 0 && y >= 0 && x <= c.Room.Width && y <= c.Room.Height
	}
	names := make(map[string]struct{})
	for i, obj := range c.Room.Objects {
		switch {
		case obj.Name == "":
			fail("room.objects[%d]: name is required", i)
		case !inside(obj.X, obj.Y):
			fail("room.objects[%d] %s: position (%v, %v) outside the room", i, obj.Name, obj.X, obj.Y)
		case obj.MaxHits < 0:
			fail("room.objects[%d] %s: max_hits cannot be negative", i, obj.Name)
		}
		if _, ok := names[obj.Name]; ok && obj.Name != "" {
			fail("room.objects[%d]: duplicate name %q", i, obj.Name)
		}
		names[obj.Name] = struct{}{}
	}
	if len(c.Room.Objects) == 0 {
		c.addWarning("room has no objects; cats can only explore")
	}

	if _, err := goap.ParseProceduralPolicy(c.Agent.Procedural); err != nil {
		fail("agent.procedural: %v", err)
	}
	if c.Agent.InitialDelayMax < c.Agent.InitialDelayMin {
		fail("agent.initial_delay_max is below agent.initial_delay_min")
	}
	if c.Agent.ReplanJitter >= 1 {
		c.addWarning("agent.replan_jitter %v can make replan periods non-positive", c.Agent.ReplanJitter)
	}

	b := c.Brain
	if b.IdleChance < 0 || b.WalkChance < 0 || b.IdleChance+b.WalkChance > 1 {
		fail("brain.idle_chance and brain.walk_chance must be non-negative and sum to at most 1")
	}
	if b.IdleMax < b.IdleMin || b.CalmMax < b.CalmMin {
		fail("brain maximum durations must not be below their minimums")
	}

	for name, g := range c.Goals {
		if len(g.Desired) == 0 {
			fail("goals.%s: desired is required", name)
		}
		if _, err := eval.CompileNumber(g.Priority); err != nil {
			fail("goals.%s.priority: %v", name, err)
		}
		if g.Achievable != "" {
			if _, err := eval.CompilePredicate(g.Achievable); err != nil {
				fail("goals.%s.achievable: %v", name, err)
			}
		}
	}

	if len(c.Cats) == 0 {
		fail("at least one cat is required")
	}
	clear(names)
	for i, cat := range c.Cats {
		if cat.Name == "" {
			fail("cats[%d]: name is required", i)
			continue
		}
		if _, ok := names[cat.Name]; ok {
			fail("cats[%d]: duplicate name %q", i, cat.Name)
		}
		names[cat.Name] = struct{}{}
		if !inside(cat.X, cat.Y) {
			fail("cat %s: position (%v, %v) outside the room", cat.Name, cat.X, cat.Y)
		}
		curiosity, aggression, affection := cat.Personality.Multipliers()
		if curiosity < 0 || aggression < 0 || affection < 0 {
			fail("cat %s: personality multipliers must not be negative", cat.Name)
		}
		switch mode := c.CatMode(cat); mode {
		case ModePlanner, ModeReactive:
		default:
			fail("cat %s: unknown mode %q", cat.Name, mode)
		}
		for _, g := range cat.ExprGoals {
			if _, ok := c.Goals[g]; !ok {
				fail("cat %s: undefined goal %q", cat.Name, g)
			}
		}
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		fail("log.level: %v", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "auto", "text", "json":
	default:
		fail("log.format: unknown format %q", c.Log.Format)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
