package cat

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/joeycumines/go-goap/internal/goap"
	"github.com/joeycumines/go-goap/internal/world"
)

// Executor is the part of an agent the Brain and Cat drive. Both
// *goap.Agent and *reactive.Agent implement it.
type Executor interface {
	Tick(dt time.Duration)
	HasPlan() bool
	BackingOff() bool
	SetGoal(name string, active bool) bool
	Interrupt(reason string)
	WorldState() goap.State
}

var _ Executor = (*goap.Agent)(nil)

// BrainConfig holds the Brain timings and choice weights.
type BrainConfig struct {
	IdleMin time.Duration
	IdleMax time.Duration
	// ForcedActionInterval is how long the brain lets a choice run before
	// choosing again.
	ForcedActionInterval time.Duration
	CalmMin              time.Duration
	CalmMax              time.Duration
	// IdleChance and WalkChance partition [0, 1): draws below IdleChance
	// rest, draws below IdleChance+WalkChance wander, the rest attack.
	IdleChance float64
	WalkChance float64
}

// DefaultBrainConfig returns the stock timings.
func DefaultBrainConfig() BrainConfig {
	return BrainConfig{
		IdleMin:              2 * time.Second,
		IdleMax:              5 * time.Second,
		ForcedActionInterval: 10 * time.Second,
		CalmMin:              5 * time.Second,
		CalmMax:              10 * time.Second,
		IdleChance:           0.4,
		WalkChance:           0.4,
	}
}

// Choice is a decision made by the Brain.
type Choice int

const (
	ChooseIdle Choice = iota
	ChooseWalk
	ChooseAttack
)

// String returns the string representation of the choice.
func (c Choice) String() string {
	switch c {
	case ChooseIdle:
		return "idle"
	case ChooseWalk:
		return "walk"
	case ChooseAttack:
		return "attack"
	default:
		return "unknown"
	}
}

// Brain sits above an agent and keeps the cat restless: every so often, or
// whenever the agent runs out of plan, it randomly decides to rest, to wander
// or to attack, pinning the matching goal. An agent backing off after a
// failed replan is left alone until the next forced choice. While resting or calming down
// after breaking something the agent is not ticked at all.
type Brain struct {
	exec   Executor
	nav    *world.Navigator
	room   *world.Room
	rng    *rand.Rand
	logger *slog.Logger
	cfg    BrainConfig
	// docile cats never pin DestroyObject
	docile bool

	idleLeft    time.Duration
	calmLeft    time.Duration
	sinceChoice time.Duration
	last        Choice
	choices     int
}

// NewBrain creates a Brain. The first tick makes a choice.
func NewBrain(exec Executor, deps *Deps, cfg BrainConfig) *Brain {
	return &Brain{
		exec:   exec,
		nav:    deps.Nav,
		room:   deps.Room,
		rng:    deps.Rand,
		logger: deps.Logger,
		cfg:    cfg,
		docile: deps.Personality.Multiplier(GoalDestroyObject) == 0,
		// force a choice on the first tick
		sinceChoice: cfg.ForcedActionInterval,
	}
}

// Resting reports whether the brain chose to idle and the idle period has
// not ended.
func (b *Brain) Resting() bool { return b.idleLeft > 0 }

// Calming reports whether a calm period is in progress.
func (b *Brain) Calming() bool { return b.calmLeft > 0 }

// Last returns the most recent choice.
func (b *Brain) Last() Choice { return b.last }

// Choices returns the number of choices made so far.
func (b *Brain) Choices() int { return b.choices }

// Calm suspends the agent for d and stops the cat in place.
func (b *Brain) Calm(d time.Duration) {
	if d <= 0 {
		return
	}
	b.calmLeft = d
	b.idleLeft = 0
	b.exec.Interrupt("calm")
	b.nav.Stop()
	b.logger.Debug("calming down", "for", d)
}

// CalmRandom calls Calm with a duration drawn from the configured range.
func (b *Brain) CalmRandom() {
	b.Calm(randDuration(b.rng, b.cfg.CalmMin, b.cfg.CalmMax))
}

// Tick advances the brain and, unless resting or calming, the agent.
func (b *Brain) Tick(dt time.Duration) {
	if b.calmLeft > 0 {
		b.calmLeft -= dt
		if b.calmLeft > 0 {
			return
		}
		b.calmLeft = 0
		b.nav.Resume()
		b.choose()
		return
	}

	b.sinceChoice += dt
	if b.idleLeft > 0 {
		b.idleLeft -= dt
		if b.idleLeft > 0 {
			return
		}
		b.idleLeft = 0
		b.choose()
		return
	}
	if b.sinceChoice >= b.cfg.ForcedActionInterval {
		b.choose()
		if b.idleLeft > 0 {
			return
		}
	}

	b.exec.Tick(dt)
	// a backing-off agent keeps its backoff until the next forced choice
	if !b.exec.HasPlan() && !b.exec.BackingOff() {
		b.choose()
	}
}

func (b *Brain) choose() {
	b.sinceChoice = 0
	b.choices++

	r := b.rng.Float64()
	switch {
	case r < b.cfg.IdleChance:
		b.last = ChooseIdle
		b.idleLeft = randDuration(b.rng, b.cfg.IdleMin, b.cfg.IdleMax)
		b.exec.Interrupt("resting")
		b.nav.ClearDestination()
		b.logger.Debug("brain chose to rest", "for", b.idleLeft)
	case r < b.cfg.IdleChance+b.cfg.WalkChance:
		b.last = ChooseWalk
		b.pin(GoalExplore)
	default:
		b.last = ChooseAttack
		if b.docile || b.room.IntactCount() == 0 {
			b.logger.Debug("brain wanted to attack but will not", "docile", b.docile)
			b.last = ChooseWalk
			b.pin(GoalExplore)
			return
		}
		b.pin(GoalDestroyObject)
	}
}

func (b *Brain) pin(goal string) {
	b.logger.Debug("brain chose a goal", "choice", b.last, "goal", goal)
	if !b.exec.SetGoal(goal, true) {
		b.exec.Interrupt("brain choice unavailable")
	}
}
