package cat

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/joeycumines/go-goap/internal/eval"
	"github.com/joeycumines/go-goap/internal/goap"
	"github.com/joeycumines/go-goap/internal/goap/reactive"
	"github.com/joeycumines/go-goap/internal/world"
)

// ExprGoalSpec declares a goal whose priority and achievability are
// expressions over eval.Env.
type ExprGoalSpec struct {
	Name       string
	Desired    map[string]bool
	Priority   string
	Achievable string
}

// Options configure a Cat. The zero value, apart from Name, is usable.
type Options struct {
	Name     string
	Position world.Vec2
	// Facing is the initial heading in radians.
	Facing float64
	// Tuning defaults to DefaultTuning.
	Tuning *Tuning
	// Personality defaults to DefaultPersonality.
	Personality *Personality
	// Brain enables the Brain with the given config.
	Brain *BrainConfig
	// Reactive selects the PA-BT executor instead of the forward planner.
	Reactive bool

	// ActionTags and GoalTags select behaviours from the registries. Empty
	// selects every default tag.
	ActionTags []string
	GoalTags   []string
	// ExprGoals are added after the tagged goals.
	ExprGoals []ExprGoalSpec
	// Actions and Goals default to the built-in registries.
	Actions *ActionRegistry
	Goals   *GoalRegistry
	// Cache compiles ExprGoals; nil uses eval.DefaultCache.
	Cache *eval.Cache

	// Agent is passed to the executor. Its Name defaults to the cat name and
	// its Sensor to NewSensor.
	Agent goap.AgentConfig
	// Rand drives the behaviours. Nil creates one from Agent.Seed.
	Rand *rand.Rand
	// Population reports the number of cats sharing the room.
	Population func() int
	// OnDestroyed is called after one of the cat's hits destroys an object.
	OnDestroyed func(c *Cat, obj *world.Destructible)
}

// Cat is an agent embodied in a room.
type Cat struct {
	name      string
	vocab     *goap.Vocabulary
	deps      *Deps
	exec      Executor
	brain     *Brain
	elapsed   time.Duration
	destroyed int
	calm      bool
	onDestroy func(*Cat, *world.Destructible)
	pop       func() int
}

// New creates a cat in room.
func New(room *world.Room, opts Options) (*Cat, error) {
	if room == nil {
		return nil, errors.New("cat: room is required")
	}
	if opts.Name == "" {
		return nil, errors.New("cat: name is required")
	}
	if !room.Contains(opts.Position) {
		return nil, fmt.Errorf("cat %s: position %s outside the room", opts.Name, opts.Position)
	}

	tuning := DefaultTuning()
	if opts.Tuning != nil {
		tuning = *opts.Tuning
	}
	personality := DefaultPersonality()
	if opts.Personality != nil {
		personality = *opts.Personality
	}
	rng := opts.Rand
	if rng == nil {
		seed := opts.Agent.Seed
		if seed == 0 {
			seed = rand.Uint64()
		}
		rng = rand.New(rand.NewPCG(seed, ^seed))
	}
	logger := opts.Agent.Logger
	if logger == nil {
		logger = slog.Default()
	}

	body := &world.Body{Pos: opts.Position, Facing: opts.Facing, TurnRate: world.DefaultTurnRate}
	c := &Cat{
		name:      opts.Name,
		vocab:     NewVocabulary(),
		onDestroy: opts.OnDestroyed,
		pop:       opts.Population,
	}
	c.deps = &Deps{
		Name:        opts.Name,
		Room:        room,
		Nav:         world.NewNavigator(body, room, tuning.Speed),
		Rand:        rng,
		Logger:      logger.With("cat", opts.Name),
		Tuning:      tuning,
		Personality: personality,
		Env:         c.Env,
		OnDestroyed: c.objectDestroyed,
	}

	actions, goals, err := c.behaviours(opts)
	if err != nil {
		return nil, err
	}

	cfg := opts.Agent
	if cfg.Name == "" {
		cfg.Name = opts.Name
	}
	if cfg.Sensor == nil {
		cfg.Sensor = NewSensor(c.deps)
	}
	if opts.Reactive {
		c.exec, err = reactive.NewAgent(c.vocab, actions, goals, cfg)
	} else {
		c.exec, err = goap.NewAgent(c.vocab, actions, goals, cfg)
	}
	if err != nil {
		return nil, err
	}
	if opts.Brain != nil {
		c.brain = NewBrain(c.exec, c.deps, *opts.Brain)
	}
	return c, nil
}

func (c *Cat) behaviours(opts Options) ([]goap.Action, []goap.Goal, error) {
	actionReg, goalReg := opts.Actions, opts.Goals
	if actionReg == nil {
		actionReg = Actions()
	}
	if goalReg == nil {
		goalReg = Goals()
	}
	actionTags, goalTags := opts.ActionTags, opts.GoalTags
	if len(actionTags) == 0 {
		actionTags = DefaultActionTags
	}
	if len(goalTags) == 0 && len(opts.ExprGoals) == 0 {
		goalTags = DefaultGoalTags
	}

	actions, err := actionReg.Build(c.deps, actionTags...)
	if err != nil {
		return nil, nil, fmt.Errorf("cat %s: %w", c.name, err)
	}
	goals, err := goalReg.Build(c.deps, goalTags...)
	if err != nil {
		return nil, nil, fmt.Errorf("cat %s: %w", c.name, err)
	}
	for _, spec := range opts.ExprGoals {
		desired, err := goap.ConditionsFromMap(c.vocab, spec.Desired)
		if err != nil {
			return nil, nil, fmt.Errorf("cat %s: goal %s: %w", c.name, spec.Name, err)
		}
		g, err := NewExprGoal(c.deps, opts.Cache, spec.Name, desired, spec.Priority, spec.Achievable)
		if err != nil {
			return nil, nil, fmt.Errorf("cat %s: goal %s: %w", c.name, spec.Name, err)
		}
		goals = append(goals, g)
	}
	for i, g := range goals {
		goals[i] = WithPersonality(g, c.deps.Personality)
	}
	return actions, goals, nil
}

// Name returns the cat name.
func (c *Cat) Name() string { return c.name }

// Vocabulary returns the cat's fact vocabulary.
func (c *Cat) Vocabulary() *goap.Vocabulary { return c.vocab }

// Executor returns the agent driving the cat.
func (c *Cat) Executor() Executor { return c.exec }

// Brain returns the brain, or nil when disabled.
func (c *Cat) Brain() *Brain { return c.brain }

// Body returns the cat's body.
func (c *Cat) Body() *world.Body { return c.deps.body() }

// Navigator returns the cat's navigator.
func (c *Cat) Navigator() *world.Navigator { return c.deps.Nav }

// Destroyed returns the number of objects the cat has destroyed.
func (c *Cat) Destroyed() int { return c.destroyed }

// Elapsed returns the total ticked time.
func (c *Cat) Elapsed() time.Duration { return c.elapsed }

// SetGoal pins or unpins a goal on the executor.
func (c *Cat) SetGoal(name string, active bool) bool { return c.exec.SetGoal(name, active) }

// Tick advances the cat's mind then its body.
func (c *Cat) Tick(dt time.Duration) {
	c.elapsed += dt
	if c.brain != nil {
		c.brain.Tick(dt)
		if c.calm {
			c.calm = false
			c.brain.CalmRandom()
		}
	} else {
		c.exec.Tick(dt)
	}
	c.deps.Nav.Step(dt)
}

// Env builds the expression environment of the cat.
func (c *Cat) Env() eval.Env {
	room := c.deps.Room
	pos := c.deps.body().Pos
	env := eval.Env{
		Objects:    room.IntactCount(),
		Nearby:     room.CountIntactWithin(pos, c.deps.Tuning.NearRadius),
		Nearest:    -1,
		Cats:       1,
		Elapsed:    c.elapsed.Seconds(),
		Curiosity:  c.deps.Personality.Multiplier(GoalExplore),
		Aggression: c.deps.Personality.Multiplier(GoalDestroyObject),
		Affection:  c.deps.Personality.Multiplier(GoalPlayWithPlayer),
		Facts:      make(map[string]bool, c.vocab.Len()),
	}
	if _, d, ok := room.NearestIntact(pos, 0); ok {
		env.Nearest = d
	}
	if c.pop != nil {
		env.Cats = c.pop()
	}
	if c.exec != nil {
		state := c.exec.WorldState()
		for i, name := range c.vocab.Names() {
			env.Facts[name] = state.Get(goap.Fact(i))
		}
	}
	return env
}

func (c *Cat) objectDestroyed(obj *world.Destructible) {
	c.destroyed++
	// calming interrupts the agent, so it waits for the tick to finish
	c.calm = c.brain != nil
	if c.onDestroy != nil {
		c.onDestroy(c, obj)
	}
}
