package goap

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	bt "github.com/joeycumines/go-behaviortree"
)

// Default agent timing.
const (
	DefaultReplanInterval  = 5 * time.Second
	DefaultReplanJitter    = 0.3
	DefaultInitialDelayMin = 2 * time.Second
	DefaultInitialDelayMax = 4 * time.Second
)

// AgentStatus is the state of the agent's execution state machine.
type AgentStatus int

const (
	// AgentIdle means the agent has no plan.
	AgentIdle AgentStatus = iota
	// AgentPlanning is only observable from inside a planning call, e.g. by
	// a Sensor or an event handler.
	AgentPlanning
	// AgentExecuting means the plan head is running.
	AgentExecuting
)

// String returns the string representation of the status.
func (s AgentStatus) String() string {
	switch s {
	case AgentIdle:
		return "idle"
	case AgentPlanning:
		return "planning"
	case AgentExecuting:
		return "executing"
	default:
		return "unknown"
	}
}

// ProceduralPolicy decides whether procedural preconditions take part in
// planning.
type ProceduralPolicy int

const (
	// ProceduralExecutionOnly checks procedural preconditions only when an
	// action becomes the plan head. Plans may contain actions whose binding
	// later fails; that failure triggers a replan.
	ProceduralExecutionOnly ProceduralPolicy = iota
	// ProceduralPrefilter additionally drops actions whose procedural
	// precondition fails before each planning call.
	ProceduralPrefilter
)

// String returns the string representation of the policy.
func (p ProceduralPolicy) String() string {
	switch p {
	case ProceduralExecutionOnly:
		return "execution"
	case ProceduralPrefilter:
		return "prefilter"
	default:
		return "unknown"
	}
}

// ParseProceduralPolicy parses the String form of a policy. The empty string
// selects ProceduralExecutionOnly.
func ParseProceduralPolicy(s string) (ProceduralPolicy, error) {
	switch s {
	case "", "execution":
		return ProceduralExecutionOnly, nil
	case "prefilter":
		return ProceduralPrefilter, nil
	default:
		return 0, fmt.Errorf("goap: unknown procedural policy %q", s)
	}
}

// Sensor derives the agent's world state from the host before each planning
// call. It receives the current state and returns the one to plan from.
type Sensor interface {
	Sense(current State) State
}

// SensorFunc adapts a function to a Sensor.
type SensorFunc func(current State) State

// Sense implements Sensor.Sense.
func (f SensorFunc) Sense(current State) State { return f(current) }

// AgentConfig holds optional agent settings. The zero value is usable.
type AgentConfig struct {
	// ID defaults to a random UUID.
	ID string
	// Name defaults to the ID.
	Name string
	// Logger defaults to slog.Default.
	Logger *slog.Logger
	// Planner defaults to a ForwardPlanner.
	Planner Planner
	// ReplanInterval is the mean period of forced replans.
	ReplanInterval time.Duration
	// ReplanJitter is the fraction of ReplanInterval by which each period is
	// randomly lengthened or shortened. Zero selects the default; a negative
	// value disables jitter.
	ReplanJitter float64
	// InitialDelayMin and InitialDelayMax bound the first forced replan.
	// Both zero selects the defaults.
	InitialDelayMin time.Duration
	InitialDelayMax time.Duration
	// Rand is the source of timer jitter. Nil creates one from Seed.
	Rand *rand.Rand
	// Seed seeds the jitter source when Rand is nil. Zero picks a random seed.
	Seed uint64
	// InitialState is the starting world state.
	InitialState State
	// Sensor refreshes the world state before each planning call.
	Sensor Sensor
	// Procedural selects how procedural preconditions are handled.
	Procedural ProceduralPolicy
	// OnEvent receives events synchronously during Tick.
	OnEvent EventHandler
}

// Agent owns a set of actions and goals, maintains the current plan and
// drives its execution one tick at a time.
//
// Actions are compared by identity, so they should be pointer types.
type Agent struct {
	id      string
	name    string
	logger  *slog.Logger
	vocab   *Vocabulary
	planner Planner
	actions []Action
	goals   []Goal
	sensor  Sensor
	policy  ProceduralPolicy
	onEvent EventHandler
	timer   *ReplanTimer

	state   State
	queue   []*ActionNode
	goal    Goal
	pinned  Goal
	status  AgentStatus
	backoff bool
	elapsed time.Duration
	ctx     Context
}

// NewAgent validates the declared actions and goals and creates an Agent.
// Setup defects are returned as *ConfigError.
func NewAgent(vocab *Vocabulary, actions []Action, goals []Goal, cfg AgentConfig) (*Agent, error) {
	settings, err := ResolveAgentConfig(cfg, actions, goals)
	if err != nil {
		return nil, err
	}
	if vocab == nil {
		vocab = NewVocabulary()
	}

	planner := cfg.Planner
	if planner == nil {
		planner = NewForwardPlanner(settings.Logger, vocab)
	}

	a := &Agent{
		id:      settings.ID,
		name:    settings.Name,
		logger:  settings.Logger,
		vocab:   vocab,
		planner: planner,
		actions: append([]Action(nil), actions...),
		goals:   append([]Goal(nil), goals...),
		sensor:  cfg.Sensor,
		policy:  cfg.Procedural,
		onEvent: cfg.OnEvent,
		timer:   settings.Timer,
		state:   cfg.InitialState,
		status:  AgentIdle,
	}
	a.ctx = Context{AgentID: a.id, Logger: a.logger}

	a.logger.Debug("agent created",
		"actions", len(a.actions),
		"goals", len(a.goals),
		"first_replan", a.timer.Left())
	return a, nil
}

// ResolveAgentConfig validates actions and goals and applies the defaults of
// cfg shared by every executor. Setup defects are returned as *ConfigError.
func ResolveAgentConfig(cfg AgentConfig, actions []Action, goals []Goal) (AgentSettings, error) {
	id := cfg.ID
	if id == "" {
		id = uuid.NewString()
	}
	name := cfg.Name
	if name == "" {
		name = id
	}
	if err := validateAgent(actions, goals); err != nil {
		return AgentSettings{}, &ConfigError{Agent: name, Err: err}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	rng := cfg.Rand
	if rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = rand.Uint64()
		}
		rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}

	return AgentSettings{
		ID:     id,
		Name:   name,
		Logger: logger.With("agent", name, "agent_id", id),
		Rand:   rng,
		Timer:  NewReplanTimer(cfg, rng),
	}, nil
}

func validateAgent(actions []Action, goals []Goal) error {
	if len(actions) == 0 {
		return ErrNoActions
	}
	if len(goals) == 0 {
		return ErrNoGoals
	}
	seen := make(map[string]struct{}, len(actions))
	for i, act := range actions {
		if act == nil {
			return fmt.Errorf("action %d is nil", i)
		}
		if act.Cost() < 0 {
			return fmt.Errorf("%w: %s=%v", ErrNegativeCost, act.Name(), act.Cost())
		}
		if _, ok := seen[act.Name()]; ok {
			return fmt.Errorf("%w: action %q", ErrDuplicateName, act.Name())
		}
		seen[act.Name()] = struct{}{}
	}
	clear(seen)
	for i, g := range goals {
		if g == nil {
			return fmt.Errorf("goal %d is nil", i)
		}
		if _, ok := seen[g.Name()]; ok {
			return fmt.Errorf("%w: goal %q", ErrDuplicateName, g.Name())
		}
		seen[g.Name()] = struct{}{}
	}
	return nil
}

// ID returns the agent identifier.
func (a *Agent) ID() string { return a.id }

// Name returns the agent name.
func (a *Agent) Name() string { return a.name }

// Vocabulary returns the vocabulary SetWorldState interns names into.
func (a *Agent) Vocabulary() *Vocabulary { return a.vocab }

// Status returns the execution state.
func (a *Agent) Status() AgentStatus { return a.status }

// HasPlan reports whether the agent holds a non-empty plan.
func (a *Agent) HasPlan() bool { return len(a.queue) > 0 }

// BackingOff reports whether the agent is waiting for the replan timer after
// failing to find a goal or plan.
func (a *Agent) BackingOff() bool { return a.backoff }

// AvailableActions returns a copy of the declared actions.
func (a *Agent) AvailableActions() []Action {
	return append([]Action(nil), a.actions...)
}

// Goals returns a copy of the declared goals.
func (a *Agent) Goals() []Goal {
	return append([]Goal(nil), a.goals...)
}

// CurrentPlan returns the remaining actions of the plan, head first.
func (a *Agent) CurrentPlan() []Action {
	out := make([]Action, len(a.queue))
	for i, n := range a.queue {
		out[i] = n.Action()
	}
	return out
}

// CurrentGoal returns the goal of the current plan, or nil.
func (a *Agent) CurrentGoal() Goal { return a.goal }

// PinnedGoal returns the externally pinned goal, or nil.
func (a *Agent) PinnedGoal() Goal { return a.pinned }

// WorldState returns the agent's current view of the world.
func (a *Agent) WorldState() State { return a.state }

// Elapsed returns the total ticked time.
func (a *Agent) Elapsed() time.Duration { return a.elapsed }

// SetWorldState records a perception update, interning name if needed.
func (a *Agent) SetWorldState(name string, value bool) error {
	f, err := a.vocab.Intern(name)
	if err != nil {
		return err
	}
	a.state = a.state.With(f, value)
	return nil
}

// SetFact records a perception update for a known fact.
func (a *Agent) SetFact(f Fact, value bool) {
	a.state = a.state.With(f, value)
}

// SetGoal pins (active) or unpins (!active) the goal called name. Any change
// cancels the current plan; planning resumes on the next tick. Unknown names
// are reported as a warning and EventGoalUnknown, and false is returned.
func (a *Agent) SetGoal(name string, active bool) bool {
	var goal Goal
	for _, g := range a.goals {
		if g.Name() == name {
			goal = g
			break
		}
	}
	if goal == nil {
		a.logger.Warn("unknown goal", "goal", name)
		a.emit(Event{Kind: EventGoalUnknown, Goal: name})
		return false
	}
	if active {
		a.pinned = goal
		a.logger.Debug("goal pinned", "goal", name)
		a.cancel("goal pinned")
		return true
	}
	if a.pinned != nil && a.pinned.Name() == name {
		a.pinned = nil
		a.logger.Debug("goal unpinned", "goal", name)
		a.cancel("goal unpinned")
	}
	return true
}

// Interrupt discards the current plan. A fresh planning cycle runs on the
// next tick.
func (a *Agent) Interrupt(reason string) {
	a.cancel(reason)
}

func (a *Agent) cancel(reason string) {
	a.backoff = false
	if len(a.queue) == 0 {
		return
	}
	a.logger.Debug("plan cancelled", "reason", reason, "remaining", len(a.queue))
	a.emit(Event{Kind: EventPlanCancelled, Goal: goalName(a.goal), Plan: a.planNames(), Reason: reason})
	a.dropPlan()
	a.status = AgentIdle
}

// Tick advances the agent by dt: it replans when there is no plan or the
// replan timer fires, then runs the plan head. A failing head triggers an
// immediate replan, at most one planning call per tick; a second failure in
// the same tick leaves the plan empty for the next tick to rebuild.
func (a *Agent) Tick(dt time.Duration) {
	a.elapsed += dt
	a.ctx.Delta = dt
	a.ctx.Elapsed = a.elapsed

	fired := a.timer.Advance(dt)
	if fired {
		a.backoff = false
	}

	replanned := false
	if fired || (len(a.queue) == 0 && !a.backoff) {
		a.replan()
		replanned = true
	}
	a.execute(replanned)
}

func (a *Agent) execute(replanned bool) {
	for len(a.queue) > 0 {
		head := a.queue[0]
		status, _ := head.Tick(nil)
		if len(a.queue) == 0 || a.queue[0] != head {
			// the plan was cancelled from inside the action
			return
		}
		switch status {
		case bt.Running:
			a.status = AgentExecuting
			return

		case bt.Success:
			act := head.Action()
			a.state = a.state.Apply(act.Effects())
			a.queue = a.queue[1:]
			a.logger.Debug("action succeeded", "action", act.Name(), "remaining", len(a.queue))
			a.emit(Event{Kind: EventActionSucceeded, Goal: goalName(a.goal), Action: act.Name()})
			if len(a.queue) == 0 {
				a.finish()
			}
			return

		default:
			act := head.Action()
			err := head.Err()
			kind := EventActionFailed
			if errors.Is(err, ErrMissingBinding) {
				kind = EventMissingBinding
			}
			a.logger.Info("action failed, replanning",
				"action", act.Name(),
				"goal", goalName(a.goal),
				"error", err)
			a.emit(Event{Kind: kind, Goal: goalName(a.goal), Action: act.Name(), Reason: fmt.Sprint(err)})
			a.dropPlan()
			a.status = AgentIdle
			if replanned {
				return
			}
			replanned = true
			a.replan()
		}
	}
	a.status = AgentIdle
}

func (a *Agent) finish() {
	a.status = AgentIdle
	goal := a.goal
	a.goal = nil
	if goal == nil || !a.state.Satisfies(goal.DesiredState()) {
		return
	}
	a.logger.Debug("goal satisfied", "goal", goal.Name())
	a.emit(Event{Kind: EventGoalSatisfied, Goal: goal.Name()})
	if a.pinned != nil && a.pinned.Name() == goal.Name() {
		a.pinned = nil
	}
}

func (a *Agent) replan() {
	a.timer.Reset()
	a.backoff = false
	a.status = AgentPlanning

	goal := a.selectGoal()
	if goal == nil {
		a.logger.Debug("no achievable goal")
		a.dropPlan()
		a.idle()
		a.emit(Event{Kind: EventNoGoal})
		return
	}

	if a.sensor != nil {
		a.state = a.sensor.Sense(a.state)
	}

	actions := a.actions
	if a.policy == ProceduralPrefilter {
		actions = make([]Action, 0, len(a.actions))
		for _, act := range a.actions {
			if act.CheckProceduralPrecondition(&a.ctx) {
				actions = append(actions, act)
			}
		}
	}

	plan, ok := a.planner.Plan(actions, a.state, goal.DesiredState())
	if !ok || plan.Len() == 0 {
		a.logger.Debug("no plan found, backing off",
			"goal", goal.Name(),
			"retry_in", a.timer.Left())
		a.dropPlan()
		a.idle()
		a.emit(Event{Kind: EventNoPlan, Goal: goal.Name()})
		return
	}

	a.adopt(plan)
	a.goal = goal
	a.status = AgentExecuting
	a.logger.Debug("plan adopted",
		"goal", goal.Name(),
		"actions", plan.Names(),
		"cost", plan.Cost,
		"kind", plan.Kind)
	a.emit(Event{Kind: EventPlanFound, Goal: goal.Name(), Plan: plan.Names(), Cost: plan.Cost})
}

func (a *Agent) idle() {
	a.goal = nil
	a.backoff = true
	a.status = AgentIdle
}

// adopt replaces the queue with plan. A running head that is also the head of
// the new plan keeps its progress.
func (a *Agent) adopt(plan Plan) {
	var keep *ActionNode
	if len(a.queue) > 0 && a.queue[0].Running() && a.queue[0].Action() == plan.Actions[0] {
		keep = a.queue[0]
		a.queue = a.queue[1:]
	}
	a.dropPlan()
	queue := make([]*ActionNode, len(plan.Actions))
	for i, act := range plan.Actions {
		if i == 0 && keep != nil {
			queue[i] = keep
			continue
		}
		queue[i] = a.newNode(act)
	}
	a.queue = queue
}

func (a *Agent) newNode(act Action) *ActionNode {
	return NewActionNode(act, func() *Context { return &a.ctx },
		OnActionStart(func(act Action) {
			a.logger.Debug("action started", "action", act.Name(), "target", act.Target())
			a.emit(Event{Kind: EventActionStarted, Goal: goalName(a.goal), Action: act.Name()})
		}))
}

func (a *Agent) dropPlan() {
	for _, n := range a.queue {
		n.Abort()
	}
	a.queue = nil
}

func (a *Agent) selectGoal() Goal {
	if a.pinned != nil {
		return a.pinned
	}
	return SelectGoal(a.goals)
}

func (a *Agent) planNames() []string {
	names := make([]string, len(a.queue))
	for i, n := range a.queue {
		names[i] = n.Action().Name()
	}
	return names
}

func (a *Agent) emit(ev Event) {
	if a.onEvent == nil {
		return
	}
	ev.AgentID = a.id
	ev.Agent = a.name
	a.onEvent(ev)
}

func goalName(g Goal) string {
	if g == nil {
		return ""
	}
	return g.Name()
}
