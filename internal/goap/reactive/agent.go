package reactive

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	bt "github.com/joeycumines/go-behaviortree"
	pabt "github.com/joeycumines/go-pabt"

	"github.com/joeycumines/go-goap/internal/goap"
)

// Agent is a goap executor backed by a PA-BT tree. It shares the goal
// selection, pinning, replan timer and event stream of goap.Agent; the
// Planner field of the config is ignored.
type Agent struct {
	id      string
	name    string
	logger  *slog.Logger
	vocab   *goap.Vocabulary
	actions []goap.Action
	goals   []goap.Goal
	nodes   []*action
	sensor  goap.Sensor
	policy  goap.ProceduralPolicy
	onEvent goap.EventHandler
	timer   *goap.ReplanTimer

	state   goap.State
	root    bt.Node
	goal    goap.Goal
	pinned  goap.Goal
	status  goap.AgentStatus
	backoff bool
	acted   bool
	failed  bool
	elapsed time.Duration
	ctx     goap.Context
}

// NewAgent validates the declared actions and goals and creates an Agent.
func NewAgent(vocab *goap.Vocabulary, actions []goap.Action, goals []goap.Goal, cfg goap.AgentConfig) (*Agent, error) {
	settings, err := goap.ResolveAgentConfig(cfg, actions, goals)
	if err != nil {
		return nil, err
	}
	if vocab == nil {
		vocab = goap.NewVocabulary()
	}
	a := &Agent{
		id:      settings.ID,
		name:    settings.Name,
		logger:  settings.Logger,
		vocab:   vocab,
		actions: append([]goap.Action(nil), actions...),
		goals:   append([]goap.Goal(nil), goals...),
		sensor:  cfg.Sensor,
		policy:  cfg.Procedural,
		onEvent: cfg.OnEvent,
		timer:   settings.Timer,
		state:   cfg.InitialState,
		status:  goap.AgentIdle,
	}
	a.ctx = goap.Context{AgentID: a.id, Logger: a.logger}
	a.nodes = make([]*action, len(a.actions))
	for i, act := range a.actions {
		a.nodes[i] = newAction(goap.NewActionNode(act, func() *goap.Context { return &a.ctx },
			goap.OnActionStart(a.actionStarted),
			goap.OnActionSuccess(a.actionSucceeded),
			goap.OnActionFailure(a.actionFailed)))
	}
	a.logger.Debug("reactive agent created",
		"actions", len(a.actions),
		"goals", len(a.goals),
		"first_replan", a.timer.Left())
	return a, nil
}

// ID returns the agent identifier.
func (a *Agent) ID() string { return a.id }

// Name returns the agent name.
func (a *Agent) Name() string { return a.name }

// Status returns the execution state.
func (a *Agent) Status() goap.AgentStatus { return a.status }

// HasPlan reports whether a tree is being executed.
func (a *Agent) HasPlan() bool { return a.root != nil }

// BackingOff reports whether the agent is waiting for the replan timer.
func (a *Agent) BackingOff() bool { return a.backoff }

// CurrentGoal returns the goal of the current tree, or nil.
func (a *Agent) CurrentGoal() goap.Goal { return a.goal }

// PinnedGoal returns the externally pinned goal, or nil.
func (a *Agent) PinnedGoal() goap.Goal { return a.pinned }

// WorldState returns the agent's current view of the world.
func (a *Agent) WorldState() goap.State { return a.state }

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

// SetGoal pins or unpins a goal, with the semantics of goap.Agent.SetGoal.
func (a *Agent) SetGoal(name string, active bool) bool {
	var goal goap.Goal
	for _, g := range a.goals {
		if g.Name() == name {
			goal = g
			break
		}
	}
	if goal == nil {
		a.logger.Warn("unknown goal", "goal", name)
		a.emit(goap.Event{Kind: goap.EventGoalUnknown, Goal: name})
		return false
	}
	if active {
		a.pinned = goal
		a.cancel("goal pinned")
		return true
	}
	if a.pinned != nil && a.pinned.Name() == name {
		a.pinned = nil
		a.cancel("goal unpinned")
	}
	return true
}

// Interrupt discards the current tree.
func (a *Agent) Interrupt(reason string) {
	a.cancel(reason)
}

func (a *Agent) cancel(reason string) {
	a.backoff = false
	if a.root == nil {
		return
	}
	a.logger.Debug("tree cancelled", "reason", reason)
	a.emit(goap.Event{Kind: goap.EventPlanCancelled, Goal: goalName(a.goal), Reason: reason})
	a.drop()
	a.status = goap.AgentIdle
}

// Tick advances the agent by dt. The tree is rebuilt when there is none or
// the replan timer fires, then ticked once. An action that is running when
// the tree is rebuilt keeps its progress if the new tree reaches it.
func (a *Agent) Tick(dt time.Duration) {
	a.elapsed += dt
	a.ctx.Delta = dt
	a.ctx.Elapsed = a.elapsed

	rebuilt := false
	if a.timer.Advance(dt) {
		a.backoff = false
		a.rebuild()
		rebuilt = true
	} else if a.root == nil && !a.backoff {
		a.rebuild()
		rebuilt = true
	}
	if a.root == nil {
		return
	}

	a.failed = false
	for _, n := range a.nodes {
		n.ticked = false
	}
	status, err := a.root.Tick()
	if a.root == nil {
		// cancelled from inside an action
		return
	}
	if !rebuilt {
		// running actions the tree no longer reaches lose their progress
		for _, n := range a.nodes {
			if !n.ticked {
				n.exec.Abort()
			}
		}
	}
	if err != nil {
		a.logger.Warn("tree tick failed", "goal", goalName(a.goal), "error", err)
		a.emit(goap.Event{Kind: goap.EventNoPlan, Goal: goalName(a.goal), Reason: err.Error()})
		a.drop()
		a.idle()
		return
	}

	switch status {
	case bt.Running:
		a.status = goap.AgentExecuting

	case bt.Success:
		goal := a.goal
		acted := a.acted
		a.drop()
		a.goal = nil
		a.status = goap.AgentIdle
		a.emit(goap.Event{Kind: goap.EventGoalSatisfied, Goal: goalName(goal)})
		if a.pinned != nil && goal != nil && a.pinned.Name() == goal.Name() {
			a.pinned = nil
		}
		if !acted {
			// already satisfied: wait for the timer instead of spinning
			a.backoff = true
		}

	default:
		goal := a.goal
		a.drop()
		a.goal = nil
		a.status = goap.AgentIdle
		if a.failed {
			return
		}
		a.logger.Debug("no action can achieve goal, backing off", "goal", goalName(goal))
		a.emit(goap.Event{Kind: goap.EventNoPlan, Goal: goalName(goal)})
		a.backoff = true
	}
}

func (a *Agent) rebuild() {
	a.timer.Reset()
	a.backoff = false
	a.status = goap.AgentPlanning
	// running actions keep their progress if the new tree reaches them
	a.root = nil

	goal := a.pinned
	if goal == nil {
		goal = goap.SelectGoal(a.goals)
	}
	if goal == nil {
		a.logger.Debug("no achievable goal")
		a.drop()
		a.idle()
		a.emit(goap.Event{Kind: goap.EventNoGoal})
		return
	}

	if a.sensor != nil {
		a.state = a.sensor.Sense(a.state)
	}

	plan, err := pabt.INew(&state{agent: a}, conditionGroups(goal.DesiredState()))
	if err != nil {
		a.logger.Warn("building tree failed", "goal", goal.Name(), "error", err)
		a.drop()
		a.idle()
		a.emit(goap.Event{Kind: goap.EventNoPlan, Goal: goal.Name(), Reason: err.Error()})
		return
	}

	a.root = plan.Node()
	a.goal = goal
	a.acted = false
	a.status = goap.AgentExecuting
	a.logger.Debug("tree built", "goal", goal.Name())
	a.emit(goap.Event{Kind: goap.EventPlanFound, Goal: goal.Name()})
}

func (a *Agent) idle() {
	a.goal = nil
	a.backoff = true
	a.status = goap.AgentIdle
}

func (a *Agent) drop() {
	for _, n := range a.nodes {
		n.exec.Abort()
	}
	a.root = nil
}

func (a *Agent) actionStarted(act goap.Action) {
	a.acted = true
	a.logger.Debug("action started", "action", act.Name(), "target", act.Target())
	a.emit(goap.Event{Kind: goap.EventActionStarted, Goal: goalName(a.goal), Action: act.Name()})
}

func (a *Agent) actionSucceeded(act goap.Action) {
	a.state = a.state.Apply(act.Effects())
	a.logger.Debug("action succeeded", "action", act.Name())
	a.emit(goap.Event{Kind: goap.EventActionSucceeded, Goal: goalName(a.goal), Action: act.Name()})
}

func (a *Agent) actionFailed(act goap.Action, err error) {
	a.acted = true
	a.failed = true
	kind := goap.EventActionFailed
	if errors.Is(err, goap.ErrMissingBinding) {
		kind = goap.EventMissingBinding
	}
	a.logger.Info("action failed", "action", act.Name(), "goal", goalName(a.goal), "error", err)
	a.emit(goap.Event{Kind: kind, Goal: goalName(a.goal), Action: act.Name(), Reason: fmt.Sprint(err)})
}

func (a *Agent) emit(ev goap.Event) {
	if a.onEvent == nil {
		return
	}
	ev.AgentID = a.id
	ev.Agent = a.name
	a.onEvent(ev)
}

func goalName(g goap.Goal) string {
	if g == nil {
		return ""
	}
	return g.Name()
}
