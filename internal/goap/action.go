package goap

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrNegativeCost is returned for actions declaring a cost below zero.
var ErrNegativeCost = errors.New("goap: negative action cost")

// PerformResult is the outcome of advancing an action by one tick.
type PerformResult int

const (
	// Continuing means the action needs more ticks.
	Continuing PerformResult = iota
	// Succeeded means the action completed; its effects now hold.
	Succeeded
	// Failed means the action cannot complete. The plan it belongs to is
	// abandoned and the action is not retried as-is.
	Failed
)

// String returns the string representation of the result.
func (r PerformResult) String() string {
	switch r {
	case Continuing:
		return "continuing"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Context is the per-tick execution context handed to actions.
type Context struct {
	// AgentID identifies the agent executing the action.
	AgentID string
	// Delta is the time advanced by the current tick.
	Delta time.Duration
	// Elapsed is the total time the agent has been ticked.
	Elapsed time.Duration
	// Logger is scoped to the agent.
	Logger *slog.Logger
}

// Action is a unit of behaviour the planner can sequence and the agent can
// execute.
//
// Preconditions, Effects and Cost are declarative and must not depend on the
// binding state set by CheckProceduralPrecondition; the planner only ever
// calls those three.
type Action interface {
	// Name identifies the action in logs and registries. Names are unique
	// within an agent.
	Name() string

	// Preconditions must all hold for the action to be applicable.
	Preconditions() Conditions

	// Effects hold once the action succeeds.
	Effects() Conditions

	// Cost is non-negative; lower is cheaper.
	Cost() float64

	// CheckProceduralPrecondition resolves dynamic applicability, typically by
	// binding a target. It must be idempotent and returns false if no valid
	// binding exists.
	CheckProceduralPrecondition(ctx *Context) bool

	// Perform advances the action by one tick. It is called every tick until
	// it returns Succeeded or Failed.
	Perform(ctx *Context) PerformResult

	// ResetAction clears transient binding and progress state. It is called
	// before the action (re-)enters execution.
	ResetAction()

	// RequiresInRange reports whether the action needs physical proximity to
	// its target before Perform is meaningful.
	RequiresInRange() bool

	// Target returns the bound target, or nil when unbound.
	Target() fmt.Stringer
}

// BaseAction carries the declarative half of an Action. Concrete actions
// embed it and implement Perform, overriding other methods as needed.
type BaseAction struct {
	name          string
	preconditions Conditions
	effects       Conditions
	cost          float64
}

// NewBaseAction creates a BaseAction.
func NewBaseAction(name string, cost float64, preconditions, effects Conditions) BaseAction {
	return BaseAction{
		name:          name,
		preconditions: preconditions,
		effects:       effects,
		cost:          cost,
	}
}

func (a *BaseAction) Name() string                              { return a.name }
func (a *BaseAction) Preconditions() Conditions                 { return a.preconditions }
func (a *BaseAction) Effects() Conditions                       { return a.effects }
func (a *BaseAction) Cost() float64                             { return a.cost }
func (a *BaseAction) CheckProceduralPrecondition(*Context) bool { return true }
func (a *BaseAction) ResetAction()                              {}
func (a *BaseAction) RequiresInRange() bool                     { return false }
func (a *BaseAction) Target() fmt.Stringer                      { return nil }

// SimpleAction is an Action assembled from functions, built with
// ActionBuilder.
type SimpleAction struct {
	BaseAction
	perform func(ctx *Context) PerformResult
	check   func(ctx *Context) bool
	reset   func()
	inRange bool
}

var _ Action = (*SimpleAction)(nil)

// Perform implements Action.Perform. A SimpleAction without a perform
// function succeeds immediately.
func (a *SimpleAction) Perform(ctx *Context) PerformResult {
	if a.perform == nil {
		return Succeeded
	}
	return a.perform(ctx)
}

// CheckProceduralPrecondition implements Action.CheckProceduralPrecondition.
func (a *SimpleAction) CheckProceduralPrecondition(ctx *Context) bool {
	if a.check == nil {
		return true
	}
	return a.check(ctx)
}

// ResetAction implements Action.ResetAction.
func (a *SimpleAction) ResetAction() {
	if a.reset != nil {
		a.reset()
	}
}

// RequiresInRange implements Action.RequiresInRange.
func (a *SimpleAction) RequiresInRange() bool { return a.inRange }

// ActionBuilder provides a fluent API for building SimpleAction instances.
type ActionBuilder struct {
	name    string
	cost    float64
	pre     []Literal
	eff     []Literal
	perform func(ctx *Context) PerformResult
	check   func(ctx *Context) bool
	reset   func()
	inRange bool
}

// NewActionBuilder creates a builder for an action with the given name and a
// cost of 1.
func NewActionBuilder(name string) *ActionBuilder {
	return &ActionBuilder{name: name, cost: 1}
}

// Cost sets the action cost.
func (b *ActionBuilder) Cost(cost float64) *ActionBuilder {
	b.cost = cost
	return b
}

// Requires adds preconditions.
func (b *ActionBuilder) Requires(lits ...Literal) *ActionBuilder {
	b.pre = append(b.pre, lits...)
	return b
}

// Produces adds effects.
func (b *ActionBuilder) Produces(lits ...Literal) *ActionBuilder {
	b.eff = append(b.eff, lits...)
	return b
}

// Perform sets the per-tick behaviour.
func (b *ActionBuilder) Perform(fn func(ctx *Context) PerformResult) *ActionBuilder {
	b.perform = fn
	return b
}

// Check sets the procedural precondition.
func (b *ActionBuilder) Check(fn func(ctx *Context) bool) *ActionBuilder {
	b.check = fn
	return b
}

// Reset sets the reset hook.
func (b *ActionBuilder) Reset(fn func()) *ActionBuilder {
	b.reset = fn
	return b
}

// InRange marks the action as requiring proximity to its target.
func (b *ActionBuilder) InRange() *ActionBuilder {
	b.inRange = true
	return b
}

// Build creates the SimpleAction.
func (b *ActionBuilder) Build() (*SimpleAction, error) {
	if b.name == "" {
		return nil, errors.New("goap: action name is required")
	}
	if b.cost < 0 {
		return nil, fmt.Errorf("%w: %s=%v", ErrNegativeCost, b.name, b.cost)
	}
	pre, err := NewConditions(b.pre...)
	if err != nil {
		return nil, fmt.Errorf("goap: action %s preconditions: %w", b.name, err)
	}
	eff, err := NewConditions(b.eff...)
	if err != nil {
		return nil, fmt.Errorf("goap: action %s effects: %w", b.name, err)
	}
	return &SimpleAction{
		BaseAction: NewBaseAction(b.name, b.cost, pre, eff),
		perform:    b.perform,
		check:      b.check,
		reset:      b.reset,
		inRange:    b.inRange,
	}, nil
}

// MustBuild is like Build but panics on error.
func (b *ActionBuilder) MustBuild() *SimpleAction {
	a, err := b.Build()
	if err != nil {
		panic(err)
	}
	return a
}
