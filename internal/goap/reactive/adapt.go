// Package reactive executes goap actions and goals as a PA-BT behaviour tree.
//
// Instead of sequencing a plan up front, the tree starts as the goal's
// conditions and grows on demand: whenever a condition fails, the actions
// whose effects would establish it are grafted in, guarded by their own
// preconditions. Every condition on the path is re-checked on every tick, so
// the agent reacts to changes in its world state without a replan.
package reactive

import (
	"fmt"

	bt "github.com/joeycumines/go-behaviortree"
	pabt "github.com/joeycumines/go-pabt"

	"github.com/joeycumines/go-goap/internal/goap"
)

// condition requires a fact to hold a value. Its key is the goap.Fact.
type condition struct {
	fact  goap.Fact
	value bool
}

var _ pabt.Condition = (*condition)(nil)

func (c *condition) Key() any { return c.fact }

func (c *condition) Match(value any) bool {
	v, ok := value.(bool)
	return ok && v == c.value
}

type effect struct {
	fact  goap.Fact
	value bool
}

var _ pabt.Effect = (*effect)(nil)

func (e *effect) Key() any   { return e.fact }
func (e *effect) Value() any { return e.value }

func toConditions(c goap.Conditions) pabt.IConditions {
	lits := c.Literals()
	out := make(pabt.IConditions, len(lits))
	for i, lit := range lits {
		out[i] = &condition{fact: lit.Fact, value: lit.Value}
	}
	return out
}

// conditionGroups returns c as a single group, or no groups when c is empty.
// pabt rejects an empty group but treats zero groups as unconditional.
func conditionGroups(c goap.Conditions) []pabt.IConditions {
	if c.Empty() {
		return nil
	}
	return []pabt.IConditions{toConditions(c)}
}

func toEffects(c goap.Conditions) pabt.Effects {
	lits := c.Literals()
	out := make(pabt.Effects, len(lits))
	for i, lit := range lits {
		out[i] = &effect{fact: lit.Fact, value: lit.Value}
	}
	return out
}

// action adapts a goap.Action, running it through an ActionNode.
type action struct {
	exec       *goap.ActionNode
	node       bt.Node
	conditions []pabt.IConditions
	effects    pabt.Effects
	// ticked records whether the current tree reached the action this tick
	ticked bool
}

var _ pabt.IAction = (*action)(nil)

func newAction(exec *goap.ActionNode) *action {
	act := &action{
		exec:       exec,
		conditions: conditionGroups(exec.Action().Preconditions()),
		effects:    toEffects(exec.Action().Effects()),
	}
	act.node = bt.New(func(children []bt.Node) (bt.Status, error) {
		act.ticked = true
		return exec.Tick(children)
	})
	return act
}

func (a *action) Conditions() []pabt.IConditions { return a.conditions }
func (a *action) Effects() pabt.Effects          { return a.effects }
func (a *action) Node() bt.Node                  { return a.node }

// state exposes the agent's world state and actions to the PA-BT planner.
type state struct {
	agent *Agent
}

var _ pabt.IState = (*state)(nil)

// Variable returns the value of a goap.Fact key.
func (s *state) Variable(key any) (any, error) {
	f, ok := key.(goap.Fact)
	if !ok {
		return nil, fmt.Errorf("reactive: unsupported key type %T", key)
	}
	return s.agent.state.Get(f), nil
}

// Actions returns, in declaration order, the actions having an effect that
// satisfies failed.
func (s *state) Actions(failed pabt.Condition) ([]pabt.IAction, error) {
	var out []pabt.IAction
	for _, act := range s.agent.nodes {
		if !establishes(act.effects, failed) {
			continue
		}
		if s.agent.policy == goap.ProceduralPrefilter &&
			!act.exec.Action().CheckProceduralPrecondition(&s.agent.ctx) {
			continue
		}
		out = append(out, act)
	}
	return out, nil
}

func establishes(effects pabt.Effects, failed pabt.Condition) bool {
	for _, e := range effects {
		if e.Key() == failed.Key() && failed.Match(e.Value()) {
			return true
		}
	}
	return false
}
