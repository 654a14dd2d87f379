package goap

import (
	"fmt"
	"io"
	"log/slog"
)

const (
	factHasTarget Fact = iota
	factDestroyed
	factExploring
	factRested
)

func testVocabulary() *Vocabulary {
	return NewVocabulary("hasTarget", "destroyed", "exploring", "rested")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// scriptedAction replays a fixed sequence of perform results, repeating the
// last one, and counts lifecycle calls.
type scriptedAction struct {
	BaseAction
	script  []PerformResult
	bind    func() bool
	target  fmt.Stringer
	calls   int
	resets  int
	checks  int
	started int
}

func newScripted(name string, cost float64, pre, eff Conditions, script ...PerformResult) *scriptedAction {
	if len(script) == 0 {
		script = []PerformResult{Succeeded}
	}
	return &scriptedAction{BaseAction: NewBaseAction(name, cost, pre, eff), script: script}
}

func (a *scriptedAction) Perform(*Context) PerformResult {
	i := a.calls
	if i >= len(a.script) {
		i = len(a.script) - 1
	}
	a.calls++
	return a.script[i]
}

func (a *scriptedAction) CheckProceduralPrecondition(*Context) bool {
	a.checks++
	if a.bind != nil {
		return a.bind()
	}
	return true
}

func (a *scriptedAction) ResetAction() { a.resets++ }

func (a *scriptedAction) Target() fmt.Stringer { return a.target }

// countingPlanner records every planning call.
type countingPlanner struct {
	inner Planner
	calls int
	last  Conditions
}

func (p *countingPlanner) Plan(actions []Action, start State, desired Conditions) (Plan, bool) {
	p.calls++
	p.last = desired
	return p.inner.Plan(actions, start, desired)
}

func conds(lits ...Literal) Conditions { return MustConditions(lits...) }
