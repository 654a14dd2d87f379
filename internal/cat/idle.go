package cat

import (
	"time"

	"github.com/joeycumines/go-goap/internal/goap"
)

// IdleAction sits still for a random while. It has no preconditions and no
// effects, and costs more than walking so the planner only falls back to it
// when nothing cheaper applies.
type IdleAction struct {
	goap.BaseAction
	deps *Deps

	duration time.Duration
	waited   time.Duration
	started  bool
}

var _ goap.Action = (*IdleAction)(nil)

// NewIdleAction creates an IdleAction.
func NewIdleAction(deps *Deps) *IdleAction {
	return &IdleAction{
		BaseAction: goap.NewBaseAction("idle", deps.Tuning.IdleCost, goap.Conditions{}, goap.Conditions{}),
		deps:       deps,
	}
}

// ResetAction implements goap.Action.
func (a *IdleAction) ResetAction() {
	a.waited = 0
	a.started = false
	a.duration = randDuration(a.deps.Rand, a.deps.Tuning.IdleMin, a.deps.Tuning.IdleMax)
}

// Perform implements goap.Action.
func (a *IdleAction) Perform(ctx *goap.Context) goap.PerformResult {
	if !a.started {
		a.started = true
		a.deps.Nav.ClearDestination()
	}
	a.waited += ctx.Delta
	if a.waited >= a.duration {
		return goap.Succeeded
	}
	return goap.Continuing
}
