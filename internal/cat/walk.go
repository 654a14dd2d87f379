package cat

import (
	"fmt"
	"time"

	"github.com/joeycumines/go-goap/internal/goap"
	"github.com/joeycumines/go-goap/internal/world"
)

// WalkAction walks to a random intact object, or wanders to a random point
// when there is none. It yields HasTarget and Exploring.
type WalkAction struct {
	goap.BaseAction
	deps *Deps

	dest           world.Vec2
	object         *world.Destructible
	bound          bool
	destinationSet bool
	stuck          time.Duration
}

var _ goap.Action = (*WalkAction)(nil)

// NewWalkAction creates a WalkAction.
func NewWalkAction(deps *Deps) *WalkAction {
	return &WalkAction{
		BaseAction: goap.NewBaseAction("walk", deps.Tuning.WalkCost,
			goap.Conditions{},
			goap.MustConditions(goap.Is(HasTarget), goap.Is(Exploring))),
		deps: deps,
	}
}

// ResetAction implements goap.Action.
func (a *WalkAction) ResetAction() {
	a.object = nil
	a.bound = false
	a.destinationSet = false
	a.stuck = 0
}

// CheckProceduralPrecondition picks the destination. It always succeeds.
func (a *WalkAction) CheckProceduralPrecondition(*goap.Context) bool {
	if a.bound {
		return true
	}
	if obj, ok := a.deps.Room.RandomIntact(a.deps.Rand); ok {
		a.object = obj
		a.dest = obj.Pos()
	} else {
		a.object = nil
		a.dest = a.deps.Room.RandomPoint(a.deps.Rand, a.deps.body().Pos, a.deps.Tuning.WanderRadius)
	}
	a.bound = true
	return true
}

// Perform implements goap.Action.
func (a *WalkAction) Perform(ctx *goap.Context) goap.PerformResult {
	nav := a.deps.Nav
	if !a.destinationSet {
		stopping := a.deps.Tuning.WalkStoppingDistance
		if a.object != nil {
			stopping = a.deps.Tuning.AttackRange
		}
		nav.SetStoppingDistance(stopping)
		nav.SetDestination(a.dest)
		a.destinationSet = true
		ctx.Logger.Debug("walking", "to", a.dest.String(), "object", a.object != nil)
	}

	if nav.Arrived() {
		ctx.Logger.Debug("walk arrived", "at", nav.Body().Pos.String())
		return goap.Succeeded
	}

	if nav.Velocity().LenSq() < 0.01 {
		a.stuck += ctx.Delta
		if a.stuck > a.deps.Tuning.StuckTimeout {
			ctx.Logger.Info("walk stuck, giving up", "to", a.dest.String(), "stuck_for", a.stuck)
			return goap.Failed
		}
	} else {
		a.stuck = 0
	}
	return goap.Continuing
}

// Target implements goap.Action.
func (a *WalkAction) Target() fmt.Stringer {
	switch {
	case !a.bound:
		return nil
	case a.object != nil:
		return a.object
	default:
		return a.dest
	}
}
