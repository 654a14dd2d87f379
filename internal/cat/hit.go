package cat

import (
	"fmt"
	"time"

	"github.com/joeycumines/go-goap/internal/goap"
	"github.com/joeycumines/go-goap/internal/world"
)

// HitObjectAction approaches the nearest intact object in detection range,
// faces it, and hits it until it breaks or the per-attempt hit budget is
// spent. It requires HasTarget and yields DestroyObject.
type HitObjectAction struct {
	goap.BaseAction
	deps *Deps

	target      *world.Destructible
	look        time.Duration
	sinceAttack time.Duration
	hits        int
}

var _ goap.Action = (*HitObjectAction)(nil)

// NewHitObjectAction creates a HitObjectAction.
func NewHitObjectAction(deps *Deps) *HitObjectAction {
	a := &HitObjectAction{
		BaseAction: goap.NewBaseAction("hit_object", deps.Tuning.HitCost,
			goap.MustConditions(goap.Is(HasTarget)),
			goap.MustConditions(goap.Is(DestroyObject))),
		deps: deps,
	}
	a.ResetAction()
	return a
}

// ResetAction implements goap.Action.
func (a *HitObjectAction) ResetAction() {
	a.target = nil
	a.look = 0
	a.sinceAttack = a.deps.Tuning.AttackCooldown
	a.hits = 0
}

// CheckProceduralPrecondition binds the nearest intact object within the
// detection radius.
func (a *HitObjectAction) CheckProceduralPrecondition(*goap.Context) bool {
	obj, _, ok := a.deps.Room.NearestIntact(a.deps.body().Pos, a.deps.Tuning.DetectionRadius)
	if !ok {
		a.target = nil
		return false
	}
	a.target = obj
	return true
}

// RequiresInRange implements goap.Action.
func (a *HitObjectAction) RequiresInRange() bool { return true }

// Target implements goap.Action.
func (a *HitObjectAction) Target() fmt.Stringer {
	if a.target == nil {
		return nil
	}
	return a.target
}

// Perform implements goap.Action.
func (a *HitObjectAction) Perform(ctx *goap.Context) goap.PerformResult {
	tuning := a.deps.Tuning
	a.sinceAttack += ctx.Delta

	if a.target == nil || a.target.IsDestroyed() {
		if !a.CheckProceduralPrecondition(ctx) {
			ctx.Logger.Debug("hit target lost")
			return goap.Failed
		}
	}

	body := a.deps.body()
	nav := a.deps.Nav
	pos := a.target.Pos()
	// stop just inside the attack range
	nav.SetStoppingDistance(tuning.AttackRange * 0.9)
	nav.SetDestination(pos)

	if body.Pos.Dist(pos) > tuning.AttackRange {
		return goap.Continuing
	}

	body.TurnToward(pos, ctx.Delta.Seconds())
	if body.AngleTo(pos) > tuning.AttackAngle {
		return goap.Continuing
	}

	a.look += ctx.Delta
	if a.look < tuning.LookBeforeAttack || a.sinceAttack < tuning.AttackCooldown {
		return goap.Continuing
	}

	a.look = 0
	a.sinceAttack = 0
	a.hits++
	if a.deps.Room.Hit(a.deps.Name, a.target) {
		a.deps.destroyed(a.target)
		return goap.Succeeded
	}
	if a.hits >= tuning.HitsToDestroy {
		return goap.Succeeded
	}
	return goap.Continuing
}
