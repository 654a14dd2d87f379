package cat

import (
	"github.com/joeycumines/go-goap/internal/eval"
	"github.com/joeycumines/go-goap/internal/goap"
)

// NewDestroyObjectGoal wants DestroyObject. Its priority is high while an
// intact object is near the cat, and it is achievable only while any intact
// object remains.
func NewDestroyObjectGoal(deps *Deps) goap.Goal {
	t := deps.Tuning
	return goap.NewGoal(GoalDestroyObject, t.DestroyFarPriority,
		goap.MustConditions(goap.Is(DestroyObject)),
		goap.WithPriorityFunc(func() float64 {
			if _, _, ok := deps.Room.NearestIntact(deps.body().Pos, t.NearRadius); ok {
				return t.DestroyNearPriority
			}
			return t.DestroyFarPriority
		}),
		goap.WithAchievable(func() bool { return deps.Room.IntactCount() > 0 }),
	)
}

// NewExploreGoal wants Exploring at a fixed priority.
func NewExploreGoal(deps *Deps) goap.Goal {
	return goap.NewGoal(GoalExplore, deps.Tuning.ExplorePriority,
		goap.MustConditions(goap.Is(Exploring)))
}

// ExprGoal is a goal whose priority and achievability are expressions
// evaluated against the cat's environment.
type ExprGoal struct {
	*goap.BaseGoal
	deps       *Deps
	priority   *eval.Number
	achievable *eval.Predicate
}

// NewExprGoal compiles priority and, when non-empty, achievable. A goal
// without an achievable expression is always achievable.
func NewExprGoal(deps *Deps, cache *eval.Cache, name string, desired goap.Conditions, priority, achievable string) (*ExprGoal, error) {
	if cache == nil {
		cache = eval.DefaultCache()
	}
	prio, err := cache.CompileNumber(priority)
	if err != nil {
		return nil, err
	}
	g := &ExprGoal{
		BaseGoal: goap.NewGoal(name, 0, desired),
		deps:     deps,
		priority: prio,
	}
	if achievable != "" {
		if g.achievable, err = cache.CompilePredicate(achievable); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Priority evaluates the priority expression. Evaluation errors are logged
// and score 0.
func (g *ExprGoal) Priority() float64 {
	v, err := g.priority.Eval(g.deps.Env())
	if err != nil {
		g.deps.Logger.Warn("goal priority evaluation failed", "goal", g.Name(), "expr", g.priority.String(), "error", err)
		return 0
	}
	return v
}

// IsAchievable evaluates the achievable expression. Evaluation errors are
// logged and count as not achievable.
func (g *ExprGoal) IsAchievable() bool {
	if g.achievable == nil {
		return true
	}
	ok, err := g.achievable.Eval(g.deps.Env())
	if err != nil {
		g.deps.Logger.Warn("goal achievability evaluation failed", "goal", g.Name(), "expr", g.achievable.String(), "error", err)
		return false
	}
	return ok
}
