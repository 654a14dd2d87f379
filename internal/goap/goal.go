package goap

// Goal is a named desired partial world state with a dynamic priority.
type Goal interface {
	// Name identifies the goal; Agent.SetGoal looks goals up by it.
	Name() string

	// DesiredState is fixed once the goal is declared.
	DesiredState() Conditions

	// Priority is queried fresh on every replan decision. Higher wins.
	Priority() float64

	// IsAchievable is a cheap feasibility probe used to skip goals that
	// cannot possibly be planned for.
	IsAchievable() bool
}

// BaseGoal is a Goal with a static priority unless overridden by options.
type BaseGoal struct {
	name       string
	desired    Conditions
	priority   float64
	priorityFn func() float64
	achievable func() bool
}

var _ Goal = (*BaseGoal)(nil)

// GoalOption configures a BaseGoal.
type GoalOption func(*BaseGoal)

// WithPriorityFunc makes the goal priority dynamic.
func WithPriorityFunc(fn func() float64) GoalOption {
	return func(g *BaseGoal) { g.priorityFn = fn }
}

// WithAchievable sets the feasibility probe. Without one the goal is always
// achievable.
func WithAchievable(fn func() bool) GoalOption {
	return func(g *BaseGoal) { g.achievable = fn }
}

// NewGoal creates a BaseGoal.
func NewGoal(name string, priority float64, desired Conditions, opts ...GoalOption) *BaseGoal {
	g := &BaseGoal{
		name:     name,
		desired:  desired,
		priority: priority,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Name implements Goal.Name.
func (g *BaseGoal) Name() string { return g.name }

// DesiredState implements Goal.DesiredState.
func (g *BaseGoal) DesiredState() Conditions { return g.desired }

// Priority implements Goal.Priority.
func (g *BaseGoal) Priority() float64 {
	if g.priorityFn != nil {
		return g.priorityFn()
	}
	return g.priority
}

// IsAchievable implements Goal.IsAchievable.
func (g *BaseGoal) IsAchievable() bool {
	if g.achievable != nil {
		return g.achievable()
	}
	return true
}

// SelectGoal returns the achievable goal of highest priority, or nil. Ties
// go to the earlier goal.
func SelectGoal(goals []Goal) Goal {
	var (
		best     Goal
		bestPrio float64
	)
	for _, g := range goals {
		if !g.IsAchievable() {
			continue
		}
		if p := g.Priority(); best == nil || p > bestPrio {
			best, bestPrio = g, p
		}
	}
	return best
}
