package goap

import (
	"context"
	"log/slog"
)

// PlanKind records which branch of the planner produced a plan.
type PlanKind int

const (
	// PlanSearch is a plan found by tree search.
	PlanSearch PlanKind = iota
	// PlanSatisfied is the single cheapest action whose effects overlap a
	// desired state the start state already satisfies.
	PlanSatisfied
	// PlanFallback is the single cheapest action without preconditions,
	// returned when search found nothing.
	PlanFallback
)

// String returns the string representation of the kind.
func (k PlanKind) String() string {
	switch k {
	case PlanSearch:
		return "search"
	case PlanSatisfied:
		return "satisfied"
	case PlanFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Plan is an ordered action sequence produced by one planning call.
type Plan struct {
	Actions []Action
	Cost    float64
	Kind    PlanKind
	// Expanded counts the search nodes created while planning.
	Expanded int
}

// Len returns the number of actions in the plan.
func (p Plan) Len() int { return len(p.Actions) }

// Names returns the action names in order.
func (p Plan) Names() []string {
	names := make([]string, len(p.Actions))
	for i, a := range p.Actions {
		names[i] = a.Name()
	}
	return names
}

// Planner finds an action sequence transforming start into a state that
// satisfies desired. The bool result is false when no plan exists.
type Planner interface {
	Plan(actions []Action, start State, desired Conditions) (Plan, bool)
}

// ForwardPlanner is the default Planner: exhaustive forward tree search with
// cost accounting.
//
// Selection rules, in order:
//
//  1. If start already satisfies desired, return the cheapest action having at
//     least one effect literal in common with desired. If there is none, fall
//     through to search.
//  2. Search: from each node, every action whose preconditions hold spawns a
//     child with the action's effects applied. Children satisfying desired are
//     leaves; others are expanded further with that action removed, so an
//     action is used at most once per branch.
//  3. The cheapest leaf wins.
//  4. If there is no leaf, return the cheapest action with no preconditions.
//
// Every tie is broken by the order of the actions slice. The search keeps no
// visited set: plan selection depends only on the tree, never on expansion
// order beyond the tie-break.
type ForwardPlanner struct {
	logger *slog.Logger
	vocab  *Vocabulary
}

var _ Planner = (*ForwardPlanner)(nil)

// NewForwardPlanner creates a ForwardPlanner. Both arguments may be nil; the
// vocabulary only affects debug log formatting.
func NewForwardPlanner(logger *slog.Logger, vocab *Vocabulary) *ForwardPlanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &ForwardPlanner{logger: logger, vocab: vocab}
}

type searchNode struct {
	parent *searchNode
	cost   float64
	state  State
	action Action
}

type search struct {
	desired  Conditions
	best     *searchNode
	expanded int
}

// Plan implements Planner.Plan.
func (p *ForwardPlanner) Plan(actions []Action, start State, desired Conditions) (Plan, bool) {
	usable := make([]Action, 0, len(actions))
	for _, a := range actions {
		if a != nil {
			usable = append(usable, a)
		}
	}
	if len(usable) == 0 {
		return Plan{}, false
	}

	debug := p.logger.Enabled(context.Background(), slog.LevelDebug)

	if start.Satisfies(desired) {
		if a, ok := cheapest(usable, func(a Action) bool { return a.Effects().Overlaps(desired) }); ok {
			if debug {
				p.logger.Debug("goal already satisfied, using compatible action",
					"action", a.Name(),
					"desired", desired.Format(p.vocab))
			}
			return Plan{Actions: []Action{a}, Cost: a.Cost(), Kind: PlanSatisfied}, true
		}
	}

	s := &search{desired: desired}
	s.build(&searchNode{state: start}, usable)

	if s.best == nil {
		if a, ok := cheapest(usable, func(a Action) bool { return a.Preconditions().Empty() }); ok {
			if debug {
				p.logger.Debug("no plan found, falling back to unconditional action",
					"action", a.Name(),
					"expanded", s.expanded,
					"desired", desired.Format(p.vocab))
			}
			return Plan{Actions: []Action{a}, Cost: a.Cost(), Kind: PlanFallback, Expanded: s.expanded}, true
		}
		if debug {
			p.logger.Debug("no plan found",
				"expanded", s.expanded,
				"start", start.Format(p.vocab),
				"desired", desired.Format(p.vocab))
		}
		return Plan{Expanded: s.expanded}, false
	}

	var depth int
	for n := s.best; n.action != nil; n = n.parent {
		depth++
	}
	seq := make([]Action, depth)
	for n := s.best; n.action != nil; n = n.parent {
		depth--
		seq[depth] = n.action
	}

	plan := Plan{Actions: seq, Cost: s.best.cost, Kind: PlanSearch, Expanded: s.expanded}
	if debug {
		p.logger.Debug("plan found",
			"actions", plan.Names(),
			"cost", plan.Cost,
			"expanded", plan.Expanded)
	}
	return plan, true
}

func (s *search) build(parent *searchNode, actions []Action) {
	for i, a := range actions {
		if !parent.state.Satisfies(a.Preconditions()) {
			continue
		}
		s.expanded++
		child := &searchNode{
			parent: parent,
			cost:   parent.cost + a.Cost(),
			state:  parent.state.Apply(a.Effects()),
			action: a,
		}
		if child.state.Satisfies(s.desired) {
			// strict comparison keeps the first leaf found among equals
			if s.best == nil || child.cost < s.best.cost {
				s.best = child
			}
			continue
		}
		rest := make([]Action, 0, len(actions)-1)
		rest = append(rest, actions[:i]...)
		rest = append(rest, actions[i+1:]...)
		s.build(child, rest)
	}
}

func cheapest(actions []Action, accept func(Action) bool) (Action, bool) {
	var best Action
	for _, a := range actions {
		if !accept(a) {
			continue
		}
		if best == nil || a.Cost() < best.Cost() {
			best = a
		}
	}
	return best, best != nil
}
