// Package goap implements Goal-Oriented Action Planning: a forward-search
// planner over boolean world state, and the tick-driven Agent that executes
// and continuously re-derives plans.
//
// Architecture:
//
//   - Vocabulary interns fact names into Fact symbols. Fixed vocabularies are
//     declared as Fact constants by the host; Intern covers dynamic facts.
//   - State is an immutable bitset of fact values. Absent facts read as false.
//   - Conditions is a partial assignment of facts, used for preconditions,
//     effects and desired states.
//   - Action and Goal are interfaces implemented by the host. BaseAction,
//     SimpleAction and BaseGoal cover the common cases.
//   - ForwardPlanner searches for the cheapest action sequence reaching a
//     desired state.
//   - Agent owns actions, goals and the current plan, and is ticked by the
//     host once per frame.
//
// Usage:
//
//	vocab := goap.NewVocabulary("hasTarget", "destroyed")
//	const hasTarget, destroyed goap.Fact = 0, 1
//
//	find, _ := goap.NewActionBuilder("find").
//	    Cost(1).
//	    Produces(goap.Is(hasTarget)).
//	    Build()
//	hit, _ := goap.NewActionBuilder("hit").
//	    Cost(2).
//	    Requires(goap.Is(hasTarget)).
//	    Produces(goap.Is(destroyed)).
//	    Build()
//	goal := goap.NewGoal("destroy", 1, goap.MustConditions(goap.Is(destroyed)))
//
//	agent, err := goap.NewAgent(vocab, []goap.Action{find, hit}, []goap.Goal{goal}, goap.AgentConfig{})
//	if err != nil {
//	    return err // *goap.ConfigError
//	}
//	for range frames {
//	    agent.Tick(16 * time.Millisecond)
//	}
//
// Concurrency:
//
// Nothing in this package starts goroutines. An Agent must be ticked from a
// single goroutine; planning runs to completion inside Tick. Values of State
// and Conditions are immutable and may be shared freely.
//
// Search complexity:
//
// The planner expands a tree, branching on every applicable action at every
// depth, with each action usable at most once per branch and no visited-state
// deduplication. The worst case is exponential in the number of actions, which
// is acceptable for the small per-agent action sets this package targets.
package goap
