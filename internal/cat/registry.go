package cat

import "github.com/joeycumines/go-goap/internal/goap"

// Action tags.
const (
	TagWalk      = "walk"
	TagHitObject = "hit_object"
	TagIdle      = "idle"
)

// Goal tags.
const (
	TagDestroyObject = "destroy_object"
	TagExplore       = "explore"
)

// ActionRegistry builds cat actions by tag.
type ActionRegistry = goap.Registry[*Deps, goap.Action]

// GoalRegistry builds cat goals by tag.
type GoalRegistry = goap.Registry[*Deps, goap.Goal]

// DefaultActionTags lists every built-in action, in planning order.
var DefaultActionTags = []string{TagWalk, TagHitObject, TagIdle}

// DefaultGoalTags lists every built-in goal.
var DefaultGoalTags = []string{TagDestroyObject, TagExplore}

// Actions returns a registry of the built-in actions.
func Actions() *ActionRegistry {
	r := goap.NewRegistry[*Deps, goap.Action]()
	r.Register(TagWalk, func(d *Deps) (goap.Action, error) { return NewWalkAction(d), nil })
	r.Register(TagHitObject, func(d *Deps) (goap.Action, error) { return NewHitObjectAction(d), nil })
	r.Register(TagIdle, func(d *Deps) (goap.Action, error) { return NewIdleAction(d), nil })
	return r
}

// Goals returns a registry of the built-in goals.
func Goals() *GoalRegistry {
	r := goap.NewRegistry[*Deps, goap.Goal]()
	r.Register(TagDestroyObject, func(d *Deps) (goap.Goal, error) { return NewDestroyObjectGoal(d), nil })
	r.Register(TagExplore, func(d *Deps) (goap.Goal, error) { return NewExploreGoal(d), nil })
	return r
}
