// Package cat implements the cat behaviours of the simulation: the GOAP
// actions and goals a cat plans with, the sensor deriving its world state
// from the room, and the Brain that occasionally overrides the planner's
// choice of goal the way a restless cat would.
package cat

import "github.com/joeycumines/go-goap/internal/goap"

// Facts of the cat vocabulary. The values are fixed by NewVocabulary.
const (
	HasTarget goap.Fact = iota
	Exploring
	DestroyObject
)

// Fact names, in Fact order.
const (
	FactHasTarget     = "HasTarget"
	FactExploring     = "isExploring"
	FactDestroyObject = "DestroyObject"
)

// Goal names.
const (
	GoalDestroyObject  = "DestroyObject"
	GoalExplore        = "Explore"
	GoalPlayWithPlayer = "PlayWithPlayer"
)

// NewVocabulary returns a vocabulary in which the Fact constants of this
// package are valid.
func NewVocabulary() *goap.Vocabulary {
	return goap.NewVocabulary(FactHasTarget, FactExploring, FactDestroyObject)
}
