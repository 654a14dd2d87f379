package cat

import "github.com/joeycumines/go-goap/internal/goap"

// Personality scales goal priorities. Multipliers are used as given, so a
// zero multiplier takes the goal out of contention.
type Personality struct {
	Curiosity  float64 `toml:"curiosity"`
	Aggression float64 `toml:"aggression"`
	Affection  float64 `toml:"affection"`
}

// DefaultPersonality is neutral.
func DefaultPersonality() Personality {
	return Personality{Curiosity: 1, Aggression: 1, Affection: 1}
}

// Multiplier returns the factor applied to the named goal's priority.
func (p Personality) Multiplier(goal string) float64 {
	switch goal {
	case GoalExplore:
		return p.Curiosity
	case GoalDestroyObject:
		return p.Aggression
	case GoalPlayWithPlayer:
		return p.Affection
	default:
		return 1
	}
}

type weightedGoal struct {
	goap.Goal
	factor float64
}

func (g weightedGoal) Priority() float64 { return g.Goal.Priority() * g.factor }

func (g weightedGoal) IsAchievable() bool { return g.factor > 0 && g.Goal.IsAchievable() }

// WithPersonality returns goal with its priority scaled by p. Goals whose
// multiplier is 1 are returned unchanged.
func WithPersonality(goal goap.Goal, p Personality) goap.Goal {
	m := p.Multiplier(goal.Name())
	if m == 1 {
		return goal
	}
	return weightedGoal{Goal: goal, factor: m}
}
