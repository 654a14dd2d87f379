package cat

import "time"

// Tuning holds the numeric parameters of the cat behaviours.
type Tuning struct {
	Speed float64

	WalkCost             float64
	WanderRadius         float64
	WalkStoppingDistance float64
	StuckTimeout         time.Duration

	HitCost          float64
	AttackRange      float64
	AttackCooldown   time.Duration
	LookBeforeAttack time.Duration
	AttackAngle      float64
	HitsToDestroy    int
	DetectionRadius  float64

	IdleCost float64
	IdleMin  time.Duration
	IdleMax  time.Duration

	NearRadius          float64
	DestroyNearPriority float64
	DestroyFarPriority  float64
	ExplorePriority     float64
}

// DefaultTuning returns the stock parameters.
func DefaultTuning() Tuning {
	return Tuning{
		Speed: 3.5,

		WalkCost:             0.5,
		WanderRadius:         8,
		WalkStoppingDistance: 0.2,
		StuckTimeout:         3 * time.Second,

		HitCost:          2,
		AttackRange:      1.8,
		AttackCooldown:   1200 * time.Millisecond,
		LookBeforeAttack: 1800 * time.Millisecond,
		AttackAngle:      60,
		HitsToDestroy:    2,
		DetectionRadius:  12,

		IdleCost: 2,
		IdleMin:  2 * time.Second,
		IdleMax:  5 * time.Second,

		NearRadius:          6,
		DestroyNearPriority: 3,
		DestroyFarPriority:  0.5,
		ExplorePriority:     1,
	}
}
