package cat

import "github.com/joeycumines/go-goap/internal/goap"

// NewSensor derives the cat's world state from the room before every
// replan. HasTarget holds while an intact object is within detection range.
// DestroyObject and Exploring are momentary achievements and are cleared so
// the goals wanting them can be pursued again.
func NewSensor(deps *Deps) goap.Sensor {
	return goap.SensorFunc(func(current goap.State) goap.State {
		_, _, near := deps.Room.NearestIntact(deps.body().Pos, deps.Tuning.DetectionRadius)
		return current.
			With(HasTarget, near).
			With(DestroyObject, false).
			With(Exploring, false)
	})
}
