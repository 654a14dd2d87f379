package world

import "time"

// Navigator moves a Body in a straight line toward a destination, stopping
// within a stopping distance of it. Positions are clamped to the room.
type Navigator struct {
	body     *Body
	room     *Room
	speed    float64
	stopping float64
	dest     Vec2
	hasDest  bool
	stopped  bool
	velocity Vec2
}

// NewNavigator creates a navigator moving body at speed units per second.
func NewNavigator(body *Body, room *Room, speed float64) *Navigator {
	return &Navigator{body: body, room: room, speed: speed}
}

// Body returns the moved body.
func (n *Navigator) Body() *Body { return n.body }

// Speed returns the movement speed.
func (n *Navigator) Speed() float64 { return n.speed }

// SetDestination starts moving toward p.
func (n *Navigator) SetDestination(p Vec2) {
	if n.room != nil {
		p = n.room.Clamp(p)
	}
	n.dest = p
	n.hasDest = true
}

// Destination returns the current destination, if any.
func (n *Navigator) Destination() (Vec2, bool) { return n.dest, n.hasDest }

// ClearDestination stops pursuing the destination.
func (n *Navigator) ClearDestination() {
	n.hasDest = false
	n.velocity = Vec2{}
}

// SetStoppingDistance sets how close to the destination movement ends.
func (n *Navigator) SetStoppingDistance(d float64) { n.stopping = max(0, d) }

// StoppingDistance returns the stopping distance.
func (n *Navigator) StoppingDistance() float64 { return n.stopping }

// Stop freezes the body until Resume.
func (n *Navigator) Stop() {
	n.stopped = true
	n.velocity = Vec2{}
}

// Resume undoes Stop.
func (n *Navigator) Resume() { n.stopped = false }

// Stopped reports whether the navigator is frozen.
func (n *Navigator) Stopped() bool { return n.stopped }

// RemainingDistance returns the distance to the destination, or zero.
func (n *Navigator) RemainingDistance() float64 {
	if !n.hasDest {
		return 0
	}
	return n.body.Pos.Dist(n.dest)
}

// Arrived reports whether the body is within the stopping distance of the
// destination, or has none.
func (n *Navigator) Arrived() bool {
	return n.RemainingDistance() <= n.stopping+arrivalTolerance
}

const arrivalTolerance = 1e-6

// Velocity returns the velocity of the last Step.
func (n *Navigator) Velocity() Vec2 { return n.velocity }

// Step advances the body by dt, turning it toward its direction of travel.
func (n *Navigator) Step(dt time.Duration) {
	n.velocity = Vec2{}
	if n.stopped || !n.hasDest || dt <= 0 {
		return
	}
	remaining := n.RemainingDistance() - n.stopping
	if remaining <= arrivalTolerance {
		return
	}
	secs := dt.Seconds()
	dist := min(n.speed*secs, remaining)
	dir := n.dest.Sub(n.body.Pos).Normalize()
	n.body.Pos = n.body.Pos.Add(dir.Mul(dist))
	if n.room != nil {
		n.body.Pos = n.room.Clamp(n.body.Pos)
	}
	n.velocity = dir.Mul(dist / secs)
	n.body.TurnToward(n.dest, secs)
}
