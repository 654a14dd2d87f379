package world

import "math"

// DefaultTurnRate is the fraction of the remaining turn a body completes per
// second.
const DefaultTurnRate = 6.0

// Body is a positioned, oriented entity.
type Body struct {
	Pos Vec2
	// Facing is the heading in radians.
	Facing float64
	// TurnRate scales how quickly TurnToward closes the angle.
	TurnRate float64
}

// Forward returns the unit vector the body faces.
func (b *Body) Forward() Vec2 { return FromHeading(b.Facing) }

// AngleTo returns the unsigned angle in degrees between the facing and the
// direction to target. A target at the body's position is at angle zero.
func (b *Body) AngleTo(target Vec2) float64 {
	dir := target.Sub(b.Pos)
	if dir.LenSq() < 1e-9 {
		return 0
	}
	return math.Abs(angleDiff(b.Facing, dir.Heading())) * 180 / math.Pi
}

// TurnToward rotates the body toward target, closing a dt*TurnRate fraction
// of the angle, capped at the whole angle.
func (b *Body) TurnToward(target Vec2, dt float64) {
	dir := target.Sub(b.Pos)
	if dir.LenSq() < 0.01 {
		return
	}
	rate := b.TurnRate
	if rate <= 0 {
		rate = DefaultTurnRate
	}
	t := math.Min(1, dt*rate)
	b.Facing += angleDiff(b.Facing, dir.Heading()) * t
}
