package world

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
)

// Room is the floor cats move on and the set of objects in it. A Room is not
// safe for concurrent use; every agent of a simulation is ticked from the same
// goroutine.
type Room struct {
	width, height float64
	objects       []*Destructible
	index         map[string]*Destructible
	logger        *slog.Logger
}

// NewRoom creates an empty width×height room with its origin at a corner.
func NewRoom(width, height float64, logger *slog.Logger) *Room {
	if logger == nil {
		logger = slog.Default()
	}
	return &Room{
		width:  width,
		height: height,
		index:  make(map[string]*Destructible),
		logger: logger,
	}
}

// Size returns the room dimensions.
func (r *Room) Size() (width, height float64) { return r.width, r.height }

// Add places d in the room. Names must be unique and positions inside the
// room.
func (r *Room) Add(d *Destructible) error {
	if d.Name() == "" {
		return fmt.Errorf("world: object name is required")
	}
	if _, ok := r.index[d.Name()]; ok {
		return fmt.Errorf("world: duplicate object %q", d.Name())
	}
	if !r.Contains(d.Pos()) {
		return fmt.Errorf("world: object %q at %v is outside the room", d.Name(), d.Pos())
	}
	r.objects = append(r.objects, d)
	r.index[d.Name()] = d
	return nil
}

// Object returns the object called name.
func (r *Room) Object(name string) (*Destructible, bool) {
	d, ok := r.index[name]
	return d, ok
}

// Objects returns every object, destroyed or not, in insertion order.
func (r *Room) Objects() []*Destructible {
	return append([]*Destructible(nil), r.objects...)
}

// Intact returns the objects not yet destroyed, in insertion order.
func (r *Room) Intact() []*Destructible {
	var out []*Destructible
	for _, d := range r.objects {
		if !d.IsDestroyed() {
			out = append(out, d)
		}
	}
	return out
}

// IntactCount returns the number of objects not yet destroyed.
func (r *Room) IntactCount() int { return len(r.objects) - r.DestroyedCount() }

// DestroyedCount returns the number of destroyed objects.
func (r *Room) DestroyedCount() int {
	var n int
	for _, d := range r.objects {
		if d.IsDestroyed() {
			n++
		}
	}
	return n
}

// NearestIntact returns the closest intact object within radius of from,
// and its distance. A radius of zero or less is unbounded. Ties go to the
// object added first.
func (r *Room) NearestIntact(from Vec2, radius float64) (*Destructible, float64, bool) {
	var (
		best     *Destructible
		bestDist = math.Inf(1)
	)
	for _, d := range r.objects {
		if d.IsDestroyed() {
			continue
		}
		dist := from.Dist(d.Pos())
		if dist < bestDist && (radius <= 0 || dist <= radius) {
			best, bestDist = d, dist
		}
	}
	if best == nil {
		return nil, 0, false
	}
	return best, bestDist, true
}

// CountIntactWithin returns the number of intact objects within radius of
// from.
func (r *Room) CountIntactWithin(from Vec2, radius float64) int {
	var n int
	for _, d := range r.objects {
		if !d.IsDestroyed() && from.Dist(d.Pos()) <= radius {
			n++
		}
	}
	return n
}

// RandomIntact picks a uniformly random intact object.
func (r *Room) RandomIntact(rng *rand.Rand) (*Destructible, bool) {
	intact := r.Intact()
	if len(intact) == 0 {
		return nil, false
	}
	return intact[rng.IntN(len(intact))], true
}

// RandomPoint returns a uniformly random point of the disc of radius around
// origin, clamped to the room.
func (r *Room) RandomPoint(rng *rand.Rand, origin Vec2, radius float64) Vec2 {
	rho := radius * math.Sqrt(rng.Float64())
	theta := rng.Float64() * 2 * math.Pi
	return r.Clamp(origin.Add(FromHeading(theta).Mul(rho)))
}

// Contains reports whether p lies inside the room.
func (r *Room) Contains(p Vec2) bool {
	return p.X >= 0 && p.Y >= 0 && p.X <= r.width && p.Y <= r.height
}

// Clamp returns the point of the room closest to p.
func (r *Room) Clamp(p Vec2) Vec2 {
	return Vec2{X: math.Min(math.Max(p.X, 0), r.width), Y: math.Min(math.Max(p.Y, 0), r.height)}
}

// Hit lands one hit on d on behalf of attacker and reports whether it
// destroyed d.
func (r *Room) Hit(attacker string, d *Destructible) bool {
	if d.IsDestroyed() {
		return false
	}
	if !d.TakeHit() {
		r.logger.Debug("object hit",
			"object", d.Name(),
			"by", attacker,
			"hits", d.Hits(),
			"max_hits", d.MaxHits())
		return false
	}
	r.logger.Info("object destroyed",
		"object", d.Name(),
		"by", attacker,
		"pos", d.Pos().String(),
		"remaining", r.IntactCount())
	return true
}
