package world

import (
	"fmt"
	"math"
)

// DefaultMaxHits is the number of hits an object survives by default.
const DefaultMaxHits = 3

// Destructible is a decoration cats can knock over.
type Destructible struct {
	name      string
	pos       Vec2
	maxHits   int
	hits      int
	destroyed bool
}

// NewDestructible creates an intact object. maxHits below one selects
// DefaultMaxHits.
func NewDestructible(name string, pos Vec2, maxHits int) *Destructible {
	if maxHits < 1 {
		maxHits = DefaultMaxHits
	}
	return &Destructible{name: name, pos: pos, maxHits: maxHits}
}

// Name returns the object name.
func (d *Destructible) Name() string { return d.name }

// Pos returns the object position.
func (d *Destructible) Pos() Vec2 { return d.pos }

// MaxHits returns the hits needed to destroy the object.
func (d *Destructible) MaxHits() int { return d.maxHits }

// Hits returns the hits taken so far.
func (d *Destructible) Hits() int { return d.hits }

// IsDestroyed reports whether the object has been destroyed.
func (d *Destructible) IsDestroyed() bool { return d.destroyed }

// TakeHit registers one hit. It reports whether this hit destroyed the
// object; hits on a destroyed object are ignored.
func (d *Destructible) TakeHit() bool {
	return d.addHits(1)
}

// ApplyDamage converts amount to hits, rounding, with a minimum of one.
func (d *Destructible) ApplyDamage(amount float64) bool {
	return d.addHits(max(1, int(math.Round(amount))))
}

// Destroy destroys the object regardless of hits taken. It reports whether
// the object was intact.
func (d *Destructible) Destroy() bool {
	if d.destroyed {
		return false
	}
	d.destroyed = true
	return true
}

func (d *Destructible) addHits(n int) bool {
	if d.destroyed {
		return false
	}
	d.hits += n
	if d.hits >= d.maxHits {
		return d.Destroy()
	}
	return false
}

func (d *Destructible) String() string {
	return fmt.Sprintf("%s@%v", d.name, d.pos)
}
