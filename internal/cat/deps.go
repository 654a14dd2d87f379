package cat

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/joeycumines/go-goap/internal/eval"
	"github.com/joeycumines/go-goap/internal/world"
)

// Deps are the host services a cat's actions and goals are built with.
type Deps struct {
	Name        string
	Room        *world.Room
	Nav         *world.Navigator
	Rand        *rand.Rand
	Logger      *slog.Logger
	Tuning      Tuning
	Personality Personality
	// Env returns the expression environment of the cat.
	Env func() eval.Env
	// OnDestroyed is called when one of the cat's hits destroys an object.
	OnDestroyed func(*world.Destructible)
}

func (d *Deps) body() *world.Body { return d.Nav.Body() }

func (d *Deps) destroyed(obj *world.Destructible) {
	if d.OnDestroyed != nil {
		d.OnDestroyed(obj)
	}
}

func randDuration(rng *rand.Rand, lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(rng.Int64N(int64(hi-lo)+1))
}
