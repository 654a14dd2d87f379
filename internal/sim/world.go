// Package sim runs cats in a shared room: frame stepping, event statistics,
// scenario assembly from configuration and run reports.
package sim

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/joeycumines/go-goap/internal/cat"
	"github.com/joeycumines/go-goap/internal/world"
)

// World is a room and the cats in it. Cats are ticked in name order, so a
// seeded run is reproducible.
type World struct {
	room    *world.Room
	cats    []*cat.Cat
	elapsed time.Duration
	frames  int
}

// NewWorld creates a world around room.
func NewWorld(room *world.Room) *World {
	return &World{room: room}
}

// Room returns the shared room.
func (w *World) Room() *world.Room { return w.room }

// Cats returns the cats in tick order.
func (w *World) Cats() []*cat.Cat { return slices.Clone(w.cats) }

// Cat returns the cat called name.
func (w *World) Cat(name string) (*cat.Cat, bool) {
	i, ok := w.search(name)
	if !ok {
		return nil, false
	}
	return w.cats[i], true
}

// AddCat adds c. Names must be unique.
func (w *World) AddCat(c *cat.Cat) error {
	if c == nil {
		return errors.New("sim: nil cat")
	}
	i, ok := w.search(c.Name())
	if ok {
		return fmt.Errorf("sim: duplicate cat %q", c.Name())
	}
	w.cats = slices.Insert(w.cats, i, c)
	return nil
}

func (w *World) search(name string) (int, bool) {
	return slices.BinarySearchFunc(w.cats, name, func(c *cat.Cat, name string) int {
		return strings.Compare(c.Name(), name)
	})
}

// Population returns the number of cats.
func (w *World) Population() int { return len(w.cats) }

// Cleared reports whether the room had objects and all are destroyed.
func (w *World) Cleared() bool {
	return len(w.room.Objects()) > 0 && w.room.IntactCount() == 0
}

// Elapsed returns the simulated time stepped so far.
func (w *World) Elapsed() time.Duration { return w.elapsed }

// Frames returns the number of steps taken.
func (w *World) Frames() int { return w.frames }

// Step advances every cat by dt.
func (w *World) Step(dt time.Duration) {
	for _, c := range w.cats {
		c.Tick(dt)
	}
	w.elapsed += dt
	w.frames++
}
