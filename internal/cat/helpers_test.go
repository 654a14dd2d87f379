package cat

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/joeycumines/go-goap/internal/eval"
	"github.com/joeycumines/go-goap/internal/goap"
	"github.com/joeycumines/go-goap/internal/world"
)

const tick = 100 * time.Millisecond

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestDeps builds deps for a cat at pos facing +X in a 20x20 room holding
// objs.
func newTestDeps(t *testing.T, pos world.Vec2, objs ...*world.Destructible) *Deps {
	t.Helper()
	room := world.NewRoom(20, 20, discardLogger())
	for _, obj := range objs {
		require.NoError(t, room.Add(obj))
	}
	body := &world.Body{Pos: pos, TurnRate: world.DefaultTurnRate}
	tuning := DefaultTuning()
	d := &Deps{
		Name:        "tom",
		Room:        room,
		Nav:         world.NewNavigator(body, room, tuning.Speed),
		Rand:        rand.New(rand.NewPCG(1, 2)),
		Logger:      discardLogger(),
		Tuning:      tuning,
		Personality: DefaultPersonality(),
	}
	d.Env = func() eval.Env {
		return eval.Env{Objects: room.IntactCount(), Nearby: room.CountIntactWithin(d.body().Pos, tuning.NearRadius)}
	}
	return d
}

func testContext() *goap.Context {
	return &goap.Context{AgentID: "tom", Delta: tick, Logger: discardLogger()}
}

// run performs act, stepping the navigator after each tick, until it
// finishes or limit ticks pass. It returns the result and the tick count.
func run(d *Deps, act goap.Action, limit int) (goap.PerformResult, int) {
	ctx := testContext()
	for i := 1; i <= limit; i++ {
		ctx.Elapsed += tick
		res := act.Perform(ctx)
		d.Nav.Step(tick)
		if res != goap.Continuing {
			return res, i
		}
	}
	return goap.Continuing, limit
}

// fakeExecutor records the calls made by a Brain.
type fakeExecutor struct {
	ticks      int
	hasPlan    bool
	backingOff bool
	goals      map[string]bool
	pinned     []string
	interrupts []string
	state      goap.State
}

func newFakeExecutor(goals ...string) *fakeExecutor {
	e := &fakeExecutor{goals: make(map[string]bool)}
	for _, g := range goals {
		e.goals[g] = true
	}
	return e
}

func (e *fakeExecutor) Tick(time.Duration) { e.ticks++ }
func (e *fakeExecutor) HasPlan() bool      { return e.hasPlan }
func (e *fakeExecutor) BackingOff() bool   { return e.backingOff }
func (e *fakeExecutor) WorldState() goap.State {
	return e.state
}

func (e *fakeExecutor) SetGoal(name string, active bool) bool {
	if !e.goals[name] {
		return false
	}
	if active {
		e.pinned = append(e.pinned, name)
		e.hasPlan = true
	}
	return true
}

func (e *fakeExecutor) Interrupt(reason string) {
	e.interrupts = append(e.interrupts, reason)
	e.hasPlan = false
}
