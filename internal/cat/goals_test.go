package cat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/go-goap/internal/eval"
	"github.com/joeycumines/go-goap/internal/goap"
	"github.com/joeycumines/go-goap/internal/world"
)

func TestDestroyObjectGoal(t *testing.T) {
	t.Parallel()

	vase := world.NewDestructible("vase", world.Vec2{X: 15, Y: 2}, 3)
	d := newTestDeps(t, world.Vec2{X: 2, Y: 2}, vase)
	g := NewDestroyObjectGoal(d)

	assert.Equal(t, GoalDestroyObject, g.Name())
	assert.Equal(t, goap.MustConditions(goap.Is(DestroyObject)), g.DesiredState())
	assert.True(t, g.IsAchievable())
	assert.Equal(t, 0.5, g.Priority(), "nothing near")

	d.body().Pos = world.Vec2{X: 10, Y: 2}
	assert.Equal(t, 3.0, g.Priority(), "object within reach")

	vase.Destroy()
	assert.False(t, g.IsAchievable())
	assert.Equal(t, 0.5, g.Priority())
}

func TestExploreGoal(t *testing.T) {
	t.Parallel()

	g := NewExploreGoal(newTestDeps(t, world.Vec2{X: 2, Y: 2}))
	assert.Equal(t, GoalExplore, g.Name())
	assert.Equal(t, 1.0, g.Priority())
	assert.True(t, g.IsAchievable())
	assert.Equal(t, goap.MustConditions(goap.Is(Exploring)), g.DesiredState())
}

func TestExprGoal(t *testing.T) {
	t.Parallel()

	vase := world.NewDestructible("vase", world.Vec2{X: 4, Y: 2}, 3)
	d := newTestDeps(t, world.Vec2{X: 2, Y: 2}, vase)
	cache := eval.NewCache(8)

	g, err := NewExprGoal(d, cache, "smash", goap.MustConditions(goap.Is(DestroyObject)), "nearby > 0 ? 4 : 0.25", "objects > 0")
	require.NoError(t, err)
	assert.Equal(t, "smash", g.Name())
	assert.Equal(t, 4.0, g.Priority())
	assert.True(t, g.IsAchievable())

	vase.Destroy()
	assert.Equal(t, 0.25, g.Priority())
	assert.False(t, g.IsAchievable())

	always, err := NewExprGoal(d, cache, "roam", goap.MustConditions(goap.Is(Exploring)), "1", "")
	require.NoError(t, err)
	assert.True(t, always.IsAchievable())

	_, err = NewExprGoal(d, cache, "bad", goap.Conditions{}, "", "")
	assert.Error(t, err)
	_, err = NewExprGoal(d, cache, "bad", goap.Conditions{}, "1", "objects +")
	assert.Error(t, err)
}

func TestPersonality(t *testing.T) {
	t.Parallel()

	p := Personality{Curiosity: 2, Aggression: 0.5}
	assert.Equal(t, 2.0, p.Multiplier(GoalExplore))
	assert.Equal(t, 0.5, p.Multiplier(GoalDestroyObject))
	assert.Equal(t, 0.0, p.Multiplier(GoalPlayWithPlayer))
	assert.Equal(t, 1.0, p.Multiplier("Nap"))
	assert.Equal(t, Personality{1, 1, 1}, DefaultPersonality())

	d := newTestDeps(t, world.Vec2{X: 2, Y: 2})
	explore := NewExploreGoal(d)
	weighted := WithPersonality(explore, p)
	assert.Equal(t, 2.0, weighted.Priority())
	assert.Equal(t, GoalExplore, weighted.Name())
	assert.Equal(t, explore.DesiredState(), weighted.DesiredState())

	assert.Same(t, explore, WithPersonality(explore, DefaultPersonality()))

	vase := world.NewDestructible("vase", world.Vec2{X: 3, Y: 2}, 3)
	d = newTestDeps(t, world.Vec2{X: 2, Y: 2}, vase)
	destroy := NewDestroyObjectGoal(d)
	require.True(t, destroy.IsAchievable())
	docile := WithPersonality(destroy, Personality{Curiosity: 1, Affection: 1})
	assert.Zero(t, docile.Priority())
	assert.False(t, docile.IsAchievable(), "zero aggression never destroys")
	assert.Nil(t, goap.SelectGoal([]goap.Goal{docile}))
}

func TestSensor(t *testing.T) {
	t.Parallel()

	vase := world.NewDestructible("vase", world.Vec2{X: 10, Y: 2}, 3)
	d := newTestDeps(t, world.Vec2{X: 2, Y: 2}, vase)
	sensor := NewSensor(d)

	start := goap.NewState().With(DestroyObject, true).With(Exploring, true)
	got := sensor.Sense(start)
	assert.True(t, got.Get(HasTarget))
	assert.False(t, got.Get(DestroyObject))
	assert.False(t, got.Get(Exploring))

	vase.Destroy()
	assert.False(t, sensor.Sense(got).Get(HasTarget))
}
