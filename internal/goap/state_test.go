package goap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_AbsentIsFalse(t *testing.T) {
	t.Parallel()

	var s State
	assert.False(t, s.Get(0))
	assert.False(t, s.Get(1000))
	assert.True(t, s.Satisfies(conds(Not(3), Not(500))))
	assert.False(t, s.Satisfies(conds(Is(3))))
}

func TestState_WithDoesNotMutateReceiver(t *testing.T) {
	t.Parallel()

	base := NewState(factHasTarget)
	next := base.With(factDestroyed, true)
	cleared := next.With(factHasTarget, false)

	assert.True(t, base.Get(factHasTarget))
	assert.False(t, base.Get(factDestroyed))
	assert.True(t, next.Get(factHasTarget))
	assert.True(t, next.Get(factDestroyed))
	assert.False(t, cleared.Get(factHasTarget))
	assert.True(t, cleared.Get(factDestroyed))
}

func TestState_WithHighFact(t *testing.T) {
	t.Parallel()

	s := NewState().With(200, true)
	assert.True(t, s.Get(200))
	assert.False(t, s.Get(199))
	assert.Equal(t, []Fact{200}, s.Facts())
}

func TestState_Apply(t *testing.T) {
	t.Parallel()

	start := NewState(factHasTarget)
	got := start.Apply(conds(Not(factHasTarget), Is(factDestroyed), Is(130)))

	assert.Equal(t, []Fact{factDestroyed, 130}, got.Facts())
	assert.Equal(t, []Fact{factHasTarget}, start.Facts())

	t.Run("empty effects", func(t *testing.T) {
		assert.True(t, start.Apply(Conditions{}).Equal(start))
	})
	t.Run("clearing absent fact", func(t *testing.T) {
		assert.True(t, start.Apply(conds(Not(400))).Equal(start))
	})
}

func TestState_Equal(t *testing.T) {
	t.Parallel()

	a := NewState(factHasTarget).With(300, true).With(300, false)
	b := NewState(factHasTarget)
	require.True(t, a.Equal(b))
	require.True(t, b.Equal(a))
	require.False(t, a.Equal(NewState(factDestroyed)))
	require.True(t, State{}.Equal(NewState()))
}

func TestState_Format(t *testing.T) {
	t.Parallel()

	v := testVocabulary()
	s := NewState(factDestroyed, factHasTarget, 9)
	assert.Equal(t, "{hasTarget, destroyed, fact#9}", s.Format(v))
	assert.Equal(t, "{}", State{}.Format(v))
}
