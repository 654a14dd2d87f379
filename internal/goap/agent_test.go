package goap

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tick = 100 * time.Millisecond

type eventLog struct {
	events []Event
}

func (l *eventLog) handle(ev Event) { l.events = append(l.events, ev) }

func (l *eventLog) kinds() []EventKind {
	out := make([]EventKind, len(l.events))
	for i, ev := range l.events {
		out[i] = ev.Kind
	}
	return out
}

func (l *eventLog) reset() { l.events = nil }

// fixedConfig disables jitter and sets both the first forced replan and the
// replan interval to interval.
func fixedConfig(log *eventLog, interval time.Duration) AgentConfig {
	return AgentConfig{
		Name:            "tom",
		Logger:          discardLogger(),
		ReplanInterval:  interval,
		ReplanJitter:    -1,
		InitialDelayMin: interval,
		InitialDelayMax: interval,
		Seed:            1,
		OnEvent:         log.handle,
	}
}

func TestNewAgent_ConfigErrors(t *testing.T) {
	t.Parallel()

	v := testVocabulary()
	act := newScripted("act", 1, Conditions{}, conds(Is(factDestroyed)))
	goal := NewGoal("destroy", 1, conds(Is(factDestroyed)))

	tests := []struct {
		name    string
		actions []Action
		goals   []Goal
		want    error
	}{
		{"no actions", nil, []Goal{goal}, ErrNoActions},
		{"no goals", []Action{act}, nil, ErrNoGoals},
		{"duplicate action", []Action{act, newScripted("act", 2, Conditions{}, Conditions{})}, []Goal{goal}, ErrDuplicateName},
		{"duplicate goal", []Action{act}, []Goal{goal, NewGoal("destroy", 2, Conditions{})}, ErrDuplicateName},
		{"negative cost", []Action{newScripted("bad", -1, Conditions{}, Conditions{})}, []Goal{goal}, ErrNegativeCost},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent, err := NewAgent(v, tt.actions, tt.goals, AgentConfig{Name: "tom", Logger: discardLogger()})
			require.Error(t, err)
			assert.Nil(t, agent)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, "tom", cfgErr.Agent)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	t.Run("nil action", func(t *testing.T) {
		_, err := NewAgent(v, []Action{nil}, []Goal{goal}, AgentConfig{Logger: discardLogger()})
		var cfgErr *ConfigError
		require.True(t, errors.As(err, &cfgErr))
	})
}

func TestNewAgent_Defaults(t *testing.T) {
	t.Parallel()

	act := newScripted("act", 1, Conditions{}, conds(Is(factDestroyed)))
	agent, err := NewAgent(nil, []Action{act}, []Goal{NewGoal("destroy", 1, conds(Is(factDestroyed)))}, AgentConfig{Logger: discardLogger()})
	require.NoError(t, err)

	_, err = uuid.Parse(agent.ID())
	assert.NoError(t, err)
	assert.Equal(t, agent.ID(), agent.Name())
	assert.Equal(t, AgentIdle, agent.Status())
	assert.False(t, agent.HasPlan())
	assert.NotNil(t, agent.Vocabulary())
	assert.GreaterOrEqual(t, agent.timer.Left(), DefaultInitialDelayMin)
	assert.LessOrEqual(t, agent.timer.Left(), DefaultInitialDelayMax)
}

func TestAgent_AvailableActionsIsCopy(t *testing.T) {
	t.Parallel()

	act := newScripted("act", 1, Conditions{}, conds(Is(factDestroyed)))
	agent, err := NewAgent(testVocabulary(), []Action{act}, []Goal{NewGoal("destroy", 1, conds(Is(factDestroyed)))}, AgentConfig{Logger: discardLogger()})
	require.NoError(t, err)

	got := agent.AvailableActions()
	require.Len(t, got, 1)
	got[0] = nil
	assert.Same(t, act, agent.AvailableActions()[0])
}

func TestAgent_ExecutesPlanAndSatisfiesGoal(t *testing.T) {
	t.Parallel()

	var log eventLog
	find := newScripted("find", 1, Conditions{}, conds(Is(factHasTarget)), Continuing, Succeeded)
	hit := newScripted("hit", 2, conds(Is(factHasTarget)), conds(Is(factDestroyed)))
	agent, err := NewAgent(testVocabulary(), []Action{find, hit}, []Goal{NewGoal("destroy", 1, conds(Is(factDestroyed)))}, fixedConfig(&log, time.Minute))
	require.NoError(t, err)

	agent.Tick(tick)
	assert.Equal(t, AgentExecuting, agent.Status())
	assert.Equal(t, []Action{find, hit}, agent.CurrentPlan())
	assert.Equal(t, "destroy", agent.CurrentGoal().Name())

	agent.Tick(tick) // find succeeds
	assert.True(t, agent.WorldState().Get(factHasTarget))
	assert.Equal(t, []Action{hit}, agent.CurrentPlan())

	agent.Tick(tick) // hit succeeds
	assert.False(t, agent.HasPlan())
	assert.Equal(t, AgentIdle, agent.Status())
	assert.True(t, agent.WorldState().Get(factDestroyed))
	assert.Nil(t, agent.CurrentGoal())

	want := []EventKind{
		EventPlanFound,
		EventActionStarted,
		EventActionSucceeded,
		EventActionStarted,
		EventActionSucceeded,
		EventGoalSatisfied,
	}
	if diff := cmp.Diff(want, log.kinds()); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"find", "hit"}, log.events[0].Plan)
	assert.Equal(t, 3.0, log.events[0].Cost)
	assert.Equal(t, "tom", log.events[0].Agent)
	assert.Equal(t, 1, find.resets)
	assert.Equal(t, 1, hit.checks)
}

func TestAgent_ScenarioD_FailureReplansSameTick(t *testing.T) {
	t.Parallel()

	var log eventLog
	find := newScripted("find", 1, Conditions{}, conds(Is(factHasTarget)))
	hit := newScripted("hit", 2, conds(Is(factHasTarget)), conds(Is(factDestroyed)), Failed, Continuing)
	planner := &countingPlanner{inner: NewForwardPlanner(discardLogger(), nil)}
	cfg := fixedConfig(&log, time.Minute)
	cfg.Planner = planner
	agent, err := NewAgent(testVocabulary(), []Action{find, hit}, []Goal{NewGoal("destroy", 1, conds(Is(factDestroyed)))}, cfg)
	require.NoError(t, err)

	agent.Tick(tick) // plan, find succeeds
	require.Equal(t, 1, planner.calls)
	log.reset()

	agent.Tick(tick) // hit fails, replan, hit restarts
	assert.Equal(t, 2, planner.calls)
	want := []EventKind{
		EventActionStarted,
		EventActionFailed,
		EventPlanFound,
		EventActionStarted,
	}
	if diff := cmp.Diff(want, log.kinds()); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"hit"}, log.events[2].Plan)
	assert.Equal(t, 2, hit.resets)
	assert.Equal(t, 2, hit.calls)
	assert.Equal(t, AgentExecuting, agent.Status())
}

func TestAgent_SecondFailureInTickWaitsForNextTick(t *testing.T) {
	t.Parallel()

	var log eventLog
	flaky := newScripted("flaky", 1, Conditions{}, conds(Is(factDestroyed)), Failed)
	planner := &countingPlanner{inner: NewForwardPlanner(discardLogger(), nil)}
	cfg := fixedConfig(&log, time.Minute)
	cfg.Planner = planner
	agent, err := NewAgent(testVocabulary(), []Action{flaky}, []Goal{NewGoal("destroy", 1, conds(Is(factDestroyed)))}, cfg)
	require.NoError(t, err)

	agent.Tick(tick)
	assert.Equal(t, 1, planner.calls)
	assert.False(t, agent.HasPlan())

	agent.Tick(tick)
	assert.Equal(t, 2, planner.calls)
	assert.Equal(t, 2, flaky.calls)
}

func TestAgent_MissingBindingReplans(t *testing.T) {
	t.Parallel()

	var log eventLog
	hit := newScripted("hit", 2, Conditions{}, conds(Is(factDestroyed)))
	bound := false
	hit.bind = func() bool { return bound }
	agent, err := NewAgent(testVocabulary(), []Action{hit}, []Goal{NewGoal("destroy", 1, conds(Is(factDestroyed)))}, fixedConfig(&log, time.Minute))
	require.NoError(t, err)

	agent.Tick(tick)
	assert.Contains(t, log.kinds(), EventMissingBinding)
	assert.Zero(t, hit.calls)

	bound = true
	log.reset()
	agent.Tick(tick)
	assert.Equal(t, []EventKind{EventPlanFound, EventActionStarted, EventActionSucceeded, EventGoalSatisfied}, log.kinds())
}

func TestAgent_NoPlanBacksOffUntilTimer(t *testing.T) {
	t.Parallel()

	var log eventLog
	hit := newScripted("hit", 2, conds(Is(factHasTarget)), conds(Is(factDestroyed)))
	planner := &countingPlanner{inner: NewForwardPlanner(discardLogger(), nil)}
	cfg := fixedConfig(&log, time.Second)
	cfg.Planner = planner
	agent, err := NewAgent(testVocabulary(), []Action{hit}, []Goal{NewGoal("destroy", 1, conds(Is(factDestroyed)))}, cfg)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		agent.Tick(tick)
	}
	assert.Equal(t, 1, planner.calls)
	assert.Equal(t, []EventKind{EventNoPlan}, log.kinds())
	assert.Equal(t, AgentIdle, agent.Status())
	assert.True(t, agent.BackingOff())

	agent.Tick(tick)
	assert.Equal(t, 2, planner.calls)

	// a perception update makes the next forced replan succeed
	agent.SetFact(factHasTarget, true)
	for i := 0; i < 10; i++ {
		agent.Tick(tick)
	}
	assert.Equal(t, 3, planner.calls)
	assert.True(t, agent.WorldState().Get(factDestroyed))
}

func TestAgent_InterruptClearsBackoff(t *testing.T) {
	t.Parallel()

	var log eventLog
	hit := newScripted("hit", 2, conds(Is(factHasTarget)), conds(Is(factDestroyed)))
	planner := &countingPlanner{inner: NewForwardPlanner(discardLogger(), nil)}
	cfg := fixedConfig(&log, time.Minute)
	cfg.Planner = planner
	agent, err := NewAgent(testVocabulary(), []Action{hit}, []Goal{NewGoal("destroy", 1, conds(Is(factDestroyed)))}, cfg)
	require.NoError(t, err)

	agent.Tick(tick)
	agent.Tick(tick)
	require.Equal(t, 1, planner.calls)

	agent.Interrupt("perception changed")
	assert.False(t, agent.BackingOff())
	agent.Tick(tick)
	assert.Equal(t, 2, planner.calls)
}

func TestAgent_TimerReplanKeepsRunningHead(t *testing.T) {
	t.Parallel()

	var log eventLog
	walk := newScripted("walk", 1, Conditions{}, conds(Is(factExploring)), Continuing)
	planner := &countingPlanner{inner: NewForwardPlanner(discardLogger(), nil)}
	cfg := fixedConfig(&log, 300*time.Millisecond)
	cfg.Planner = planner
	agent, err := NewAgent(testVocabulary(), []Action{walk}, []Goal{NewGoal("explore", 1, conds(Is(factExploring)))}, cfg)
	require.NoError(t, err)

	for i := 0; i < 7; i++ {
		agent.Tick(tick)
	}
	assert.Equal(t, 3, planner.calls)
	assert.Equal(t, 1, walk.resets)
	assert.Equal(t, 7, walk.calls)
	assert.Equal(t, 1, countKind(log.events, EventActionStarted))
}

func TestAgent_TimerReplanSwitchesHead(t *testing.T) {
	t.Parallel()

	var log eventLog
	slow := newScripted("slow", 3, Conditions{}, conds(Is(factDestroyed)), Continuing)
	fast := newScripted("fast", 1, conds(Is(factHasTarget)), conds(Is(factDestroyed)), Continuing)
	cfg := fixedConfig(&log, 200*time.Millisecond)
	agent, err := NewAgent(testVocabulary(), []Action{slow, fast}, []Goal{NewGoal("destroy", 1, conds(Is(factDestroyed)))}, cfg)
	require.NoError(t, err)

	agent.Tick(tick)
	require.Equal(t, []Action{slow}, agent.CurrentPlan())
	agent.SetFact(factHasTarget, true)
	agent.Tick(tick)
	agent.Tick(tick) // timer fires
	assert.Equal(t, []Action{fast}, agent.CurrentPlan())
	assert.Equal(t, 2, slow.resets, "aborted head must be reset")
}

func TestAgent_SetGoal(t *testing.T) {
	t.Parallel()

	var log eventLog
	walk := newScripted("walk", 1, Conditions{}, conds(Is(factExploring)), Continuing)
	hit := newScripted("hit", 2, Conditions{}, conds(Is(factDestroyed)))
	explore := NewGoal("explore", 2, conds(Is(factExploring)))
	destroy := NewGoal("destroy", 1, conds(Is(factDestroyed)))
	agent, err := NewAgent(testVocabulary(), []Action{walk, hit}, []Goal{explore, destroy}, fixedConfig(&log, time.Minute))
	require.NoError(t, err)

	agent.Tick(tick)
	require.Equal(t, "explore", agent.CurrentGoal().Name())

	t.Run("unknown goal", func(t *testing.T) {
		log.reset()
		assert.False(t, agent.SetGoal("sleep", true))
		assert.Equal(t, []EventKind{EventGoalUnknown}, log.kinds())
		assert.Equal(t, "sleep", log.events[0].Goal)
		assert.True(t, agent.HasPlan(), "unknown goal must not cancel the plan")
	})

	t.Run("pin cancels plan", func(t *testing.T) {
		log.reset()
		assert.True(t, agent.SetGoal("destroy", true))
		assert.False(t, agent.HasPlan())
		assert.Equal(t, []EventKind{EventPlanCancelled}, log.kinds())
		assert.Equal(t, "destroy", agent.PinnedGoal().Name())
		assert.Equal(t, 2, walk.resets)
	})

	t.Run("pinned goal planned and cleared once satisfied", func(t *testing.T) {
		log.reset()
		agent.Tick(tick)
		assert.Equal(t, []EventKind{EventPlanFound, EventActionStarted, EventActionSucceeded, EventGoalSatisfied}, log.kinds())
		assert.Equal(t, "destroy", log.events[0].Goal)
		assert.Nil(t, agent.PinnedGoal())

		agent.Tick(tick)
		assert.Equal(t, "explore", agent.CurrentGoal().Name())
	})

	t.Run("unpin", func(t *testing.T) {
		require.True(t, agent.SetGoal("destroy", true))
		require.True(t, agent.SetGoal("destroy", false))
		assert.Nil(t, agent.PinnedGoal())
		assert.True(t, agent.SetGoal("explore", false), "unpinning a goal that is not pinned is a no-op")
	})
}

func TestAgent_GoalSelection(t *testing.T) {
	t.Parallel()

	act := newScripted("act", 1, Conditions{}, conds(Is(factDestroyed), Is(factExploring), Is(factRested)), Continuing)
	blocked := NewGoal("blocked", 10, conds(Is(factRested)), WithAchievable(func() bool { return false }))
	first := NewGoal("first", 2, conds(Is(factDestroyed)))
	second := NewGoal("second", 2, conds(Is(factExploring)))
	prio := 1.0
	dynamic := NewGoal("dynamic", 0, conds(Is(factExploring)), WithPriorityFunc(func() float64 { return prio }))

	var log eventLog
	agent, err := NewAgent(testVocabulary(), []Action{act}, []Goal{blocked, first, second, dynamic}, fixedConfig(&log, time.Minute))
	require.NoError(t, err)

	agent.Tick(tick)
	assert.Equal(t, "first", agent.CurrentGoal().Name())

	prio = 5
	agent.Interrupt("test")
	agent.Tick(tick)
	assert.Equal(t, "dynamic", agent.CurrentGoal().Name())
}

func TestAgent_NoAchievableGoal(t *testing.T) {
	t.Parallel()

	var log eventLog
	act := newScripted("act", 1, Conditions{}, conds(Is(factDestroyed)))
	goal := NewGoal("destroy", 1, conds(Is(factDestroyed)), WithAchievable(func() bool { return false }))
	agent, err := NewAgent(testVocabulary(), []Action{act}, []Goal{goal}, fixedConfig(&log, time.Minute))
	require.NoError(t, err)

	agent.Tick(tick)
	agent.Tick(tick)
	assert.Equal(t, []EventKind{EventNoGoal}, log.kinds())
	assert.Zero(t, act.calls)
}

func TestAgent_SensorRunsBeforePlanning(t *testing.T) {
	t.Parallel()

	var log eventLog
	var sensed int
	hit := newScripted("hit", 2, conds(Is(factHasTarget)), conds(Is(factDestroyed)))
	cfg := fixedConfig(&log, time.Minute)
	cfg.Sensor = SensorFunc(func(s State) State {
		sensed++
		return s.With(factHasTarget, true).With(factDestroyed, false)
	})
	agent, err := NewAgent(testVocabulary(), []Action{hit}, []Goal{NewGoal("destroy", 1, conds(Is(factDestroyed)))}, cfg)
	require.NoError(t, err)

	agent.Tick(tick)
	assert.Equal(t, 1, sensed)
	assert.Equal(t, []EventKind{EventPlanFound, EventActionStarted, EventActionSucceeded, EventGoalSatisfied}, log.kinds())

	agent.Tick(tick)
	assert.Equal(t, 2, sensed)
	assert.Equal(t, 2, hit.calls)
}

func TestAgent_ProceduralPrefilter(t *testing.T) {
	t.Parallel()

	cheap := newScripted("cheap", 1, Conditions{}, conds(Is(factDestroyed)), Continuing)
	cheap.bind = func() bool { return false }
	costly := newScripted("costly", 4, Conditions{}, conds(Is(factDestroyed)), Continuing)
	goal := NewGoal("destroy", 1, conds(Is(factDestroyed)))

	t.Run("execution only", func(t *testing.T) {
		var log eventLog
		agent, err := NewAgent(testVocabulary(), []Action{cheap, costly}, []Goal{goal}, fixedConfig(&log, time.Minute))
		require.NoError(t, err)
		agent.Tick(tick)
		assert.Contains(t, log.kinds(), EventMissingBinding)
	})

	t.Run("prefilter", func(t *testing.T) {
		var log eventLog
		cfg := fixedConfig(&log, time.Minute)
		cfg.Procedural = ProceduralPrefilter
		agent, err := NewAgent(testVocabulary(), []Action{cheap, costly}, []Goal{goal}, cfg)
		require.NoError(t, err)
		agent.Tick(tick)
		assert.NotContains(t, log.kinds(), EventMissingBinding)
		assert.Equal(t, []Action{costly}, agent.CurrentPlan())
	})
}

func TestAgent_SetWorldState(t *testing.T) {
	t.Parallel()

	act := newScripted("act", 1, Conditions{}, conds(Is(factDestroyed)))
	agent, err := NewAgent(testVocabulary(), []Action{act}, []Goal{NewGoal("destroy", 1, conds(Is(factDestroyed)))}, AgentConfig{Logger: discardLogger()})
	require.NoError(t, err)

	require.NoError(t, agent.SetWorldState("hasTarget", true))
	require.NoError(t, agent.SetWorldState("sunny", true))
	assert.True(t, agent.WorldState().Get(factHasTarget))

	sunny, ok := agent.Vocabulary().Lookup("sunny")
	require.True(t, ok)
	assert.True(t, agent.WorldState().Get(sunny))

	assert.Error(t, agent.SetWorldState("", true))
}

func TestParseProceduralPolicy(t *testing.T) {
	t.Parallel()

	for _, p := range []ProceduralPolicy{ProceduralExecutionOnly, ProceduralPrefilter} {
		got, err := ParseProceduralPolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	got, err := ParseProceduralPolicy("")
	require.NoError(t, err)
	assert.Equal(t, ProceduralExecutionOnly, got)
	_, err = ParseProceduralPolicy("eager")
	assert.Error(t, err)
}

func countKind(events []Event, kind EventKind) int {
	var n int
	for _, ev := range events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}
