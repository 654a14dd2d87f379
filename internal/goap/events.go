package goap

// EventKind classifies an agent Event.
type EventKind int

const (
	// EventPlanFound is emitted after a successful planning call.
	EventPlanFound EventKind = iota + 1
	// EventNoPlan is emitted when the planner found nothing for the
	// selected goal.
	EventNoPlan
	// EventNoGoal is emitted when no declared goal is achievable.
	EventNoGoal
	// EventActionStarted is emitted when an action becomes the plan head.
	EventActionStarted
	// EventActionSucceeded is emitted when Perform reports Succeeded.
	EventActionSucceeded
	// EventActionFailed is emitted when Perform reports Failed.
	EventActionFailed
	// EventMissingBinding is emitted when a procedural precondition fails at
	// execution time.
	EventMissingBinding
	// EventGoalSatisfied is emitted when a plan runs to completion.
	EventGoalSatisfied
	// EventGoalUnknown is emitted by SetGoal for names the agent does not
	// declare.
	EventGoalUnknown
	// EventPlanCancelled is emitted when SetGoal or Interrupt discards a
	// plan.
	EventPlanCancelled
)

// String returns the string representation of the kind.
func (k EventKind) String() string {
	switch k {
	case EventPlanFound:
		return "plan_found"
	case EventNoPlan:
		return "no_plan"
	case EventNoGoal:
		return "no_goal"
	case EventActionStarted:
		return "action_started"
	case EventActionSucceeded:
		return "action_succeeded"
	case EventActionFailed:
		return "action_failed"
	case EventMissingBinding:
		return "missing_binding"
	case EventGoalSatisfied:
		return "goal_satisfied"
	case EventGoalUnknown:
		return "goal_unknown"
	case EventPlanCancelled:
		return "plan_cancelled"
	default:
		return "unknown"
	}
}

// Event describes something that happened inside an agent's tick. Fields not
// relevant to the kind are zero.
type Event struct {
	Kind    EventKind
	AgentID string
	Agent   string
	Goal    string
	Action  string
	Plan    []string
	Cost    float64
	Reason  string
}

// EventHandler receives agent events synchronously, on the ticking goroutine.
type EventHandler func(Event)
