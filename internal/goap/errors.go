package goap

import (
	"errors"
	"fmt"
)

var (
	// ErrNoActions is wrapped by ConfigError when an agent declares no
	// actions.
	ErrNoActions = errors.New("goap: agent has no actions")

	// ErrNoGoals is wrapped by ConfigError when an agent declares no goals.
	ErrNoGoals = errors.New("goap: agent has no goals")

	// ErrDuplicateName is wrapped by ConfigError when two actions or two
	// goals of one agent share a name.
	ErrDuplicateName = errors.New("goap: duplicate name")

	// ErrUnknownTag is returned by Registry.Build for unregistered tags.
	ErrUnknownTag = errors.New("goap: unknown tag")

	// ErrActionFailed is reported when Perform returns Failed.
	ErrActionFailed = errors.New("goap: action failed")

	// ErrMissingBinding is reported when an action's procedural precondition
	// cannot bind a target at execution time.
	ErrMissingBinding = errors.New("goap: procedural precondition failed")
)

// ConfigError is a setup defect of a single agent. It is fatal to that agent
// but never to the process hosting it.
type ConfigError struct {
	Agent string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Agent == "" {
		return fmt.Sprintf("goap: invalid agent config: %v", e.Err)
	}
	return fmt.Sprintf("goap: invalid config for agent %q: %v", e.Agent, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
