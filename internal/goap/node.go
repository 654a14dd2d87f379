package goap

import (
	bt "github.com/joeycumines/go-behaviortree"
)

// ActionNode runs an Action as a behaviour tree leaf.
//
// On the first tick of an attempt the action is reset and its procedural
// precondition checked; a failed check ends the attempt with bt.Failure and
// Err reporting ErrMissingBinding. Later ticks call Perform, mapping
// Continuing to bt.Running, Succeeded to bt.Success and Failed to bt.Failure.
// A finished attempt, successful or not, makes the next tick start over.
//
// Failures are reported through the status and Err, never through the tick
// error, so that a failing action does not stop a bt.Ticker driving the tree.
type ActionNode struct {
	action    Action
	ctx       func() *Context
	running   bool
	err       error
	onStart   func(Action)
	onSuccess func(Action)
	onFailure func(Action, error)
}

// ActionNodeOption configures an ActionNode.
type ActionNodeOption func(*ActionNode)

// OnActionStart registers a hook run once the procedural precondition of an
// attempt has passed.
func OnActionStart(fn func(Action)) ActionNodeOption {
	return func(n *ActionNode) { n.onStart = fn }
}

// OnActionSuccess registers a hook run when Perform reports Succeeded.
func OnActionSuccess(fn func(Action)) ActionNodeOption {
	return func(n *ActionNode) { n.onSuccess = fn }
}

// OnActionFailure registers a hook run when an attempt fails, with
// ErrMissingBinding or ErrActionFailed.
func OnActionFailure(fn func(Action, error)) ActionNodeOption {
	return func(n *ActionNode) { n.onFailure = fn }
}

// NewActionNode wraps action. ctx supplies the execution context of each
// tick and must not return nil.
func NewActionNode(action Action, ctx func() *Context, opts ...ActionNodeOption) *ActionNode {
	n := &ActionNode{action: action, ctx: ctx}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Action returns the wrapped action.
func (n *ActionNode) Action() Action { return n.action }

// Running reports whether an attempt is in progress.
func (n *ActionNode) Running() bool { return n.running }

// Err returns the reason the last attempt failed, or nil.
func (n *ActionNode) Err() error { return n.err }

// Node returns the bt.Node form of n.
func (n *ActionNode) Node() bt.Node { return bt.New(n.Tick) }

// Tick implements bt.Tick.
func (n *ActionNode) Tick([]bt.Node) (bt.Status, error) {
	ctx := n.ctx()
	if !n.running {
		n.err = nil
		n.action.ResetAction()
		if !n.action.CheckProceduralPrecondition(ctx) {
			n.fail(ErrMissingBinding)
			return bt.Failure, nil
		}
		n.running = true
		if n.onStart != nil {
			n.onStart(n.action)
		}
	}
	switch n.action.Perform(ctx) {
	case Continuing:
		return bt.Running, nil
	case Succeeded:
		n.running = false
		if n.onSuccess != nil {
			n.onSuccess(n.action)
		}
		return bt.Success, nil
	default:
		n.running = false
		n.fail(ErrActionFailed)
		return bt.Failure, nil
	}
}

// Abort ends the attempt in progress, if any, resetting the action.
func (n *ActionNode) Abort() {
	if n.running {
		n.running = false
		n.action.ResetAction()
	}
}

func (n *ActionNode) fail(err error) {
	n.err = err
	if n.onFailure != nil {
		n.onFailure(n.action, err)
	}
}
