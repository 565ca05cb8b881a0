// Package engine runs the registered provisioning steps in order,
// maintains the completed-steps ledger, and drives rollback.
package engine

import (
	"time"

	"github.com/felixgeelhaar/statekit"
)

// RunState represents the run's position in its lifecycle.
type RunState string

const (
	// StateIdle indicates the run has not started.
	StateIdle RunState = "idle"
	// StatePreflight indicates host checks are in progress.
	StatePreflight RunState = "preflight"
	// StateExecuting indicates steps are being applied.
	StateExecuting RunState = "executing"
	// StateRollingBack indicates completed steps are being undone.
	StateRollingBack RunState = "rolling-back"
	// StateCompleted indicates the run finished successfully.
	StateCompleted RunState = "completed"
	// StateFailed indicates the run halted on a fatal failure.
	StateFailed RunState = "failed"
	// StateAborted indicates the operator cancelled the run.
	StateAborted RunState = "aborted"
)

// Event types for the run state machine.
const (
	eventBegin          = "BEGIN"
	eventPreflightOK    = "PREFLIGHT_OK"
	eventPreflightFatal = "PREFLIGHT_FATAL"
	eventFatal          = "FATAL"
	eventRollback       = "ROLLBACK"
	eventRolledBack     = "ROLLED_BACK"
	eventCompleted      = "COMPLETED"
	eventAbort          = "ABORT"
)

// machineContext is the context type carried by the statekit machine.
type machineContext struct {
	StartedAt time.Time
	FailedAt  time.Time
}

// buildRunMachine constructs the run lifecycle state machine.
func buildRunMachine() (*statekit.Interpreter[machineContext], error) {
	machine, err := statekit.NewMachine[machineContext]("installer-run").
		WithInitial(statekit.StateID(StateIdle)).
		WithContext(machineContext{}).
		WithAction("recordStart", func(c *machineContext, _ statekit.Event) {
			c.StartedAt = time.Now()
		}).
		WithAction("recordFailure", func(c *machineContext, _ statekit.Event) {
			c.FailedAt = time.Now()
		}).
		State(statekit.StateID(StateIdle)).
		On(eventBegin).Target(statekit.StateID(StatePreflight)).Done().
		State(statekit.StateID(StatePreflight)).
		OnEntry("recordStart").
		On(eventPreflightOK).Target(statekit.StateID(StateExecuting)).
		On(eventPreflightFatal).Target(statekit.StateID(StateFailed)).
		On(eventAbort).Target(statekit.StateID(StateAborted)).Done().
		State(statekit.StateID(StateExecuting)).
		On(eventCompleted).Target(statekit.StateID(StateCompleted)).
		On(eventFatal).Target(statekit.StateID(StateFailed)).
		On(eventRollback).Target(statekit.StateID(StateRollingBack)).
		On(eventAbort).Target(statekit.StateID(StateAborted)).Done().
		State(statekit.StateID(StateRollingBack)).
		OnEntry("recordFailure").
		On(eventRolledBack).Target(statekit.StateID(StateFailed)).Done().
		State(statekit.StateID(StateCompleted)).Done().
		State(statekit.StateID(StateFailed)).Done().
		State(statekit.StateID(StateAborted)).Done().
		Build()
	if err != nil {
		return nil, err
	}

	return statekit.NewInterpreter(machine), nil
}

// statekitEvent wraps an event type constant into a statekit event.
func statekitEvent(eventType string) statekit.Event {
	return statekit.Event{Type: statekit.EventType(eventType)}
}

// currentState reads the interpreter's current run state.
func currentState(interp *statekit.Interpreter[machineContext]) RunState {
	return RunState(interp.State().Value)
}
