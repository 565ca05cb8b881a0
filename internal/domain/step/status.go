package step

// Status represents the execution state of a step within a run.
type Status string

const (
	// StatusPending indicates the step has not been reached yet.
	StatusPending Status = "pending"
	// StatusSkipped indicates the step was not applied, either because its
	// precheck reported the work already done or the operator declined it.
	StatusSkipped Status = "skipped"
	// StatusRunning indicates the step's apply is in progress.
	StatusRunning Status = "running"
	// StatusDone indicates the step applied successfully.
	StatusDone Status = "done"
	// StatusFailed indicates the step's apply returned an error.
	StatusFailed Status = "failed"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true if this status is a final state for the step.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusSkipped, StatusDone, StatusFailed:
		return true
	case StatusPending, StatusRunning:
		return false
	}
	return false
}

// Precheck outcome reported by a step's idempotency predicate.
type Precheck int

const (
	// NotDone means the step's work is still required on this host.
	NotDone Precheck = iota
	// AlreadyDone means the host already satisfies the step; apply must
	// not be invoked.
	AlreadyDone
)

// String returns the string representation of the precheck outcome.
func (p Precheck) String() string {
	if p == AlreadyDone {
		return "already-done"
	}
	return "not-done"
}
