package engine

import (
	"time"

	"github.com/meferspb/erpnext-debian13-install/internal/domain/step"
)

// StepResult captures the outcome of one step within a run.
type StepResult struct {
	ID       step.ID
	Kind     step.Kind
	Title    string
	Status   step.Status
	Err      error
	Duration time.Duration
}

// Failed reports whether the step ended in a failure.
func (r StepResult) Failed() bool {
	return r.Status == step.StatusFailed
}

// RunReport is the final summary for a run.
type RunReport struct {
	RunID        string
	Mode         step.Mode
	StartedAt    time.Time
	Duration     time.Duration
	FinalState   RunState
	Results      []StepResult
	LedgerLen    int
	RolledBack   bool
	UndoResults  []UndoResult
	Recoverables []StepResult
}

// Counts returns done/skipped/failed totals for display.
func (r RunReport) Counts() (done, skipped, failed int) {
	for _, res := range r.Results {
		switch res.Status {
		case step.StatusDone:
			done++
		case step.StatusSkipped:
			skipped++
		case step.StatusFailed:
			failed++
		}
	}
	return done, skipped, failed
}
