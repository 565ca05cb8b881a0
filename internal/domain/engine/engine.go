package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meferspb/erpnext-debian13-install/internal/domain/step"
	"github.com/meferspb/erpnext-debian13-install/internal/ports"
)

// Engine executes the step registry in order, one step at a time, and
// records completed steps in the ledger. There is no parallelism and no
// timeout: a hung external command hangs the run.
type Engine struct {
	registry *step.Registry
	undo     step.UndoRegistry
}

// New creates an Engine over the given registry and undo catalog.
func New(registry *step.Registry, undo step.UndoRegistry) *Engine {
	return &Engine{registry: registry, undo: undo}
}

// Execute runs every registered step against the run context and
// returns the final report. A fatal step failure halts the run; in
// interactive mode the operator is offered a rollback of the completed
// steps first. Recoverable failures are logged and the run continues.
func (e *Engine) Execute(runCtx *step.RunContext) (RunReport, error) {
	log := runCtx.Log()

	interp, err := buildRunMachine()
	if err != nil {
		return RunReport{}, err
	}
	interp.Start()
	defer interp.Stop()

	report := RunReport{
		RunID:     uuid.New().String(),
		Mode:      runCtx.Mode(),
		StartedAt: time.Now(),
	}
	ledger := step.NewLedger()

	log.Info("run started", ports.F("run_id", report.RunID), ports.F("mode", string(runCtx.Mode())))
	interp.Send(statekitEvent(eventBegin))
	// Pre-flight has already passed by the time the engine is invoked;
	// the caller runs it before any secret is generated.
	interp.Send(statekitEvent(eventPreflightOK))

	var fatalErr error

	for _, s := range e.registry.Steps() {
		select {
		case <-runCtx.Context().Done():
			interp.Send(statekitEvent(eventAbort))
			report.FinalState = currentState(interp)
			return report, runCtx.Context().Err()
		default:
		}

		result := e.executeStep(runCtx, s, ledger)
		report.Results = append(report.Results, result)

		if result.Failed() {
			if s.Fatal() {
				fatalErr = step.NewError(step.CodeStepFatal, "fatal step failure").
					WithStepID(s.ID().String()).
					WithUnderlying(result.Err)
				break
			}
			report.Recoverables = append(report.Recoverables, result)
			log.Warn("step failed, continuing", ports.F("step", s.ID().String()), ports.F("error", result.Err))
		}
	}

	report.LedgerLen = ledger.Len()

	if fatalErr != nil {
		log.Error("run halted on fatal step failure", ports.F("error", fatalErr))
		if e.offerRollback(runCtx, ledger) {
			interp.Send(statekitEvent(eventRollback))
			report.UndoResults = e.Rollback(runCtx, ledger)
			report.RolledBack = true
			interp.Send(statekitEvent(eventRolledBack))
		} else {
			interp.Send(statekitEvent(eventFatal))
		}
		report.FinalState = currentState(interp)
		report.Duration = time.Since(report.StartedAt)
		return report, fatalErr
	}

	interp.Send(statekitEvent(eventCompleted))
	report.FinalState = currentState(interp)
	report.Duration = time.Since(report.StartedAt)
	log.Info("run completed",
		ports.F("run_id", report.RunID),
		ports.F("steps_done", ledger.Len()),
		ports.F("recoverable_failures", len(report.Recoverables)))
	return report, nil
}

// executeStep walks one step through its lifecycle:
// Pending -> Skipped (precheck already done, or gate declined),
// Pending -> Running -> Done | Failed.
func (e *Engine) executeStep(runCtx *step.RunContext, s step.Step, ledger *step.Ledger) StepResult {
	log := runCtx.Log()
	result := StepResult{
		ID:    s.ID(),
		Kind:  s.Kind(),
		Title: s.Title(),
	}

	pre, err := s.Precheck(runCtx)
	if err != nil {
		// A broken idempotency probe counts as a step failure.
		result.Status = step.StatusFailed
		result.Err = fmt.Errorf("precheck: %w", err)
		return result
	}
	if pre == step.AlreadyDone {
		log.Info("step already satisfied, skipping", ports.F("step", s.ID().String()))
		result.Status = step.StatusSkipped
		return result
	}

	if runCtx.Mode().Interactive() && runCtx.GateEach() {
		accepted, err := runCtx.Prompt().Confirm(fmt.Sprintf("Run step: %s?", s.Title()), s.DefaultAccept())
		if err != nil {
			result.Status = step.StatusFailed
			result.Err = err
			return result
		}
		if !accepted {
			log.Info("step declined by operator", ports.F("step", s.ID().String()))
			result.Status = step.StatusSkipped
			return result
		}
	}

	log.Info("step running", ports.F("step", s.ID().String()))
	start := time.Now()
	applyErr := s.Apply(runCtx)
	result.Duration = time.Since(start)

	if applyErr != nil {
		result.Status = step.StatusFailed
		result.Err = applyErr
		return result
	}

	ledger.Append(s.ID(), s.Kind())
	result.Status = step.StatusDone
	log.Info("step done", ports.F("step", s.ID().String()), ports.F("duration", result.Duration.Round(time.Millisecond)))
	return result
}

// offerRollback decides whether the completed steps should be undone
// after a fatal failure. Automated and quick runs never roll back: they
// fail loudly and leave state for inspection.
func (e *Engine) offerRollback(runCtx *step.RunContext, ledger *step.Ledger) bool {
	if !runCtx.Mode().Interactive() || ledger.Len() == 0 {
		return false
	}
	accepted, err := runCtx.Prompt().Confirm(
		fmt.Sprintf("Roll back the %d completed steps?", ledger.Len()), true)
	if err != nil {
		return false
	}
	return accepted
}
