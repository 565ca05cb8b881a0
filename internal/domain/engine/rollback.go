package engine

import (
	"time"

	"github.com/meferspb/erpnext-debian13-install/internal/domain/step"
	"github.com/meferspb/erpnext-debian13-install/internal/ports"
)

// UndoResult records the outcome of undoing one ledger entry.
type UndoResult struct {
	ID       step.ID
	Kind     step.Kind
	Err      error
	Duration time.Duration
	Skipped  bool
}

// Rollback undoes the completed steps newest-first. The undo action is
// resolved by step kind, not step instance. Undo is best-effort: a
// failed undo is logged and suppressed so the remaining entries still
// unwind.
func (e *Engine) Rollback(runCtx *step.RunContext, ledger *step.Ledger) []UndoResult {
	log := runCtx.Log()
	results := make([]UndoResult, 0, ledger.Len())

	for _, entry := range ledger.Reversed() {
		result := UndoResult{ID: entry.ID, Kind: entry.Kind}

		undo, ok := e.undo[entry.Kind]
		if !ok || undo == nil {
			// No inverse for this kind (installed packages stay).
			result.Skipped = true
			results = append(results, result)
			continue
		}

		log.Info("undoing step", ports.F("step", entry.ID.String()), ports.F("kind", entry.Kind.String()))
		start := time.Now()
		err := undo(runCtx)
		result.Duration = time.Since(start)

		if err != nil {
			result.Err = err
			log.Warn("undo failed, continuing", ports.F("step", entry.ID.String()), ports.F("error", err))
		}
		results = append(results, result)
	}

	return results
}
