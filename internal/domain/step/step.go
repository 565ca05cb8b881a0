package step

// Step is a single idempotent provisioning action. Precheck is the
// idempotency predicate: when it reports AlreadyDone the engine never
// invokes Apply.
type Step interface {
	// ID returns the unique identifier for this step.
	ID() ID

	// Kind classifies the step for rollback undo lookup.
	Kind() Kind

	// Title returns the short human-readable name shown in gates and
	// the report.
	Title() string

	// Fatal reports whether a failure of this step halts the run.
	// Non-fatal failures are logged and the run continues.
	Fatal() bool

	// DefaultAccept is the answer the interactive per-step gate defaults
	// to, and the answer automated mode resolves it to.
	DefaultAccept() bool

	// Precheck reports whether the host already satisfies this step.
	Precheck(ctx *RunContext) (Precheck, error)

	// Apply executes the step's changes against the host.
	Apply(ctx *RunContext) error
}

// Undo reverses a step kind's changes during rollback or uninstall.
// Undo actions are best-effort: a failure is logged and suppressed so
// the remaining entries still unwind.
type Undo func(ctx *RunContext) error

// UndoRegistry maps every step kind to its undo action. Kinds without a
// meaningful inverse (package installs are left in place) map to nil.
type UndoRegistry map[Kind]Undo

// Validate checks that the registry covers every known kind, so adding
// a kind without deciding its undo is caught by tests.
func (u UndoRegistry) Validate() error {
	for _, k := range Kinds() {
		if _, ok := u[k]; !ok {
			return NewError(CodeStepFatal, "undo registry missing kind "+k.String())
		}
	}
	return nil
}
