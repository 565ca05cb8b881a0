package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meferspb/erpnext-debian13-install/internal/adapters/logging"
	"github.com/meferspb/erpnext-debian13-install/internal/config"
	"github.com/meferspb/erpnext-debian13-install/internal/domain/secret"
	"github.com/meferspb/erpnext-debian13-install/internal/domain/step"
	"github.com/meferspb/erpnext-debian13-install/internal/testutil/mocks"
)

// spyStep is a scriptable step that records whether Apply ran.
type spyStep struct {
	step.Meta
	precheck    step.Precheck
	precheckErr error
	applyErr    error
	applied     *[]string
}

func (s *spyStep) Precheck(_ *step.RunContext) (step.Precheck, error) {
	return s.precheck, s.precheckErr
}

func (s *spyStep) Apply(_ *step.RunContext) error {
	if s.applied != nil {
		*s.applied = append(*s.applied, s.ID().String())
	}
	return s.applyErr
}

type runFixture struct {
	runCtx   *step.RunContext
	prompter *mocks.Prompter
	applied  []string
	undone   []string
}

func newFixture(t *testing.T, mode step.Mode) *runFixture {
	t.Helper()
	fs := mocks.NewFileSystem()
	log := logging.NewNopLogger()
	prompter := mocks.NewPrompter()
	secrets := secret.NewStore(fs, "/etc/erpnext-installer/credentials", log)
	runner := mocks.NewCommandRunner()

	runCtx := step.NewRunContext(context.Background(), mode, config.Defaults(), runner, fs, log, prompter, secrets)
	return &runFixture{runCtx: runCtx, prompter: prompter}
}

func (f *runFixture) spy(id string, kind step.Kind, fatal bool) *spyStep {
	return &spyStep{Meta: step.NewMeta(id, kind, id, fatal), applied: &f.applied}
}

// undoRegistry maps every kind to an order-recording undo so rollback
// ordering is observable.
func (f *runFixture) undoRegistry(failFor map[step.Kind]error) step.UndoRegistry {
	undo := step.UndoRegistry{}
	for _, k := range step.Kinds() {
		kind := k
		undo[kind] = func(_ *step.RunContext) error {
			f.undone = append(f.undone, kind.String())
			if err, ok := failFor[kind]; ok {
				return err
			}
			return nil
		}
	}
	return undo
}

func TestExecuteRunsStepsInOrder(t *testing.T) {
	t.Parallel()

	f := newFixture(t, step.ModeAutomated)
	registry := step.NewRegistry()
	registry.MustRegister(
		f.spy("a", step.KindPackages, true),
		f.spy("b", step.KindAccount, true),
		f.spy("c", step.KindDatabase, true),
	)

	report, err := New(registry, f.undoRegistry(nil)).Execute(f.runCtx)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, f.applied)
	assert.Equal(t, StateCompleted, report.FinalState)
	assert.Equal(t, 3, report.LedgerLen)
	assert.NotEmpty(t, report.RunID)

	done, skipped, failed := report.Counts()
	assert.Equal(t, 3, done)
	assert.Equal(t, 0, skipped)
	assert.Equal(t, 0, failed)
}

func TestExecuteSkipsAlreadySatisfiedStep(t *testing.T) {
	t.Parallel()

	f := newFixture(t, step.ModeAutomated)
	satisfied := f.spy("done-already", step.KindCache, true)
	satisfied.precheck = step.AlreadyDone

	registry := step.NewRegistry()
	registry.MustRegister(satisfied, f.spy("pending", step.KindRuntime, true))

	report, err := New(registry, f.undoRegistry(nil)).Execute(f.runCtx)
	require.NoError(t, err)

	// The satisfied step's Apply never ran.
	assert.Equal(t, []string{"pending"}, f.applied)
	assert.Equal(t, step.StatusSkipped, report.Results[0].Status)
	assert.Equal(t, step.StatusDone, report.Results[1].Status)
	assert.Equal(t, 1, report.LedgerLen)
}

func TestExecuteFatalFailureHaltsRun(t *testing.T) {
	t.Parallel()

	f := newFixture(t, step.ModeAutomated)
	failing := f.spy("boom", step.KindDatabase, true)
	failing.applyErr = errors.New("mysqladmin exited 1")

	registry := step.NewRegistry()
	registry.MustRegister(
		f.spy("before", step.KindPackages, true),
		failing,
		f.spy("after", step.KindCache, true),
	)

	report, err := New(registry, f.undoRegistry(nil)).Execute(f.runCtx)
	require.Error(t, err)
	assert.Equal(t, step.CodeStepFatal, step.Code(err))

	// The step after the failure never ran.
	assert.Equal(t, []string{"before", "boom"}, f.applied)
	assert.Equal(t, StateFailed, report.FinalState)
	assert.False(t, report.RolledBack)
	assert.Empty(t, f.undone)
}

func TestExecuteAutomatedNeverPrompts(t *testing.T) {
	t.Parallel()

	f := newFixture(t, step.ModeAutomated)
	failing := f.spy("boom", step.KindSite, true)
	failing.applyErr = errors.New("exit 1")

	registry := step.NewRegistry()
	registry.MustRegister(f.spy("a", step.KindPackages, true), failing)

	_, err := New(registry, f.undoRegistry(nil)).Execute(f.runCtx)
	require.Error(t, err)
	assert.Empty(t, f.prompter.Calls())
}

func TestExecuteRecoverableFailureContinues(t *testing.T) {
	t.Parallel()

	f := newFixture(t, step.ModeAutomated)
	flaky := f.spy("wkhtmltopdf", step.KindPackages, false)
	flaky.applyErr = errors.New("mirror unreachable")

	registry := step.NewRegistry()
	registry.MustRegister(flaky, f.spy("after", step.KindCache, true))

	report, err := New(registry, f.undoRegistry(nil)).Execute(f.runCtx)
	require.NoError(t, err)

	assert.Equal(t, []string{"wkhtmltopdf", "after"}, f.applied)
	assert.Equal(t, StateCompleted, report.FinalState)
	require.Len(t, report.Recoverables, 1)
	assert.Equal(t, "wkhtmltopdf", report.Recoverables[0].ID.String())
}

func TestExecutePrecheckErrorFailsStep(t *testing.T) {
	t.Parallel()

	f := newFixture(t, step.ModeAutomated)
	broken := f.spy("probe", step.KindRuntime, false)
	broken.precheckErr = errors.New("dpkg-query not found")

	registry := step.NewRegistry()
	registry.MustRegister(broken)

	report, err := New(registry, f.undoRegistry(nil)).Execute(f.runCtx)
	require.NoError(t, err)
	assert.Empty(t, f.applied)
	assert.Equal(t, step.StatusFailed, report.Results[0].Status)
	assert.Contains(t, report.Results[0].Err.Error(), "precheck")
}

func TestExecuteInteractiveRollbackReversesLedger(t *testing.T) {
	t.Parallel()

	f := newFixture(t, step.ModeInteractive)
	failing := f.spy("boom", step.KindSite, true)
	failing.applyErr = errors.New("new-site failed")

	registry := step.NewRegistry()
	registry.MustRegister(
		f.spy("a", step.KindAccount, true),
		f.spy("b", step.KindDatabase, true),
		f.spy("c", step.KindBench, true),
		failing,
	)

	// Undo of the middle entry fails; the rest must still unwind.
	undo := f.undoRegistry(map[step.Kind]error{step.KindDatabase: errors.New("restart failed")})
	f.prompter.QueueConfirm(true) // accept rollback

	report, err := New(registry, undo).Execute(f.runCtx)
	require.Error(t, err)

	assert.True(t, report.RolledBack)
	assert.Equal(t, StateFailed, report.FinalState)
	assert.Equal(t, []string{"bench", "database", "account"}, f.undone)

	require.Len(t, report.UndoResults, 3)
	assert.NoError(t, report.UndoResults[0].Err)
	assert.Error(t, report.UndoResults[1].Err)
	assert.NoError(t, report.UndoResults[2].Err)
}

func TestExecuteInteractiveRollbackDeclined(t *testing.T) {
	t.Parallel()

	f := newFixture(t, step.ModeInteractive)
	failing := f.spy("boom", step.KindSite, true)
	failing.applyErr = errors.New("exit 1")

	registry := step.NewRegistry()
	registry.MustRegister(f.spy("a", step.KindAccount, true), failing)

	f.prompter.QueueConfirm(false) // decline rollback

	report, err := New(registry, f.undoRegistry(nil)).Execute(f.runCtx)
	require.Error(t, err)
	assert.False(t, report.RolledBack)
	assert.Empty(t, f.undone)
	assert.Equal(t, StateFailed, report.FinalState)
}

func TestExecuteGateEachDeclineSkipsStep(t *testing.T) {
	t.Parallel()

	f := newFixture(t, step.ModeInteractive)
	f.runCtx.SetGateEach(true)

	registry := step.NewRegistry()
	registry.MustRegister(f.spy("a", step.KindPackages, true), f.spy("b", step.KindCache, true))

	f.prompter.QueueConfirm(false, true) // decline a, accept b

	report, err := New(registry, f.undoRegistry(nil)).Execute(f.runCtx)
	require.NoError(t, err)

	assert.Equal(t, []string{"b"}, f.applied)
	assert.Equal(t, step.StatusSkipped, report.Results[0].Status)
	assert.Equal(t, step.StatusDone, report.Results[1].Status)
	assert.Equal(t, 1, report.LedgerLen)
}

func TestExecuteFullInteractiveRunDoesNotGateSteps(t *testing.T) {
	t.Parallel()

	f := newFixture(t, step.ModeInteractive)

	registry := step.NewRegistry()
	registry.MustRegister(f.spy("a", step.KindPackages, true))

	report, err := New(registry, f.undoRegistry(nil)).Execute(f.runCtx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, f.applied)
	assert.Equal(t, StateCompleted, report.FinalState)
	assert.Empty(t, f.prompter.Calls())
}

func TestExecuteCancelledContextAborts(t *testing.T) {
	t.Parallel()

	f := newFixture(t, step.ModeAutomated)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f.runCtx = step.NewRunContext(ctx, step.ModeAutomated, config.Defaults(),
		mocks.NewCommandRunner(), mocks.NewFileSystem(), logging.NewNopLogger(),
		f.prompter, f.runCtx.Secrets())

	registry := step.NewRegistry()
	registry.MustRegister(f.spy("a", step.KindPackages, true))

	report, err := New(registry, f.undoRegistry(nil)).Execute(f.runCtx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, StateAborted, report.FinalState)
	assert.Empty(t, f.applied)
}
