package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meferspb/erpnext-debian13-install/internal/adapters/logging"
	"github.com/meferspb/erpnext-debian13-install/internal/config"
	"github.com/meferspb/erpnext-debian13-install/internal/domain/secret"
	"github.com/meferspb/erpnext-debian13-install/internal/domain/step"
	"github.com/meferspb/erpnext-debian13-install/internal/ports"
	"github.com/meferspb/erpnext-debian13-install/internal/testutil/mocks"
)

func newTestContext(runner *mocks.CommandRunner) *step.RunContext {
	fs := mocks.NewFileSystem()
	log := logging.NewNopLogger()
	secrets := secret.NewStore(fs, "/etc/erpnext-installer/credentials", log)
	return step.NewRunContext(context.Background(), step.ModeAutomated, config.Defaults(),
		runner, fs, log, mocks.NewPrompter(), secrets)
}

func TestPrecheckExistingAccountIsAlreadyDone(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("id", []string{"-u", "frappe"}, ports.CommandResult{ExitCode: 0, Stdout: "1001"})
	ctx := newTestContext(runner)

	pre, err := NewCreateStep().Precheck(ctx)
	require.NoError(t, err)
	assert.Equal(t, step.AlreadyDone, pre)
}

func TestPrecheckMissingAccountIsNotDone(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("id", []string{"-u", "frappe"}, ports.CommandResult{ExitCode: 1})
	ctx := newTestContext(runner)

	pre, err := NewCreateStep().Precheck(ctx)
	require.NoError(t, err)
	assert.Equal(t, step.NotDone, pre)
}

func TestApplyCreatesAccountWithSudo(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	ctx := newTestContext(runner)

	require.NoError(t, NewCreateStep().Apply(ctx))
	assert.True(t, runner.CalledWith("useradd", "-m", "-s", "/bin/bash", "frappe"))
	assert.True(t, runner.CalledWith("usermod", "-aG", "sudo", "frappe"))
	assert.Equal(t, "frappe", ctx.Site().User)
}

func TestApplyRejectsInvalidAccountName(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	ctx := newTestContext(runner)
	ctx.Config().ServiceUser = "Bad Name"

	err := NewCreateStep().Apply(ctx)
	require.Error(t, err)
	assert.Empty(t, runner.Calls())
}

func TestApplyUseraddFailure(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("useradd", []string{"-m", "-s", "/bin/bash", "frappe"},
		ports.CommandResult{ExitCode: 1, Stderr: "cannot lock /etc/passwd"})
	ctx := newTestContext(runner)

	err := NewCreateStep().Apply(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "useradd")
}

func TestUndoRemovesAccount(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	ctx := newTestContext(runner)

	require.NoError(t, Undo(ctx))
	assert.True(t, runner.CalledWith("pkill", "-u", "frappe"))
	assert.True(t, runner.CalledWith("userdel", "-r", "frappe"))
}
