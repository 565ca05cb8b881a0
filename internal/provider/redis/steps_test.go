package redis

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

func TestPrecheck(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("dpkg-query", []string{"-W", "-f=${db:Status-Status}", "redis-server"},
		ports.CommandResult{ExitCode: 0, Stdout: "installed"})

	pre, err := NewInstallStep().Precheck(newTestContext(runner))
	require.NoError(t, err)
	assert.Equal(t, step.AlreadyDone, pre)

	runner = mocks.NewCommandRunner()
	runner.AddResult("dpkg-query", []string{"-W", "-f=${db:Status-Status}", "redis-server"},
		ports.CommandResult{ExitCode: 1})

	pre, err = NewInstallStep().Precheck(newTestContext(runner))
	require.NoError(t, err)
	assert.Equal(t, step.NotDone, pre)
}

func TestApplyInstallsAndEnables(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	require.NoError(t, NewInstallStep().Apply(newTestContext(runner)))
	assert.True(t, runner.CalledWith("apt-get", "install", "-y", "--no-install-recommends", "redis-server"))
	assert.True(t, runner.CalledWith("systemctl", "enable", "--now", "redis-server"))
}

func TestApplyEnableFailure(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("systemctl", []string{"enable", "--now", "redis-server"},
		ports.CommandResult{ExitCode: 1, Stderr: "unit not found"})

	err := NewInstallStep().Apply(newTestContext(runner))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unit not found")
}
