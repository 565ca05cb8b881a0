package system

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

func TestAptRefreshAlwaysApplies(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	ctx := newTestContext(runner)
	s := NewAptRefreshStep()

	pre, err := s.Precheck(ctx)
	require.NoError(t, err)
	assert.Equal(t, step.NotDone, pre)

	require.NoError(t, s.Apply(ctx))
	assert.True(t, runner.CalledWith("apt-get", "update"))
}

func TestAptRefreshApplyFailure(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("apt-get", []string{"update"},
		ports.CommandResult{ExitCode: 100, Stderr: "Could not resolve deb.debian.org"})
	ctx := newTestContext(runner)

	err := NewAptRefreshStep().Apply(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Could not resolve")
}

func TestBasePackagesPrecheck(t *testing.T) {
	t.Parallel()

	// Lenient mock: every dpkg-query succeeds with empty stdout, which
	// reads as not installed.
	runner := mocks.NewCommandRunner()
	ctx := newTestContext(runner)
	s := NewBasePackagesStep()

	pre, err := s.Precheck(ctx)
	require.NoError(t, err)
	assert.Equal(t, step.NotDone, pre)

	for _, pkg := range BasePackages {
		runner.AddResult("dpkg-query", []string{"-W", "-f=${db:Status-Status}", pkg},
			ports.CommandResult{ExitCode: 0, Stdout: "installed"})
	}
	pre, err = s.Precheck(ctx)
	require.NoError(t, err)
	assert.Equal(t, step.AlreadyDone, pre)
}

func TestBasePackagesApply(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	ctx := newTestContext(runner)

	require.NoError(t, NewBasePackagesStep().Apply(ctx))

	wantArgs := append([]string{"install", "-y", "--no-install-recommends"}, BasePackages...)
	assert.True(t, runner.CalledWith("apt-get", wantArgs...))
}

func TestWkhtmltopdfIsRecoverable(t *testing.T) {
	t.Parallel()

	s := NewWkhtmltopdfStep()
	assert.False(t, s.Fatal())
}

func TestWkhtmltopdfApply(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	ctx := newTestContext(runner)

	require.NoError(t, NewWkhtmltopdfStep().Apply(ctx))
	assert.True(t, runner.CalledWith("apt-get", "install", "-y", "--no-install-recommends",
		"wkhtmltopdf", "xvfb", "libfontconfig"))
}
