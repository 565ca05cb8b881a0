package mariadb

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
	"github.com/meferspb/erpnext-debian13-install/internal/ports"
	"github.com/meferspb/erpnext-debian13-install/internal/testutil/mocks"
)

type fixture struct {
	runCtx   *step.RunContext
	runner   *mocks.CommandRunner
	fs       *mocks.FileSystem
	prompter *mocks.Prompter
}

func newFixture(mode step.Mode) *fixture {
	runner := mocks.NewCommandRunner()
	fs := mocks.NewFileSystem()
	log := logging.NewNopLogger()
	prompter := mocks.NewPrompter()
	secrets := secret.NewStore(fs, "/etc/erpnext-installer/credentials", log)
	runCtx := step.NewRunContext(context.Background(), mode, config.Defaults(),
		runner, fs, log, prompter, secrets)
	return &fixture{runCtx: runCtx, runner: runner, fs: fs, prompter: prompter}
}

func TestInstallPrecheck(t *testing.T) {
	t.Parallel()

	f := newFixture(step.ModeAutomated)
	f.runner.AddResult("dpkg-query", []string{"-W", "-f=${db:Status-Status}", "mariadb-server"},
		ports.CommandResult{ExitCode: 0, Stdout: "installed"})

	pre, err := NewInstallStep().Precheck(f.runCtx)
	require.NoError(t, err)
	assert.Equal(t, step.AlreadyDone, pre)
}

func TestInstallApplyEnablesService(t *testing.T) {
	t.Parallel()

	f := newFixture(step.ModeAutomated)

	require.NoError(t, NewInstallStep().Apply(f.runCtx))
	assert.True(t, f.runner.CalledWith("apt-get", "install", "-y", "--no-install-recommends",
		"mariadb-server", "mariadb-client", "libmariadb-dev"))
	assert.True(t, f.runner.CalledWith("systemctl", "enable", "--now", "mariadb"))
}

func TestRootPasswordPrecheckReportsPersistedCredential(t *testing.T) {
	t.Parallel()

	f := newFixture(step.ModeAutomated)
	s := NewRootPasswordStep()

	pre, err := s.Precheck(f.runCtx)
	require.NoError(t, err)
	assert.Equal(t, step.NotDone, pre)

	require.NoError(t, f.runCtx.Secrets().Persist(secret.PurposeDBRootPassword, "persisted"))

	pre, err = s.Precheck(f.runCtx)
	require.NoError(t, err)
	assert.Equal(t, step.AlreadyDone, pre)
}

func TestRootPasswordApplyGeneratesAndPersists(t *testing.T) {
	t.Parallel()

	f := newFixture(step.ModeAutomated)

	require.NoError(t, NewRootPasswordStep().Apply(f.runCtx))

	stored, err := f.runCtx.Secrets().Load(secret.PurposeDBRootPassword)
	require.NoError(t, err)
	assert.Len(t, stored.Value, secret.DefaultLength)
	assert.True(t, f.runner.CalledWith("mysqladmin", "-u", "root", "password", stored.Value))
}

func TestRootPasswordApplyUsesEnvironmentValue(t *testing.T) {
	t.Parallel()

	f := newFixture(step.ModeAutomated)
	f.runCtx.Config().DBRootPassword = "from-env"

	require.NoError(t, NewRootPasswordStep().Apply(f.runCtx))
	assert.True(t, f.runner.CalledWith("mysqladmin", "-u", "root", "password", "from-env"))
}

func TestRootPasswordApplyInteractivePrompts(t *testing.T) {
	t.Parallel()

	f := newFixture(step.ModeInteractive)
	f.prompter.QueuePassword("operator-chosen")

	require.NoError(t, NewRootPasswordStep().Apply(f.runCtx))
	assert.True(t, f.runner.CalledWith("mysqladmin", "-u", "root", "password", "operator-chosen"))
}

func TestRootPasswordPersistenceFailureIsFatal(t *testing.T) {
	t.Parallel()

	f := newFixture(step.ModeAutomated)
	path := f.runCtx.Secrets().Path(secret.PurposeDBRootPassword)
	f.fs.FailWrite[path] = errors.New("disk full")

	err := NewRootPasswordStep().Apply(f.runCtx)
	require.Error(t, err)
	assert.Equal(t, step.CodePersistence, step.Code(err))
	assert.True(t, step.IsFatal(err))
	assert.False(t, f.runner.CalledWith("mysqladmin", "-u", "root", "password"))
}

func TestSiteConfigPrecheck(t *testing.T) {
	t.Parallel()

	f := newFixture(step.ModeAutomated)
	s := NewSiteConfigStep()

	pre, err := s.Precheck(f.runCtx)
	require.NoError(t, err)
	assert.Equal(t, step.NotDone, pre)

	require.NoError(t, f.fs.WriteFile(ConfPath, []byte("x"), 0o644))

	pre, err = s.Precheck(f.runCtx)
	require.NoError(t, err)
	assert.Equal(t, step.AlreadyDone, pre)
}

func TestSiteConfigApplyWritesDropInAndRestarts(t *testing.T) {
	t.Parallel()

	f := newFixture(step.ModeAutomated)

	require.NoError(t, NewSiteConfigStep().Apply(f.runCtx))

	data, err := f.fs.ReadFile(ConfPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "utf8mb4")
	assert.True(t, f.runner.CalledWith("systemctl", "restart", "mariadb"))
}

func TestUndoRemovesDropIn(t *testing.T) {
	t.Parallel()

	f := newFixture(step.ModeAutomated)
	require.NoError(t, f.fs.WriteFile(ConfPath, []byte("x"), 0o644))

	require.NoError(t, Undo(f.runCtx))
	assert.False(t, f.fs.Exists(ConfPath))
	assert.True(t, f.runner.CalledWith("systemctl", "restart", "mariadb"))
}

func TestUndoNoopWithoutDropIn(t *testing.T) {
	t.Parallel()

	f := newFixture(step.ModeAutomated)
	require.NoError(t, Undo(f.runCtx))
	assert.Empty(t, f.runner.Calls())
}
