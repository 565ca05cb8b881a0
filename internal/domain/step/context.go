package step

import (
	"context"

	"github.com/meferspb/erpnext-debian13-install/internal/config"
	"github.com/meferspb/erpnext-debian13-install/internal/domain/secret"
	"github.com/meferspb/erpnext-debian13-install/internal/ports"
)

// Mode selects how interactive gates and prompts resolve during a run.
type Mode string

const (
	// ModeAutomated auto-passes every gate and prompt with its default.
	ModeAutomated Mode = "automated"
	// ModeQuick auto-passes like automated but uses the quick default
	// site identity.
	ModeQuick Mode = "quick"
	// ModeInteractive poses gates and prompts to the operator.
	ModeInteractive Mode = "interactive"
)

// Interactive returns true if prompts reach the operator.
func (m Mode) Interactive() bool {
	return m == ModeInteractive
}

// Site is the record of which domain and account were provisioned for
// the application instance. Created by the site step, read by later
// steps and by uninstall.
type Site struct {
	Domain   string
	User     string
	BenchDir string
	Created  bool
}

// RunContext is the explicit state shared across steps within one run.
// Steps read and write only through this context, never ambient globals.
type RunContext struct {
	ctx      context.Context
	mode     Mode
	cfg      *config.Config
	runner   ports.CommandRunner
	fs       ports.FileSystem
	log      ports.Logger
	prompt   ports.Prompter
	secrets  *secret.Store
	site     *Site
	gateEach bool
}

// NewRunContext assembles a run context.
func NewRunContext(ctx context.Context, mode Mode, cfg *config.Config, runner ports.CommandRunner, fs ports.FileSystem, log ports.Logger, prompt ports.Prompter, secrets *secret.Store) *RunContext {
	return &RunContext{
		ctx:     ctx,
		mode:    mode,
		cfg:     cfg,
		runner:  runner,
		fs:      fs,
		log:     log,
		prompt:  prompt,
		secrets: secrets,
		site:    &Site{},
	}
}

// Context returns the underlying context for cancellation.
func (c *RunContext) Context() context.Context {
	return c.ctx
}

// Mode returns the run mode.
func (c *RunContext) Mode() Mode {
	return c.mode
}

// Config returns the resolved installer configuration.
func (c *RunContext) Config() *config.Config {
	return c.cfg
}

// Runner returns the command runner.
func (c *RunContext) Runner() ports.CommandRunner {
	return c.runner
}

// FS returns the file system.
func (c *RunContext) FS() ports.FileSystem {
	return c.fs
}

// Log returns the run logger.
func (c *RunContext) Log() ports.Logger {
	return c.log
}

// Prompt returns the prompter for the current mode.
func (c *RunContext) Prompt() ports.Prompter {
	return c.prompt
}

// Secrets returns the secret store.
func (c *RunContext) Secrets() *secret.Store {
	return c.secrets
}

// Site returns the installed-site record for this run.
func (c *RunContext) Site() *Site {
	return c.site
}

// SetGateEach controls whether interactive runs pose a per-step
// confirmation gate (step-by-step installation) or only the up-front
// confirmations (full installation).
func (c *RunContext) SetGateEach(gateEach bool) {
	c.gateEach = gateEach
}

// GateEach reports whether each step needs an interactive confirmation.
func (c *RunContext) GateEach() bool {
	return c.gateEach
}
