package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/meferspb/erpnext-debian13-install/internal/adapters/command"
	"github.com/meferspb/erpnext-debian13-install/internal/adapters/filesystem"
	"github.com/meferspb/erpnext-debian13-install/internal/adapters/logging"
	"github.com/meferspb/erpnext-debian13-install/internal/adapters/prompt"
	"github.com/meferspb/erpnext-debian13-install/internal/config"
	"github.com/meferspb/erpnext-debian13-install/internal/domain/engine"
	"github.com/meferspb/erpnext-debian13-install/internal/domain/secret"
	"github.com/meferspb/erpnext-debian13-install/internal/domain/step"
	"github.com/meferspb/erpnext-debian13-install/internal/hostinfo"
	"github.com/meferspb/erpnext-debian13-install/internal/ports"
	"github.com/meferspb/erpnext-debian13-install/internal/provider"
	"github.com/meferspb/erpnext-debian13-install/internal/validation"
)

// runInstall is the full installation path for every mode. gateEach
// poses a confirmation gate before each step (the step-by-step menu
// entry); it only has effect in interactive mode.
func runInstall(mode step.Mode, gateEach bool) error {
	runCtx, log, cleanup, err := buildRun(mode)
	if err != nil {
		return err
	}
	defer cleanup()

	runCtx.SetGateEach(gateEach)

	// Pre-flight runs before any step and before any secret exists.
	profile, err := hostinfo.Gather(runCtx.FS(), hostinfo.UnixStatfs, "/")
	if err != nil {
		return err
	}
	if err := validation.Preflight(profile, runCtx.Config(), mode, runCtx.Prompt(), log); err != nil {
		return err
	}

	if err := resolveSite(runCtx); err != nil {
		return err
	}

	registry := provider.BuildRegistry(runCtx.Config())
	eng := engine.New(registry, provider.BuildUndoRegistry())

	report, runErr := eng.Execute(runCtx)

	summaryPath := writeSummary(runCtx, log)
	fmt.Print(engine.RenderReport(report, summaryPath))

	return runErr
}

// buildRun assembles the adapters and the run context for a mode.
func buildRun(mode step.Mode) (*step.RunContext, ports.Logger, func(), error) {
	if err := validation.CheckSuperuser(os.Geteuid()); err != nil {
		return nil, nil, nil, err
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, nil, err
	}
	if verbose {
		cfg.Verbose = true
	}

	level := ports.LevelInfo
	if cfg.Verbose {
		level = ports.LevelDebug
	}

	console := logging.NewConsoleLogger(logging.WithLevel(level))
	cleanup := func() {}
	var log ports.Logger = console
	if fileLog, err := logging.NewFileLogger(cfg.LogFile, level); err != nil {
		console.Warn("run log unavailable", ports.F("path", cfg.LogFile), ports.F("error", err))
	} else {
		log = logging.NewTeeLogger(console, fileLog)
		cleanup = func() { _ = fileLog.Close() }
	}

	fs := filesystem.NewOSFileSystem()
	runner := command.NewRealRunner()

	var prompter ports.Prompter
	if mode.Interactive() {
		prompter = prompt.NewTerminalPrompter()
	} else {
		prompter = prompt.NewAutoPrompter()
	}

	secrets := secret.NewStore(fs, cfg.CredentialsDir, log)

	runCtx := step.NewRunContext(context.Background(), mode, cfg, runner, fs, log, prompter, secrets)
	return runCtx, log, cleanup, nil
}

// resolveSite fixes the site identity before the engine runs. In
// interactive mode the domain is prompted with retry-until-valid; in
// automated and quick modes an invalid configured domain falls back to
// a known-good default with a warning instead of failing the run.
func resolveSite(runCtx *step.RunContext) error {
	cfg := runCtx.Config()
	log := runCtx.Log()

	def := cfg.Domain
	if runCtx.Mode() == step.ModeQuick {
		def = cfg.QuickDomain
	}

	if runCtx.Mode().Interactive() {
		domain, err := runCtx.Prompt().Input("Site domain", def, validation.ValidateDomain)
		if err != nil {
			return err
		}
		runCtx.Site().Domain = domain
	} else {
		domain, fellBack := validation.DomainOrDefault(def, config.DefaultQuickDomain)
		if fellBack {
			log.Warn("configured domain is invalid, using default",
				ports.F("configured", def), ports.F("default", domain))
		}
		runCtx.Site().Domain = domain
	}

	if err := validation.ValidateAccountName(cfg.ServiceUser); err != nil {
		return step.NewError(step.CodeValidation, "invalid service account name").WithUnderlying(err)
	}
	runCtx.Site().User = cfg.ServiceUser

	log.Info("site identity resolved",
		ports.F("domain", runCtx.Site().Domain),
		ports.F("account", runCtx.Site().User))
	return nil
}

// writeSummary persists the plaintext credential summary and returns
// its path, or empty when no credentials exist yet.
func writeSummary(runCtx *step.RunContext, log ports.Logger) string {
	secrets := runCtx.Secrets()

	var entries []secret.SummaryEntry
	if admin, err := secrets.Load(secret.PurposeAdminPassword); err == nil {
		entries = append(entries, secret.SummaryEntry{Label: "Administrator password", Value: admin.Value})
	} else if !errors.Is(err, secret.ErrNotFound) {
		log.Warn("could not read administrator credential", ports.F("error", err))
	}
	if dbRoot, err := secrets.Load(secret.PurposeDBRootPassword); err == nil {
		entries = append(entries, secret.SummaryEntry{Label: "MariaDB root password", Value: dbRoot.Value})
	} else if !errors.Is(err, secret.ErrNotFound) {
		log.Warn("could not read database credential", ports.F("error", err))
	}

	if len(entries) == 0 {
		return ""
	}
	if err := secrets.WriteSummary(runCtx.Site().Domain, entries); err != nil {
		log.Warn("could not write credential summary", ports.F("error", err))
		return ""
	}
	return secrets.Path("credentials.txt")
}
