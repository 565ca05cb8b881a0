// Package bench provides the Frappe bench and site steps: the bench
// CLI, the bench workspace, site creation, and app installation.
package bench

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/meferspb/erpnext-debian13-install/internal/domain/secret"
	"github.com/meferspb/erpnext-debian13-install/internal/domain/step"
)

// FrappeBranch is the framework branch the installer tracks.
const FrappeBranch = "version-15"

// CLIStep installs the bench command-line tool.
type CLIStep struct {
	step.Meta
}

// NewCLIStep creates the bench CLI step.
func NewCLIStep() *CLIStep {
	return &CLIStep{
		Meta: step.NewMeta("bench:cli", step.KindBench, "Install bench CLI", true),
	}
}

// Precheck reports AlreadyDone when bench responds.
func (s *CLIStep) Precheck(ctx *step.RunContext) (step.Precheck, error) {
	result, err := ctx.Runner().Run(ctx.Context(), "bench", "--version")
	if err != nil || !result.Success() {
		return step.NotDone, nil
	}
	return step.AlreadyDone, nil
}

// Apply installs frappe-bench via pip.
func (s *CLIStep) Apply(ctx *step.RunContext) error {
	result, err := ctx.Runner().Run(ctx.Context(), "pip3", "install", "--break-system-packages", "frappe-bench")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("pip3 install frappe-bench failed: %s", strings.TrimSpace(result.Stderr))
	}
	return nil
}

// InitStep initializes the bench workspace under the service account.
type InitStep struct {
	step.Meta
}

// NewInitStep creates the bench workspace step.
func NewInitStep() *InitStep {
	return &InitStep{
		Meta: step.NewMeta("bench:init", step.KindBench, "Initialize bench workspace", true),
	}
}

// Precheck reports AlreadyDone when the workspace directory exists.
func (s *InitStep) Precheck(ctx *step.RunContext) (step.Precheck, error) {
	if ctx.FS().IsDir(ctx.Config().BenchDir()) {
		return step.AlreadyDone, nil
	}
	return step.NotDone, nil
}

// Apply runs bench init under the service account.
func (s *InitStep) Apply(ctx *step.RunContext) error {
	cfg := ctx.Config()
	home := filepath.Dir(cfg.BenchDir())
	result, err := ctx.Runner().RunAs(ctx.Context(), cfg.ServiceUser, home,
		"bench", "init", "--frappe-branch", FrappeBranch, "frappe-bench")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("bench init failed: %s", strings.TrimSpace(result.Stderr))
	}
	ctx.Site().BenchDir = cfg.BenchDir()
	return nil
}

// UndoBench removes the bench workspace.
func UndoBench(ctx *step.RunContext) error {
	return ctx.FS().RemoveAll(ctx.Config().BenchDir())
}

// SiteCreateStep creates the site for the resolved domain. The site
// record carries the domain to later steps and to uninstall.
type SiteCreateStep struct {
	step.Meta
}

// NewSiteCreateStep creates the site step.
func NewSiteCreateStep() *SiteCreateStep {
	return &SiteCreateStep{
		Meta: step.NewMeta("site:create", step.KindSite, "Create site", true),
	}
}

// Precheck reports AlreadyDone when the site directory exists.
func (s *SiteCreateStep) Precheck(ctx *step.RunContext) (step.Precheck, error) {
	siteDir := filepath.Join(ctx.Config().BenchDir(), "sites", ctx.Site().Domain)
	if ctx.FS().IsDir(siteDir) {
		return step.AlreadyDone, nil
	}
	return step.NotDone, nil
}

// Apply resolves the administrator credential and creates the site.
func (s *SiteCreateStep) Apply(ctx *step.RunContext) error {
	cfg := ctx.Config()

	admin, err := resolveAdminPassword(ctx)
	if err != nil {
		return wrapPersistence(err)
	}
	dbRoot, err := ctx.Secrets().Load(secret.PurposeDBRootPassword)
	if err != nil {
		return fmt.Errorf("database root credential unavailable: %w", err)
	}

	result, err := ctx.Runner().RunAs(ctx.Context(), cfg.ServiceUser, cfg.BenchDir(),
		"bench", "new-site", ctx.Site().Domain,
		"--admin-password", admin.Value,
		"--mariadb-root-password", dbRoot.Value)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("bench new-site %s failed: %s", ctx.Site().Domain, strings.TrimSpace(result.Stderr))
	}

	ctx.Site().Created = true
	return nil
}

func resolveAdminPassword(ctx *step.RunContext) (secret.Secret, error) {
	if v := ctx.Config().AdminPassword; v != "" {
		return ctx.Secrets().Supply(secret.PurposeAdminPassword, v)
	}
	if ctx.Mode().Interactive() {
		return ctx.Secrets().Ask(secret.PurposeAdminPassword,
			"Administrator password (leave empty to generate)", ctx.Prompt())
	}
	return ctx.Secrets().GenerateOrReuse(secret.PurposeAdminPassword, secret.DefaultLength, secret.CharsetAlnum)
}

func wrapPersistence(err error) error {
	if errors.Is(err, secret.ErrPersistence) {
		return step.NewError(step.CodePersistence, "cannot protect administrator credential").WithUnderlying(err)
	}
	return err
}

// UndoSite drops the site created during this run.
func UndoSite(ctx *step.RunContext) error {
	if !ctx.Site().Created {
		return nil
	}
	cfg := ctx.Config()
	dbRoot, err := ctx.Secrets().Load(secret.PurposeDBRootPassword)
	if err != nil {
		return fmt.Errorf("database root credential unavailable: %w", err)
	}
	result, err := ctx.Runner().RunAs(ctx.Context(), cfg.ServiceUser, cfg.BenchDir(),
		"bench", "drop-site", ctx.Site().Domain,
		"--force", "--root-password", dbRoot.Value)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("bench drop-site %s failed: %s", ctx.Site().Domain, strings.TrimSpace(result.Stderr))
	}
	return nil
}

// AppInstallStep fetches and installs the ERPNext application on the
// site.
type AppInstallStep struct {
	step.Meta
}

// NewAppInstallStep creates the app installation step.
func NewAppInstallStep() *AppInstallStep {
	return &AppInstallStep{
		Meta: step.NewMeta("site:install-app", step.KindSite, "Install ERPNext application", true),
	}
}

// Precheck asks the bench which apps the site has.
func (s *AppInstallStep) Precheck(ctx *step.RunContext) (step.Precheck, error) {
	cfg := ctx.Config()
	result, err := ctx.Runner().RunAs(ctx.Context(), cfg.ServiceUser, cfg.BenchDir(),
		"bench", "--site", ctx.Site().Domain, "list-apps")
	if err != nil || !result.Success() {
		return step.NotDone, nil
	}
	if containsLine(result.Stdout, "erpnext") {
		return step.AlreadyDone, nil
	}
	return step.NotDone, nil
}

// Apply fetches the app if needed and installs it on the site.
func (s *AppInstallStep) Apply(ctx *step.RunContext) error {
	cfg := ctx.Config()

	if !ctx.FS().IsDir(filepath.Join(cfg.BenchDir(), "apps", "erpnext")) {
		result, err := ctx.Runner().RunAs(ctx.Context(), cfg.ServiceUser, cfg.BenchDir(),
			"bench", "get-app", "--branch", FrappeBranch, "erpnext")
		if err != nil {
			return err
		}
		if !result.Success() {
			return fmt.Errorf("bench get-app erpnext failed: %s", strings.TrimSpace(result.Stderr))
		}
	}

	result, err := ctx.Runner().RunAs(ctx.Context(), cfg.ServiceUser, cfg.BenchDir(),
		"bench", "--site", ctx.Site().Domain, "install-app", "erpnext")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("bench install-app erpnext failed: %s", strings.TrimSpace(result.Stderr))
	}
	return nil
}

// AddonsStep installs the optional add-on applications from the
// configuration. Add-on failures are recoverable: they are logged,
// summarized at the end of the run, and never halt the installation.
type AddonsStep struct {
	step.Meta
	addons []string
}

// NewAddonsStep creates the add-on step for the configured apps.
func NewAddonsStep(addons []string) *AddonsStep {
	return &AddonsStep{
		Meta:   step.NewMeta("site:addons", step.KindSite, "Install add-on applications", false).WithDefaultDecline(),
		addons: addons,
	}
}

// Precheck reports AlreadyDone when every add-on is already on the site.
func (s *AddonsStep) Precheck(ctx *step.RunContext) (step.Precheck, error) {
	cfg := ctx.Config()
	result, err := ctx.Runner().RunAs(ctx.Context(), cfg.ServiceUser, cfg.BenchDir(),
		"bench", "--site", ctx.Site().Domain, "list-apps")
	if err != nil || !result.Success() {
		return step.NotDone, nil
	}
	for _, app := range s.addons {
		if !containsLine(result.Stdout, app) {
			return step.NotDone, nil
		}
	}
	return step.AlreadyDone, nil
}

// Apply installs each add-on, collecting failures into one error so a
// broken add-on does not stop the remaining ones.
func (s *AddonsStep) Apply(ctx *step.RunContext) error {
	cfg := ctx.Config()
	var failures []string

	for _, app := range s.addons {
		if !ctx.FS().IsDir(filepath.Join(cfg.BenchDir(), "apps", app)) {
			result, err := ctx.Runner().RunAs(ctx.Context(), cfg.ServiceUser, cfg.BenchDir(),
				"bench", "get-app", app)
			if err != nil || !result.Success() {
				failures = append(failures, app)
				continue
			}
		}
		result, err := ctx.Runner().RunAs(ctx.Context(), cfg.ServiceUser, cfg.BenchDir(),
			"bench", "--site", ctx.Site().Domain, "install-app", app)
		if err != nil || !result.Success() {
			failures = append(failures, app)
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("add-on apps failed: %s", strings.Join(failures, ", "))
	}
	return nil
}

func containsLine(out, want string) bool {
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == want {
			return true
		}
	}
	return false
}
