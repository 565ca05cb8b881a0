// Package mariadb provides the database server steps: installation,
// root credential setup, and the Frappe-specific server configuration.
package mariadb

import (
	"errors"
	"fmt"
	"strings"

	"github.com/meferspb/erpnext-debian13-install/internal/domain/secret"
	"github.com/meferspb/erpnext-debian13-install/internal/domain/step"
	"github.com/meferspb/erpnext-debian13-install/internal/provider/dpkg"
)

// ConfPath is the Frappe-specific MariaDB configuration drop-in.
const ConfPath = "/etc/mysql/conf.d/frappe.cnf"

// frappeConf forces the utf8mb4 settings Frappe requires.
const frappeConf = `[mysqld]
character-set-client-handshake = FALSE
character-set-server = utf8mb4
collation-server = utf8mb4_unicode_ci

[mysql]
default-character-set = utf8mb4
`

// InstallStep installs the MariaDB server and client.
type InstallStep struct {
	step.Meta
}

// NewInstallStep creates the database installation step.
func NewInstallStep() *InstallStep {
	return &InstallStep{
		Meta: step.NewMeta("mariadb:install-server", step.KindDatabase, "Install MariaDB server", true),
	}
}

// Precheck reports AlreadyDone when the server package is installed.
func (s *InstallStep) Precheck(ctx *step.RunContext) (step.Precheck, error) {
	ok, err := dpkg.Installed(ctx.Context(), ctx.Runner(), "mariadb-server")
	if err != nil {
		return step.NotDone, err
	}
	if ok {
		return step.AlreadyDone, nil
	}
	return step.NotDone, nil
}

// Apply installs and enables the server.
func (s *InstallStep) Apply(ctx *step.RunContext) error {
	if err := dpkg.Install(ctx.Context(), ctx.Runner(), "mariadb-server", "mariadb-client", "libmariadb-dev"); err != nil {
		return err
	}
	result, err := ctx.Runner().Run(ctx.Context(), "systemctl", "enable", "--now", "mariadb")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("enable mariadb failed: %s", strings.TrimSpace(result.Stderr))
	}
	return nil
}

// RootPasswordStep sets the database root password from the secret
// store, generating or reusing a persisted credential. A persistence
// failure here is fatal for the run.
type RootPasswordStep struct {
	step.Meta
}

// NewRootPasswordStep creates the root credential step.
func NewRootPasswordStep() *RootPasswordStep {
	return &RootPasswordStep{
		Meta: step.NewMeta("mariadb:root-password", step.KindDatabase, "Set MariaDB root password", true),
	}
}

// Precheck reports AlreadyDone when a root credential is already
// persisted, which means a previous run configured the server.
func (s *RootPasswordStep) Precheck(ctx *step.RunContext) (step.Precheck, error) {
	if _, err := ctx.Secrets().Load(secret.PurposeDBRootPassword); err == nil {
		return step.AlreadyDone, nil
	} else if !errors.Is(err, secret.ErrNotFound) {
		return step.NotDone, err
	}
	return step.NotDone, nil
}

// Apply resolves the credential (environment override, operator input,
// or generated) and applies it to the server.
func (s *RootPasswordStep) Apply(ctx *step.RunContext) error {
	sec, err := resolveRootPassword(ctx)
	if err != nil {
		return wrapPersistence(err)
	}

	result, err := ctx.Runner().Run(ctx.Context(), "mysqladmin", "-u", "root", "password", sec.Value)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("mysqladmin password failed: %s", strings.TrimSpace(result.Stderr))
	}
	return nil
}

func resolveRootPassword(ctx *step.RunContext) (secret.Secret, error) {
	if v := ctx.Config().DBRootPassword; v != "" {
		return ctx.Secrets().Supply(secret.PurposeDBRootPassword, v)
	}
	if ctx.Mode().Interactive() {
		return ctx.Secrets().Ask(secret.PurposeDBRootPassword,
			"MariaDB root password (leave empty to generate)", ctx.Prompt())
	}
	return ctx.Secrets().GenerateOrReuse(secret.PurposeDBRootPassword, secret.DefaultLength, secret.CharsetAlnum)
}

// wrapPersistence upgrades secret persistence failures to the fatal
// persistence code so the top-level handler reports them correctly.
func wrapPersistence(err error) error {
	if errors.Is(err, secret.ErrPersistence) {
		return step.NewError(step.CodePersistence, "cannot protect database credential").WithUnderlying(err)
	}
	return err
}

// SiteConfigStep drops the Frappe character-set configuration and
// restarts the server to pick it up.
type SiteConfigStep struct {
	step.Meta
}

// NewSiteConfigStep creates the server configuration step.
func NewSiteConfigStep() *SiteConfigStep {
	return &SiteConfigStep{
		Meta: step.NewMeta("mariadb:site-config", step.KindDatabase, "Configure MariaDB for Frappe", true),
	}
}

// Precheck reports AlreadyDone when the drop-in already exists.
func (s *SiteConfigStep) Precheck(ctx *step.RunContext) (step.Precheck, error) {
	if ctx.FS().Exists(ConfPath) {
		return step.AlreadyDone, nil
	}
	return step.NotDone, nil
}

// Apply writes the drop-in and restarts the server.
func (s *SiteConfigStep) Apply(ctx *step.RunContext) error {
	if err := ctx.FS().WriteFile(ConfPath, []byte(frappeConf), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", ConfPath, err)
	}
	result, err := ctx.Runner().Run(ctx.Context(), "systemctl", "restart", "mariadb")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("restart mariadb failed: %s", strings.TrimSpace(result.Stderr))
	}
	return nil
}

// Undo removes the Frappe drop-in. Installed packages and the root
// credential stay: packages are harmless and the credential is only
// removed by explicit uninstall.
func Undo(ctx *step.RunContext) error {
	if !ctx.FS().Exists(ConfPath) {
		return nil
	}
	if err := ctx.FS().Remove(ConfPath); err != nil {
		return err
	}
	_, _ = ctx.Runner().Run(ctx.Context(), "systemctl", "restart", "mariadb")
	return nil
}
