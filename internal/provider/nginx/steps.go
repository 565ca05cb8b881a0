// Package nginx provides the reverse proxy and production wiring step.
package nginx

import (
	"fmt"
	"strings"

	"github.com/meferspb/erpnext-debian13-install/internal/domain/step"
	"github.com/meferspb/erpnext-debian13-install/internal/provider/dpkg"
)

// SiteConfPath is where bench setup production links the generated
// nginx config.
const SiteConfPath = "/etc/nginx/conf.d/frappe-bench.conf"

// ProductionStep installs nginx and wires the bench for production:
// generated nginx config, supervisor processes, and a restarted proxy.
// The stack is reachable on the development port without it, so a
// failure is recoverable.
type ProductionStep struct {
	step.Meta
}

// NewProductionStep creates the production wiring step.
func NewProductionStep() *ProductionStep {
	return &ProductionStep{
		Meta: step.NewMeta("proxy:production", step.KindProxy, "Configure nginx production setup", false),
	}
}

// Precheck reports AlreadyDone when the bench nginx config is linked.
func (s *ProductionStep) Precheck(ctx *step.RunContext) (step.Precheck, error) {
	if ctx.FS().Exists(SiteConfPath) {
		return step.AlreadyDone, nil
	}
	return step.NotDone, nil
}

// Apply installs nginx and runs bench setup production.
func (s *ProductionStep) Apply(ctx *step.RunContext) error {
	cfg := ctx.Config()

	if err := dpkg.Install(ctx.Context(), ctx.Runner(), "nginx"); err != nil {
		return err
	}

	result, err := ctx.Runner().Run(ctx.Context(),
		"bench", "setup", "production", cfg.ServiceUser, "--yes")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("bench setup production failed: %s", strings.TrimSpace(result.Stderr))
	}

	result, err = ctx.Runner().Run(ctx.Context(), "systemctl", "restart", "nginx")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("restart nginx failed: %s", strings.TrimSpace(result.Stderr))
	}
	return nil
}

// Undo removes the bench nginx config and reloads the proxy.
func Undo(ctx *step.RunContext) error {
	if !ctx.FS().Exists(SiteConfPath) {
		return nil
	}
	if err := ctx.FS().Remove(SiteConfPath); err != nil {
		return err
	}
	_, _ = ctx.Runner().Run(ctx.Context(), "systemctl", "reload", "nginx")
	return nil
}
