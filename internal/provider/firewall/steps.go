// Package firewall provides the optional ufw add-on step.
package firewall

import (
	"fmt"
	"strings"

	"github.com/meferspb/erpnext-debian13-install/internal/domain/step"
	"github.com/meferspb/erpnext-debian13-install/internal/provider/dpkg"
)

// EnableStep installs ufw and opens the ports the stack serves on.
// A firewall problem should not lose an otherwise complete
// installation, so the step is recoverable.
type EnableStep struct {
	step.Meta
}

// NewEnableStep creates the firewall step.
func NewEnableStep() *EnableStep {
	return &EnableStep{
		Meta: step.NewMeta("firewall:enable", step.KindFirewall, "Enable firewall", false),
	}
}

// Precheck reports AlreadyDone when ufw is active.
func (s *EnableStep) Precheck(ctx *step.RunContext) (step.Precheck, error) {
	result, err := ctx.Runner().Run(ctx.Context(), "ufw", "status")
	if err != nil || !result.Success() {
		return step.NotDone, nil
	}
	if strings.Contains(result.Stdout, "Status: active") {
		return step.AlreadyDone, nil
	}
	return step.NotDone, nil
}

// Apply installs ufw, allows ssh/http/https, and enables it.
func (s *EnableStep) Apply(ctx *step.RunContext) error {
	if err := dpkg.Install(ctx.Context(), ctx.Runner(), "ufw"); err != nil {
		return err
	}

	for _, port := range []string{"ssh", "http", "https"} {
		result, err := ctx.Runner().Run(ctx.Context(), "ufw", "allow", port)
		if err != nil {
			return err
		}
		if !result.Success() {
			return fmt.Errorf("ufw allow %s failed: %s", port, strings.TrimSpace(result.Stderr))
		}
	}

	result, err := ctx.Runner().Run(ctx.Context(), "ufw", "--force", "enable")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("ufw enable failed: %s", strings.TrimSpace(result.Stderr))
	}
	return nil
}

// Undo disables the firewall.
func Undo(ctx *step.RunContext) error {
	result, err := ctx.Runner().Run(ctx.Context(), "ufw", "disable")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("ufw disable failed: %s", strings.TrimSpace(result.Stderr))
	}
	return nil
}
