// Package account provides the service account step and its undo.
package account

import (
	"fmt"
	"strings"

	"github.com/meferspb/erpnext-debian13-install/internal/domain/step"
	"github.com/meferspb/erpnext-debian13-install/internal/validation"
)

// CreateStep creates the service account the bench runs under.
type CreateStep struct {
	step.Meta
}

// NewCreateStep creates the account step.
func NewCreateStep() *CreateStep {
	return &CreateStep{
		Meta: step.NewMeta("account:create", step.KindAccount, "Create service account", true),
	}
}

// Precheck reports AlreadyDone when the account exists.
func (s *CreateStep) Precheck(ctx *step.RunContext) (step.Precheck, error) {
	result, err := ctx.Runner().Run(ctx.Context(), "id", "-u", ctx.Config().ServiceUser)
	if err != nil {
		return step.NotDone, err
	}
	if result.Success() {
		return step.AlreadyDone, nil
	}
	return step.NotDone, nil
}

// Apply creates the account with a home directory and sudo membership
// for the bench production setup.
func (s *CreateStep) Apply(ctx *step.RunContext) error {
	user := ctx.Config().ServiceUser
	if err := validation.ValidateAccountName(user); err != nil {
		return err
	}

	result, err := ctx.Runner().Run(ctx.Context(), "useradd", "-m", "-s", "/bin/bash", user)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("useradd %s failed: %s", user, strings.TrimSpace(result.Stderr))
	}

	result, err = ctx.Runner().Run(ctx.Context(), "usermod", "-aG", "sudo", user)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("usermod %s failed: %s", user, strings.TrimSpace(result.Stderr))
	}

	ctx.Site().User = user
	return nil
}

// Undo removes the account and its home directory.
func Undo(ctx *step.RunContext) error {
	user := ctx.Config().ServiceUser
	_, _ = ctx.Runner().Run(ctx.Context(), "pkill", "-u", user)
	result, err := ctx.Runner().Run(ctx.Context(), "userdel", "-r", user)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("userdel %s failed: %s", user, strings.TrimSpace(result.Stderr))
	}
	return nil
}
