// Package system provides the base host preparation steps: package
// index refresh, core build and Python tooling, and the PDF renderer.
package system

import (
	"fmt"
	"strings"

	"github.com/meferspb/erpnext-debian13-install/internal/domain/step"
	"github.com/meferspb/erpnext-debian13-install/internal/provider/dpkg"
)

// BasePackages are the host packages every later step relies on.
var BasePackages = []string{
	"git",
	"curl",
	"python3-dev",
	"python3-pip",
	"python3-venv",
	"software-properties-common",
	"libffi-dev",
	"libssl-dev",
	"supervisor",
}

// AptRefreshStep refreshes the package index. The index has no
// already-done signal worth probing, so the step always applies.
type AptRefreshStep struct {
	step.Meta
}

// NewAptRefreshStep creates the index refresh step.
func NewAptRefreshStep() *AptRefreshStep {
	return &AptRefreshStep{
		Meta: step.NewMeta("system:apt-refresh", step.KindPackages, "Refresh package index", true),
	}
}

// Precheck always reports NotDone.
func (s *AptRefreshStep) Precheck(_ *step.RunContext) (step.Precheck, error) {
	return step.NotDone, nil
}

// Apply runs apt-get update.
func (s *AptRefreshStep) Apply(ctx *step.RunContext) error {
	result, err := ctx.Runner().Run(ctx.Context(), "apt-get", "update")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("apt-get update failed: %s", strings.TrimSpace(result.Stderr))
	}
	return nil
}

// BasePackagesStep installs the core package set.
type BasePackagesStep struct {
	step.Meta
	packages []string
}

// NewBasePackagesStep creates the base package installation step.
func NewBasePackagesStep() *BasePackagesStep {
	return &BasePackagesStep{
		Meta:     step.NewMeta("system:base-packages", step.KindPackages, "Install base packages", true),
		packages: BasePackages,
	}
}

// Precheck reports AlreadyDone when every base package is installed.
func (s *BasePackagesStep) Precheck(ctx *step.RunContext) (step.Precheck, error) {
	ok, err := dpkg.AllInstalled(ctx.Context(), ctx.Runner(), s.packages)
	if err != nil {
		return step.NotDone, err
	}
	if ok {
		return step.AlreadyDone, nil
	}
	return step.NotDone, nil
}

// Apply installs the base packages.
func (s *BasePackagesStep) Apply(ctx *step.RunContext) error {
	return dpkg.Install(ctx.Context(), ctx.Runner(), s.packages...)
}

// WkhtmltopdfStep installs the PDF renderer ERPNext uses for print
// formats. Print output is not load-bearing for the stack, so a
// failure here is recoverable.
type WkhtmltopdfStep struct {
	step.Meta
}

// NewWkhtmltopdfStep creates the PDF renderer step.
func NewWkhtmltopdfStep() *WkhtmltopdfStep {
	return &WkhtmltopdfStep{
		Meta: step.NewMeta("system:wkhtmltopdf", step.KindPackages, "Install wkhtmltopdf", false),
	}
}

// Precheck reports AlreadyDone when wkhtmltopdf is installed.
func (s *WkhtmltopdfStep) Precheck(ctx *step.RunContext) (step.Precheck, error) {
	ok, err := dpkg.Installed(ctx.Context(), ctx.Runner(), "wkhtmltopdf")
	if err != nil {
		return step.NotDone, err
	}
	if ok {
		return step.AlreadyDone, nil
	}
	return step.NotDone, nil
}

// Apply installs wkhtmltopdf.
func (s *WkhtmltopdfStep) Apply(ctx *step.RunContext) error {
	return dpkg.Install(ctx.Context(), ctx.Runner(), "wkhtmltopdf", "xvfb", "libfontconfig")
}
