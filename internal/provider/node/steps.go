// Package node provides the JavaScript runtime steps: Node.js and yarn.
package node

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/meferspb/erpnext-debian13-install/internal/domain/step"
	"github.com/meferspb/erpnext-debian13-install/internal/provider/dpkg"
)

// MinNodeVersion is the oldest Node.js release the application
// framework supports.
const MinNodeVersion = "v18"

// RuntimeStep installs Node.js. The precheck accepts any preinstalled
// runtime at or above the minimum version, so hosts with a newer Node
// are left untouched.
type RuntimeStep struct {
	step.Meta
}

// NewRuntimeStep creates the runtime step.
func NewRuntimeStep() *RuntimeStep {
	return &RuntimeStep{
		Meta: step.NewMeta("node:runtime", step.KindRuntime, "Install Node.js runtime", true),
	}
}

// Precheck probes `node --version` and compares against the minimum.
func (s *RuntimeStep) Precheck(ctx *step.RunContext) (step.Precheck, error) {
	result, err := ctx.Runner().Run(ctx.Context(), "node", "--version")
	if err != nil || !result.Success() {
		// Missing binary means the runtime is simply not installed.
		return step.NotDone, nil
	}

	version := strings.TrimSpace(result.Stdout)
	if !semver.IsValid(version) {
		return step.NotDone, nil
	}
	if semver.Compare(version, MinNodeVersion) >= 0 {
		return step.AlreadyDone, nil
	}
	return step.NotDone, nil
}

// Apply installs Node.js and npm from the distribution.
func (s *RuntimeStep) Apply(ctx *step.RunContext) error {
	return dpkg.Install(ctx.Context(), ctx.Runner(), "nodejs", "npm")
}

// YarnStep installs the yarn package manager globally via npm.
type YarnStep struct {
	step.Meta
}

// NewYarnStep creates the yarn step.
func NewYarnStep() *YarnStep {
	return &YarnStep{
		Meta: step.NewMeta("node:yarn", step.KindRuntime, "Install yarn", true),
	}
}

// Precheck reports AlreadyDone when yarn responds.
func (s *YarnStep) Precheck(ctx *step.RunContext) (step.Precheck, error) {
	result, err := ctx.Runner().Run(ctx.Context(), "yarn", "--version")
	if err != nil || !result.Success() {
		return step.NotDone, nil
	}
	return step.AlreadyDone, nil
}

// Apply installs yarn globally.
func (s *YarnStep) Apply(ctx *step.RunContext) error {
	result, err := ctx.Runner().Run(ctx.Context(), "npm", "install", "-g", "yarn")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("npm install -g yarn failed: %s", strings.TrimSpace(result.Stderr))
	}
	return nil
}
