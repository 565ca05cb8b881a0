// Package redis provides the cache server step.
package redis

import (
	"fmt"
	"strings"

	"github.com/meferspb/erpnext-debian13-install/internal/domain/step"
	"github.com/meferspb/erpnext-debian13-install/internal/provider/dpkg"
)

// InstallStep installs the Redis server the bench uses for caching and
// background queues.
type InstallStep struct {
	step.Meta
}

// NewInstallStep creates the cache installation step.
func NewInstallStep() *InstallStep {
	return &InstallStep{
		Meta: step.NewMeta("redis:install", step.KindCache, "Install Redis server", true),
	}
}

// Precheck reports AlreadyDone when the server package is installed.
func (s *InstallStep) Precheck(ctx *step.RunContext) (step.Precheck, error) {
	ok, err := dpkg.Installed(ctx.Context(), ctx.Runner(), "redis-server")
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
	if err := dpkg.Install(ctx.Context(), ctx.Runner(), "redis-server"); err != nil {
		return err
	}
	result, err := ctx.Runner().Run(ctx.Context(), "systemctl", "enable", "--now", "redis-server")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("enable redis-server failed: %s", strings.TrimSpace(result.Stderr))
	}
	return nil
}
