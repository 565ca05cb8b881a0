// Package dpkg provides shared helpers for querying Debian package
// state from step prechecks.
package dpkg

import (
	"context"
	"fmt"
	"strings"

	"github.com/meferspb/erpnext-debian13-install/internal/ports"
)

// Installed reports whether pkg is installed on the host.
func Installed(ctx context.Context, runner ports.CommandRunner, pkg string) (bool, error) {
	result, err := runner.Run(ctx, "dpkg-query", "-W", "-f=${db:Status-Status}", pkg)
	if err != nil {
		return false, err
	}
	// dpkg-query exits non-zero for unknown packages.
	if !result.Success() {
		return false, nil
	}
	return strings.TrimSpace(result.Stdout) == "installed", nil
}

// AllInstalled reports whether every package in pkgs is installed.
func AllInstalled(ctx context.Context, runner ports.CommandRunner, pkgs []string) (bool, error) {
	for _, pkg := range pkgs {
		ok, err := Installed(ctx, runner, pkg)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Install installs the given packages non-interactively.
func Install(ctx context.Context, runner ports.CommandRunner, pkgs ...string) error {
	args := append([]string{"install", "-y", "--no-install-recommends"}, pkgs...)
	result, err := runner.Run(ctx, "apt-get", args...)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("apt-get install %s failed: %s", strings.Join(pkgs, " "), strings.TrimSpace(result.Stderr))
	}
	return nil
}
