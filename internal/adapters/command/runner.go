// Package command provides command execution adapters.
package command

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/meferspb/erpnext-debian13-install/internal/ports"
)

// RealRunner executes actual host commands.
type RealRunner struct{}

// NewRealRunner creates a new RealRunner.
func NewRealRunner() *RealRunner {
	return &RealRunner{}
}

// Run executes a command and returns the result.
func (r *RealRunner) Run(ctx context.Context, command string, args ...string) (ports.CommandResult, error) {
	cmd := exec.CommandContext(ctx, command, args...)
	return run(cmd)
}

// RunAs executes a command under the given account via runuser, in the
// given working directory. The installer runs as root, so no password
// is involved.
func (r *RealRunner) RunAs(ctx context.Context, user, dir, command string, args ...string) (ports.CommandResult, error) {
	runuserArgs := []string{"-u", user, "--", command}
	runuserArgs = append(runuserArgs, args...)
	cmd := exec.CommandContext(ctx, "runuser", runuserArgs...)
	cmd.Dir = dir
	return run(cmd)
}

func run(cmd *exec.Cmd) (ports.CommandResult, error) {
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := ports.CommandResult{
		ExitCode: 0,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, err
	}

	return result, nil
}

// Ensure RealRunner implements ports.CommandRunner.
var _ ports.CommandRunner = (*RealRunner)(nil)
