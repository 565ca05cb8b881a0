// Package ports defines interfaces for external dependencies.
package ports

import (
	"context"
)

// CommandResult represents the result of executing a host command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success returns true if the command exited with code 0.
func (r CommandResult) Success() bool {
	return r.ExitCode == 0
}

// CommandCall records a command invocation.
type CommandCall struct {
	Command string
	Args    []string
	User    string
	Dir     string
}

// CommandRunner executes host commands. Long-running external operations
// (package installs, service restarts, bench commands) block until the
// process exits; cancellation comes only from the context.
type CommandRunner interface {
	Run(ctx context.Context, command string, args ...string) (CommandResult, error)

	// RunAs executes a command under the given account in the given working
	// directory, returning a structured exit status.
	RunAs(ctx context.Context, user, dir, command string, args ...string) (CommandResult, error)
}
