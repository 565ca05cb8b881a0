// Package mocks provides test doubles for testing.
package mocks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/meferspb/erpnext-debian13-install/internal/ports"
)

// CommandRunner is a thread-safe test double for ports.CommandRunner.
// Unregistered commands succeed by default so full-run tests only stub
// the commands they care about; strict mode fails on anything
// unregistered.
type CommandRunner struct {
	mu      sync.RWMutex
	results map[string]ports.CommandResult
	errors  map[string]error
	calls   []ports.CommandCall
	strict  bool
}

// NewCommandRunner creates a new CommandRunner mock.
func NewCommandRunner() *CommandRunner {
	return &CommandRunner{
		results: make(map[string]ports.CommandResult),
		errors:  make(map[string]error),
		calls:   make([]ports.CommandCall, 0),
	}
}

// NewStrictCommandRunner creates a mock that errors on unregistered
// commands.
func NewStrictCommandRunner() *CommandRunner {
	r := NewCommandRunner()
	r.strict = true
	return r
}

// AddResult registers an expected command and its result.
func (m *CommandRunner) AddResult(command string, args []string, result ports.CommandResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[buildKey(command, args)] = result
}

// AddError registers an expected command that should return an error.
func (m *CommandRunner) AddError(command string, args []string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[buildKey(command, args)] = err
}

// Run executes a mock command.
func (m *CommandRunner) Run(_ context.Context, command string, args ...string) (ports.CommandResult, error) {
	return m.record(ports.CommandCall{Command: command, Args: args})
}

// RunAs executes a mock command under an account.
func (m *CommandRunner) RunAs(_ context.Context, user, dir, command string, args ...string) (ports.CommandResult, error) {
	return m.record(ports.CommandCall{Command: command, Args: args, User: user, Dir: dir})
}

func (m *CommandRunner) record(call ports.CommandCall) (ports.CommandResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	key := buildKey(call.Command, call.Args)
	if err, ok := m.errors[key]; ok {
		return ports.CommandResult{}, err
	}
	if result, ok := m.results[key]; ok {
		return result, nil
	}
	if m.strict {
		return ports.CommandResult{}, fmt.Errorf("no mock result for command: %s %v", call.Command, call.Args)
	}
	return ports.CommandResult{ExitCode: 0}, nil
}

// Calls returns all recorded command invocations.
func (m *CommandRunner) Calls() []ports.CommandCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	calls := make([]ports.CommandCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// CalledWith reports whether any recorded call matches command and args.
func (m *CommandRunner) CalledWith(command string, args ...string) bool {
	key := buildKey(command, args)
	for _, call := range m.Calls() {
		if buildKey(call.Command, call.Args) == key {
			return true
		}
	}
	return false
}

// Reset clears all registered results, errors, and recorded calls.
func (m *CommandRunner) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = make(map[string]ports.CommandResult)
	m.errors = make(map[string]error)
	m.calls = make([]ports.CommandCall, 0)
}

func buildKey(command string, args []string) string {
	return command + ":" + strings.Join(args, ":")
}

// Ensure CommandRunner implements ports.CommandRunner.
var _ ports.CommandRunner = (*CommandRunner)(nil)
