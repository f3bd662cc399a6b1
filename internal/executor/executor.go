// Package executor provides the command execution abstraction used by every
// tool in the server.
//
// All external CLI invocations (xcodebuild, xcrun simctl, xcrun devicectl,
// swift, axe, open) funnel through the Executor contract so that tool logic
// can be tested deterministically against a mock without spawning real
// processes.
package executor

import "context"

// CommandResult is the outcome of one external command invocation.
//
// Exactly one of "ran to completion with some exit code" or "failed before
// running" produced a given result. When Success is false, Error always
// carries a non-empty diagnostic string.
type CommandResult struct {
	// Success is true iff the process exited with code 0.
	Success bool

	// Output is the captured standard output, trimmed.
	Output string

	// Error is the captured standard error, or the spawn failure message
	// if the process could not be started. Empty on success unless the
	// command wrote to stderr.
	Error string

	// Process holds optional metadata about the spawned process, used only
	// for diagnostics and tests.
	Process *ProcessInfo
}

// ProcessInfo carries metadata about a spawned process.
type ProcessInfo struct {
	// PID is the operating system process ID, if the process started.
	PID int
}

// Executor runs an external command and returns a structured result.
//
// Implementations must never report "the external command failed" through
// the error return: a nonzero exit or a spawn failure is a normal
// *CommandResult with Success=false. The error return is reserved for
// executor misconfiguration (for example an empty argv).
type Executor interface {
	// Execute runs command, an argv-style slice whose first element is the
	// executable. When useShell is true the command is joined and run
	// through /bin/sh -c, which is required for commands relying on shell
	// features such as "||" fallback chains; otherwise the executable is
	// spawned directly with the remaining elements as arguments and is
	// never re-parsed through a shell.
	//
	// description is a human-readable label used only for logging and
	// telemetry. env, when non-nil, is merged over the invoking process's
	// environment.
	Execute(ctx context.Context, command []string, description string, useShell bool, env map[string]string) (*CommandResult, error)
}

// Provider returns the executor a tool should use when the caller did not
// supply one. Production code wires a ShellExecutor; tests wire a
// MockExecutor.
type Provider func() Executor
