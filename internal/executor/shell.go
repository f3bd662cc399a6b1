package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName identifies the executor's spans in trace output.
const tracerName = "github.com/xcodebuildmcp/xcodebuildmcp/internal/executor"

// ShellExecutor is the production Executor. It spawns real processes and
// captures their stdout and stderr separately.
type ShellExecutor struct {
	// tracer emits one span per external command.
	tracer trace.Tracer
}

// NewShellExecutor creates the production executor.
func NewShellExecutor() *ShellExecutor {
	return &ShellExecutor{
		tracer: otel.Tracer(tracerName),
	}
}

// Execute implements Executor.
//
// A nonzero exit populates Error from stderr (or the exit error message when
// stderr is empty) and leaves whatever stdout was captured in Output. A
// spawn failure (binary missing, permission denied) yields Success=false
// with Error set to the failure message. Only an empty command is reported
// through the error return.
func (e *ShellExecutor) Execute(ctx context.Context, command []string, description string, useShell bool, env map[string]string) (*CommandResult, error) {
	if len(command) == 0 {
		return nil, errors.New("executor: empty command")
	}

	ctx, span := e.tracer.Start(ctx, "executor.Execute",
		trace.WithAttributes(
			attribute.String("command.description", description),
			attribute.String("command.executable", command[0]),
			attribute.Bool("command.shell", useShell),
		))
	defer span.End()

	var cmd *exec.Cmd
	if useShell {
		cmd = exec.CommandContext(ctx, "/bin/sh", "-c", strings.Join(command, " "))
	} else {
		cmd = exec.CommandContext(ctx, command[0], command[1:]...)
	}

	if env != nil {
		merged := os.Environ()
		for k, v := range env {
			merged = append(merged, fmt.Sprintf("%s=%s", k, v))
		}
		cmd.Env = merged
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug("Executing command", "description", description, "command", strings.Join(command, " "))

	err := cmd.Run()

	result := &CommandResult{
		Success: err == nil,
		Output:  strings.TrimSpace(stdout.String()),
	}
	if cmd.Process != nil {
		result.Process = &ProcessInfo{PID: cmd.Process.Pid}
	}

	if err != nil {
		span.SetStatus(codes.Error, err.Error())

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Ran, exited nonzero. Prefer stderr for the diagnostic.
			result.Error = strings.TrimSpace(stderr.String())
			if result.Error == "" {
				result.Error = err.Error()
			}
		} else {
			// Never started.
			result.Error = err.Error()
		}
		log.Debug("Command failed", "description", description, "error", result.Error)
		return result, nil
	}

	if s := strings.TrimSpace(stderr.String()); s != "" {
		// Successful commands may still write warnings to stderr; keep them
		// so callers can surface them.
		result.Error = s
	}

	return result, nil
}
