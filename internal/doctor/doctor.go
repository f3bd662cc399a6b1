// Package doctor runs environment diagnostics: are the platform CLI tools
// this server shells out to actually present and responsive.
package doctor

import (
	"context"
	"strings"

	"github.com/xcodebuildmcp/xcodebuildmcp/internal/executor"
)

// Check is a single diagnostic check result.
type Check struct {
	// Name is the probed tool (e.g., "xcodebuild").
	Name string `json:"name"`

	// Status is "ok" or "error".
	Status string `json:"status"`

	// Message is the human-readable result, usually the tool's version line.
	Message string `json:"message"`
}

// Result contains all diagnostic check results.
type Result struct {
	Checks []Check `json:"checks"`

	// Issues is the count of failed checks.
	Issues int `json:"issues"`

	// Healthy is true when every check passed.
	Healthy bool `json:"healthy"`
}

// probe describes one tool presence check.
type probe struct {
	name     string
	command  []string
	useShell bool
}

// probes are the platform tools the server depends on. The axe probe runs
// through a shell because a missing axe binary should report cleanly rather
// than fail the spawn.
var probes = []probe{
	{name: "xcodebuild", command: []string{"xcodebuild", "-version"}},
	{name: "simctl", command: []string{"xcrun", "simctl", "help"}},
	{name: "devicectl", command: []string{"xcrun", "devicectl", "--version"}},
	{name: "swift", command: []string{"swift", "--version"}},
	{name: "axe", command: []string{"axe --version || echo AXE_NOT_INSTALLED"}, useShell: true},
}

// Run executes every probe through the executor and aggregates the results.
func Run(ctx context.Context, exec executor.Executor) Result {
	var r Result
	for _, p := range probes {
		r.Checks = append(r.Checks, runProbe(ctx, exec, p))
	}
	for _, c := range r.Checks {
		if c.Status != "ok" {
			r.Issues++
		}
	}
	r.Healthy = r.Issues == 0
	return r
}

func runProbe(ctx context.Context, exec executor.Executor, p probe) Check {
	result, err := exec.Execute(ctx, p.command, "Doctor: "+p.name, p.useShell, nil)
	if err != nil {
		return Check{Name: p.name, Status: "error", Message: err.Error()}
	}
	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = "check failed"
		}
		return Check{Name: p.name, Status: "error", Message: msg}
	}
	if strings.Contains(result.Output, "AXE_NOT_INSTALLED") {
		return Check{Name: p.name, Status: "error", Message: "not installed"}
	}
	return Check{Name: p.name, Status: "ok", Message: firstLine(result.Output)}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
