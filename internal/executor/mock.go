package executor

import (
	"context"
	"strings"
	"sync"
)

// MockCall records one Execute invocation received by a MockExecutor.
type MockCall struct {
	Command     []string
	Description string
	UseShell    bool
	Env         map[string]string
}

// mockPattern maps a command substring to a canned outcome.
type mockPattern struct {
	substr string
	result *CommandResult
	err    error
}

// MockExecutor is the deterministic Executor used by tool tests. It is part
// of the public surface: every tool's test suite depends on its contract.
//
// Resolution order for a call: the longest matching registered pattern wins;
// with no pattern match, Err is returned if set; otherwise Result is
// returned if set; otherwise a generic success result.
type MockExecutor struct {
	mu sync.Mutex

	// Result is the fixed canned result returned regardless of input when
	// no pattern matches.
	Result *CommandResult

	// Err simulates a spawn-level failure: Execute returns it as the error
	// value, the way the real executor reports misconfiguration.
	Err error

	patterns []mockPattern
	calls    []MockCall
}

// NewMockExecutor creates a mock that returns result for every call.
func NewMockExecutor(result *CommandResult) *MockExecutor {
	return &MockExecutor{Result: result}
}

// NewFailingMockExecutor creates a mock whose every call returns err.
func NewFailingMockExecutor(err error) *MockExecutor {
	return &MockExecutor{Err: err}
}

// AddPattern registers a canned outcome for any command whose
// space-joined argv contains substr. When several patterns match the same
// invocation, the longest (most specific) substring wins.
func (m *MockExecutor) AddPattern(substr string, result *CommandResult, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patterns = append(m.patterns, mockPattern{substr: substr, result: result, err: err})
}

// Calls returns the invocations received so far, in order.
func (m *MockExecutor) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// Execute implements Executor.
func (m *MockExecutor) Execute(ctx context.Context, command []string, description string, useShell bool, env map[string]string) (*CommandResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, MockCall{
		Command:     append([]string(nil), command...),
		Description: description,
		UseShell:    useShell,
		Env:         env,
	})

	joined := strings.Join(command, " ")
	var best *mockPattern
	for i := range m.patterns {
		p := &m.patterns[i]
		if !strings.Contains(joined, p.substr) {
			continue
		}
		if best == nil || len(p.substr) > len(best.substr) {
			best = p
		}
	}
	if best != nil {
		if best.err != nil {
			return nil, best.err
		}
		return cloneResult(best.result), nil
	}

	if m.Err != nil {
		return nil, m.Err
	}
	if m.Result != nil {
		return cloneResult(m.Result), nil
	}
	return &CommandResult{Success: true}, nil
}

// cloneResult copies a canned result so callers cannot mutate the fixture.
func cloneResult(r *CommandResult) *CommandResult {
	if r == nil {
		return &CommandResult{Success: true}
	}
	out := *r
	if r.Process != nil {
		p := *r.Process
		out.Process = &p
	}
	return &out
}
