package executor

import (
	"context"
	"errors"
	"testing"
)

func TestMockExecutor_FixedResult(t *testing.T) {
	m := NewMockExecutor(&CommandResult{Success: false, Error: "boom"})

	result, err := m.Execute(context.Background(), []string{"xcodebuild", "build"}, "Build", false, nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Success || result.Error != "boom" {
		t.Errorf("result = %+v, want failure with error boom", result)
	}
}

func TestMockExecutor_SimulatedSpawnFailure(t *testing.T) {
	m := NewFailingMockExecutor(errors.New("spawn exploded"))

	if _, err := m.Execute(context.Background(), []string{"swift", "run"}, "Run", false, nil); err == nil {
		t.Fatalf("Execute() error = nil, want simulated spawn failure")
	}
}

func TestMockExecutor_LongestPatternWins(t *testing.T) {
	m := &MockExecutor{}
	m.AddPattern("xcodebuild", &CommandResult{Success: true, Output: "generic"}, nil)
	m.AddPattern("xcodebuild -showBuildSettings", &CommandResult{Success: true, Output: "settings"}, nil)

	result, err := m.Execute(context.Background(),
		[]string{"xcodebuild", "-showBuildSettings", "-scheme", "App"}, "Settings", false, nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Output != "settings" {
		t.Errorf("Output = %q, want %q (most specific pattern)", result.Output, "settings")
	}
}

func TestMockExecutor_PatternCanSimulateError(t *testing.T) {
	m := NewMockExecutor(&CommandResult{Success: true})
	m.AddPattern("devicectl", nil, errors.New("devicectl unavailable"))

	if _, err := m.Execute(context.Background(), []string{"xcrun", "devicectl", "list"}, "List", false, nil); err == nil {
		t.Fatalf("Execute() error = nil, want pattern error")
	}

	// Non-matching commands still get the fixed result.
	result, err := m.Execute(context.Background(), []string{"xcrun", "simctl", "list"}, "List", false, nil)
	if err != nil || !result.Success {
		t.Errorf("result = %+v, err = %v, want fixed success", result, err)
	}
}

func TestMockExecutor_RecordsCallsInOrder(t *testing.T) {
	m := &MockExecutor{}

	_, _ = m.Execute(context.Background(), []string{"xcodebuild", "build"}, "First", false, nil)
	_, _ = m.Execute(context.Background(), []string{"open", "-a", "Simulator"}, "Second", true, map[string]string{"A": "1"})

	calls := m.Calls()
	if len(calls) != 2 {
		t.Fatalf("recorded %d calls, want 2", len(calls))
	}
	if calls[0].Description != "First" || calls[1].Description != "Second" {
		t.Errorf("call order = %q, %q", calls[0].Description, calls[1].Description)
	}
	if !calls[1].UseShell {
		t.Errorf("second call UseShell = false, want true")
	}
	if calls[1].Env["A"] != "1" {
		t.Errorf("second call Env = %v, want A=1", calls[1].Env)
	}
}

func TestMockExecutor_DefaultsToSuccess(t *testing.T) {
	m := &MockExecutor{}

	result, err := m.Execute(context.Background(), []string{"anything"}, "Default", false, nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !result.Success {
		t.Errorf("Success = false, want true")
	}
}
