package tool

import (
	"context"
	"strings"
	"testing"

	"github.com/xcodebuildmcp/xcodebuildmcp/internal/executor"
)

type buildInput struct {
	Scheme        string `json:"scheme"`
	Configuration string `json:"configuration"`
	Retries       int    `json:"retries"`
}

func passthroughLogic(captured *buildInput) LogicFunc[buildInput] {
	return func(ctx context.Context, in buildInput, exec executor.Executor) *Response {
		if captured != nil {
			*captured = in
		}
		return NewTextResponse("ok")
	}
}

func TestHandler_RequiredViolationFormat(t *testing.T) {
	def := &Definition[buildInput]{
		Name:     "build",
		Required: []string{"scheme"},
		Logic:    passthroughLogic(nil),
	}
	handler := def.Handler(nil, nil)

	resp := handler(context.Background(), map[string]any{}, &executor.MockExecutor{})
	if !resp.IsError {
		t.Fatalf("IsError = false, want true")
	}
	want := "Error: Parameter validation failed\nDetails: Invalid parameters:\nscheme: Required"
	if got := resp.FirstText(); got != want {
		t.Errorf("error text = %q, want %q", got, want)
	}
}

func TestHandler_TypeViolationNamesField(t *testing.T) {
	def := &Definition[buildInput]{
		Name:  "build",
		Logic: passthroughLogic(nil),
	}
	handler := def.Handler(nil, nil)

	resp := handler(context.Background(), map[string]any{"retries": "three"}, &executor.MockExecutor{})
	if !resp.IsError {
		t.Fatalf("IsError = false, want true")
	}
	text := resp.FirstText()
	if !strings.HasPrefix(text, "Error: Parameter validation failed\nDetails: Invalid parameters:\n") {
		t.Errorf("error text = %q, want validation-failed prefix", text)
	}
	if !strings.Contains(text, "retries:") {
		t.Errorf("error text = %q, want field name first", text)
	}
}

func TestHandler_SessionDefaultInjection(t *testing.T) {
	var got buildInput
	def := &Definition[buildInput]{
		Name:        "build",
		Required:    []string{"scheme"},
		SessionKeys: []string{"scheme", "configuration"},
		Logic:       passthroughLogic(&got),
	}
	defaults := func() map[string]any {
		return map[string]any{"scheme": "DefaultScheme", "configuration": "Release"}
	}
	handler := def.Handler(defaults, nil)

	// Omitted fields resolve from session defaults.
	resp := handler(context.Background(), map[string]any{}, &executor.MockExecutor{})
	if resp.IsError {
		t.Fatalf("IsError = true, want defaults to satisfy required field: %s", resp.FirstText())
	}
	if got.Scheme != "DefaultScheme" || got.Configuration != "Release" {
		t.Errorf("injected input = %+v, want session defaults applied", got)
	}

	// Explicit arguments win over defaults.
	resp = handler(context.Background(), map[string]any{"scheme": "Mine"}, &executor.MockExecutor{})
	if resp.IsError {
		t.Fatalf("unexpected error: %s", resp.FirstText())
	}
	if got.Scheme != "Mine" {
		t.Errorf("scheme = %q, want explicit value to win", got.Scheme)
	}
}

func TestHandler_ExecutorProviderFallback(t *testing.T) {
	mock := executor.NewMockExecutor(&executor.CommandResult{Success: true})
	var received executor.Executor

	def := &Definition[buildInput]{
		Name: "build",
		Logic: func(ctx context.Context, in buildInput, exec executor.Executor) *Response {
			received = exec
			return NewTextResponse("ok")
		},
	}
	handler := def.Handler(nil, func() executor.Executor { return mock })

	if resp := handler(context.Background(), nil, nil); resp.IsError {
		t.Fatalf("unexpected error: %s", resp.FirstText())
	}
	if received != executor.Executor(mock) {
		t.Errorf("logic did not receive the provider's executor")
	}
}

func TestHandler_PropagatesLogicResponseUnchanged(t *testing.T) {
	want := NewErrorResponse("first", "second").WithNextStep(map[string]any{"tool": "get_app_path"})
	def := &Definition[buildInput]{
		Name: "build",
		Logic: func(ctx context.Context, in buildInput, exec executor.Executor) *Response {
			return want
		},
	}
	handler := def.Handler(nil, nil)

	got := handler(context.Background(), nil, &executor.MockExecutor{})
	if got != want {
		t.Errorf("handler rewrapped the logic response")
	}
}
