package process

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestStartAndRelease(t *testing.T) {
	r := NewRegistry()
	r.SetGracePeriod(200 * time.Millisecond)

	h, err := r.Start(context.Background(), "sleeper", []string{"sleep", "30"}, "", nil)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if h.Token == "" {
		t.Fatal("expected non-empty token")
	}
	if h.PID <= 0 {
		t.Fatalf("expected valid pid, got %d", h.PID)
	}
	if !h.Running() {
		t.Fatal("expected process to be running")
	}

	if err := r.Release(h.Token); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if h.Running() {
		t.Fatal("expected process to be stopped after release")
	}
	if r.Get(h.Token) != nil {
		t.Fatal("expected handle to be removed from registry")
	}
}

func TestReleaseUnknownToken(t *testing.T) {
	r := NewRegistry()
	err := r.Release("no-such-token")
	if err == nil {
		t.Fatal("expected error for unknown token")
	}
	if !strings.Contains(err.Error(), "no-such-token") {
		t.Fatalf("error should name the token, got: %v", err)
	}
}

func TestReleaseExitedProcess(t *testing.T) {
	r := NewRegistry()
	h, err := r.Start(context.Background(), "true", []string{"true"}, "", nil)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for h.Running() {
		select {
		case <-deadline:
			t.Fatal("process did not exit")
		case <-time.After(10 * time.Millisecond):
		}
	}

	if err := r.Release(h.Token); err != nil {
		t.Fatalf("releasing an exited process should succeed: %v", err)
	}
}

func TestOutputCapture(t *testing.T) {
	r := NewRegistry()
	h, err := r.Start(context.Background(), "echo", []string{"sh", "-c", "echo hello; echo oops >&2"}, "", nil)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	<-time.After(100 * time.Millisecond)
	for h.Running() {
		time.Sleep(10 * time.Millisecond)
	}

	stdout, stderr := h.Output()
	if !strings.Contains(stdout, "hello") {
		t.Fatalf("stdout = %q, want to contain hello", stdout)
	}
	if !strings.Contains(stderr, "oops") {
		t.Fatalf("stderr = %q, want to contain oops", stderr)
	}
}

func TestEmptyCommand(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Start(context.Background(), "bad", nil, "", nil); err == nil {
		t.Fatal("expected error for empty command")
	}
}

func TestListSortedByStart(t *testing.T) {
	r := NewRegistry()
	defer r.ForceTerminateAll()

	a, err := r.Start(context.Background(), "a", []string{"sleep", "30"}, "", nil)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	b, err := r.Start(context.Background(), "b", []string{"sleep", "30"}, "", nil)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	got := r.List()
	if len(got) != 2 {
		t.Fatalf("expected 2 handles, got %d", len(got))
	}
	if got[0].Token != a.Token || got[1].Token != b.Token {
		t.Fatal("handles not sorted by start time")
	}
}

func TestForceTerminateAll(t *testing.T) {
	r := NewRegistry()
	h, err := r.Start(context.Background(), "sleeper", []string{"sleep", "30"}, "", nil)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	r.ForceTerminateAll()

	deadline := time.After(5 * time.Second)
	for h.Running() {
		select {
		case <-deadline:
			t.Fatal("process still running after ForceTerminateAll")
		case <-time.After(10 * time.Millisecond):
		}
	}
	if len(r.List()) != 0 {
		t.Fatal("expected registry to be empty")
	}
}
