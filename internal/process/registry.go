// Package process tracks long-running child processes (swift run
// executables, simulator log streams) that outlive a single tool call.
//
// Handles are keyed by an opaque token rather than the raw PID, so a token
// can never alias a recycled operating-system PID across restarts.
package process

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// DefaultGracePeriod is how long Release waits after an interrupt before
// escalating to a force kill.
const DefaultGracePeriod = 5 * time.Second

// Handle is one registered background process.
type Handle struct {
	// Token is the opaque registry key.
	Token string

	// Name labels the process for listings and logs.
	Name string

	// PID is the operating-system process ID.
	PID int

	// StartedAt is when the process was registered.
	StartedAt time.Time

	cmd    *exec.Cmd
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	done   chan struct{}
	mu     sync.Mutex
}

// Output returns the stdout and stderr captured so far.
func (h *Handle) Output() (string, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stdout.String(), h.stderr.String()
}

// Running reports whether the process has not yet exited.
func (h *Handle) Running() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

// Registry owns background process handles. All methods are safe for
// concurrent use.
type Registry struct {
	mu      sync.Mutex
	handles map[string]*Handle
	grace   time.Duration
}

// NewRegistry creates an empty registry with the default grace period.
func NewRegistry() *Registry {
	return &Registry{
		handles: make(map[string]*Handle),
		grace:   DefaultGracePeriod,
	}
}

// SetGracePeriod overrides the interrupt-to-kill grace period. Tests use
// this to avoid real five-second waits.
func (r *Registry) SetGracePeriod(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.grace = d
}

// Start launches command in workDir, registers it, and returns its handle.
// The process's stdout and stderr are captured into in-memory buffers.
func (r *Registry) Start(ctx context.Context, name string, command []string, workDir string, env map[string]string) (*Handle, error) {
	if len(command) == 0 {
		return nil, fmt.Errorf("process: empty command")
	}

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = workDir
	if env != nil {
		merged := os.Environ()
		for k, v := range env {
			merged = append(merged, fmt.Sprintf("%s=%s", k, v))
		}
		cmd.Env = merged
	}

	h := &Handle{
		Token:     uuid.NewString(),
		Name:      name,
		StartedAt: time.Now(),
		cmd:       cmd,
		stdout:    &bytes.Buffer{},
		stderr:    &bytes.Buffer{},
		done:      make(chan struct{}),
	}
	cmd.Stdout = lockedWriter{buf: h.stdout, mu: &h.mu}
	cmd.Stderr = lockedWriter{buf: h.stderr, mu: &h.mu}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", name, err)
	}
	h.PID = cmd.Process.Pid

	go func() {
		_ = cmd.Wait()
		close(h.done)
	}()

	r.mu.Lock()
	r.handles[h.Token] = h
	r.mu.Unlock()

	log.Debug("Registered background process", "name", name, "token", h.Token, "pid", h.PID)
	return h, nil
}

// Get returns the handle for token, or nil when unknown.
func (r *Registry) Get(token string) *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handles[token]
}

// List returns all registered handles sorted by start time.
func (r *Registry) List() []*Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Handle, 0, len(r.handles))
	for _, h := range r.handles {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out
}

// Release stops the process for token and removes it from the registry. It
// interrupts first and escalates to a force kill once the grace period
// elapses. Releasing an unknown token is an error; releasing an
// already-exited process succeeds.
func (r *Registry) Release(token string) error {
	r.mu.Lock()
	h, ok := r.handles[token]
	if ok {
		delete(r.handles, token)
	}
	grace := r.grace
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("no registered process for token %s", token)
	}
	return terminate(h, grace)
}

// ForceTerminateAll kills every registered process immediately. Called on
// server shutdown.
func (r *Registry) ForceTerminateAll() {
	r.mu.Lock()
	handles := make([]*Handle, 0, len(r.handles))
	for _, h := range r.handles {
		handles = append(handles, h)
	}
	r.handles = make(map[string]*Handle)
	r.mu.Unlock()

	for _, h := range handles {
		if h.Running() && h.cmd.Process != nil {
			_ = h.cmd.Process.Kill()
		}
	}
}

// terminate interrupts the process, waits up to grace, then force kills.
func terminate(h *Handle, grace time.Duration) error {
	if !h.Running() {
		return nil
	}
	if h.cmd.Process == nil {
		return nil
	}

	_ = h.cmd.Process.Signal(os.Interrupt)

	select {
	case <-h.done:
		return nil
	case <-time.After(grace):
	}

	log.Debug("Escalating to force kill", "name", h.Name, "pid", h.PID)
	if err := h.cmd.Process.Kill(); err != nil {
		return fmt.Errorf("failed to kill %s (pid %d): %w", h.Name, h.PID, err)
	}
	<-h.done
	return nil
}

// lockedWriter serializes writes into a handle's buffer with its mutex so
// Output never races the process's own writes.
type lockedWriter struct {
	buf *bytes.Buffer
	mu  *sync.Mutex
}

func (w lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}
