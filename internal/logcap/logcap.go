// Package logcap manages simulator log capture sessions. Each session
// streams `log stream` output from a booted simulator into a temp file
// until stopped, at which point the tail of the capture is returned.
package logcap

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/xcodebuildmcp/xcodebuildmcp/internal/util"
)

// DefaultTailLines is how many trailing lines StopCapture returns.
const DefaultTailLines = 100

// Session is one active log capture.
type Session struct {
	ID        string
	UDID      string
	BundleID  string
	LogPath   string
	StartedAt time.Time

	cmd  *exec.Cmd
	file *os.File
	done chan struct{}
}

// Manager tracks active capture sessions. Safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	tmpDir   string
}

// NewManager creates a manager writing capture files under tmpDir. An empty
// tmpDir falls back to the system temp directory.
func NewManager(tmpDir string) *Manager {
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		tmpDir:   tmpDir,
	}
}

// StartCapture spawns a log stream for the simulator and returns the new
// session. When bundleID is non-empty the stream is filtered to that app's
// process.
func (m *Manager) StartCapture(ctx context.Context, udid, bundleID string) (*Session, error) {
	id := uuid.NewString()
	name := fmt.Sprintf("xcodebuildmcp-log-%s-%s.log", util.SanitizeForFilename(udid), id)
	logPath := filepath.Join(m.tmpDir, name)

	f, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create capture file: %w", err)
	}

	args := []string{"simctl", "spawn", udid, "log", "stream", "--style", "compact"}
	if bundleID != "" {
		args = append(args, "--predicate", fmt.Sprintf("subsystem == %q", bundleID))
	}
	cmd := exec.CommandContext(ctx, "xcrun", args...)
	cmd.Stdout = f
	cmd.Stderr = f

	if err := cmd.Start(); err != nil {
		f.Close()
		os.Remove(logPath)
		return nil, fmt.Errorf("failed to start log capture: %w", err)
	}

	s := &Session{
		ID:        id,
		UDID:      udid,
		BundleID:  bundleID,
		LogPath:   logPath,
		StartedAt: time.Now(),
		cmd:       cmd,
		file:      f,
		done:      make(chan struct{}),
	}
	go func() {
		_ = cmd.Wait()
		close(s.done)
	}()

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	log.Debug("Started log capture", "session", id, "udid", udid, "path", logPath)
	return s, nil
}

// StopCapture stops the session and returns the last tailLines lines of the
// captured log. tailLines <= 0 uses DefaultTailLines.
func (m *Manager) StopCapture(sessionID string, tailLines int) (string, error) {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	if ok {
		delete(m.sessions, sessionID)
	}
	m.mu.Unlock()

	if !ok {
		return "", fmt.Errorf("no log capture session with ID %s", sessionID)
	}

	if s.cmd.Process != nil {
		_ = s.cmd.Process.Signal(os.Interrupt)
		select {
		case <-s.done:
		case <-time.After(2 * time.Second):
			_ = s.cmd.Process.Kill()
			<-s.done
		}
	}
	s.file.Close()

	data, err := os.ReadFile(s.LogPath)
	if err != nil {
		return "", fmt.Errorf("failed to read capture file: %w", err)
	}
	if tailLines <= 0 {
		tailLines = DefaultTailLines
	}
	return tail(string(data), tailLines), nil
}

// Active returns the IDs of all running sessions.
func (m *Manager) Active() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids
}

// StopAll terminates every session without collecting output. Used on
// server shutdown.
func (m *Manager) StopAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		if s.cmd.Process != nil {
			_ = s.cmd.Process.Kill()
		}
		s.file.Close()
	}
}

func tail(s string, n int) string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
