package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/xcodebuildmcp/xcodebuildmcp/internal/executor"
	"github.com/xcodebuildmcp/xcodebuildmcp/internal/tool"
)

type swiftPackageRunInput struct {
	PackagePath string   `json:"packagePath,omitempty"`
	Executable  string   `json:"executable,omitempty"`
	Args        []string `json:"args,omitempty"`
}

func (s *Server) swiftPackageRunTool() *tool.Definition[swiftPackageRunInput] {
	return &tool.Definition[swiftPackageRunInput]{
		Name:        "swift_package_run",
		Description: "Run a Swift Package executable with swift run as a managed background process. Returns an opaque token for swift_package_stop.",
		Required:    []string{"packagePath"},
		Logic: func(ctx context.Context, in swiftPackageRunInput, exec executor.Executor) *tool.Response {
			if v := tool.ValidateFileExists(in.PackagePath, s.fs); !v.IsValid {
				return v.ErrorResponse
			}

			command := []string{"swift", "run"}
			name := "swift run"
			if in.Executable != "" {
				command = append(command, in.Executable)
				name = "swift run " + in.Executable
			}
			command = append(command, in.Args...)

			// The process must outlive this tool call, so it is started
			// detached from the request context.
			h, err := s.registry.Start(context.Background(), name, command, in.PackagePath, nil)
			if err != nil {
				return tool.NewErrorResponsef("❌ Failed to start %s: %v", name, err)
			}

			return tool.NewTextResponse(
				fmt.Sprintf("✅ Started %s (pid %d).", name, h.PID),
				fmt.Sprintf("Process token: %s", h.Token),
			).WithNextStep(map[string]any{"tool": "swift_package_stop", "token": h.Token})
		},
	}
}

type swiftPackageStopInput struct {
	Token string `json:"token,omitempty"`
}

func (s *Server) swiftPackageStopTool() *tool.Definition[swiftPackageStopInput] {
	return &tool.Definition[swiftPackageStopInput]{
		Name:        "swift_package_stop",
		Description: "Stop a running Swift Package executable by its token. Interrupts first, force-kills after a 5-second grace period.",
		Required:    []string{"token"},
		Logic: func(ctx context.Context, in swiftPackageStopInput, exec executor.Executor) *tool.Response {
			h := s.registry.Get(in.Token)
			if h == nil {
				return tool.NewErrorResponsef("❌ No registered process for token %s", in.Token)
			}

			stdout, stderr := h.Output()
			if err := s.registry.Release(in.Token); err != nil {
				return tool.NewErrorResponsef("❌ Failed to stop %s: %v", h.Name, err)
			}

			resp := tool.NewTextResponse(fmt.Sprintf("✅ Stopped %s (pid %d).", h.Name, h.PID))
			if out := strings.TrimSpace(stdout); out != "" {
				resp.AddText("Captured output:\n" + out)
			}
			if errOut := strings.TrimSpace(stderr); errOut != "" {
				resp.AddText("Captured stderr:\n" + errOut)
			}
			return resp
		},
	}
}
