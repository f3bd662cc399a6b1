package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/xcodebuildmcp/xcodebuildmcp/internal/doctor"
	"github.com/xcodebuildmcp/xcodebuildmcp/internal/executor"
	"github.com/xcodebuildmcp/xcodebuildmcp/internal/tool"
)

func (s *Server) doctorTool() *tool.Definition[struct{}] {
	return &tool.Definition[struct{}]{
		Name:        "doctor",
		Description: "Check that the platform tools this server depends on (xcodebuild, simctl, devicectl, swift, axe) are installed and responsive.",
		Logic: func(ctx context.Context, _ struct{}, exec executor.Executor) *tool.Response {
			result := doctor.Run(ctx, exec)

			var b strings.Builder
			if result.Healthy {
				b.WriteString("✅ All checks passed.\n")
			} else {
				fmt.Fprintf(&b, "❌ %d check(s) failed.\n", result.Issues)
			}
			for _, c := range result.Checks {
				marker := "✅"
				if c.Status != "ok" {
					marker = "❌"
				}
				fmt.Fprintf(&b, "%s %s: %s\n", marker, c.Name, c.Message)
			}

			resp := tool.NewTextResponse(strings.TrimRight(b.String(), "\n"))
			resp.IsError = !result.Healthy
			return resp
		},
	}
}
