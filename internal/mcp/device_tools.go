package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/xcodebuildmcp/xcodebuildmcp/internal/devicectl"
	"github.com/xcodebuildmcp/xcodebuildmcp/internal/executor"
	"github.com/xcodebuildmcp/xcodebuildmcp/internal/tool"
)

func (s *Server) listDevicesTool() *tool.Definition[struct{}] {
	return &tool.Definition[struct{}]{
		Name:        "list_devices",
		Description: "List connected physical Apple devices via xcrun devicectl.",
		Logic: func(ctx context.Context, _ struct{}, exec executor.Executor) *tool.Response {
			devices, err := devicectl.ListDevices(ctx, exec)
			if err != nil {
				return tool.NewErrorResponsef("❌ Failed to list devices: %v", err)
			}
			if len(devices) == 0 {
				return tool.NewTextResponse("No physical devices found.")
			}

			var b strings.Builder
			fmt.Fprintf(&b, "✅ Found %d device(s):\n", len(devices))
			for _, d := range devices {
				fmt.Fprintf(&b, "  - %s (%s)", d.Name, d.Identifier)
				if d.Model != "" {
					fmt.Fprintf(&b, " %s", d.Model)
				}
				if d.OSVersion != "" {
					fmt.Fprintf(&b, " %s", d.OSVersion)
				}
				if d.State != "" {
					fmt.Fprintf(&b, " [%s]", d.State)
				}
				b.WriteByte('\n')
			}
			return tool.NewTextResponse(strings.TrimRight(b.String(), "\n"))
		},
	}
}
