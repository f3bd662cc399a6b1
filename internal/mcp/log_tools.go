package mcp

import (
	"context"
	"fmt"

	"github.com/xcodebuildmcp/xcodebuildmcp/internal/executor"
	"github.com/xcodebuildmcp/xcodebuildmcp/internal/tool"
)

type startLogCaptureInput struct {
	SimulatorID string `json:"simulatorId,omitempty"`
	BundleID    string `json:"bundleId,omitempty"`
}

func (s *Server) startSimLogCaptureTool() *tool.Definition[startLogCaptureInput] {
	return &tool.Definition[startLogCaptureInput]{
		Name:        "start_sim_log_capture",
		Description: "Start capturing the log stream of a booted simulator into a file. Returns a session ID for stop_sim_log_capture. An optional bundleId filters to one app's subsystem.",
		Required:    []string{"simulatorId"},
		SessionKeys: []string{"simulatorId", "bundleId"},
		Logic: func(ctx context.Context, in startLogCaptureInput, exec executor.Executor) *tool.Response {
			// Captures run until explicitly stopped, detached from the
			// request context.
			sess, err := s.logs.StartCapture(context.Background(), in.SimulatorID, in.BundleID)
			if err != nil {
				return tool.NewErrorResponsef("❌ Failed to start log capture: %v", err)
			}
			return tool.NewTextResponse(
				fmt.Sprintf("✅ Log capture started for simulator %s.", in.SimulatorID),
				fmt.Sprintf("Session ID: %s", sess.ID),
				fmt.Sprintf("Log file: %s", sess.LogPath),
			).WithNextStep(map[string]any{"tool": "stop_sim_log_capture", "logSessionId": sess.ID})
		},
	}
}

type stopLogCaptureInput struct {
	LogSessionID string `json:"logSessionId,omitempty"`
	TailLines    int    `json:"tailLines,omitempty"`
}

func (s *Server) stopSimLogCaptureTool() *tool.Definition[stopLogCaptureInput] {
	return &tool.Definition[stopLogCaptureInput]{
		Name:        "stop_sim_log_capture",
		Description: "Stop a simulator log capture session and return the tail of the captured log.",
		Required:    []string{"logSessionId"},
		Logic: func(ctx context.Context, in stopLogCaptureInput, exec executor.Executor) *tool.Response {
			tail, err := s.logs.StopCapture(in.LogSessionID, in.TailLines)
			if err != nil {
				return tool.NewErrorResponsef("❌ %v", err)
			}
			resp := tool.NewTextResponse(fmt.Sprintf("✅ Log capture %s stopped.", in.LogSessionID))
			if tail != "" {
				resp.AddText("Captured log tail:\n" + tail)
			}
			return resp
		},
	}
}
