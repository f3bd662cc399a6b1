package mcp

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/xcodebuildmcp/xcodebuildmcp/internal/executor"
	"github.com/xcodebuildmcp/xcodebuildmcp/internal/simctl"
	"github.com/xcodebuildmcp/xcodebuildmcp/internal/tool"
)

func (s *Server) listSimsTool() *tool.Definition[struct{}] {
	return &tool.Definition[struct{}]{
		Name:        "list_sims",
		Description: "List available iOS, watchOS, tvOS and visionOS simulators with their UDIDs and states.",
		Logic: func(ctx context.Context, _ struct{}, exec executor.Executor) *tool.Response {
			devices, err := simctl.ListDevices(ctx, exec)
			if err != nil {
				return tool.NewErrorResponsef("❌ Failed to list simulators: %v", err)
			}
			if len(devices) == 0 {
				return tool.NewTextResponse("No simulators found.")
			}

			var b strings.Builder
			fmt.Fprintf(&b, "✅ Found %d simulator(s):\n", len(devices))
			runtime := ""
			for _, d := range devices {
				if d.Runtime != runtime {
					runtime = d.Runtime
					fmt.Fprintf(&b, "\n%s:\n", runtime)
				}
				marker := ""
				if d.Booted() {
					marker = " [Booted]"
				}
				if !d.IsAvailable {
					marker += " [unavailable]"
				}
				fmt.Fprintf(&b, "  - %s (%s)%s\n", d.Name, d.UDID, marker)
			}
			return tool.NewTextResponse(strings.TrimRight(b.String(), "\n"))
		},
	}
}

type simInput struct {
	SimulatorID string `json:"simulatorId,omitempty"`
}

func (s *Server) bootSimTool() *tool.Definition[simInput] {
	return &tool.Definition[simInput]{
		Name:        "boot_sim",
		Description: "Boot a simulator by UDID. Booting an already-booted simulator succeeds.",
		Required:    []string{"simulatorId"},
		SessionKeys: []string{"simulatorId"},
		Logic: func(ctx context.Context, in simInput, exec executor.Executor) *tool.Response {
			if err := simctl.Boot(ctx, exec, in.SimulatorID); err != nil {
				return tool.NewErrorResponsef("❌ %v", err)
			}
			return tool.NewTextResponse(fmt.Sprintf("✅ Simulator %s booted.", in.SimulatorID)).
				WithNextStep(map[string]any{"tool": "open_sim"})
		},
	}
}

func (s *Server) openSimTool() *tool.Definition[struct{}] {
	return &tool.Definition[struct{}]{
		Name:        "open_sim",
		Description: "Open the Simulator app so booted simulators become visible.",
		Logic: func(ctx context.Context, _ struct{}, exec executor.Executor) *tool.Response {
			if err := simctl.OpenApp(ctx, exec); err != nil {
				return tool.NewErrorResponsef("❌ %v", err)
			}
			return tool.NewTextResponse("✅ Simulator app opened.")
		},
	}
}

type installAppInput struct {
	SimulatorID string `json:"simulatorId,omitempty"`
	AppPath     string `json:"appPath,omitempty"`
}

func (s *Server) installAppSimTool() *tool.Definition[installAppInput] {
	return &tool.Definition[installAppInput]{
		Name:        "install_app_sim",
		Description: "Install a built .app bundle on a simulator.",
		Required:    []string{"simulatorId", "appPath"},
		SessionKeys: []string{"simulatorId"},
		Logic: func(ctx context.Context, in installAppInput, exec executor.Executor) *tool.Response {
			if v := tool.ValidateFileExists(in.AppPath, s.fs); !v.IsValid {
				return v.ErrorResponse
			}
			if err := simctl.InstallApp(ctx, exec, in.SimulatorID, in.AppPath); err != nil {
				return tool.NewErrorResponsef("❌ %v", err)
			}
			return tool.NewTextResponse(fmt.Sprintf("✅ Installed %s on simulator %s.", in.AppPath, in.SimulatorID)).
				WithNextStep(map[string]any{"tool": "launch_app_sim", "simulatorId": in.SimulatorID})
		},
	}
}

type launchAppInput struct {
	SimulatorID string   `json:"simulatorId,omitempty"`
	BundleID    string   `json:"bundleId,omitempty"`
	Args        []string `json:"args,omitempty"`
}

func (s *Server) launchAppSimTool() *tool.Definition[launchAppInput] {
	return &tool.Definition[launchAppInput]{
		Name:        "launch_app_sim",
		Description: "Launch an installed app on a simulator by bundle identifier. Extra args are passed to the app process.",
		Required:    []string{"simulatorId", "bundleId"},
		SessionKeys: []string{"simulatorId", "bundleId"},
		Logic: func(ctx context.Context, in launchAppInput, exec executor.Executor) *tool.Response {
			if err := simctl.LaunchApp(ctx, exec, in.SimulatorID, in.BundleID, in.Args); err != nil {
				return tool.NewErrorResponsef("❌ %v", err)
			}
			return tool.NewTextResponse(fmt.Sprintf("✅ Launched %s on simulator %s.", in.BundleID, in.SimulatorID))
		},
	}
}

type stopAppInput struct {
	SimulatorID string `json:"simulatorId,omitempty"`
	BundleID    string `json:"bundleId,omitempty"`
}

func (s *Server) stopAppSimTool() *tool.Definition[stopAppInput] {
	return &tool.Definition[stopAppInput]{
		Name:        "stop_app_sim",
		Description: "Stop a running app on a simulator by bundle identifier.",
		Required:    []string{"simulatorId", "bundleId"},
		SessionKeys: []string{"simulatorId", "bundleId"},
		Logic: func(ctx context.Context, in stopAppInput, exec executor.Executor) *tool.Response {
			if err := simctl.TerminateApp(ctx, exec, in.SimulatorID, in.BundleID); err != nil {
				return tool.NewErrorResponsef("❌ %v", err)
			}
			return tool.NewTextResponse(fmt.Sprintf("✅ Stopped %s on simulator %s.", in.BundleID, in.SimulatorID))
		},
	}
}

type screenshotInput struct {
	SimulatorID string `json:"simulatorId,omitempty"`
	OutputPath  string `json:"outputPath,omitempty"`
}

func (s *Server) screenshotTool() *tool.Definition[screenshotInput] {
	return &tool.Definition[screenshotInput]{
		Name:        "screenshot",
		Description: "Capture a screenshot of a booted simulator. Returns the PNG as image content and keeps a copy at outputPath (a temp file when omitted).",
		Required:    []string{"simulatorId"},
		SessionKeys: []string{"simulatorId"},
		Logic: func(ctx context.Context, in screenshotInput, exec executor.Executor) *tool.Response {
			outputPath := in.OutputPath
			if outputPath == "" {
				outputPath = filepath.Join(os.TempDir(), fmt.Sprintf("sim-screenshot-%s.png", uuid.NewString()))
			}

			if err := simctl.Screenshot(ctx, exec, in.SimulatorID, outputPath); err != nil {
				return tool.NewErrorResponsef("❌ %v", err)
			}

			data, err := s.fs.ReadFile(outputPath)
			if err != nil {
				return tool.NewErrorResponsef("❌ Screenshot captured but could not be read from %s: %v", outputPath, err)
			}

			return tool.NewTextResponse(fmt.Sprintf("✅ Screenshot saved to %s", outputPath)).
				AddImage(base64.StdEncoding.EncodeToString(data), "image/png")
		},
	}
}

type simPushInput struct {
	SimulatorID string `json:"simulatorId,omitempty"`
	BundleID    string `json:"bundleId,omitempty"`
	Payload     string `json:"payload,omitempty"`
}

func (s *Server) simPushTool() *tool.Definition[simPushInput] {
	return &tool.Definition[simPushInput]{
		Name:        "sim_push",
		Description: "Send a push notification to a simulator. The payload is APNS JSON; the Simulator Target Bundle key is added automatically when absent.",
		Required:    []string{"simulatorId", "bundleId", "payload"},
		SessionKeys: []string{"simulatorId", "bundleId"},
		Logic: func(ctx context.Context, in simPushInput, exec executor.Executor) *tool.Response {
			payload, err := simctl.PreparePushPayload(in.Payload, in.BundleID)
			if err != nil {
				return tool.NewErrorResponsef("❌ %v", err)
			}

			payloadPath := filepath.Join(os.TempDir(), fmt.Sprintf("sim-push-%s.apns", uuid.NewString()))
			if err := s.fs.WriteFile(payloadPath, []byte(payload), 0o600); err != nil {
				return tool.NewErrorResponsef("❌ Failed to write push payload: %v", err)
			}

			if err := simctl.SendPush(ctx, exec, in.SimulatorID, payloadPath); err != nil {
				return tool.NewErrorResponsef("❌ %v", err)
			}
			return tool.NewTextResponse(fmt.Sprintf("✅ Push notification sent to %s on simulator %s.", in.BundleID, in.SimulatorID))
		},
	}
}
