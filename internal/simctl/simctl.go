// Package simctl wraps the xcrun simctl command line for simulator
// management. All operations go through an executor so tests can run
// against canned output.
package simctl

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/xcodebuildmcp/xcodebuildmcp/internal/executor"
)

// Device is one simulator from `simctl list devices`.
type Device struct {
	Name        string
	UDID        string
	State       string
	Runtime     string
	IsAvailable bool
}

// Booted reports whether the simulator is currently booted.
func (d Device) Booted() bool {
	return d.State == "Booted"
}

// ListDevices returns simulators grouped under their runtime, parsed from
// simctl's JSON output. Unavailable devices are included so callers can
// surface them; filter on IsAvailable when needed.
func ListDevices(ctx context.Context, exec executor.Executor) ([]Device, error) {
	result, err := exec.Execute(ctx, []string{"xcrun", "simctl", "list", "devices", "--json"}, "List Simulators", false, nil)
	if err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, fmt.Errorf("simctl list failed: %s", result.Error)
	}

	parsed := gjson.Get(result.Output, "devices")
	if !parsed.Exists() {
		return nil, fmt.Errorf("unexpected simctl output: missing devices key")
	}

	var devices []Device
	parsed.ForEach(func(runtime, list gjson.Result) bool {
		list.ForEach(func(_, d gjson.Result) bool {
			devices = append(devices, Device{
				Name:        d.Get("name").String(),
				UDID:        d.Get("udid").String(),
				State:       d.Get("state").String(),
				Runtime:     prettifyRuntime(runtime.String()),
				IsAvailable: d.Get("isAvailable").Bool(),
			})
			return true
		})
		return true
	})

	sort.Slice(devices, func(i, j int) bool {
		if devices[i].Runtime != devices[j].Runtime {
			return devices[i].Runtime < devices[j].Runtime
		}
		return devices[i].Name < devices[j].Name
	})
	return devices, nil
}

// prettifyRuntime turns a runtime identifier like
// com.apple.CoreSimulator.SimRuntime.iOS-17-4 into "iOS 17.4".
func prettifyRuntime(id string) string {
	const prefix = "com.apple.CoreSimulator.SimRuntime."
	s := strings.TrimPrefix(id, prefix)
	if i := strings.Index(s, "-"); i >= 0 {
		return s[:i] + " " + strings.ReplaceAll(s[i+1:], "-", ".")
	}
	return s
}

// Boot boots the simulator. Booting an already-booted simulator is treated
// as success since simctl reports that as "Unable to boot device in current
// state: Booted".
func Boot(ctx context.Context, exec executor.Executor, udid string) error {
	result, err := exec.Execute(ctx, []string{"xcrun", "simctl", "boot", udid}, "Boot Simulator", false, nil)
	if err != nil {
		return err
	}
	if !result.Success {
		if strings.Contains(result.Error, "current state: Booted") {
			return nil
		}
		return fmt.Errorf("failed to boot simulator %s: %s", udid, result.Error)
	}
	return nil
}

// OpenApp opens the Simulator.app UI so the booted simulator is visible.
func OpenApp(ctx context.Context, exec executor.Executor) error {
	result, err := exec.Execute(ctx, []string{"open", "-a", "Simulator"}, "Open Simulator App", false, nil)
	if err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("failed to open Simulator.app: %s", result.Error)
	}
	return nil
}

// InstallApp installs the .app bundle at appPath on the simulator.
func InstallApp(ctx context.Context, exec executor.Executor, udid, appPath string) error {
	result, err := exec.Execute(ctx, []string{"xcrun", "simctl", "install", udid, appPath}, "Install App in Simulator", false, nil)
	if err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("failed to install app: %s", result.Error)
	}
	return nil
}

// LaunchApp launches bundleID on the simulator, passing args through to the
// app's process.
func LaunchApp(ctx context.Context, exec executor.Executor, udid, bundleID string, args []string) error {
	command := []string{"xcrun", "simctl", "launch", udid, bundleID}
	command = append(command, args...)
	result, err := exec.Execute(ctx, command, "Launch App in Simulator", false, nil)
	if err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("failed to launch app %s: %s", bundleID, result.Error)
	}
	return nil
}

// TerminateApp stops a running app on the simulator.
func TerminateApp(ctx context.Context, exec executor.Executor, udid, bundleID string) error {
	result, err := exec.Execute(ctx, []string{"xcrun", "simctl", "terminate", udid, bundleID}, "Stop App in Simulator", false, nil)
	if err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("failed to stop app %s: %s", bundleID, result.Error)
	}
	return nil
}

// Screenshot captures a PNG of the simulator screen to outputPath.
func Screenshot(ctx context.Context, exec executor.Executor, udid, outputPath string) error {
	result, err := exec.Execute(ctx, []string{"xcrun", "simctl", "io", udid, "screenshot", outputPath}, "Capture Simulator Screenshot", false, nil)
	if err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("failed to capture screenshot: %s", result.Error)
	}
	return nil
}

// PreparePushPayload ensures the APNS payload addresses bundleID by setting
// the "Simulator Target Bundle" key, which simctl push requires when the
// bundle id isn't passed on the command line.
func PreparePushPayload(payload, bundleID string) (string, error) {
	if !gjson.Valid(payload) {
		return "", fmt.Errorf("push payload is not valid JSON")
	}
	if gjson.Get(payload, "Simulator Target Bundle").Exists() {
		return payload, nil
	}
	out, err := sjson.Set(payload, `Simulator Target Bundle`, bundleID)
	if err != nil {
		return "", fmt.Errorf("failed to prepare push payload: %w", err)
	}
	return out, nil
}

// SendPush delivers an APNS payload file to the simulator.
func SendPush(ctx context.Context, exec executor.Executor, udid, payloadPath string) error {
	result, err := exec.Execute(ctx, []string{"xcrun", "simctl", "push", udid, payloadPath}, "Send Simulator Push Notification", false, nil)
	if err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("failed to send push notification: %s", result.Error)
	}
	return nil
}

// FindByName returns the first available device whose name matches exactly.
func FindByName(devices []Device, name string) (Device, bool) {
	for _, d := range devices {
		if d.Name == name && d.IsAvailable {
			return d, true
		}
	}
	return Device{}, false
}
