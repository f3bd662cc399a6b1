// Package devicectl lists physical Apple devices via xcrun devicectl.
package devicectl

import (
	"context"
	"fmt"
	"strings"

	"github.com/xcodebuildmcp/xcodebuildmcp/internal/executor"
)

// Device is one connected physical device.
type Device struct {
	Name       string
	Identifier string
	State      string
	Model      string
	OSVersion  string
}

// ListDevices parses the human-readable table from
// `xcrun devicectl list devices`. The header row names the columns; each
// following row is split on runs of two or more spaces.
func ListDevices(ctx context.Context, exec executor.Executor) ([]Device, error) {
	result, err := exec.Execute(ctx, []string{"xcrun", "devicectl", "list", "devices"}, "List Devices", false, nil)
	if err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, fmt.Errorf("devicectl list failed: %s", result.Error)
	}

	lines := strings.Split(result.Output, "\n")
	var devices []Device
	headerSeen := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !headerSeen {
			if strings.HasPrefix(trimmed, "Name") && strings.Contains(trimmed, "Identifier") {
				headerSeen = true
			}
			continue
		}
		if strings.HasPrefix(trimmed, "---") {
			continue
		}
		fields := splitColumns(trimmed)
		if len(fields) < 2 {
			continue
		}
		d := Device{Name: fields[0], Identifier: fields[1]}
		if len(fields) > 2 {
			d.State = fields[2]
		}
		if len(fields) > 3 {
			d.Model = fields[3]
		}
		if len(fields) > 4 {
			d.OSVersion = fields[4]
		}
		devices = append(devices, d)
	}
	return devices, nil
}

// splitColumns splits a table row on runs of two or more spaces, keeping
// single spaces inside values like "iPhone 15 Pro".
func splitColumns(line string) []string {
	var fields []string
	var cur strings.Builder
	spaces := 0
	for _, r := range line {
		if r == ' ' {
			spaces++
			continue
		}
		if spaces >= 2 && cur.Len() > 0 {
			fields = append(fields, cur.String())
			cur.Reset()
		} else if spaces == 1 && cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		spaces = 0
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		fields = append(fields, cur.String())
	}
	return fields
}
