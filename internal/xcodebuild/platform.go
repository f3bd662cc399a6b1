// Package xcodebuild composes xcodebuild invocations from structured build
// requests, executes them through an injected executor, and classifies the
// results into uniform tool responses.
package xcodebuild

import (
	"fmt"
	"strings"
)

// Platform is an Apple build destination platform.
type Platform string

// The fixed platform enumeration. Values match xcodebuild's destination
// platform names exactly.
const (
	PlatformMacOS             Platform = "macOS"
	PlatformIOS               Platform = "iOS"
	PlatformIOSSimulator      Platform = "iOS Simulator"
	PlatformWatchOS           Platform = "watchOS"
	PlatformWatchOSSimulator  Platform = "watchOS Simulator"
	PlatformTVOS              Platform = "tvOS"
	PlatformTVOSSimulator     Platform = "tvOS Simulator"
	PlatformVisionOS          Platform = "visionOS"
	PlatformVisionOSSimulator Platform = "visionOS Simulator"
)

// ParsePlatform resolves a user-supplied platform string, tolerating
// lowercase and missing spaces ("ios simulator", "iOSSimulator").
func ParsePlatform(s string) (Platform, error) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	for _, p := range []Platform{
		PlatformMacOS, PlatformIOS, PlatformIOSSimulator,
		PlatformWatchOS, PlatformWatchOSSimulator,
		PlatformTVOS, PlatformTVOSSimulator,
		PlatformVisionOS, PlatformVisionOSSimulator,
	} {
		if normalized == strings.ToLower(strings.ReplaceAll(string(p), " ", "")) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown platform: %s", s)
}

// IsSimulator reports whether the platform targets a simulator.
func (p Platform) IsSimulator() bool {
	return strings.HasSuffix(string(p), "Simulator")
}

// DestinationOptions narrow a destination to a concrete device.
type DestinationOptions struct {
	// SimulatorID selects a simulator by UDID. Takes precedence over
	// SimulatorName.
	SimulatorID string

	// SimulatorName selects a simulator by display name.
	SimulatorName string

	// UseLatestOS appends OS=latest for named simulator destinations.
	UseLatestOS bool

	// Arch appends an arch constraint (macOS only).
	Arch string
}

// Destination renders the -destination argument for the platform.
func (p Platform) Destination(opts DestinationOptions) string {
	parts := []string{fmt.Sprintf("platform=%s", p)}

	if p.IsSimulator() {
		switch {
		case opts.SimulatorID != "":
			parts = append(parts, "id="+opts.SimulatorID)
		case opts.SimulatorName != "":
			parts = append(parts, "name="+opts.SimulatorName)
			if opts.UseLatestOS {
				parts = append(parts, "OS=latest")
			}
		}
	}

	if p == PlatformMacOS && opts.Arch != "" {
		parts = append(parts, "arch="+opts.Arch)
	}

	return strings.Join(parts, ",")
}
