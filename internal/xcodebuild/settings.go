package xcodebuild

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/xcodebuildmcp/xcodebuildmcp/internal/executor"
)

// Line-anchored extraction regexes for xcodebuild -showBuildSettings output.
var (
	builtProductsDirRe = regexp.MustCompile(`(?m)^\s*BUILT_PRODUCTS_DIR = (.+)$`)
	fullProductNameRe  = regexp.MustCompile(`(?m)^\s*FULL_PRODUCT_NAME = (.+)$`)
)

// ErrAppPathNotFound is returned when either build-settings key is missing.
// A partial match is total failure, never a best-effort guess.
var ErrAppPathNotFound = errors.New("could not extract app path from build settings")

// ExtractAppPath derives the built app bundle path from -showBuildSettings
// output by combining BUILT_PRODUCTS_DIR and FULL_PRODUCT_NAME. Both keys
// must be present.
func ExtractAppPath(settingsOutput string) (string, error) {
	dir := builtProductsDirRe.FindStringSubmatch(settingsOutput)
	name := fullProductNameRe.FindStringSubmatch(settingsOutput)
	if dir == nil || name == nil {
		return "", ErrAppPathNotFound
	}
	return fmt.Sprintf("%s/%s", dir[1], name[1]), nil
}

// ShowBuildSettings runs xcodebuild -showBuildSettings for the request and
// returns the raw key=value text.
func ShowBuildSettings(ctx context.Context, params BuildParams, cmdCtx CommandContext, exec executor.Executor) (string, error) {
	if v := validateContainer(params); v != nil {
		return "", v
	}

	args := []string{"xcodebuild", "-showBuildSettings"}
	if params.ProjectPath != "" {
		args = append(args, "-project", params.ProjectPath)
	} else {
		args = append(args, "-workspace", params.WorkspacePath)
	}
	args = append(args, "-scheme", params.Scheme)
	if params.Configuration != "" {
		args = append(args, "-configuration", params.Configuration)
	}
	if needsDestination(cmdCtx.Platform, params.Arch) {
		args = append(args, "-destination", cmdCtx.Platform.Destination(DestinationOptions{
			SimulatorID:   params.SimulatorID,
			SimulatorName: params.SimulatorName,
			UseLatestOS:   params.UseLatestOS,
			Arch:          params.Arch,
		}))
	}

	result, err := exec.Execute(ctx, args, fmt.Sprintf("%s Show Build Settings", cmdCtx.LogPrefix), false, nil)
	if err != nil {
		return "", fmt.Errorf("failed to run xcodebuild -showBuildSettings: %w", err)
	}
	if !result.Success {
		return "", fmt.Errorf("xcodebuild -showBuildSettings failed: %s", result.Error)
	}
	return result.Output, nil
}

// ResolveAppPath runs -showBuildSettings and extracts the app bundle path.
// Missing either key is a hard failure; the caller should instruct the user
// to build first.
func ResolveAppPath(ctx context.Context, params BuildParams, cmdCtx CommandContext, exec executor.Executor) (string, error) {
	output, err := ShowBuildSettings(ctx, params, cmdCtx, exec)
	if err != nil {
		return "", err
	}
	return ExtractAppPath(output)
}

// validateContainer mirrors BuildArgs' mutual-exclusivity check for the
// settings path, returning a plain error instead of a response.
func validateContainer(params BuildParams) error {
	if v := exactlyOne(params.ProjectPath, params.WorkspacePath); !v {
		return errors.New("exactly one of projectPath or workspacePath must be provided")
	}
	if params.Scheme == "" {
		return errors.New("scheme is required")
	}
	return nil
}

func exactlyOne(a, b string) bool {
	return (a != "") != (b != "")
}
