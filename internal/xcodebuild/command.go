package xcodebuild

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/xcodebuildmcp/xcodebuildmcp/internal/executor"
	"github.com/xcodebuildmcp/xcodebuildmcp/internal/tool"
)

// Action is the xcodebuild action to perform.
type Action string

const (
	ActionBuild Action = "build"
	ActionTest  Action = "test"
	ActionClean Action = "clean"
)

// BuildParams is a structured build request. Exactly one of ProjectPath and
// WorkspacePath must be set.
type BuildParams struct {
	ProjectPath      string
	WorkspacePath    string
	Scheme           string
	Configuration    string
	DerivedDataPath  string
	ExtraArgs        []string
	Arch             string
	SimulatorID      string
	SimulatorName    string
	UseLatestOS      bool
	PreferXcodebuild bool
}

// CommandContext carries the platform context for one invocation.
type CommandContext struct {
	// Platform determines the -destination argument.
	Platform Platform

	// LogPrefix labels response lines and log records, e.g. "iOS Simulator Build".
	LogPrefix string
}

// needsDestination reports whether the invocation requires a -destination
// argument: simulator and device targets always, macOS only when an arch is
// constrained.
func needsDestination(p Platform, arch string) bool {
	if p == PlatformMacOS {
		return arch != ""
	}
	return true
}

// BuildArgs composes the xcodebuild argv for the request. The order is
// fixed: action flags, container, scheme, configuration, derived data,
// destination, extra args verbatim.
func BuildArgs(params BuildParams, cmdCtx CommandContext, action Action) ([]string, *tool.Response) {
	if v := tool.ValidateExactlyOne([]string{"projectPath", "workspacePath"}, params.ProjectPath, params.WorkspacePath); !v.IsValid {
		return nil, v.ErrorResponse
	}
	if v := tool.ValidateRequiredString("scheme", params.Scheme); !v.IsValid {
		return nil, v.ErrorResponse
	}

	configuration := params.Configuration
	if configuration == "" {
		configuration = "Debug"
	}

	args := []string{"xcodebuild", string(action)}

	if params.ProjectPath != "" {
		args = append(args, "-project", params.ProjectPath)
	} else {
		args = append(args, "-workspace", params.WorkspacePath)
	}
	args = append(args, "-scheme", params.Scheme)
	args = append(args, "-configuration", configuration)

	if params.DerivedDataPath != "" {
		args = append(args, "-derivedDataPath", params.DerivedDataPath)
	}

	if needsDestination(cmdCtx.Platform, params.Arch) {
		dest := cmdCtx.Platform.Destination(DestinationOptions{
			SimulatorID:   params.SimulatorID,
			SimulatorName: params.SimulatorName,
			UseLatestOS:   params.UseLatestOS,
			Arch:          params.Arch,
		})
		args = append(args, "-destination", dest)
	}

	args = append(args, params.ExtraArgs...)
	return args, nil
}

// ExecuteCommand translates the build request into an xcodebuild invocation,
// runs it through exec, and classifies the outcome.
//
// A single failed invocation is a single reported failure; there is no
// retry. Whether the tool reported failure or could not be executed at all
// is carried only in the error text, never in a separate flag.
func ExecuteCommand(ctx context.Context, params BuildParams, cmdCtx CommandContext, action Action, exec executor.Executor) *tool.Response {
	args, errResp := BuildArgs(params, cmdCtx, action)
	if errResp != nil {
		return errResp
	}

	description := fmt.Sprintf("%s %s", cmdCtx.LogPrefix, action)
	result, err := exec.Execute(ctx, args, description, false, nil)
	if err != nil {
		return tool.NewErrorResponse(
			fmt.Sprintf("❌ %s %s failed for scheme %s: %v", cmdCtx.LogPrefix, action, params.Scheme, err))
	}

	if !result.Success {
		log.Debug("xcodebuild failed", "action", action, "scheme", params.Scheme)
		resp := &tool.Response{IsError: true}
		if result.Error != "" {
			resp.AddText(fmt.Sprintf("❌ [stderr] %s", result.Error))
		}
		resp.AddText(fmt.Sprintf("❌ %s %s failed for scheme %s.", cmdCtx.LogPrefix, action, params.Scheme))
		if result.Output != "" {
			resp.AddText(result.Output)
		}
		return resp
	}

	resp := tool.NewTextResponse(
		fmt.Sprintf("✅ %s %s succeeded for scheme %s.", cmdCtx.LogPrefix, action, params.Scheme))
	if tail := outputTail(result.Output, 20); tail != "" {
		resp.AddText(tail)
	}
	return resp
}

// outputTail returns the last n lines of output, for success summaries.
func outputTail(output string, n int) string {
	output = strings.TrimSpace(output)
	if output == "" {
		return ""
	}
	lines := strings.Split(output, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
