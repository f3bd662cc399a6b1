package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xcodebuildmcp/xcodebuildmcp/internal/executor"
	"github.com/xcodebuildmcp/xcodebuildmcp/internal/tool"
	"github.com/xcodebuildmcp/xcodebuildmcp/internal/xcodebuild"
)

// buildInput is the shared parameter surface of the xcodebuild tools.
type buildInput struct {
	ProjectPath      string   `json:"projectPath,omitempty"`
	WorkspacePath    string   `json:"workspacePath,omitempty"`
	Scheme           string   `json:"scheme,omitempty"`
	Configuration    string   `json:"configuration,omitempty"`
	Platform         string   `json:"platform,omitempty"`
	SimulatorID      string   `json:"simulatorId,omitempty"`
	SimulatorName    string   `json:"simulatorName,omitempty"`
	UseLatestOS      bool     `json:"useLatestOS,omitempty"`
	Arch             string   `json:"arch,omitempty"`
	DerivedDataPath  string   `json:"derivedDataPath,omitempty"`
	ExtraArgs        []string `json:"extraArgs,omitempty"`
	PreferXcodebuild bool     `json:"preferXcodebuild,omitempty"`
}

// buildSessionKeys are the fields resolvable from session defaults for every
// xcodebuild-backed tool.
var buildSessionKeys = []string{
	"projectPath", "workspacePath", "scheme", "configuration", "platform",
	"simulatorId", "simulatorName", "useLatestOS", "arch",
	"derivedDataPath", "preferXcodebuild",
}

// resolveBuildRequest maps the tool input onto a structured build request.
// An empty platform defaults to macOS.
func resolveBuildRequest(in buildInput) (xcodebuild.BuildParams, xcodebuild.CommandContext, *tool.Response) {
	platform := xcodebuild.PlatformMacOS
	if in.Platform != "" {
		p, err := xcodebuild.ParsePlatform(in.Platform)
		if err != nil {
			return xcodebuild.BuildParams{}, xcodebuild.CommandContext{},
				tool.NewErrorResponsef("❌ %v", err)
		}
		platform = p
	}

	params := xcodebuild.BuildParams{
		ProjectPath:      in.ProjectPath,
		WorkspacePath:    in.WorkspacePath,
		Scheme:           in.Scheme,
		Configuration:    in.Configuration,
		DerivedDataPath:  in.DerivedDataPath,
		ExtraArgs:        in.ExtraArgs,
		Arch:             in.Arch,
		SimulatorID:      in.SimulatorID,
		SimulatorName:    in.SimulatorName,
		UseLatestOS:      in.UseLatestOS,
		PreferXcodebuild: in.PreferXcodebuild,
	}
	cmdCtx := xcodebuild.CommandContext{
		Platform:  platform,
		LogPrefix: string(platform),
	}
	return params, cmdCtx, nil
}

func (s *Server) buildTool() *tool.Definition[buildInput] {
	return &tool.Definition[buildInput]{
		Name:        "build",
		Description: "Build an Xcode project or workspace scheme with xcodebuild. Provide exactly one of projectPath or workspacePath. Platform defaults to macOS; simulator platforms accept simulatorId or simulatorName for the destination.",
		Required:    []string{"scheme"},
		SessionKeys: buildSessionKeys,
		Logic: func(ctx context.Context, in buildInput, exec executor.Executor) *tool.Response {
			params, cmdCtx, errResp := resolveBuildRequest(in)
			if errResp != nil {
				return errResp
			}
			return xcodebuild.ExecuteCommand(ctx, params, cmdCtx, xcodebuild.ActionBuild, exec)
		},
	}
}

func (s *Server) testTool() *tool.Definition[buildInput] {
	return &tool.Definition[buildInput]{
		Name:        "test",
		Description: "Run tests for an Xcode scheme with xcodebuild test. Same parameter surface as build.",
		Required:    []string{"scheme"},
		SessionKeys: buildSessionKeys,
		Logic: func(ctx context.Context, in buildInput, exec executor.Executor) *tool.Response {
			params, cmdCtx, errResp := resolveBuildRequest(in)
			if errResp != nil {
				return errResp
			}
			return xcodebuild.ExecuteCommand(ctx, params, cmdCtx, xcodebuild.ActionTest, exec)
		},
	}
}

func (s *Server) cleanTool() *tool.Definition[buildInput] {
	return &tool.Definition[buildInput]{
		Name:        "clean",
		Description: "Clean build products for an Xcode scheme with xcodebuild clean.",
		Required:    []string{"scheme"},
		SessionKeys: buildSessionKeys,
		Logic: func(ctx context.Context, in buildInput, exec executor.Executor) *tool.Response {
			params, cmdCtx, errResp := resolveBuildRequest(in)
			if errResp != nil {
				return errResp
			}
			return xcodebuild.ExecuteCommand(ctx, params, cmdCtx, xcodebuild.ActionClean, exec)
		},
	}
}

func (s *Server) showBuildSettingsTool() *tool.Definition[buildInput] {
	return &tool.Definition[buildInput]{
		Name:        "show_build_settings",
		Description: "Show the raw xcodebuild -showBuildSettings output for a scheme.",
		Required:    []string{"scheme"},
		SessionKeys: buildSessionKeys,
		Logic: func(ctx context.Context, in buildInput, exec executor.Executor) *tool.Response {
			params, cmdCtx, errResp := resolveBuildRequest(in)
			if errResp != nil {
				return errResp
			}
			settings, err := xcodebuild.ShowBuildSettings(ctx, params, cmdCtx, exec)
			if err != nil {
				return tool.NewErrorResponsef("❌ Failed to get build settings for scheme %s: %v", in.Scheme, err)
			}
			return tool.NewTextResponse(
				fmt.Sprintf("✅ Build settings for scheme %s:", in.Scheme),
				settings,
			)
		},
	}
}

func (s *Server) getAppPathTool() *tool.Definition[buildInput] {
	return &tool.Definition[buildInput]{
		Name:        "get_app_path",
		Description: "Resolve the built .app bundle path for a scheme from its build settings (BUILT_PRODUCTS_DIR + FULL_PRODUCT_NAME).",
		Required:    []string{"scheme"},
		SessionKeys: buildSessionKeys,
		Logic: func(ctx context.Context, in buildInput, exec executor.Executor) *tool.Response {
			params, cmdCtx, errResp := resolveBuildRequest(in)
			if errResp != nil {
				return errResp
			}
			appPath, err := xcodebuild.ResolveAppPath(ctx, params, cmdCtx, exec)
			if err != nil {
				if errors.Is(err, xcodebuild.ErrAppPathNotFound) {
					return tool.NewErrorResponse(
						"❌ Could not extract app path from build settings",
						fmt.Sprintf("Build the scheme first (build tool with scheme %s), then try again.", in.Scheme),
					)
				}
				return tool.NewErrorResponsef("❌ Failed to resolve app path: %v", err)
			}
			resp := tool.NewTextResponse(fmt.Sprintf("✅ App path: %s", appPath))
			if cmdCtx.Platform.IsSimulator() {
				resp.WithNextStep(map[string]any{
					"tool":    "install_app_sim",
					"appPath": appPath,
				})
			}
			return resp
		},
	}
}

func (s *Server) buildRunTool() *tool.Definition[buildInput] {
	return &tool.Definition[buildInput]{
		Name:        "build_run",
		Description: "Build a macOS scheme and launch the built app. Builds, resolves the app path from build settings, then opens the bundle.",
		Required:    []string{"scheme"},
		SessionKeys: buildSessionKeys,
		Logic: func(ctx context.Context, in buildInput, exec executor.Executor) *tool.Response {
			params, cmdCtx, errResp := resolveBuildRequest(in)
			if errResp != nil {
				return errResp
			}

			buildResp := xcodebuild.ExecuteCommand(ctx, params, cmdCtx, xcodebuild.ActionBuild, exec)
			if buildResp.IsError {
				return buildResp
			}

			appPath, err := xcodebuild.ResolveAppPath(ctx, params, cmdCtx, exec)
			if err != nil {
				return tool.NewErrorResponsef("❌ Build succeeded but the app path could not be resolved: %v", err)
			}

			result, err := exec.Execute(ctx, []string{"open", appPath}, "Launch Built App", false, nil)
			if err != nil {
				return tool.NewErrorResponsef("❌ Failed to launch %s: %v", appPath, err)
			}
			if !result.Success {
				return tool.NewErrorResponsef("❌ Failed to launch %s: %s", appPath, result.Error)
			}

			return buildResp.AddText(fmt.Sprintf("✅ Launched %s", appPath))
		},
	}
}

// listSchemesInput only needs the container.
type listSchemesInput struct {
	ProjectPath   string `json:"projectPath,omitempty"`
	WorkspacePath string `json:"workspacePath,omitempty"`
}

func (s *Server) listSchemesTool() *tool.Definition[listSchemesInput] {
	return &tool.Definition[listSchemesInput]{
		Name:        "list_schemes",
		Description: "List the schemes of an Xcode project or workspace via xcodebuild -list.",
		SessionKeys: []string{"projectPath", "workspacePath"},
		Logic: func(ctx context.Context, in listSchemesInput, exec executor.Executor) *tool.Response {
			if v := tool.ValidateExactlyOne([]string{"projectPath", "workspacePath"}, in.ProjectPath, in.WorkspacePath); !v.IsValid {
				return v.ErrorResponse
			}

			args := []string{"xcodebuild", "-list"}
			if in.ProjectPath != "" {
				args = append(args, "-project", in.ProjectPath)
			} else {
				args = append(args, "-workspace", in.WorkspacePath)
			}

			result, err := exec.Execute(ctx, args, "List Schemes", false, nil)
			if err != nil {
				return tool.NewErrorResponsef("❌ Failed to list schemes: %v", err)
			}
			if !result.Success {
				return tool.NewErrorResponsef("❌ Failed to list schemes: %s", result.Error)
			}

			schemes := parseSchemes(result.Output)
			if len(schemes) == 0 {
				return tool.NewTextResponse("No schemes found.")
			}
			lines := []string{fmt.Sprintf("✅ Found %d scheme(s):", len(schemes))}
			for _, scheme := range schemes {
				lines = append(lines, "  - "+scheme)
			}
			return tool.NewTextResponse(strings.Join(lines, "\n"))
		},
	}
}

// parseSchemes extracts the scheme names from xcodebuild -list output: the
// indented lines following the "Schemes:" header, up to the next blank line.
func parseSchemes(output string) []string {
	var schemes []string
	inSchemes := false
	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "Schemes:") {
			inSchemes = true
			continue
		}
		if !inSchemes {
			continue
		}
		if trimmed == "" {
			break
		}
		schemes = append(schemes, trimmed)
	}
	return schemes
}
