// Package mcp provides the MCP (Model Context Protocol) server implementation.
//
// This package implements an MCP server exposing Xcode build, simulator,
// device and Swift Package operations as tools that can be called by AI
// agents via the MCP protocol. Every tool funnels through the typed-tool
// factory in internal/tool and executes external commands through the
// injected executor.
package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"os"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/xcodebuildmcp/xcodebuildmcp/internal/config"
	"github.com/xcodebuildmcp/xcodebuildmcp/internal/executor"
	"github.com/xcodebuildmcp/xcodebuildmcp/internal/filesystem"
	"github.com/xcodebuildmcp/xcodebuildmcp/internal/logcap"
	"github.com/xcodebuildmcp/xcodebuildmcp/internal/process"
	"github.com/xcodebuildmcp/xcodebuildmcp/internal/session"
	"github.com/xcodebuildmcp/xcodebuildmcp/internal/tool"
)

// Server wires the session store, process registry, log-capture manager and
// executor provider into an MCP server over stdio.
type Server struct {
	mcpServer *mcp.Server
	store     *session.Store
	registry  *process.Registry
	logs      *logcap.Manager
	fs        filesystem.FileSystem
	provider  executor.Provider
	workDir   string
	version   string
}

// NewServer creates a server for production use: a real shell executor, the
// OS filesystem, and session defaults seeded from .xcodebuildmcp/config.yaml
// in the working directory.
func NewServer(version string) (*Server, error) {
	workDir, err := os.Getwd()
	if err != nil {
		workDir = "."
	}

	store := session.NewStore()
	cfgPath := config.Path(workDir)
	if cfg, err := config.Load(cfgPath); err != nil {
		log.Warn("Failed to load config, starting with empty defaults", "path", cfgPath, "error", err)
	} else {
		cfg.Seed(store)
	}

	s := newServer(store, filesystem.NewOSFileSystem(), func() executor.Executor {
		return executor.NewShellExecutor()
	}, workDir, version)
	return s, nil
}

// newServer assembles a server from explicit collaborators. Tests construct
// stores and filesystems directly and skip config seeding.
func newServer(store *session.Store, fs filesystem.FileSystem, provider executor.Provider, workDir, version string) *Server {
	s := &Server{
		store:    store,
		registry: process.NewRegistry(),
		logs:     logcap.NewManager(""),
		fs:       fs,
		provider: provider,
		workDir:  workDir,
		version:  version,
	}

	s.mcpServer = mcp.NewServer(
		&mcp.Implementation{
			Name:    "xcodebuildmcp",
			Version: version,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server over stdio and blocks until the client
// disconnects. Background processes and log captures are torn down on exit.
func (s *Server) Run(ctx context.Context) error {
	defer func() {
		s.registry.ForceTerminateAll()
		s.logs.StopAll()
	}()
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// sessionDefaults adapts the store to the factory's defaults hook.
func (s *Server) sessionDefaults() map[string]any {
	return s.store.GetAll()
}

// registerTools registers every tool with the MCP server.
func (s *Server) registerTools() {
	// Build and test
	addTool(s, s.buildTool())
	addTool(s, s.testTool())
	addTool(s, s.cleanTool())
	addTool(s, s.showBuildSettingsTool())
	addTool(s, s.getAppPathTool())
	addTool(s, s.buildRunTool())
	addTool(s, s.listSchemesTool())

	// Simulator
	addTool(s, s.listSimsTool())
	addTool(s, s.bootSimTool())
	addTool(s, s.openSimTool())
	addTool(s, s.installAppSimTool())
	addTool(s, s.launchAppSimTool())
	addTool(s, s.stopAppSimTool())
	addTool(s, s.screenshotTool())
	addTool(s, s.simPushTool())

	// Device
	addTool(s, s.listDevicesTool())

	// Swift Package
	addTool(s, s.swiftPackageRunTool())
	addTool(s, s.swiftPackageStopTool())

	// Log capture
	addTool(s, s.startSimLogCaptureTool())
	addTool(s, s.stopSimLogCaptureTool())

	// Session defaults
	addTool(s, s.sessionSetDefaultsTool())
	addTool(s, s.sessionGetDefaultsTool())
	addTool(s, s.sessionClearDefaultsTool())
	addTool(s, s.sessionUseDefaultsProfileTool())

	// Diagnostics
	addTool(s, s.doctorTool())
}

// addTool bridges a typed-tool definition into the SDK's registration. The
// SDK delivers raw arguments as a map; the factory handler performs
// session-default injection and validation before the tool's logic runs.
func addTool[In any](s *Server, def *tool.Definition[In]) {
	handler := def.Handler(s.sessionDefaults, s.provider)
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        def.Name,
		Description: def.Description,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
		return toCallToolResult(handler(ctx, args, nil)), nil, nil
	})
}

// toCallToolResult converts the uniform response envelope into the SDK's
// wire shape. Failure stays in-band via IsError; the protocol layer never
// sees a Go error for a failed tool.
func toCallToolResult(r *tool.Response) *mcp.CallToolResult {
	out := &mcp.CallToolResult{IsError: r.IsError}
	for _, c := range r.Content {
		switch c.Type {
		case tool.ContentTypeImage:
			data, err := base64.StdEncoding.DecodeString(c.Data)
			if err != nil {
				out.Content = append(out.Content, &mcp.TextContent{Text: "Invalid image payload in tool response."})
				continue
			}
			out.Content = append(out.Content, &mcp.ImageContent{Data: data, MIMEType: c.MimeType})
		default:
			out.Content = append(out.Content, &mcp.TextContent{Text: c.Text})
		}
	}
	if r.NextStepParams != nil {
		if b, err := json.MarshalIndent(r.NextStepParams, "", "  "); err == nil {
			out.Content = append(out.Content, &mcp.TextContent{Text: "Next step parameters:\n" + string(b)})
		}
	}
	return out
}
