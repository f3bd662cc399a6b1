// Package main provides the MCP commands for the xcodebuildmcp CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/xcodebuildmcp/xcodebuildmcp/internal/mcp"
	"github.com/xcodebuildmcp/xcodebuildmcp/internal/ui"
)

// mcpCmd is the parent command for MCP operations.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long: `MCP (Model Context Protocol) server commands.

The MCP server lets AI agents drive Xcode builds, simulators, devices and
Swift Packages through the Model Context Protocol.

Commands:
  serve  - Start the MCP server over stdio`,
}

// mcpServeCmd starts the MCP server.
var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP server over stdio",
	Long: `Start the xcodebuildmcp server over stdio.

This command starts an MCP server that communicates via JSON-RPC over
stdin/stdout. It is designed to be launched by AI hosts like Cursor or
Claude Desktop; never run it interactively.

Session defaults are seeded from .xcodebuildmcp/config.yaml in the working
directory when the file exists.

Example Cursor configuration:
  {
    "mcpServers": {
      "xcodebuildmcp": {
        "command": "xcodebuildmcp",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
}

// runMCPServe starts the MCP server and blocks until the client disconnects.
func runMCPServe(cmd *cobra.Command, args []string) error {
	server, err := mcp.NewServer(version)
	if err != nil {
		ui.PrintError("Failed to create MCP server: %v", err)
		return err
	}
	return server.Run(cmd.Context())
}
