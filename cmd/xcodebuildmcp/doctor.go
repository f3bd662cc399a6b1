// Package main provides the doctor command for CLI diagnostics.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xcodebuildmcp/xcodebuildmcp/internal/doctor"
	"github.com/xcodebuildmcp/xcodebuildmcp/internal/executor"
	"github.com/xcodebuildmcp/xcodebuildmcp/internal/ui"
)

var doctorOutputJSON bool

// doctorCmd runs diagnostic checks on the local toolchain.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the required platform tools are installed",
	Long: `Run diagnostic checks on the local Apple toolchain.

CHECKS PERFORMED:
  - xcodebuild (xcodebuild -version)
  - simctl (xcrun simctl help)
  - devicectl (xcrun devicectl --version)
  - swift (swift --version)
  - axe (axe --version, optional UI automation helper)

OUTPUT:
  Human-readable by default, JSON with --json flag.`,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorOutputJSON, "json", false, "Output results as JSON")
}

// runDoctor executes all diagnostic checks.
func runDoctor(cmd *cobra.Command, args []string) error {
	result := doctor.Run(cmd.Context(), executor.NewShellExecutor())

	if doctorOutputJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		if !result.Healthy {
			return fmt.Errorf("%d check(s) failed", result.Issues)
		}
		return nil
	}

	ui.PrintBanner(version)
	for _, c := range result.Checks {
		if c.Status == "ok" {
			ui.PrintSuccess("%s: %s", c.Name, c.Message)
		} else {
			ui.PrintError("%s: %s", c.Name, c.Message)
		}
	}
	if !result.Healthy {
		ui.PrintWarning("%d check(s) failed", result.Issues)
		return fmt.Errorf("%d check(s) failed", result.Issues)
	}
	ui.PrintInfo("All checks passed")
	return nil
}
