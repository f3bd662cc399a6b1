package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

const banner = `
  ██╗  ██╗ ██████╗ ██████╗ ██████╗ ███████╗███╗   ███╗ ██████╗██████╗
  ╚██╗██╔╝██╔════╝██╔═══██╗██╔══██╗██╔════╝████╗ ████║██╔════╝██╔══██╗
   ╚███╔╝ ██║     ██║   ██║██║  ██║█████╗  ██╔████╔██║██║     ██████╔╝
   ██╔██╗ ██║     ██║   ██║██║  ██║██╔══╝  ██║╚██╔╝██║██║     ██╔═══╝
  ██╔╝ ██╗╚██████╗╚██████╔╝██████╔╝███████╗██║ ╚═╝ ██║╚██████╗██║
  ╚═╝  ╚═╝ ╚═════╝ ╚═════╝ ╚═════╝ ╚══════╝╚═╝     ╚═╝ ╚═════╝╚═╝`

const tagline = "Xcode builds, simulators and devices over the Model Context Protocol"

// PrintBanner prints the banner with version info. Suppressed in quiet mode
// and when stdout is not a terminal.
func PrintBanner(version string) {
	if quietMode || !IsTTY() {
		return
	}

	styledBanner := lipgloss.NewStyle().
		Foreground(Blue).
		Bold(true).
		Render(banner)

	fmt.Println(styledBanner)
	fmt.Println()

	taglineStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		PaddingLeft(2)
	fmt.Println(taglineStyle.Render(tagline))
	fmt.Println()

	infoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		PaddingLeft(2)
	fmt.Println(infoStyle.Render(fmt.Sprintf("Version: %s", version)))
	fmt.Println()
}
