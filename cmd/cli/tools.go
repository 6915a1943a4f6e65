package main

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pranavj13/agentdesk/internal/toolbox"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List available tools",
	Long: `List every locally-simulated tool the harness can declare to the
agent service. When a run pauses with a tool request, these handlers execute
it and the result is submitted back.

Examples:
  agentdesk tools           # List all tools
  agentdesk tools --verbose # Include parameter schemas`,
	Run: func(cmd *cobra.Command, args []string) {
		runTools()
	},
}

func runTools() {
	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true)

	toolStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F59E0B")).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#9CA3AF"))

	paramStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#06B6D4"))

	registry := toolbox.DefaultRegistry(zap.NewNop())

	fmt.Println(headerStyle.Render("Available Tools"))
	fmt.Println()

	defs := registry.Definitions()
	for _, def := range defs {
		fmt.Printf("  %s\n", toolStyle.Render(def.Name))
		fmt.Printf("    %s\n", descStyle.Render(def.Description))

		if verbose && def.Parameters != nil {
			schema, err := json.MarshalIndent(def.Parameters, "    ", "  ")
			if err == nil {
				fmt.Printf("    %s\n", paramStyle.Render(string(schema)))
			}
		}
		fmt.Println()
	}

	fmt.Println(descStyle.Render(fmt.Sprintf("  Total: %d tools available", len(defs))))

	if !verbose {
		fmt.Println(descStyle.Render("  Use --verbose for parameter schemas"))
	}
}
