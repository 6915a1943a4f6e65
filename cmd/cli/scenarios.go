package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/pranavj13/agentdesk/internal/scenarios"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List demo scenarios",
	Long:  "List the demo scenarios and the tools each one declares.",
	Run: func(cmd *cobra.Command, args []string) {
		runScenarios()
	},
}

func runScenarios() {
	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true)

	nameStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F59E0B")).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#9CA3AF"))

	toolStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#06B6D4"))

	fmt.Println(headerStyle.Render("Demo Scenarios"))
	fmt.Println()

	for _, sc := range scenarios.All() {
		fmt.Printf("  %s  %s\n", nameStyle.Render(sc.Name), sc.Title)
		fmt.Printf("    %s\n", descStyle.Render(sc.Description))
		if len(sc.Tools) > 0 {
			fmt.Printf("    Tools: %s\n", toolStyle.Render(strings.Join(sc.Tools, ", ")))
		}
		if sc.FileSearch {
			fmt.Printf("    %s\n", descStyle.Render("Uploads a sample document and attaches a vector store."))
		}
		fmt.Println()
	}

	fmt.Println(descStyle.Render("  Run one with: agentdesk --scenario <name> \"your question\""))
}
