package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pranavj13/agentdesk/internal/agentsvc"
	"github.com/pranavj13/agentdesk/internal/config"
	"github.com/pranavj13/agentdesk/internal/retry"
	"github.com/pranavj13/agentdesk/internal/scenarios"
	"github.com/pranavj13/agentdesk/internal/toolbox"
	"github.com/pranavj13/agentdesk/internal/turn"
	"github.com/pranavj13/agentdesk/internal/types"
	"github.com/pranavj13/agentdesk/internal/ui"
)

var (
	configPath   string
	verbose      bool
	interactive  bool
	scenarioName string
)

var rootCmd = &cobra.Command{
	Use:   "agentdesk [query]",
	Short: "Console harness for the cloud agent service",
	Long: `agentdesk drives conversational turns against a remote agent service:
it creates an agent configuration, posts your message, polls the run, executes
any tool calls the service requests locally, and prints the reply.

Usage:
  agentdesk --scenario functions "What's the weather in Seattle?"
  agentdesk --it`,

	Run: func(cmd *cobra.Command, args []string) {
		if interactive {
			runInteractive()
			return
		}
		if len(args) > 0 {
			runOneShot(args)
			return
		}
		cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&interactive, "it", false, "Start interactive mode")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&scenarioName, "scenario", "functions", "Scenario to run (see 'agentdesk scenarios')")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(scenariosCmd)
	rootCmd.AddCommand(versionCmd)
}

func runInteractive() {
	session, cleanup := initSession()
	defer cleanup()

	sc := session.Scenario()
	model := ui.NewModel(session.ProcessQueryCmd, ui.Info{
		ScenarioTitle: sc.Title,
		Tools:         sc.Tools,
		Samples:       sc.Samples,
	})
	if err := ui.Run(model); err != nil {
		printError("UI error", err)
	}
}

func runOneShot(args []string) {
	query := strings.Join(args, " ")
	session, cleanup := initSession()
	defer cleanup()

	styles := ui.DefaultStyles()
	fmt.Println(styles.UserMessage.Render("You: " + query))

	event := session.Ask(context.Background(), query)
	printEvent(event)
}

// initSession loads config, wires the client and registry, and provisions
// the scenario against the service. The returned cleanup releases every
// service-side handle and must run on all exit paths.
func initSession() (*scenarios.Session, func()) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Warning: Could not load config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	logger := createLogger()

	sc, err := scenarios.Find(scenarioName)
	if err != nil {
		printError("Unknown scenario", err)
		fmt.Println("Run 'agentdesk scenarios' to list the available ones.")
		os.Exit(1)
	}

	client := agentsvc.NewClient(cfg.Service.Endpoint, cfg.Service.APIKey, cfg.RequestTimeout())
	registry := toolbox.DefaultRegistry(logger)

	fmt.Print(lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).
		Render(fmt.Sprintf("Setting up scenario %q... ", sc.Name)))

	session, err := scenarios.NewSession(context.Background(), sc, client, registry, scenarios.Options{
		Model: cfg.Agent.Model,
		Turn: turn.Options{
			PollInterval:  cfg.PollInterval(),
			Timeout:       cfg.TurnTimeout(),
			MaxToolRounds: cfg.Turn.MaxToolRounds,
		},
		Retry: retry.Policy{
			MaxAttempts: cfg.Retry.MaxAttempts,
			BaseDelay:   cfg.RetryBaseDelay(),
		},
		Logger: logger,
	})
	if err != nil {
		fmt.Println(lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Render("✗"))
		printError("Failed to set up scenario", err)
		printConnectionHelp(cfg)
		os.Exit(1)
	}
	fmt.Println(lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Render("✓"))
	fmt.Printf("Using model: %s\n", cfg.Agent.Model)

	cleanup := func() {
		session.Close(context.Background())
		_ = logger.Sync()
	}
	return session, cleanup
}

func printEvent(event types.AgentEvent) {
	styles := ui.DefaultStyles()

	if event.State == types.StateError {
		printError("Turn failed", event.Error)
		return
	}

	renderer := ui.NewModel(nil, ui.Info{})
	for _, tr := range event.ToolRuns {
		fmt.Println(renderer.RenderToolRun(tr))
	}
	fmt.Println(styles.AgentMessage.Render("Agent: " + event.FinalAnswer))
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	return config.LoadFromPaths(
		"agentdesk.local.yaml",
		"agentdesk.yaml",
	)
}

func createLogger() *zap.Logger {
	if verbose {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}

func printError(msg string, err error) {
	fmt.Println(lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).
		Render(fmt.Sprintf("Error: %s: %v", msg, err)))
}

func printConnectionHelp(cfg *config.Config) {
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	cmdStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))

	fmt.Println(errStyle.Render("Could not reach the agent service at " + cfg.Service.Endpoint))
	fmt.Println()
	fmt.Println(helpStyle.Render("Check the service endpoint and API key:"))
	fmt.Println(cmdStyle.Render("  Edit agentdesk.yaml and set service.endpoint / service.api_key"))
	fmt.Println()
	fmt.Println(helpStyle.Render("Or override via environment:"))
	fmt.Println(cmdStyle.Render("  AGENTDESK_SERVICE_ENDPOINT=https://... AGENTDESK_SERVICE_API_KEY=..."))
}
