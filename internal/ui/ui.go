// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pranavj13/agentdesk/internal/types"
)

// Info describes the active scenario for the help and tools commands.
type Info struct {
	ScenarioTitle string
	Tools         []string
	Samples       []string
}

// Model is the Bubble Tea model for the demo harness UI.
type Model struct {
	// UI components
	textInput textinput.Model
	spinner   spinner.Model
	viewport  viewport.Model
	styles    Styles

	// State
	state    types.AgentState
	messages []chatMessage
	info     Info
	width    int
	height   int
	ready    bool
	quitting bool
	err      error

	// Turn driver (injected)
	processQuery func(query string) tea.Cmd
}

// chatMessage represents a message in the chat history.
type chatMessage struct {
	role    string // "user", "agent", "system", "tool"
	content string
	tool    *types.ToolRun
}

// NewModel creates a new UI model.
func NewModel(processQuery func(query string) tea.Cmd, info Info) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask something... (e.g., 'What's the weather in Seattle?')"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 80

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED"))

	vp := viewport.New(0, 0)
	vp.KeyMap = viewport.DefaultKeyMap()

	return Model{
		textInput:    ti,
		spinner:      s,
		viewport:     vp,
		styles:       DefaultStyles(),
		state:        types.StateIdle,
		messages:     make([]chatMessage, 0),
		info:         info,
		processQuery: processQuery,
	}
}

// Run starts the interactive UI and blocks until it exits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
	)
}

// headerHeight returns the number of terminal lines occupied by the banner.
func (m Model) headerHeight() int {
	banner := m.styles.BannerTitle.Render(Banner())
	return lipgloss.Height(banner) + 2 // +2 for the two "\n" after the banner
}

// footerHeight returns the number of terminal lines occupied by the input + help bar.
func (m Model) footerHeight() int {
	// 1 blank line + 1 prompt/input line + 1 newline + 1 help bar = 4
	return 4
}

// updateViewport rebuilds the viewport content and scrolls to the bottom.
func (m *Model) updateViewport() {
	var b strings.Builder

	for _, msg := range m.messages {
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}

	if m.state != types.StateIdle {
		b.WriteString(m.renderStatus())
		b.WriteString("\n")
	}

	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			if m.state == types.StateIdle {
				m.quitting = true
				return m, tea.Quit
			}
			m.state = types.StateIdle
			return m, nil

		case tea.KeyEnter:
			if m.state != types.StateIdle {
				return m, nil
			}

			query := strings.TrimSpace(m.textInput.Value())
			if query == "" {
				return m, nil
			}

			if cmd := m.handleCommand(query); cmd != nil {
				m.updateViewport()
				return m, cmd
			}

			m.messages = append(m.messages, chatMessage{
				role:    "user",
				content: query,
			})

			m.textInput.SetValue("")
			m.state = types.StateThinking
			m.updateViewport()

			if m.processQuery != nil {
				cmds = append(cmds, m.processQuery(query))
			}

			return m, tea.Batch(cmds...)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 10

		vpWidth := msg.Width
		vpHeight := msg.Height - m.headerHeight() - m.footerHeight()
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(vpWidth, vpHeight)
			m.viewport.KeyMap = viewport.DefaultKeyMap()
		} else {
			m.viewport.Width = vpWidth
			m.viewport.Height = vpHeight
		}

		m.ready = true
		m.updateViewport()

	case types.AgentEvent:
		newModel, cmd := m.handleAgentEvent(msg)
		nm := newModel.(Model)
		nm.updateViewport()
		return nm, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
		// Refresh viewport to update spinner frame
		m.updateViewport()
	}

	// Forward key events to the input only while idle
	if m.state == types.StateIdle {
		var tiCmd tea.Cmd
		m.textInput, tiCmd = m.textInput.Update(msg)
		cmds = append(cmds, tiCmd)
	}

	var vpCmd tea.Cmd
	m.viewport, vpCmd = m.viewport.Update(msg)
	cmds = append(cmds, vpCmd)

	return m, tea.Batch(cmds...)
}

// handleCommand processes special commands.
func (m *Model) handleCommand(input string) tea.Cmd {
	switch strings.ToLower(input) {
	case "exit", "quit", "q":
		m.quitting = true
		return tea.Quit

	case "clear":
		m.messages = make([]chatMessage, 0)
		m.textInput.SetValue("")
		return nil

	case "help", "?":
		var b strings.Builder
		b.WriteString("Available commands:\n")
		b.WriteString("  help, ?     Show this help\n")
		b.WriteString("  clear       Clear chat history\n")
		b.WriteString("  tools       List declared tools\n")
		b.WriteString("  exit, quit  Exit the harness\n")
		if len(m.info.Samples) > 0 {
			b.WriteString("\nExample prompts:\n")
			for _, s := range m.info.Samples {
				b.WriteString(fmt.Sprintf("  %q\n", s))
			}
		}
		m.messages = append(m.messages, chatMessage{role: "system", content: b.String()})
		m.textInput.SetValue("")
		return nil

	case "tools":
		content := "This scenario declares no tools; the agent answers directly."
		if len(m.info.Tools) > 0 {
			content = "Tools declared to the agent service:\n  " + strings.Join(m.info.Tools, "\n  ")
		}
		m.messages = append(m.messages, chatMessage{role: "system", content: content})
		m.textInput.SetValue("")
		return nil
	}

	return nil
}

// handleAgentEvent processes events from the turn driver.
func (m Model) handleAgentEvent(event types.AgentEvent) (tea.Model, tea.Cmd) {
	m.state = event.State

	switch event.State {
	case types.StateResponding:
		for i := range event.ToolRuns {
			tr := event.ToolRuns[i]
			m.messages = append(m.messages, chatMessage{role: "tool", tool: &tr})
		}
		if event.FinalAnswer != "" {
			m.messages = append(m.messages, chatMessage{
				role:    "agent",
				content: event.FinalAnswer,
			})
		}
		m.state = types.StateIdle

	case types.StateError:
		m.err = event.Error
		errText := "An error occurred"
		if event.Error != nil {
			errText = event.Error.Error()
		}
		m.messages = append(m.messages, chatMessage{
			role:    "system",
			content: fmt.Sprintf("Error: %s", errText),
		})
		m.state = types.StateIdle
	}

	return m, m.spinner.Tick
}

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return m.styles.SystemMessage.Render("Goodbye!\n")
	}

	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder

	// Fixed header: banner
	b.WriteString(m.styles.BannerTitle.Render(Banner()))
	b.WriteString("\n\n")

	// Scrollable middle: viewport
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	// Fixed footer: input + help bar
	b.WriteString(m.styles.Prompt.Render("> "))
	if m.state == types.StateIdle {
		b.WriteString(m.textInput.View())
	} else {
		b.WriteString(m.styles.StatusText.Render("(processing...)"))
	}
	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())

	return m.styles.App.Render(b.String())
}

// renderMessage renders a single chat message.
func (m Model) renderMessage(msg chatMessage) string {
	switch msg.role {
	case "user":
		return m.styles.UserMessage.Render("You: " + msg.content)

	case "agent":
		return m.styles.AgentMessage.Render("Agent: " + msg.content)

	case "system":
		return m.styles.SystemMessage.Render(msg.content)

	case "tool":
		if msg.tool != nil {
			return m.RenderToolRun(*msg.tool)
		}
	}
	return ""
}

// RenderToolRun renders a completed tool execution box.
func (m Model) RenderToolRun(t types.ToolRun) string {
	var b strings.Builder

	b.WriteString(m.styles.ToolName.Render("Tool: " + t.Name))
	if args := compactJSON(t.Arguments); args != "" && args != "{}" {
		b.WriteString(" ")
		b.WriteString(m.styles.ToolParams.Render(args))
	}
	b.WriteString("\n")

	if t.IsError {
		b.WriteString(m.styles.ToolError.Render("  Failed: " + compactJSON(t.Output)))
		b.WriteString("\n")
	} else {
		b.WriteString(m.styles.ToolSuccess.Render("  Success"))
		if t.Duration > 0 {
			b.WriteString(m.styles.ToolParams.Render(fmt.Sprintf(" (%s)", t.Duration)))
		}
		b.WriteString("\n")
		output := compactJSON(t.Output)
		if len(output) > 300 {
			output = output[:300] + "..."
		}
		if output != "" {
			b.WriteString(m.styles.ToolOutput.Render("  | " + output))
			b.WriteString("\n")
		}
	}

	return m.styles.ToolBox.Render(b.String())
}

// renderStatus renders the current processing status.
func (m Model) renderStatus() string {
	return fmt.Sprintf("%s %s",
		m.spinner.View(),
		m.styles.StateLabel.Render(m.state.String()+"..."),
	)
}

// renderHelpBar renders the bottom help bar.
func (m Model) renderHelpBar() string {
	help := []string{
		m.styles.HelpKey.Render("enter") + m.styles.HelpValue.Render(" send"),
		m.styles.HelpKey.Render("ctrl+c") + m.styles.HelpValue.Render(" quit"),
		m.styles.HelpKey.Render("help") + m.styles.HelpValue.Render(" commands"),
		m.styles.HelpKey.Render("tools") + m.styles.HelpValue.Render(" list tools"),
	}
	return m.styles.HelpBar.Render(strings.Join(help, "  |  "))
}

// compactJSON renders a raw JSON payload on one line.
func compactJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var buf strings.Builder
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return string(raw)
	}
	out, err := json.Marshal(v)
	if err != nil {
		return string(raw)
	}
	buf.Write(out)
	return buf.String()
}
