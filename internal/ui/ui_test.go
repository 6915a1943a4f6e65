package ui

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pranavj13/agentdesk/internal/types"
)

func newReadyModel(info Info) Model {
	m := NewModel(nil, info)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

func TestBanner(t *testing.T) {
	b := Banner()
	if b == "" {
		t.Fatal("banner is empty")
	}
	if !strings.Contains(b, "Console Harness") {
		t.Fatalf("banner missing tagline: %q", b)
	}
}

func TestHandleCommand_Tools(t *testing.T) {
	m := newReadyModel(Info{
		ScenarioTitle: "Function calling",
		Tools:         []string{"get_weather", "get_stock_price"},
	})

	cmd := (&m).handleCommand("tools")
	if cmd != nil {
		t.Fatal("tools command must not produce a tea.Cmd")
	}
	last := m.messages[len(m.messages)-1]
	if last.role != "system" {
		t.Fatalf("expected system message, got %s", last.role)
	}
	if !strings.Contains(last.content, "get_weather") {
		t.Fatalf("tools listing missing tool: %q", last.content)
	}
}

func TestHandleCommand_ClearEmptiesHistory(t *testing.T) {
	m := newReadyModel(Info{})
	m.messages = append(m.messages, chatMessage{role: "user", content: "hi"})

	(&m).handleCommand("clear")
	if len(m.messages) != 0 {
		t.Fatalf("expected empty history, got %d messages", len(m.messages))
	}
}

func TestAgentEvent_RespondingAppendsToolBoxesAndReply(t *testing.T) {
	m := newReadyModel(Info{})

	event := types.AgentEvent{
		State:       types.StateResponding,
		FinalAnswer: "It is raining in Seattle.",
		ToolRuns: []types.ToolRun{{
			CallID:    "call_1",
			Name:      "get_weather",
			Arguments: json.RawMessage(`{"city":"Seattle"}`),
			Output:    json.RawMessage(`{"temp_c":14.5}`),
			Duration:  12 * time.Millisecond,
		}},
	}

	updated, _ := m.Update(event)
	nm := updated.(Model)

	if nm.state != types.StateIdle {
		t.Fatalf("model must return to idle, got %v", nm.state)
	}
	if len(nm.messages) != 2 {
		t.Fatalf("expected tool box + agent reply, got %d messages", len(nm.messages))
	}
	if nm.messages[0].role != "tool" || nm.messages[1].role != "agent" {
		t.Fatalf("wrong message order: %s, %s", nm.messages[0].role, nm.messages[1].role)
	}
}

func TestAgentEvent_ErrorBecomesSystemMessage(t *testing.T) {
	m := newReadyModel(Info{})

	updated, _ := m.Update(types.AgentEvent{
		State: types.StateError,
		Error: errors.New("turn timed out"),
	})
	nm := updated.(Model)

	last := nm.messages[len(nm.messages)-1]
	if last.role != "system" || !strings.Contains(last.content, "turn timed out") {
		t.Fatalf("error not surfaced: %+v", last)
	}
	if nm.state != types.StateIdle {
		t.Fatalf("model must return to idle after error, got %v", nm.state)
	}
}

func TestRenderToolRun(t *testing.T) {
	m := newReadyModel(Info{})

	ok := m.RenderToolRun(types.ToolRun{
		Name:      "lookup_order",
		Arguments: json.RawMessage(`{"order_id": "ORD-1001"}`),
		Output:    json.RawMessage(`{"status":"shipped"}`),
	})
	if !strings.Contains(ok, "lookup_order") || !strings.Contains(ok, "Success") {
		t.Fatalf("success box malformed: %q", ok)
	}

	failed := m.RenderToolRun(types.ToolRun{
		Name:    "lookup_order",
		Output:  json.RawMessage(`{"error":"order not found"}`),
		IsError: true,
	})
	if !strings.Contains(failed, "Failed") || !strings.Contains(failed, "order not found") {
		t.Fatalf("failure box malformed: %q", failed)
	}
}

func TestCompactJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a": 1,  "b": "x"}`, `{"a":1,"b":"x"}`},
		{`not json`, `not json`},
		{``, ``},
	}
	for _, tt := range tests {
		if got := compactJSON(json.RawMessage(tt.in)); got != tt.want {
			t.Errorf("compactJSON(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
