// Package types defines shared data structures for the demo harness.
package types

import (
	"encoding/json"
	"time"
)

// AgentState represents the current state of turn processing.
type AgentState int

const (
	StateIdle AgentState = iota
	StateThinking
	StateToolExecuting
	StateResponding
	StateError
)

// String returns a human-readable state name.
func (s AgentState) String() string {
	names := [...]string{
		"Idle",
		"Thinking",
		"Executing tools",
		"Responding",
		"Error",
	}
	if int(s) < len(names) {
		return names[s]
	}
	return "Unknown"
}

// ToolRun records one tool call executed during a turn.
type ToolRun struct {
	CallID    string          `json:"call_id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
	Output    json.RawMessage `json:"output"`
	IsError   bool            `json:"is_error"`
	Duration  time.Duration   `json:"duration"`
}

// AgentEvent is sent during turn processing to update the UI.
type AgentEvent struct {
	State       AgentState
	Message     string
	ToolRuns    []ToolRun
	FinalAnswer string
	Error       error
}
