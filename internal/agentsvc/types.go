// Package agentsvc is the client for the remote agent service. The service
// owns all of the hard parts (inference, tool planning, file search); this
// package only models its wire surface: agent configs, conversations,
// messages, runs, and the tool-call handshake.
package agentsvc

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/invopop/jsonschema"
)

// RunStatus is the lifecycle state of a run as reported by the service.
type RunStatus string

const (
	StatusQueued         RunStatus = "queued"
	StatusInProgress     RunStatus = "in_progress"
	StatusRequiresAction RunStatus = "requires_action"
	StatusCompleted      RunStatus = "completed"
	StatusFailed         RunStatus = "failed"
	StatusCancelled      RunStatus = "cancelled"
)

// Terminal reports whether no further transitions are possible.
func (s RunStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Known reports whether the status is part of the documented state machine.
// Anything else coming off the wire is a protocol error.
func (s RunStatus) Known() bool {
	switch s {
	case StatusQueued, StatusInProgress, StatusRequiresAction,
		StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Run is one attempt by the service to produce a response to the current
// conversation state. The client never mutates a run except through
// SubmitToolOutputs or CancelRun.
type Run struct {
	ID             string          `json:"id"`
	ConversationID string          `json:"conversation_id"`
	Status         RunStatus       `json:"status"`
	RequiredAction *RequiredAction `json:"required_action,omitempty"`
	LastError      *RunError       `json:"last_error,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// RequiredAction carries the tool calls the service is blocked on.
type RequiredAction struct {
	ToolCalls []ToolCall `json:"tool_calls"`
}

// RunError is the error payload attached to a failed run.
type RunError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ToolCall is a request from the service to execute a named local function.
// It only exists inside a requires_action run and is never persisted past it.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolOutput is the result of a tool call, keyed by the call ID it answers.
type ToolOutput struct {
	CallID string          `json:"call_id"`
	Output json.RawMessage `json:"output"`
}

// Message roles as the service reports them.
const (
	RoleUser  = "user"
	RoleAgent = "agent"
)

// Content block kinds. The set is closed; unknown kinds are preserved but
// contribute no text.
const (
	ContentText      = "text"
	ContentImageFile = "image_file"
)

// ContentBlock is one typed piece of message content.
type ContentBlock struct {
	Type   string `json:"type"`
	Text   string `json:"text,omitempty"`
	FileID string `json:"file_id,omitempty"`
}

// Message is one immutable entry in a conversation.
type Message struct {
	ID        string         `json:"id"`
	Role      string         `json:"role"`
	Content   []ContentBlock `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
}

// Text concatenates the text blocks of the message.
func (m Message) Text() string {
	var out string
	for _, b := range m.Content {
		if b.Type == ContentText {
			out += b.Text
		}
	}
	return out
}

// ToolDef declares a callable function to the service: a name, a description
// for the planner, and a JSON-Schema parameter object. The schema is handed
// to the service verbatim and never interpreted locally.
type ToolDef struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
}

// ToolResources points an agent config at service-side resources, e.g. the
// vector stores backing file search.
type ToolResources struct {
	VectorStoreIDs []string `json:"vector_store_ids,omitempty"`
}

// AgentConfig is the named bundle of model, instructions, and declared tools
// that runs are created against.
type AgentConfig struct {
	ID            string         `json:"id"`
	Model         string         `json:"model"`
	Name          string         `json:"name"`
	Instructions  string         `json:"instructions"`
	Tools         []ToolDef      `json:"tools,omitempty"`
	ToolResources *ToolResources `json:"tool_resources,omitempty"`
}

// Conversation is the service-side handle for an ordered, append-only
// message sequence.
type Conversation struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// FileHandle identifies an uploaded file.
type FileHandle struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Bytes    int    `json:"bytes"`
}

// VectorStore identifies a service-side search index built over files.
type VectorStore struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Status string   `json:"status"`
	Files  []string `json:"file_ids,omitempty"`
}

// ListOrder controls message listing direction.
type ListOrder string

const (
	OrderAsc  ListOrder = "asc"
	OrderDesc ListOrder = "desc"
)

// ServiceError is a non-2xx answer from the service.
type ServiceError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *ServiceError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("agent service: %s (%s, HTTP %d)", e.Message, e.Code, e.StatusCode)
	}
	return fmt.Sprintf("agent service: %s (HTTP %d)", e.Message, e.StatusCode)
}

// Schema builds the JSON-Schema parameter object for a tool from a Go
// params struct. Definitions are inlined so the service receives a single
// self-contained object.
func Schema(v any) *jsonschema.Schema {
	r := jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	return r.Reflect(v)
}
