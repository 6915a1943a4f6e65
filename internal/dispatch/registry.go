// Package dispatch maps tool-call names to local handlers and executes them.
//
// Dispatch is total: whatever the service sends — an unknown name, malformed
// arguments, a handler that errors or panics — the caller always gets back a
// JSON payload, never an error and never a panic. A paused run must always
// be resumable with some output for every call.
package dispatch

import (
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/pranavj13/agentdesk/internal/agentsvc"
)

// Handler executes one tool call against already-decoded arguments.
type Handler func(args map[string]any) (any, error)

// Tool pairs a service-facing definition with its local handler.
type Tool struct {
	Def agentsvc.ToolDef
	Run Handler
}

// Registry manages tool registration and lookup.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]Tool
	logger *zap.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		tools:  make(map[string]Tool),
		logger: logger,
	}
}

// Register adds a tool to the registry.
func (r *Registry) Register(t Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.Def.Name == "" {
		return fmt.Errorf("tool has no name")
	}
	if t.Run == nil {
		return fmt.Errorf("tool %s has no handler", t.Def.Name)
	}
	if _, exists := r.tools[t.Def.Name]; exists {
		return fmt.Errorf("tool already registered: %s", t.Def.Name)
	}

	r.tools[t.Def.Name] = t
	return nil
}

// MustRegister adds a tool to the registry, panicking on error.
func (r *Registry) MustRegister(t Tool) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, exists := r.tools[name]
	return t, exists
}

// List returns all registered tool names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	return names
}

// Definitions returns the declared tool schemas for agent-config creation.
func (r *Registry) Definitions() []agentsvc.ToolDef {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]agentsvc.ToolDef, 0, len(r.tools))
	for _, t := range r.tools {
		defs = append(defs, t.Def)
	}
	return defs
}

// errorPayload is the structured-error shape handed back to the service in
// place of a real result.
type errorPayload struct {
	Error string `json:"error"`
}

// Dispatch executes the named tool against raw JSON arguments and returns a
// JSON payload. Failures of any kind come back as an error payload; retries,
// if wanted, belong to the caller.
func (r *Registry) Dispatch(name string, args json.RawMessage) json.RawMessage {
	tool, exists := r.Get(name)
	if !exists {
		return errJSON(fmt.Sprintf("Unknown function: %s", name))
	}

	params := map[string]any{}
	if len(args) > 0 {
		if err := json.Unmarshal(args, &params); err != nil {
			return errJSON(fmt.Sprintf("invalid arguments for %s: %v", name, err))
		}
	}

	result, err := r.run(tool, params)
	if err != nil {
		r.logger.Warn("tool execution failed",
			zap.String("tool", name),
			zap.Error(err))
		return errJSON(err.Error())
	}

	out, err := json.Marshal(result)
	if err != nil {
		return errJSON(fmt.Sprintf("unencodable result from %s: %v", name, err))
	}
	return out
}

// run invokes the handler with panic containment.
func (r *Registry) run(tool Tool, params map[string]any) (result any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("tool %s panicked: %v", tool.Def.Name, rec)
		}
	}()
	return tool.Run(params)
}

func errJSON(msg string) json.RawMessage {
	out, err := json.Marshal(errorPayload{Error: msg})
	if err != nil {
		// The payload is a plain string; this cannot fail.
		return json.RawMessage(`{"error":"internal dispatch error"}`)
	}
	return out
}
