package scenarios

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/pranavj13/agentdesk/internal/agentsvc"
	"github.com/pranavj13/agentdesk/internal/dispatch"
	"github.com/pranavj13/agentdesk/internal/retry"
	"github.com/pranavj13/agentdesk/internal/turn"
	"github.com/pranavj13/agentdesk/internal/types"
	"github.com/pranavj13/agentdesk/internal/validator"
)

// FallbackReply is shown when turn execution exhausts its retry budget.
const FallbackReply = "service temporarily unavailable"

// Service is everything a session needs from the agent-service client.
type Service interface {
	turn.Service
	CreateAgent(ctx context.Context, cfg agentsvc.AgentConfig) (*agentsvc.AgentConfig, error)
	DeleteAgent(ctx context.Context, agentID string) error
	DeleteConversation(ctx context.Context, conversationID string) error
	UploadFile(ctx context.Context, filename string, content []byte) (*agentsvc.FileHandle, error)
	DeleteFile(ctx context.Context, fileID string) error
	CreateVectorStore(ctx context.Context, name string, fileIDs []string) (*agentsvc.VectorStore, error)
	DeleteVectorStore(ctx context.Context, storeID string) error
}

// Options wires a session.
type Options struct {
	Model  string
	Turn   turn.Options
	Retry  retry.Policy
	Logger *zap.Logger
}

// Session owns the service-side handles for one live scenario: the agent
// config, the conversation, and any file-search resources. Close releases
// them best-effort.
type Session struct {
	scenario Scenario
	svc      Service
	registry *dispatch.Registry
	exec     *turn.Executor
	policy   retry.Policy
	prompts  *validator.PromptValidator
	logger   *zap.Logger

	agentID        string
	conversationID string
	vectorStoreID  string
	fileID         string
}

// NewSession provisions the scenario's agent configuration (and, for
// file-search scenarios, its document resources) against the service.
// Creation goes through the retry wrapper and propagates the final error;
// the caller reports it and keeps going.
func NewSession(ctx context.Context, sc Scenario, svc Service, registry *dispatch.Registry, opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Session{
		scenario: sc,
		svc:      svc,
		registry: registry,
		exec:     turn.NewExecutor(svc, registry, opts.Turn, logger),
		policy:   opts.Retry,
		prompts:  validator.NewPromptValidator(),
		logger:   logger,
	}

	var resources *agentsvc.ToolResources
	if sc.FileSearch {
		if err := s.provisionFileSearch(ctx); err != nil {
			s.Close(ctx)
			return nil, err
		}
		resources = &agentsvc.ToolResources{VectorStoreIDs: []string{s.vectorStoreID}}
	}

	defs, err := s.toolDefs()
	if err != nil {
		s.Close(ctx)
		return nil, err
	}

	created, err := retry.Do(ctx, logger, s.policy, "create agent config",
		func(ctx context.Context) (*agentsvc.AgentConfig, error) {
			return svc.CreateAgent(ctx, agentsvc.AgentConfig{
				Model:         opts.Model,
				Name:          "agentdesk-" + sc.Name,
				Instructions:  sc.Instructions,
				Tools:         defs,
				ToolResources: resources,
			})
		})
	if err != nil {
		s.Close(ctx)
		return nil, fmt.Errorf("create agent config: %w", err)
	}
	s.agentID = created.ID

	logger.Info("session ready",
		zap.String("scenario", sc.Name),
		zap.String("agent_id", s.agentID))
	return s, nil
}

// toolDefs resolves the scenario's declared tool names against the registry.
func (s *Session) toolDefs() ([]agentsvc.ToolDef, error) {
	defs := make([]agentsvc.ToolDef, 0, len(s.scenario.Tools))
	for _, name := range s.scenario.Tools {
		t, ok := s.registry.Get(name)
		if !ok {
			return nil, fmt.Errorf("scenario %s declares unregistered tool %q", s.scenario.Name, name)
		}
		defs = append(defs, t.Def)
	}
	return defs, nil
}

// provisionFileSearch uploads the sample document and indexes it.
func (s *Session) provisionFileSearch(ctx context.Context) error {
	file, err := retry.Do(ctx, s.logger, s.policy, "upload document",
		func(ctx context.Context) (*agentsvc.FileHandle, error) {
			return s.svc.UploadFile(ctx, "product-overview.md", []byte(SampleDocument()))
		})
	if err != nil {
		return fmt.Errorf("upload document: %w", err)
	}
	s.fileID = file.ID

	store, err := retry.Do(ctx, s.logger, s.policy, "create vector store",
		func(ctx context.Context) (*agentsvc.VectorStore, error) {
			return s.svc.CreateVectorStore(ctx, "agentdesk-"+s.scenario.Name, []string{file.ID})
		})
	if err != nil {
		return fmt.Errorf("create vector store: %w", err)
	}
	s.vectorStoreID = store.ID
	return nil
}

// Ask drives one turn through the retry wrapper. Retry exhaustion comes back
// as the fixed fallback reply, never as an error; only caller cancellation
// surfaces one.
func (s *Session) Ask(ctx context.Context, text string) types.AgentEvent {
	text = s.prompts.Sanitize(text)
	if err := s.prompts.Validate(text); err != nil {
		return types.AgentEvent{State: types.StateError, Error: err}
	}

	var toolRuns []types.ToolRun

	reply, err := retry.DoFallback(ctx, s.logger, s.policy, "execute turn", FallbackReply,
		func(ctx context.Context) (string, error) {
			res, execErr := s.exec.ExecuteTurn(ctx, s.agentID, s.conversationID, text)
			if res != nil {
				// The conversation survives a failed run; keep its handle so
				// the next attempt (and cleanup) reuses it.
				if res.ConversationID != "" {
					s.conversationID = res.ConversationID
				}
				toolRuns = append(toolRuns, res.ToolRuns...)
			}
			if execErr != nil {
				return "", execErr
			}
			return res.Reply, nil
		})
	if err != nil {
		return types.AgentEvent{State: types.StateError, Error: err}
	}

	return types.AgentEvent{
		State:       types.StateResponding,
		ToolRuns:    toolRuns,
		FinalAnswer: reply,
	}
}

// ProcessQueryCmd returns a Bubble Tea command that runs one turn.
func (s *Session) ProcessQueryCmd(query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		return s.Ask(ctx, query)
	}
}

// Scenario returns the scenario this session runs.
func (s *Session) Scenario() Scenario {
	return s.scenario
}

// ConversationID returns the current conversation handle, empty before the
// first turn.
func (s *Session) ConversationID() string {
	return s.conversationID
}

// Close releases every service-side handle the session acquired, in
// dependency order: conversation, agent config, then vector store before the
// file it indexes. Failures are logged and swallowed; Close never reports an
// error and is safe to call more than once.
func (s *Session) Close(ctx context.Context) {
	release := func(kind, id string, fn func(context.Context, string) error) {
		if id == "" {
			return
		}
		if err := fn(ctx, id); err != nil {
			s.logger.Warn("cleanup failed",
				zap.String("resource", kind),
				zap.String("id", id),
				zap.Error(err))
		}
	}

	release("conversation", s.conversationID, s.svc.DeleteConversation)
	release("agent config", s.agentID, s.svc.DeleteAgent)
	release("vector store", s.vectorStoreID, s.svc.DeleteVectorStore)
	release("file", s.fileID, s.svc.DeleteFile)

	s.conversationID = ""
	s.agentID = ""
	s.vectorStoreID = ""
	s.fileID = ""
}
