// Package turn drives one conversational turn against the remote agent
// service: submit the user message, poll the run, execute any requested tool
// calls, and read back the reply.
//
// Every scenario in the harness goes through this one loop; the run-status
// state machine is implemented here and nowhere else.
package turn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pranavj13/agentdesk/internal/agentsvc"
	"github.com/pranavj13/agentdesk/internal/types"
)

// NoResponse is returned when a run completes but the conversation holds no
// agent message. A correctly completed run should never produce it.
const NoResponse = "[no response]"

// Service is the slice of the agent-service client a turn needs.
type Service interface {
	CreateConversation(ctx context.Context) (string, error)
	AddMessage(ctx context.Context, conversationID, role, text string) error
	CreateRun(ctx context.Context, conversationID, agentID string) (*agentsvc.Run, error)
	GetRun(ctx context.Context, conversationID, runID string) (*agentsvc.Run, error)
	SubmitToolOutputs(ctx context.Context, conversationID, runID string, outputs []agentsvc.ToolOutput) (*agentsvc.Run, error)
	CancelRun(ctx context.Context, conversationID, runID string) error
	ListMessages(ctx context.Context, conversationID string, order agentsvc.ListOrder) ([]agentsvc.Message, error)
}

// Dispatcher executes one tool call. It must be total: any input yields a
// payload, never an error.
type Dispatcher interface {
	Dispatch(name string, args json.RawMessage) json.RawMessage
}

// ErrToolRounds reports that a single run asked for tool execution more
// times than the configured cap allows.
var ErrToolRounds = errors.New("tool-call round limit exceeded")

// ErrTimeout reports that a run stayed non-terminal past the configured
// wall-clock budget. Cancellation has already been attempted when it is
// returned.
var ErrTimeout = errors.New("turn timed out")

// RunFailedError carries the service-provided detail of a failed or
// cancelled run.
type RunFailedError struct {
	RunID   string
	Status  agentsvc.RunStatus
	Code    string
	Message string
}

func (e *RunFailedError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("run %s %s: %s", e.RunID, e.Status, e.Message)
	}
	return fmt.Sprintf("run %s %s", e.RunID, e.Status)
}

// Options tune the polling loop.
type Options struct {
	// PollInterval is the fixed wait between status checks. Constant, not
	// exponential; the exponential backoff lives in the retry package.
	PollInterval time.Duration
	// Timeout is the wall-clock budget for the whole turn. Exceeding it
	// triggers a best-effort cancel and fails the turn.
	Timeout time.Duration
	// MaxToolRounds caps requires_action round-trips within one run.
	MaxToolRounds int
}

// DefaultOptions returns the demo defaults.
func DefaultOptions() Options {
	return Options{
		PollInterval:  500 * time.Millisecond,
		Timeout:       60 * time.Second,
		MaxToolRounds: 5,
	}
}

// Executor drives turns for any number of independent conversations. It
// holds no per-conversation state.
type Executor struct {
	svc    Service
	tools  Dispatcher
	opts   Options
	logger *zap.Logger
}

// NewExecutor creates a turn executor. Zero option fields fall back to
// DefaultOptions.
func NewExecutor(svc Service, tools Dispatcher, opts Options, logger *zap.Logger) *Executor {
	def := DefaultOptions()
	if opts.PollInterval <= 0 {
		opts.PollInterval = def.PollInterval
	}
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.MaxToolRounds <= 0 {
		opts.MaxToolRounds = def.MaxToolRounds
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{svc: svc, tools: tools, opts: opts, logger: logger}
}

// Result is the outcome of one turn. ConversationID is set as soon as the
// conversation exists, so callers can clean up even after a failed turn.
type Result struct {
	ConversationID string
	RunID          string
	Reply          string
	ToolRuns       []types.ToolRun
	Rounds         int
}

// ExecuteTurn submits userText to the conversation (creating it first when
// conversationID is empty) and drives the resulting run to a terminal state.
// On success Reply holds the newest agent message text.
func (e *Executor) ExecuteTurn(ctx context.Context, agentID, conversationID, userText string) (*Result, error) {
	res := &Result{ConversationID: conversationID}

	if res.ConversationID == "" {
		id, err := e.svc.CreateConversation(ctx)
		if err != nil {
			return res, fmt.Errorf("create conversation: %w", err)
		}
		res.ConversationID = id
		e.logger.Debug("conversation created", zap.String("conversation_id", id))
	}

	if err := e.svc.AddMessage(ctx, res.ConversationID, agentsvc.RoleUser, userText); err != nil {
		return res, fmt.Errorf("append user message: %w", err)
	}

	run, err := e.svc.CreateRun(ctx, res.ConversationID, agentID)
	if err != nil {
		return res, fmt.Errorf("create run: %w", err)
	}
	res.RunID = run.ID
	e.logger.Debug("run created",
		zap.String("conversation_id", res.ConversationID),
		zap.String("run_id", run.ID))

	deadline := time.Now().Add(e.opts.Timeout)

	for {
		switch run.Status {
		case agentsvc.StatusCompleted:
			reply, err := e.readReply(ctx, res.ConversationID)
			if err != nil {
				return res, err
			}
			res.Reply = reply
			return res, nil

		case agentsvc.StatusFailed, agentsvc.StatusCancelled:
			ferr := &RunFailedError{RunID: run.ID, Status: run.Status}
			if run.LastError != nil {
				ferr.Code = run.LastError.Code
				ferr.Message = run.LastError.Message
			}
			return res, ferr

		case agentsvc.StatusRequiresAction:
			res.Rounds++
			if res.Rounds > e.opts.MaxToolRounds {
				e.cancel(ctx, res.ConversationID, run.ID)
				return res, fmt.Errorf("run %s: %w after %d rounds", run.ID, ErrToolRounds, e.opts.MaxToolRounds)
			}
			run, err = e.handleToolCalls(ctx, res, run)
			if err != nil {
				return res, err
			}
			// Re-evaluate the run returned by the submission directly; it
			// may already be terminal or asking again.
			continue

		case agentsvc.StatusQueued, agentsvc.StatusInProgress:
			// Still working; fall through to the poll wait.

		default:
			return res, fmt.Errorf("protocol error: unrecognized run status %q", run.Status)
		}

		if time.Now().After(deadline) {
			e.cancel(ctx, res.ConversationID, run.ID)
			return res, fmt.Errorf("run %s: %w after %s", run.ID, ErrTimeout, e.opts.Timeout)
		}

		if err := sleep(ctx, e.opts.PollInterval); err != nil {
			return res, err
		}

		run, err = e.svc.GetRun(ctx, res.ConversationID, run.ID)
		if err != nil {
			return res, fmt.Errorf("poll run: %w", err)
		}
	}
}

// handleToolCalls dispatches every pending call and submits all outputs as
// one batch. Dispatch never errors, so a paused run always gets an answer
// for each call.
func (e *Executor) handleToolCalls(ctx context.Context, res *Result, run *agentsvc.Run) (*agentsvc.Run, error) {
	if run.RequiredAction == nil || len(run.RequiredAction.ToolCalls) == 0 {
		return nil, fmt.Errorf("protocol error: run %s requires action but carries no tool calls", run.ID)
	}

	calls := run.RequiredAction.ToolCalls
	outputs := make([]agentsvc.ToolOutput, 0, len(calls))

	for _, call := range calls {
		start := time.Now()
		payload := e.tools.Dispatch(call.Name, call.Arguments)
		elapsed := time.Since(start)

		tr := types.ToolRun{
			CallID:    call.ID,
			Name:      call.Name,
			Arguments: call.Arguments,
			Output:    payload,
			IsError:   isErrorPayload(payload),
			Duration:  elapsed,
		}
		res.ToolRuns = append(res.ToolRuns, tr)

		e.logger.Info("tool executed",
			zap.String("run_id", run.ID),
			zap.String("tool", call.Name),
			zap.Bool("is_error", tr.IsError),
			zap.Duration("duration", elapsed))

		outputs = append(outputs, agentsvc.ToolOutput{CallID: call.ID, Output: payload})
	}

	next, err := e.svc.SubmitToolOutputs(ctx, res.ConversationID, run.ID, outputs)
	if err != nil {
		return nil, fmt.Errorf("submit tool outputs: %w", err)
	}
	return next, nil
}

// readReply returns the text of the newest agent-authored message.
func (e *Executor) readReply(ctx context.Context, conversationID string) (string, error) {
	msgs, err := e.svc.ListMessages(ctx, conversationID, agentsvc.OrderDesc)
	if err != nil {
		return "", fmt.Errorf("list messages: %w", err)
	}
	for _, m := range msgs {
		if m.Role == agentsvc.RoleAgent {
			return m.Text(), nil
		}
	}
	return NoResponse, nil
}

// cancel issues a best-effort cancel. The service owns final run state; a
// failed cancel is logged and swallowed, and the client does not wait for
// the cancelled confirmation.
func (e *Executor) cancel(ctx context.Context, conversationID, runID string) {
	if err := e.svc.CancelRun(ctx, conversationID, runID); err != nil {
		e.logger.Warn("cancel run failed",
			zap.String("run_id", runID),
			zap.Error(err))
	}
}

func isErrorPayload(payload json.RawMessage) bool {
	var p struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		return false
	}
	return p.Error != ""
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
