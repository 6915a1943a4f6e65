package agentsvc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type recordedRequest struct {
	method string
	path   string
	query  string
	auth   string
	body   map[string]any
}

// newTestClient spins up a server that answers every request with respond
// and records what it saw.
func newTestClient(t *testing.T, status int, respond any) (*Client, *recordedRequest) {
	t.Helper()
	rec := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.query = r.URL.RawQuery
		rec.auth = r.Header.Get("Authorization")
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&rec.body)
		}
		w.WriteHeader(status)
		if respond != nil {
			_ = json.NewEncoder(w).Encode(respond)
		}
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", 5*time.Second), rec
}

func TestClient_CreateAgent(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, AgentConfig{ID: "agent_abc", Model: "gpt-4o"})

	created, err := c.CreateAgent(context.Background(), AgentConfig{
		Model:        "gpt-4o",
		Name:         "helper",
		Instructions: "be brief",
	})
	if err != nil {
		t.Fatalf("CreateAgent: %v", err)
	}
	if created.ID != "agent_abc" {
		t.Fatalf("expected service-assigned ID, got %q", created.ID)
	}
	if rec.method != http.MethodPost || rec.path != "/v1/agents" {
		t.Fatalf("wrong request: %s %s", rec.method, rec.path)
	}
	if rec.auth != "Bearer test-key" {
		t.Fatalf("missing bearer auth, got %q", rec.auth)
	}
	if rec.body["instructions"] != "be brief" {
		t.Fatalf("instructions not sent: %v", rec.body)
	}
}

func TestClient_AddMessageWrapsContentBlock(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, nil)

	if err := c.AddMessage(context.Background(), "conv_1", RoleUser, "hello"); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	if rec.path != "/v1/conversations/conv_1/messages" {
		t.Fatalf("wrong path %s", rec.path)
	}
	if rec.body["role"] != RoleUser {
		t.Fatalf("wrong role: %v", rec.body)
	}
	blocks, _ := rec.body["content"].([]any)
	if len(blocks) != 1 {
		t.Fatalf("expected one content block, got %v", rec.body["content"])
	}
	block := blocks[0].(map[string]any)
	if block["type"] != ContentText || block["text"] != "hello" {
		t.Fatalf("wrong content block: %v", block)
	}
}

func TestClient_ListMessagesOrderAndUnwrap(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, map[string]any{
		"data": []Message{
			{ID: "msg_2", Role: RoleAgent, Content: []ContentBlock{{Type: ContentText, Text: "newest"}}},
			{ID: "msg_1", Role: RoleUser, Content: []ContentBlock{{Type: ContentText, Text: "oldest"}}},
		},
	})

	msgs, err := c.ListMessages(context.Background(), "conv_1", OrderDesc)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if rec.query != "order=desc" {
		t.Fatalf("expected order=desc, got %q", rec.query)
	}
	if len(msgs) != 2 || msgs[0].ID != "msg_2" {
		t.Fatalf("data envelope not unwrapped: %+v", msgs)
	}
	if msgs[0].Text() != "newest" {
		t.Fatalf("expected newest text, got %q", msgs[0].Text())
	}
}

func TestClient_SubmitToolOutputs(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, Run{ID: "run_1", Status: StatusInProgress})

	run, err := c.SubmitToolOutputs(context.Background(), "conv_1", "run_1", []ToolOutput{
		{CallID: "call_1", Output: json.RawMessage(`{"ok":true}`)},
	})
	if err != nil {
		t.Fatalf("SubmitToolOutputs: %v", err)
	}
	if rec.path != "/v1/conversations/conv_1/runs/run_1/submit_tool_outputs" {
		t.Fatalf("wrong path %s", rec.path)
	}
	outputs, _ := rec.body["tool_outputs"].([]any)
	if len(outputs) != 1 {
		t.Fatalf("expected one output, got %v", rec.body)
	}
	if run.Status != StatusInProgress {
		t.Fatalf("expected resumed run, got %s", run.Status)
	}
}

func TestClient_ServiceErrorCarriesBody(t *testing.T) {
	c, _ := newTestClient(t, http.StatusTooManyRequests, map[string]string{
		"code":    "rate_limited",
		"message": "slow down",
	})

	_, err := c.CreateRun(context.Background(), "conv_1", "agent_1")
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected ServiceError, got %v", err)
	}
	if svcErr.StatusCode != http.StatusTooManyRequests || svcErr.Code != "rate_limited" {
		t.Fatalf("error body not decoded: %+v", svcErr)
	}
}

func TestClient_ServiceErrorWithJunkBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream down</html>"))
	}))
	defer srv.Close()
	c := NewClient(srv.URL, "", time.Second)

	err := c.DeleteAgent(context.Background(), "agent_1")
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected ServiceError, got %v", err)
	}
	if svcErr.StatusCode != http.StatusBadGateway || svcErr.Message == "" {
		t.Fatalf("expected HTTP status preserved, got %+v", svcErr)
	}
}

func TestClient_NoAuthHeaderWithoutKey(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	if err := c.DeleteFile(context.Background(), "file_1"); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no auth header, got %q", gotAuth)
	}
}

func TestRunStatus_TerminalAndKnown(t *testing.T) {
	tests := []struct {
		status   RunStatus
		terminal bool
		known    bool
	}{
		{StatusQueued, false, true},
		{StatusInProgress, false, true},
		{StatusRequiresAction, false, true},
		{StatusCompleted, true, true},
		{StatusFailed, true, true},
		{StatusCancelled, true, true},
		{RunStatus("expired"), false, false},
	}
	for _, tt := range tests {
		if got := tt.status.Terminal(); got != tt.terminal {
			t.Errorf("%s.Terminal() = %v, want %v", tt.status, got, tt.terminal)
		}
		if got := tt.status.Known(); got != tt.known {
			t.Errorf("%s.Known() = %v, want %v", tt.status, got, tt.known)
		}
	}
}

func TestSchema_InlinesProperties(t *testing.T) {
	type params struct {
		City string `json:"city" jsonschema:"description=City name"`
	}
	s := Schema(params{})
	if s == nil {
		t.Fatal("expected a schema")
	}
	if s.Properties == nil {
		t.Fatal("expected inlined properties on the top-level schema")
	}
	if _, ok := s.Properties.Get("city"); !ok {
		t.Fatal("expected city property")
	}
}
