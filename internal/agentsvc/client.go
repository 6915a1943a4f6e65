package agentsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client talks to the remote agent service over HTTP+JSON. It holds no
// per-conversation state and is safe for use from multiple conversations at
// once; the service is the sole arbiter of ordering within a conversation.
//
// Construct it explicitly and pass it down. There is intentionally no
// package-level singleton.
type Client struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewClient returns a client for the service at endpoint. The timeout bounds
// each individual request, not a whole run.
func NewClient(endpoint, apiKey string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Buffer
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewBuffer(data)
	} else {
		body = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		svcErr := &ServiceError{StatusCode: resp.StatusCode, Message: resp.Status}
		// Error body is best-effort; keep the HTTP status if it is junk.
		_ = json.NewDecoder(resp.Body).Decode(svcErr)
		return svcErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// CreateAgent registers an agent configuration and returns it with its
// service-assigned ID.
func (c *Client) CreateAgent(ctx context.Context, cfg AgentConfig) (*AgentConfig, error) {
	var out AgentConfig
	if err := c.do(ctx, http.MethodPost, "/v1/agents", cfg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAgent removes an agent configuration.
func (c *Client) DeleteAgent(ctx context.Context, agentID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/agents/"+url.PathEscape(agentID), nil, nil)
}

// CreateConversation opens a new empty conversation and returns its handle.
func (c *Client) CreateConversation(ctx context.Context) (string, error) {
	var out Conversation
	if err := c.do(ctx, http.MethodPost, "/v1/conversations", struct{}{}, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// DeleteConversation removes a conversation and everything it owns.
func (c *Client) DeleteConversation(ctx context.Context, conversationID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/conversations/"+url.PathEscape(conversationID), nil, nil)
}

// AddMessage appends a message to a conversation. Messages are immutable
// once appended.
func (c *Client) AddMessage(ctx context.Context, conversationID, role, text string) error {
	in := struct {
		Role    string         `json:"role"`
		Content []ContentBlock `json:"content"`
	}{
		Role:    role,
		Content: []ContentBlock{{Type: ContentText, Text: text}},
	}
	path := "/v1/conversations/" + url.PathEscape(conversationID) + "/messages"
	return c.do(ctx, http.MethodPost, path, in, nil)
}

// ListMessages returns the conversation's messages in the given order.
func (c *Client) ListMessages(ctx context.Context, conversationID string, order ListOrder) ([]Message, error) {
	var out struct {
		Data []Message `json:"data"`
	}
	path := "/v1/conversations/" + url.PathEscape(conversationID) + "/messages?order=" + url.QueryEscape(string(order))
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// CreateRun asks the service to generate a response to the current
// conversation state using the given agent configuration.
func (c *Client) CreateRun(ctx context.Context, conversationID, agentID string) (*Run, error) {
	in := struct {
		AgentID string `json:"agent_id"`
	}{AgentID: agentID}
	var out Run
	path := "/v1/conversations/" + url.PathEscape(conversationID) + "/runs"
	if err := c.do(ctx, http.MethodPost, path, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetRun fetches the current state of a run.
func (c *Client) GetRun(ctx context.Context, conversationID, runID string) (*Run, error) {
	var out Run
	path := "/v1/conversations/" + url.PathEscape(conversationID) + "/runs/" + url.PathEscape(runID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitToolOutputs answers a requires_action run with one batch of tool
// results so the service can resume it.
func (c *Client) SubmitToolOutputs(ctx context.Context, conversationID, runID string, outputs []ToolOutput) (*Run, error) {
	in := struct {
		ToolOutputs []ToolOutput `json:"tool_outputs"`
	}{ToolOutputs: outputs}
	var out Run
	path := "/v1/conversations/" + url.PathEscape(conversationID) + "/runs/" + url.PathEscape(runID) + "/submit_tool_outputs"
	if err := c.do(ctx, http.MethodPost, path, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelRun requests cancellation of a non-terminal run. The service owns
// final run state, so this is advisory.
func (c *Client) CancelRun(ctx context.Context, conversationID, runID string) error {
	path := "/v1/conversations/" + url.PathEscape(conversationID) + "/runs/" + url.PathEscape(runID) + "/cancel"
	return c.do(ctx, http.MethodPost, path, struct{}{}, nil)
}

// UploadFile stores a named blob with the service for later indexing.
func (c *Client) UploadFile(ctx context.Context, filename string, content []byte) (*FileHandle, error) {
	in := struct {
		Filename string `json:"filename"`
		Content  []byte `json:"content"`
		Purpose  string `json:"purpose"`
	}{Filename: filename, Content: content, Purpose: "agents"}
	var out FileHandle
	if err := c.do(ctx, http.MethodPost, "/v1/files", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteFile removes an uploaded file.
func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/files/"+url.PathEscape(fileID), nil, nil)
}

// CreateVectorStore builds a service-side search index over the given files.
func (c *Client) CreateVectorStore(ctx context.Context, name string, fileIDs []string) (*VectorStore, error) {
	in := struct {
		Name    string   `json:"name"`
		FileIDs []string `json:"file_ids"`
	}{Name: name, FileIDs: fileIDs}
	var out VectorStore
	if err := c.do(ctx, http.MethodPost, "/v1/vector_stores", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteVectorStore removes a search index. Delete stores before the files
// they reference.
func (c *Client) DeleteVectorStore(ctx context.Context, storeID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/vector_stores/"+url.PathEscape(storeID), nil, nil)
}
