package bridge

import (
	"context"
	"encoding/json"
)

// Command names exposed by the native backend. The chat-state service only
// forwards these; their execution semantics live on the other side of the
// bridge.
const (
	CmdSendChatMessage    = "send_chat_message"
	CmdListConversations  = "list_conversations"
	CmdDeleteConversation = "delete_conversation"
	CmdRenameConversation = "rename_conversation"
	CmdRefreshAgentStatus = "refresh_agent_status"
	CmdMCPListTools       = "mcp_list_tools"
	CmdMCPCallTool        = "mcp_call_tool"
	CmdGenerateMedia      = "generate_media"
	CmdRunOCR             = "run_ocr"
	CmdInstallTemplate    = "install_template"
	CmdExecuteTemplate    = "execute_template"
	CmdHireEmployee       = "hire_employee"
	CmdFireEmployee       = "fire_employee"
)

// SendChatMessageRequest is the payload for send_chat_message.
type SendChatMessageRequest struct {
	ConversationID *int64 `json:"conversation_id,omitempty"`
	Content        string `json:"content"`
	EnableTools    bool   `json:"enable_tools"`
}

// SendChatMessageResponse acknowledges a delivered message with the backend's
// numeric identifiers.
type SendChatMessageResponse struct {
	ConversationID int64 `json:"conversation_id"`
	MessageID      int64 `json:"message_id"`
}

// SendChatMessage delivers a user message. Not retried: resending a chat
// message duplicates it.
func (c *Client) SendChatMessage(ctx context.Context, req SendChatMessageRequest) (*SendChatMessageResponse, error) {
	var resp SendChatMessageResponse
	if err := c.Invoke(ctx, CmdSendChatMessage, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AgentSnapshot is one entry of the refresh_agent_status response. Fields are
// raw JSON on purpose: the agent domain owns normalization of externally
// supplied data.
type AgentSnapshot = json.RawMessage

// RefreshAgentStatus fetches the full agent list. Safe to retry.
func (c *Client) RefreshAgentStatus(ctx context.Context) ([]AgentSnapshot, error) {
	var resp struct {
		Agents []AgentSnapshot `json:"agents"`
	}
	if err := c.Invoke(ctx, CmdRefreshAgentStatus, nil, &resp, withRetry()); err != nil {
		return nil, err
	}
	return resp.Agents, nil
}

// BackendConversation is a conversation row as the backend stores it.
type BackendConversation struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Pinned    bool   `json:"pinned"`
	UpdatedAt int64  `json:"updated_at"`
}

// ListConversations fetches the backend's conversation index. Safe to retry.
func (c *Client) ListConversations(ctx context.Context) ([]BackendConversation, error) {
	var resp struct {
		Conversations []BackendConversation `json:"conversations"`
	}
	if err := c.Invoke(ctx, CmdListConversations, nil, &resp, withRetry()); err != nil {
		return nil, err
	}
	return resp.Conversations, nil
}

// DeleteConversation removes a conversation on the backend.
func (c *Client) DeleteConversation(ctx context.Context, dbID int64) error {
	return c.Invoke(ctx, CmdDeleteConversation, map[string]int64{"conversation_id": dbID}, nil)
}

// RenameConversation renames a conversation on the backend.
func (c *Client) RenameConversation(ctx context.Context, dbID int64, title string) error {
	return c.Invoke(ctx, CmdRenameConversation, map[string]any{
		"conversation_id": dbID,
		"title":           title,
	}, nil)
}

// MCPTool describes one tool advertised by an MCP server.
type MCPTool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

// MCPListTools lists available MCP tools. Safe to retry.
func (c *Client) MCPListTools(ctx context.Context) ([]MCPTool, error) {
	var resp struct {
		Tools []MCPTool `json:"tools"`
	}
	if err := c.Invoke(ctx, CmdMCPListTools, nil, &resp, withRetry()); err != nil {
		return nil, err
	}
	return resp.Tools, nil
}

// MCPCallTool invokes an MCP tool. Not retried: tool calls may mutate state.
func (c *Client) MCPCallTool(ctx context.Context, name string, args json.RawMessage) (json.RawMessage, error) {
	var resp json.RawMessage
	err := c.Invoke(ctx, CmdMCPCallTool, map[string]any{
		"name":      name,
		"arguments": args,
	}, &resp, withHeavyTimeout())
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GenerateMedia runs media generation on the backend (heavy, not retried).
func (c *Client) GenerateMedia(ctx context.Context, prompt, kind string) (json.RawMessage, error) {
	var resp json.RawMessage
	err := c.Invoke(ctx, CmdGenerateMedia, map[string]string{
		"prompt": prompt,
		"kind":   kind,
	}, &resp, withHeavyTimeout())
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// RunOCR extracts text from an image (heavy, not retried).
func (c *Client) RunOCR(ctx context.Context, imagePath string) (json.RawMessage, error) {
	var resp json.RawMessage
	err := c.Invoke(ctx, CmdRunOCR, map[string]string{"path": imagePath}, &resp, withHeavyTimeout())
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// InstallTemplate installs a marketplace template.
func (c *Client) InstallTemplate(ctx context.Context, templateID string) error {
	return c.Invoke(ctx, CmdInstallTemplate, map[string]string{"template_id": templateID}, nil)
}

// ExecuteTemplate runs an installed template (heavy, not retried).
func (c *Client) ExecuteTemplate(ctx context.Context, templateID string, input json.RawMessage) (json.RawMessage, error) {
	var resp json.RawMessage
	err := c.Invoke(ctx, CmdExecuteTemplate, map[string]any{
		"template_id": templateID,
		"input":       input,
	}, &resp, withHeavyTimeout())
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// HireEmployee activates an AI employee from the marketplace.
func (c *Client) HireEmployee(ctx context.Context, employeeID string) error {
	return c.Invoke(ctx, CmdHireEmployee, map[string]string{"employee_id": employeeID}, nil)
}

// FireEmployee deactivates an AI employee.
func (c *Client) FireEmployee(ctx context.Context, employeeID string) error {
	return c.Invoke(ctx, CmdFireEmployee, map[string]string{"employee_id": employeeID}, nil)
}
