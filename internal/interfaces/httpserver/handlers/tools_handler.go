package handlers

import (
	"context"
	"encoding/json"

	"workforce/services/chat-state/internal/infrastructure/bridge"
)

// ToolRunner invokes tool and marketplace commands on the backend. The
// bridge client satisfies it.
type ToolRunner interface {
	MCPListTools(ctx context.Context) ([]bridge.MCPTool, error)
	MCPCallTool(ctx context.Context, name string, args json.RawMessage) (json.RawMessage, error)
	GenerateMedia(ctx context.Context, prompt, kind string) (json.RawMessage, error)
	RunOCR(ctx context.Context, imagePath string) (json.RawMessage, error)
	InstallTemplate(ctx context.Context, templateID string) error
	ExecuteTemplate(ctx context.Context, templateID string, input json.RawMessage) (json.RawMessage, error)
	HireEmployee(ctx context.Context, employeeID string) error
	FireEmployee(ctx context.Context, employeeID string) error
}

// ToolsHandler proxies tool and marketplace requests to the backend. The
// backend owns execution; this layer only relays and surfaces errors.
type ToolsHandler struct {
	runner ToolRunner
}

// NewToolsHandler creates a new tools handler.
func NewToolsHandler(runner ToolRunner) *ToolsHandler {
	return &ToolsHandler{runner: runner}
}

// ListTools returns the tools advertised by the backend's MCP servers.
func (h *ToolsHandler) ListTools(ctx context.Context) ([]bridge.MCPTool, error) {
	return h.runner.MCPListTools(ctx)
}

// CallTool invokes a named MCP tool.
func (h *ToolsHandler) CallTool(ctx context.Context, name string, args json.RawMessage) (json.RawMessage, error) {
	return h.runner.MCPCallTool(ctx, name, args)
}

// GenerateMedia runs media generation.
func (h *ToolsHandler) GenerateMedia(ctx context.Context, prompt, kind string) (json.RawMessage, error) {
	return h.runner.GenerateMedia(ctx, prompt, kind)
}

// RunOCR extracts text from an image on disk.
func (h *ToolsHandler) RunOCR(ctx context.Context, path string) (json.RawMessage, error) {
	return h.runner.RunOCR(ctx, path)
}

// InstallTemplate installs a marketplace template.
func (h *ToolsHandler) InstallTemplate(ctx context.Context, id string) error {
	return h.runner.InstallTemplate(ctx, id)
}

// ExecuteTemplate runs an installed template.
func (h *ToolsHandler) ExecuteTemplate(ctx context.Context, id string, input json.RawMessage) (json.RawMessage, error) {
	return h.runner.ExecuteTemplate(ctx, id, input)
}

// HireEmployee activates an AI employee.
func (h *ToolsHandler) HireEmployee(ctx context.Context, id string) error {
	return h.runner.HireEmployee(ctx, id)
}

// FireEmployee deactivates an AI employee.
func (h *ToolsHandler) FireEmployee(ctx context.Context, id string) error {
	return h.runner.FireEmployee(ctx, id)
}
