package handlers

import (
	"context"

	"github.com/google/wire"

	"workforce/services/chat-state/internal/domain/chat"
)

// AgentRefresher triggers a full agent roster refresh from the backend.
type AgentRefresher interface {
	Refresh(ctx context.Context) error
}

// Provider holds all HTTP handlers.
type Provider struct {
	Chat     *ChatHandler
	Approval *ApprovalHandler
	Agent    *AgentHandler
	State    *StateHandler
	Tools    *ToolsHandler
}

// NewProvider creates a new handler provider.
func NewProvider(service *chat.Service, refresher AgentRefresher, runner ToolRunner) *Provider {
	return &Provider{
		Chat:     NewChatHandler(service),
		Approval: NewApprovalHandler(service),
		Agent:    NewAgentHandler(service.Store(), refresher),
		State:    NewStateHandler(service.Store()),
		Tools:    NewToolsHandler(runner),
	}
}

// HandlerProvider provides all handlers for wire.
var HandlerProvider = wire.NewSet(
	NewChatHandler,
	NewApprovalHandler,
	NewAgentHandler,
	NewStateHandler,
	NewToolsHandler,
	NewProvider,
)
