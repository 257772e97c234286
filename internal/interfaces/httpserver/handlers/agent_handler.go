package handlers

import (
	"context"

	"workforce/services/chat-state/internal/domain/agent"
	"workforce/services/chat-state/internal/domain/chat"
)

// AgentHandler handles agent status HTTP requests.
type AgentHandler struct {
	store     *chat.Store
	refresher AgentRefresher
}

// NewAgentHandler creates a new agent handler.
func NewAgentHandler(store *chat.Store, refresher AgentRefresher) *AgentHandler {
	return &AgentHandler{store: store, refresher: refresher}
}

// Agents returns the current agent roster.
func (h *AgentHandler) Agents() []agent.Status {
	return h.store.Agents()
}

// Primary returns the agent the UI should spotlight, or nil.
func (h *AgentHandler) Primary() *agent.Status {
	return h.store.PrimaryAgent()
}

// Refresh replaces the roster with a fresh backend snapshot.
func (h *AgentHandler) Refresh(ctx context.Context) error {
	if h.refresher == nil {
		return nil
	}
	return h.refresher.Refresh(ctx)
}
