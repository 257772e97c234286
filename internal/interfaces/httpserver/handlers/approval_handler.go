package handlers

import (
	"workforce/services/chat-state/internal/domain/chat"
)

// ApprovalHandler handles approval and trusted workflow HTTP requests.
type ApprovalHandler struct {
	service *chat.Service
}

// NewApprovalHandler creates a new approval handler.
func NewApprovalHandler(service *chat.Service) *ApprovalHandler {
	return &ApprovalHandler{service: service}
}

// Pending returns unresolved approval requests.
func (h *ApprovalHandler) Pending() []chat.ApprovalRequest {
	return h.service.Store().PendingApprovals()
}

// Request registers an approval request, auto-approving trusted actions.
func (h *ApprovalHandler) Request(req chat.ApprovalRequest) (string, bool) {
	return h.service.RequestApproval(req)
}

// Resolve approves or rejects a pending request.
func (h *ApprovalHandler) Resolve(id string, approved, remember bool, reason string) error {
	return h.service.ResolveApproval(id, approved, remember, reason)
}

// TrustedWorkflows returns the trust cache.
func (h *ApprovalHandler) TrustedWorkflows() map[string]chat.TrustedWorkflow {
	return h.service.Store().TrustedWorkflows()
}

// SetTrustedWorkflow stores or replaces a trusted workflow.
func (h *ApprovalHandler) SetTrustedWorkflow(wf chat.TrustedWorkflow) {
	h.service.Store().SetTrustedWorkflow(wf)
}

// RemoveTrustedWorkflow revokes trust for a workflow.
func (h *ApprovalHandler) RemoveTrustedWorkflow(hash string) {
	h.service.Store().RemoveTrustedWorkflow(hash)
}
