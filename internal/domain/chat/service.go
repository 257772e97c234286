package chat

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"workforce/services/chat-state/internal/infrastructure/bridge"
	"workforce/services/chat-state/internal/infrastructure/idmap"
	"workforce/services/chat-state/internal/infrastructure/metrics"
	"workforce/services/chat-state/internal/utils/platformerrors"
)

// Service coordinates the store with the native backend: optimistic sends,
// identifier translation and conversation reconciliation. Store mutations
// always happen first so the UI reflects intent before the backend answers.
type Service struct {
	store  *Store
	bridge *bridge.Client
	ids    *idmap.Translator
	log    zerolog.Logger
}

func NewService(store *Store, bc *bridge.Client, ids *idmap.Translator, log zerolog.Logger) *Service {
	return &Service{
		store:  store,
		bridge: bc,
		ids:    ids,
		log:    log.With().Str("component", "chat-service").Logger(),
	}
}

// Store exposes the underlying state store for read paths and event
// subscriptions.
func (s *Service) Store() *Store { return s.store }

// SendMessage inserts the user message optimistically, delivers it to the
// backend and reconciles the optimistic id with the backend's. On failure
// the message stays in the transcript flagged with the error so the user can
// retry; the error is also returned for the transport layer to surface.
func (s *Service) SendMessage(ctx context.Context, content string, attachments []Attachment) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", platformerrors.New(platformerrors.ErrorTypeValidation, "message content is empty")
	}

	convID := s.store.EnsureActiveConversation()
	tempID := s.store.AddOptimisticMessage(Message{
		ConversationID: convID,
		Role:           RoleUser,
		Content:        content,
		Attachments:    attachments,
	})

	return s.deliver(ctx, tempID, convID, content)
}

// RetryMessage re-issues the backend call for a message whose previous send
// failed.
func (s *Service) RetryMessage(ctx context.Context, id string) (string, error) {
	msg, ok := s.store.MessageByID(id)
	if !ok {
		return "", platformerrors.New(platformerrors.ErrorTypeNotFound, "message %s not found", id)
	}
	if msg.Error == "" {
		return "", platformerrors.New(platformerrors.ErrorTypeValidation, "message %s has no failed send to retry", id)
	}

	s.store.RetryFailedMessage(id)
	return s.deliver(ctx, id, msg.ConversationID, msg.Content)
}

func (s *Service) deliver(ctx context.Context, tempID, convID, content string) (string, error) {
	req := bridge.SendChatMessageRequest{
		Content:     content,
		EnableTools: true,
	}
	if dbID, ok := s.ids.DBID(convID); ok {
		req.ConversationID = &dbID
	}

	resp, err := s.bridge.SendChatMessage(ctx, req)
	if err != nil {
		s.store.FailOptimisticMessage(tempID, userMessage(err))
		s.log.Warn().Err(err).Str("message_id", tempID).Msg("message delivery failed")
		return tempID, err
	}

	// The backend may have created the conversation as part of this send.
	s.ids.Bind(resp.ConversationID, convID)

	confirmedID := s.ids.OpaqueID(resp.MessageID)
	s.store.ConfirmOptimisticMessage(tempID, confirmedID)
	return confirmedID, nil
}

// RenameConversation renames locally first, then on the backend when the
// conversation is known there. The local rename is kept even if the backend
// call fails; the index sync reconciles any divergence.
func (s *Service) RenameConversation(ctx context.Context, id, title string) error {
	if strings.TrimSpace(title) == "" {
		return platformerrors.New(platformerrors.ErrorTypeValidation, "conversation title is empty")
	}
	s.store.RenameConversation(id, title)

	if dbID, ok := s.ids.DBID(id); ok {
		if err := s.bridge.RenameConversation(ctx, dbID, strings.TrimSpace(title)); err != nil {
			return platformerrors.Wrap(platformerrors.ErrorTypeExternal, err, "failed to rename conversation")
		}
	}
	return nil
}

// DeleteConversation removes the conversation locally and on the backend.
func (s *Service) DeleteConversation(ctx context.Context, id string) error {
	dbID, known := s.ids.DBID(id)
	s.store.DeleteConversation(id)

	if known {
		if err := s.bridge.DeleteConversation(ctx, dbID); err != nil {
			return platformerrors.Wrap(platformerrors.ErrorTypeExternal, err, "failed to delete conversation")
		}
	}
	return nil
}

// SyncConversations pulls the backend's conversation index and merges it
// into the store. Backend rows are keyed by numeric id; the translator maps
// them onto the opaque ids the store uses.
func (s *Service) SyncConversations(ctx context.Context) error {
	rows, err := s.bridge.ListConversations(ctx)
	if err != nil {
		return platformerrors.Wrap(platformerrors.ErrorTypeExternal, err, "failed to list conversations")
	}

	for _, row := range rows {
		s.store.UpsertConversation(Conversation{
			ID:        s.ids.OpaqueID(row.ID),
			Title:     row.Title,
			Pinned:    row.Pinned,
			UpdatedAt: time.UnixMilli(row.UpdatedAt),
		})
	}
	s.log.Debug().Int("conversations", len(rows)).Msg("conversation index synced")
	return nil
}

// RequestApproval registers an approval request, short-circuiting through
// the trust cache: a request whose workflow already trusts its action
// signature is approved immediately without surfacing to the user. Returns
// the request id and whether it was auto-approved.
func (s *Service) RequestApproval(req ApprovalRequest) (string, bool) {
	if req.WorkflowHash != "" && req.ActionSignature != "" &&
		s.store.IsActionTrusted(req.WorkflowHash, req.ActionSignature) {
		id := s.store.AddApprovalRequest(req)
		s.store.ApproveOperation(id)
		metrics.TrustedAutoApprovals.Inc()
		return id, true
	}
	return s.store.AddApprovalRequest(req), false
}

// ResolveApproval resolves a pending request. Approving with rememberChoice
// records the action signature into the workflow's trust list so future
// identical actions skip the prompt.
func (s *Service) ResolveApproval(id string, approved, rememberChoice bool, reason string) error {
	var req *ApprovalRequest
	for _, pending := range s.store.PendingApprovals() {
		if pending.ID == id {
			cp := pending
			req = &cp
			break
		}
	}
	if req == nil {
		return platformerrors.New(platformerrors.ErrorTypeNotFound, "approval request %s not found", id)
	}

	if approved {
		s.store.ApproveOperation(id)
		if rememberChoice && req.WorkflowHash != "" && req.ActionSignature != "" {
			s.store.RecordTrustedAction(req.WorkflowHash, req.ActionSignature)
		}
		return nil
	}
	s.store.RejectOperation(id, reason)
	return nil
}

// userMessage reduces an error chain to the message shown in the transcript.
func userMessage(err error) string {
	if pe := platformerrors.Get(err); pe != nil {
		return pe.Message
	}
	return err.Error()
}
