package handlers

import (
	"context"

	"workforce/services/chat-state/internal/domain/chat"
)

// ChatHandler handles conversation and message HTTP requests.
type ChatHandler struct {
	service *chat.Service
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(service *chat.Service) *ChatHandler {
	return &ChatHandler{service: service}
}

// Conversations returns the conversation list in display order.
func (h *ChatHandler) Conversations() []chat.Conversation {
	return h.service.Store().Conversations()
}

// ActiveConversationID returns the id of the active conversation, or "".
func (h *ChatHandler) ActiveConversationID() string {
	return h.service.Store().ActiveConversationID()
}

// CreateConversation creates and activates a new conversation.
func (h *ChatHandler) CreateConversation(title string) string {
	return h.service.Store().CreateConversation(title)
}

// SelectConversation makes a conversation active.
func (h *ChatHandler) SelectConversation(id string) {
	h.service.Store().SelectConversation(id)
}

// RenameConversation renames locally and on the backend.
func (h *ChatHandler) RenameConversation(ctx context.Context, id, title string) error {
	return h.service.RenameConversation(ctx, id, title)
}

// DeleteConversation removes a conversation locally and on the backend.
func (h *ChatHandler) DeleteConversation(ctx context.Context, id string) error {
	return h.service.DeleteConversation(ctx, id)
}

// TogglePinned flips a conversation's pinned flag.
func (h *ChatHandler) TogglePinned(id string) {
	h.service.Store().TogglePinned(id)
}

// SyncConversations pulls the backend conversation index.
func (h *ChatHandler) SyncConversations(ctx context.Context) error {
	return h.service.SyncConversations(ctx)
}

// Messages returns the active conversation's messages.
func (h *ChatHandler) Messages() []chat.Message {
	return h.service.Store().Messages()
}

// MessagesFor returns the stored messages of one conversation.
func (h *ChatHandler) MessagesFor(conversationID string) []chat.Message {
	return h.service.Store().MessagesFor(conversationID)
}

// SendMessage performs the optimistic send flow.
func (h *ChatHandler) SendMessage(ctx context.Context, content string, attachments []chat.Attachment) (string, error) {
	return h.service.SendMessage(ctx, content, attachments)
}

// RetryMessage re-sends a failed message.
func (h *ChatHandler) RetryMessage(ctx context.Context, id string) (string, error) {
	return h.service.RetryMessage(ctx, id)
}

// DeleteMessage removes a message from the transcript.
func (h *ChatHandler) DeleteMessage(id string) {
	h.service.Store().DeleteMessage(id)
}
