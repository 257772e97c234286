package chat

import "strings"

// EnsureActiveConversation guarantees an active conversation exists. When
// one does, the flat view is hydrated from its stored message list only if
// the view is currently empty, so in-flight edits are never clobbered.
// Otherwise a fresh conversation is created and activated. Returns the
// active conversation id.
func (s *Store) EnsureActiveConversation() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeConvID != "" {
		if len(s.messages) == 0 {
			s.messages = append([]*Message(nil), s.messagesByConv[s.activeConvID]...)
		}
		return s.activeConvID
	}
	return s.createConversationLocked("")
}

// CreateConversation always creates and activates a new conversation,
// resetting streaming state, and returns its id.
func (s *Store) CreateConversation(title string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createConversationLocked(title)
}

func (s *Store) createConversationLocked(title string) string {
	if title == "" {
		title = "New Conversation"
	}
	conv := &Conversation{
		ID:        s.newID("conv"),
		Title:     title,
		UpdatedAt: s.now(),
	}
	s.conversations = append(s.conversations, conv)

	// Every conversation has a message list entry from birth.
	s.messagesByConv[conv.ID] = []*Message{}
	s.activeConvID = conv.ID
	s.messages = nil
	s.clearStreamingLocked()

	s.notifyLocked(EventConversations, conv.ID)
	s.markDirtyLocked()
	return conv.ID
}

// SelectConversation makes a conversation active and swaps the flat view to
// its stored messages. No-op when it is already active or unknown. Content
// of the conversation being left stays intact in the per-conversation map,
// and an in-flight stream keeps its target.
func (s *Store) SelectConversation(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == s.activeConvID {
		return
	}
	if _, ok := s.messagesByConv[id]; !ok {
		return
	}

	s.activeConvID = id
	s.messages = append([]*Message(nil), s.messagesByConv[id]...)

	s.notifyLocked(EventConversations, id)
	s.markDirtyLocked()
}

// RenameConversation sets a new title after trimming whitespace. A rename to
// an empty string is rejected and the original title retained; callers that
// need a user-facing validation error must pre-check.
func (s *Store) RenameConversation(id, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return
	}
	conv := s.findConversationLocked(id)
	if conv == nil {
		return
	}
	conv.Title = trimmed
	conv.UpdatedAt = s.now()

	s.notifyLocked(EventConversations, id)
	s.markDirtyLocked()
}

// DeleteConversation removes a conversation and its message list. If it was
// active, the next remaining conversation in list order becomes active, or
// none if the list is empty.
func (s *Store) DeleteConversation(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, c := range s.conversations {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	s.conversations = append(s.conversations[:idx], s.conversations[idx+1:]...)
	delete(s.messagesByConv, id)

	if s.activeConvID == id {
		if len(s.conversations) > 0 {
			next := s.conversations[0]
			s.activeConvID = next.ID
			s.messages = append([]*Message(nil), s.messagesByConv[next.ID]...)
		} else {
			s.activeConvID = ""
			s.messages = []*Message{}
		}
	}
	if s.streamingMessageID != "" && s.findMessageLocked(s.streamingMessageID) == nil {
		s.clearStreamingLocked()
	}

	s.notifyLocked(EventConversations, id)
	s.markDirtyLocked()
}

// TogglePinned flips the pinned flag and bumps the conversation's UpdatedAt.
func (s *Store) TogglePinned(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.findConversationLocked(id)
	if conv == nil {
		return
	}
	conv.Pinned = !conv.Pinned
	conv.UpdatedAt = s.now()

	s.notifyLocked(EventConversations, id)
	s.markDirtyLocked()
}

// UpsertConversation reconciles one conversation from the backend index.
// Known ids get title, pinned state and timestamp refreshed; unknown ids are
// appended without stealing focus from the active conversation.
func (s *Store) UpsertConversation(c Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing := s.findConversationLocked(c.ID); existing != nil {
		existing.Title = c.Title
		existing.Pinned = c.Pinned
		if c.UpdatedAt.After(existing.UpdatedAt) {
			existing.UpdatedAt = c.UpdatedAt
		}
	} else {
		stored := c
		s.conversations = append(s.conversations, &stored)
		if _, ok := s.messagesByConv[c.ID]; !ok {
			s.messagesByConv[c.ID] = []*Message{}
		}
	}

	s.notifyLocked(EventConversations, c.ID)
	s.markDirtyLocked()
}

func (s *Store) findConversationLocked(id string) *Conversation {
	for _, c := range s.conversations {
		if c.ID == id {
			return c
		}
	}
	return nil
}
