package chat

// AddMessage appends a message, lazily creating a conversation if none is
// active. A caller-supplied id is honored, otherwise one is generated. The
// owning conversation's LastMessage and UpdatedAt are refreshed. Returns the
// assigned message id.
func (s *Store) AddMessage(msg Message) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addMessageLocked(msg)
}

// AddOptimisticMessage inserts a message ahead of backend acknowledgment.
// It always generates a fresh id and marks the message pending. Returns the
// temporary id the caller later confirms or fails.
func (s *Store) AddOptimisticMessage(msg Message) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg.ID = ""
	msg.Pending = true
	msg.Error = ""
	return s.addMessageLocked(msg)
}

func (s *Store) addMessageLocked(msg Message) string {
	if s.activeConvID == "" {
		s.createConversationLocked("")
	}
	if msg.ConversationID == "" {
		msg.ConversationID = s.activeConvID
	}
	if _, ok := s.messagesByConv[msg.ConversationID]; !ok {
		s.messagesByConv[msg.ConversationID] = []*Message{}
	}
	if msg.ID == "" {
		msg.ID = s.newID("msg")
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = s.now()
	}

	stored := msg
	s.messagesByConv[msg.ConversationID] = append(s.messagesByConv[msg.ConversationID], &stored)
	if msg.ConversationID == s.activeConvID {
		s.messages = append(s.messages, &stored)
	}

	if conv := s.findConversationLocked(msg.ConversationID); conv != nil {
		conv.LastMessage = msg.Content
		conv.UpdatedAt = stored.Timestamp
	}

	s.notifyLocked(EventMessages, stored.ID)
	s.markDirtyLocked()
	return stored.ID
}

// ConfirmOptimisticMessage marks a pending message acknowledged: pending and
// error are cleared, and when the backend issued a different id the message
// is renamed in place, preserving its list position.
func (s *Store) ConfirmOptimisticMessage(tempID, confirmedID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := s.findMessageLocked(tempID)
	if msg == nil {
		return
	}
	msg.Pending = false
	msg.Error = ""
	if confirmedID != "" && confirmedID != msg.ID {
		msg.ID = confirmedID
	}

	s.notifyLocked(EventMessages, msg.ID)
	s.markDirtyLocked()
}

// FailOptimisticMessage records a failed send: pending is cleared and the
// error retained for the retry affordance.
func (s *Store) FailOptimisticMessage(tempID, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := s.findMessageLocked(tempID)
	if msg == nil {
		return
	}
	msg.Pending = false
	msg.Error = errMsg

	s.notifyLocked(EventMessages, msg.ID)
	s.markDirtyLocked()
}

// RetryFailedMessage clears the error and marks the message pending again.
// The caller is expected to re-issue the backend call.
func (s *Store) RetryFailedMessage(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := s.findMessageLocked(id)
	if msg == nil {
		return
	}
	msg.Error = ""
	msg.Pending = true

	s.notifyLocked(EventMessages, id)
	s.markDirtyLocked()
}

// MessagePatch is a partial update applied to a message.
type MessagePatch struct {
	Content   *string         `json:"content,omitempty"`
	Metadata  *map[string]any `json:"metadata,omitempty"`
	Streaming *bool           `json:"streaming,omitempty"`
}

// UpdateMessage applies a patch to a message wherever it lives. Unknown ids
// are a no-op.
func (s *Store) UpdateMessage(id string, patch MessagePatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := s.findMessageLocked(id)
	if msg == nil {
		return
	}
	if patch.Content != nil {
		msg.Content = *patch.Content
	}
	if patch.Metadata != nil {
		msg.Metadata = *patch.Metadata
	}
	if patch.Streaming != nil {
		msg.Streaming = *patch.Streaming
	}

	s.notifyLocked(EventMessages, id)
	s.markDirtyLocked()
}

// DeleteMessage removes a message from its conversation and, when that
// conversation is active, from the flat view.
func (s *Store) DeleteMessage(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var convID string
	for cid, list := range s.messagesByConv {
		for i, m := range list {
			if m.ID == id {
				s.messagesByConv[cid] = append(list[:i], list[i+1:]...)
				convID = cid
				break
			}
		}
		if convID != "" {
			break
		}
	}
	if convID == "" {
		return
	}

	if convID == s.activeConvID {
		for i, m := range s.messages {
			if m.ID == id {
				s.messages = append(s.messages[:i], s.messages[i+1:]...)
				break
			}
		}
	}

	s.notifyLocked(EventMessages, id)
	s.markDirtyLocked()
}

// SetStreamingMessage designates the single current streaming target, or
// clears it (and the application-wide streaming flag) when id is "". The
// message's own Streaming flag is the caller's responsibility at creation
// time; switching targets does not rewrite it retroactively.
func (s *Store) SetStreamingMessage(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		s.clearStreamingLocked()
	} else {
		s.streamingMessageID = id
		s.isStreaming = true
	}
	s.notifyLocked(EventMessages, id)
}

// AppendToStreamingMessage concatenates content onto the current streaming
// target. The target is looked up in its true home, the per-conversation
// map, so a stream keeps flowing even after the user switches away from its
// conversation.
func (s *Store) AppendToStreamingMessage(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.streamingMessageID == "" {
		return
	}
	msg := s.findMessageLocked(s.streamingMessageID)
	if msg == nil {
		return
	}
	msg.Content += content

	if conv := s.findConversationLocked(msg.ConversationID); conv != nil {
		conv.LastMessage = msg.Content
	}

	s.notifyLocked(EventMessages, msg.ID)
	s.markDirtyLocked()
}

func (s *Store) clearStreamingLocked() {
	s.streamingMessageID = ""
	s.isStreaming = false
}

// MessageByID returns a copy of a message wherever it lives.
func (s *Store) MessageByID(id string) (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if msg := s.findMessageLocked(id); msg != nil {
		return *msg, true
	}
	return Message{}, false
}

// findMessageLocked searches the per-conversation map, the single source of
// truth; the flat view shares pointers with it, so a hit here is a hit there.
func (s *Store) findMessageLocked(id string) *Message {
	for _, list := range s.messagesByConv {
		for _, m := range list {
			if m.ID == id {
				return m
			}
		}
	}
	return nil
}
