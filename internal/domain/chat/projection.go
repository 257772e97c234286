package chat

import "time"

// SetSidecarVisible shows or hides the auxiliary panel.
func (s *Store) SetSidecarVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sidecarVisible == visible {
		return
	}
	s.sidecarVisible = visible
	s.markDirtyLocked()
	s.notifyLocked(EventProjection, "")
}

// SetSidecarMode switches what the auxiliary panel shows. Switching modes
// also makes the panel visible.
func (s *Store) SetSidecarMode(mode SidecarMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sidecarMode = mode
	s.sidecarVisible = true
	s.markDirtyLocked()
	s.notifyLocked(EventProjection, "")
}

// SetFocusMode toggles the distraction-free layout.
func (s *Store) SetFocusMode(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.focusMode == enabled {
		return
	}
	s.focusMode = enabled
	s.markDirtyLocked()
	s.notifyLocked(EventProjection, "")
}

// Projection returns the current layout preferences.
func (s *Store) Projection() (sidecarVisible bool, sidecarMode SidecarMode, focusMode bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sidecarVisible, s.sidecarMode, s.focusMode
}

// UpdateTokenUsage merges a partial update into the token gauge and
// recomputes the derived percentage.
func (s *Store) UpdateTokenUsage(updates TokenUsageUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if updates.Current != nil {
		s.tokenUsage.Current = *updates.Current
	}
	if updates.Max != nil {
		s.tokenUsage.Max = *updates.Max
	}
	if s.tokenUsage.Max > 0 {
		s.tokenUsage.Percentage = float64(s.tokenUsage.Current) / float64(s.tokenUsage.Max) * 100
	} else {
		s.tokenUsage.Percentage = 0
	}

	s.notifyLocked(EventProjection, "")
}

// TokenUsage returns the current token gauge.
func (s *Store) TokenUsage() TokenUsage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokenUsage
}

// SetCitations replaces the citations attached to the latest answer.
func (s *Store) SetCitations(citations []Citation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.citations = append([]Citation(nil), citations...)
	s.notifyLocked(EventProjection, "")
}

// Citations returns a copy of the current citations.
func (s *Store) Citations() []Citation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Citation, len(s.citations))
	copy(out, s.citations)
	return out
}

// AddActionTrailEntry appends a transient status tick. Entries with a
// positive FadeAfter schedule their own removal.
func (s *Store) AddActionTrailEntry(entry ActionTrailEntry) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = s.newID("trail")
	}
	entry.CreatedAt = s.now()
	s.actionTrail = append(s.actionTrail, entry)

	if entry.FadeAfter > 0 {
		id := entry.ID
		s.fadeTimers[id] = time.AfterFunc(entry.FadeAfter, func() {
			s.RemoveActionTrailEntry(id)
		})
	}

	s.notifyLocked(EventProjection, entry.ID)
	return entry.ID
}

// RemoveActionTrailEntry drops a trail entry and cancels its fade timer.
// Removing an entry that already faded is a no-op.
func (s *Store) RemoveActionTrailEntry(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.fadeTimers[id]; ok {
		timer.Stop()
		delete(s.fadeTimers, id)
	}
	for i, entry := range s.actionTrail {
		if entry.ID == id {
			s.actionTrail = append(s.actionTrail[:i], s.actionTrail[i+1:]...)
			s.notifyLocked(EventProjection, id)
			return
		}
	}
}

// ActionTrail returns a copy of the visible trail entries.
func (s *Store) ActionTrail() []ActionTrailEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ActionTrailEntry, len(s.actionTrail))
	copy(out, s.actionTrail)
	return out
}
