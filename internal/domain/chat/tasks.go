package chat

// AddBackgroundTask registers a long-running backend job for the task tray.
func (s *Store) AddBackgroundTask(task BackgroundTask) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if task.ID == "" {
		task.ID = s.newID("task")
	}
	if task.Status == "" {
		task.Status = TaskQueued
	}
	now := s.now()
	task.CreatedAt = now
	task.UpdatedAt = now

	stored := task
	s.tasks = append(s.tasks, &stored)

	s.notifyLocked(EventTasks, task.ID)
	return task.ID
}

// BackgroundTaskUpdate is a partial update to a background task.
type BackgroundTaskUpdate struct {
	Status   *TaskStatus `json:"status,omitempty"`
	Progress *float64    `json:"progress,omitempty"`
	Error    *string     `json:"error,omitempty"`
}

// UpdateBackgroundTask merges updates into a task; unknown ids are a no-op.
func (s *Store) UpdateBackgroundTask(id string, updates BackgroundTaskUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, task := range s.tasks {
		if task.ID != id {
			continue
		}
		if updates.Status != nil {
			task.Status = *updates.Status
		}
		if updates.Progress != nil {
			p := *updates.Progress
			if p < 0 {
				p = 0
			}
			if p > 100 {
				p = 100
			}
			task.Progress = p
		}
		if updates.Error != nil {
			task.Error = *updates.Error
		}
		task.UpdatedAt = s.now()

		s.notifyLocked(EventTasks, id)
		return
	}
}

// UpsertBackgroundTask reconciles a backend-owned task into the tray,
// matching on id. Known tasks are patched in place, unknown ones appended,
// so lifecycle events may arrive without a preceding created event.
func (s *Store) UpsertBackgroundTask(task BackgroundTask) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if task.Progress < 0 {
		task.Progress = 0
	}
	if task.Progress > 100 {
		task.Progress = 100
	}

	for _, existing := range s.tasks {
		if existing.ID != task.ID {
			continue
		}
		if task.Title != "" {
			existing.Title = task.Title
		}
		if task.Status != "" {
			existing.Status = task.Status
		}
		existing.Progress = task.Progress
		existing.Error = task.Error
		existing.UpdatedAt = s.now()

		s.notifyLocked(EventTasks, task.ID)
		return
	}

	if task.Status == "" {
		task.Status = TaskQueued
	}
	now := s.now()
	task.CreatedAt = now
	task.UpdatedAt = now

	stored := task
	s.tasks = append(s.tasks, &stored)

	s.notifyLocked(EventTasks, task.ID)
}

// RemoveBackgroundTask drops a task from the tray.
func (s *Store) RemoveBackgroundTask(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, task := range s.tasks {
		if task.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			s.notifyLocked(EventTasks, id)
			return
		}
	}
}

// BackgroundTasks returns a copy of the task list.
func (s *Store) BackgroundTasks() []BackgroundTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]BackgroundTask, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = *t
	}
	return out
}

// SetPlan publishes the agent's current plan, replacing any previous one.
// A nil plan clears it.
func (s *Store) SetPlan(plan *PlanData) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.plan = plan
	s.notifyLocked(EventTasks, "")
}

// UpdatePlanStep sets the status of one plan step; unknown steps are a no-op.
func (s *Store) UpdatePlanStep(stepID string, status ActionStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.plan == nil {
		return
	}
	for i := range s.plan.Steps {
		if s.plan.Steps[i].ID == stepID {
			s.plan.Steps[i].Status = status
			s.notifyLocked(EventTasks, stepID)
			return
		}
	}
}

// Plan returns a copy of the current plan, or nil.
func (s *Store) Plan() *PlanData {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.plan == nil {
		return nil
	}
	cp := *s.plan
	cp.Steps = append([]PlanStep(nil), s.plan.Steps...)
	return &cp
}

// AddContextItem pins an item into the working context.
func (s *Store) AddContextItem(item ContextItem) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == "" {
		item.ID = s.newID("ctx")
	}
	s.contextItems = append(s.contextItems, item)

	s.notifyLocked(EventTasks, item.ID)
	return item.ID
}

// RemoveContextItem unpins a context item; unknown ids are a no-op.
func (s *Store) RemoveContextItem(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.contextItems {
		if item.ID == id {
			s.contextItems = append(s.contextItems[:i], s.contextItems[i+1:]...)
			s.notifyLocked(EventTasks, id)
			return
		}
	}
}

// ContextItems returns a copy of the pinned context items.
func (s *Store) ContextItems() []ContextItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ContextItem, len(s.contextItems))
	copy(out, s.contextItems)
	return out
}
