package chat

// AddFileOperation appends a file access entry, stamped at insertion.
func (s *Store) AddFileOperation(op FileOperation) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if op.ID == "" {
		op.ID = s.newID("fop")
	}
	op.Timestamp = s.now()
	s.fileOps = append(s.fileOps, op)

	s.notifyLocked(EventOperations, op.ID)
	return op.ID
}

// AddTerminalCommand appends a command in its started state. Completion data
// arrives later via UpdateTerminalOutput.
func (s *Store) AddTerminalCommand(cmd TerminalCommand) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cmd.ID == "" {
		cmd.ID = s.newID("term")
	}
	cmd.Completed = false
	cmd.Timestamp = s.now()
	stored := cmd
	s.terminalCmds = append(s.terminalCmds, &stored)

	s.notifyLocked(EventOperations, cmd.ID)
	return cmd.ID
}

// UpdateTerminalOutput patches a command in place with its completion data.
// A late event for a command that is no longer tracked is silently ignored;
// it must neither fail nor create a ghost entry.
func (s *Store) UpdateTerminalOutput(out TerminalOutput) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, cmd := range s.terminalCmds {
		if cmd.ID == out.ID {
			cmd.Completed = true
			cmd.Stdout = out.Stdout
			cmd.Stderr = out.Stderr
			exit := out.ExitCode
			cmd.ExitCode = &exit
			cmd.DurationMs = out.DurationMs

			s.notifyLocked(EventOperations, cmd.ID)
			return
		}
	}
}

// AddToolExecution appends a tool call record.
func (s *Store) AddToolExecution(exec ToolExecution) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if exec.ID == "" {
		exec.ID = s.newID("tool")
	}
	exec.Timestamp = s.now()
	s.toolExecs = append(s.toolExecs, exec)

	s.notifyLocked(EventOperations, exec.ID)
	return exec.ID
}

// AddScreenshot appends a screenshot record.
func (s *Store) AddScreenshot(shot Screenshot) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if shot.ID == "" {
		shot.ID = s.newID("shot")
	}
	shot.Timestamp = s.now()
	s.screenshots = append(s.screenshots, shot)

	s.notifyLocked(EventOperations, shot.ID)
	return shot.ID
}

// AddActionLogEntry prepends an entry (the log reads newest-first) and drops
// the oldest entries beyond the cap.
func (s *Store) AddActionLogEntry(entry ActionLogEntry) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = s.newID("act")
	}
	now := s.now()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	stored := entry
	s.actionLog = append([]*ActionLogEntry{&stored}, s.actionLog...)
	if len(s.actionLog) > actionLogCap {
		s.actionLog = s.actionLog[:actionLogCap]
	}

	s.notifyLocked(EventActionLog, entry.ID)
	return entry.ID
}

// UpdateActionLogEntry merges updates into the entry matching either its own
// id or its associated action id, refreshing UpdatedAt. Silent no-op when
// nothing matches.
func (s *Store) UpdateActionLogEntry(id string, updates ActionLogUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		return
	}
	for _, entry := range s.actionLog {
		if entry.ID != id && entry.ActionID != id {
			continue
		}
		if updates.Status != nil {
			entry.Status = *updates.Status
		}
		if updates.Result != nil {
			entry.Result = *updates.Result
		}
		if updates.Error != nil {
			entry.Error = *updates.Error
		}
		if updates.Title != nil {
			entry.Title = *updates.Title
		}
		entry.UpdatedAt = s.now()

		s.notifyLocked(EventActionLog, entry.ID)
		return
	}
}

// FileOperations returns a copy of the file operation log.
func (s *Store) FileOperations() []FileOperation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]FileOperation, len(s.fileOps))
	copy(out, s.fileOps)
	return out
}

// TerminalCommands returns a copy of the terminal command log.
func (s *Store) TerminalCommands() []TerminalCommand {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TerminalCommand, len(s.terminalCmds))
	for i, c := range s.terminalCmds {
		out[i] = *c
	}
	return out
}

// ToolExecutions returns a copy of the tool execution log.
func (s *Store) ToolExecutions() []ToolExecution {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ToolExecution, len(s.toolExecs))
	copy(out, s.toolExecs)
	return out
}

// Screenshots returns a copy of the screenshot log.
func (s *Store) Screenshots() []Screenshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Screenshot, len(s.screenshots))
	copy(out, s.screenshots)
	return out
}

// ActionLog returns a copy of the action log, newest first.
func (s *Store) ActionLog() []ActionLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ActionLogEntry, len(s.actionLog))
	for i, e := range s.actionLog {
		out[i] = *e
	}
	return out
}
