package chat

import (
	"encoding/json"

	"workforce/services/chat-state/internal/infrastructure/bridge"
)

// chatStreamEvent is one token delta pushed while the backend generates an
// assistant reply. MessageID is the backend's numeric id; the first delta
// for an unseen message materializes it in the store.
type chatStreamEvent struct {
	MessageID      int64  `json:"message_id"`
	ConversationID int64  `json:"conversation_id"`
	Delta          string `json:"delta"`
	Done           bool   `json:"done"`
}

// terminalOutputEvent is the completion push for a terminal command.
type terminalOutputEvent struct {
	CommandID  string `json:"command_id"`
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
	ExitCode   int    `json:"exit_code"`
	DurationMs int64  `json:"duration_ms"`
}

// terminalStartedEvent announces a command the backend began executing.
type terminalStartedEvent struct {
	CommandID string `json:"command_id"`
	Command   string `json:"command"`
	Cwd       string `json:"cwd"`
}

// fileEvent records one filesystem access made on the user's behalf.
type fileEvent struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
}

// taskEvent is the lifecycle push for a background task. Each lifecycle
// channel carries the full task.
type taskEvent struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Status   string  `json:"status"`
	Progress float64 `json:"progress"`
	Result   *struct {
		Error string `json:"error"`
	} `json:"result"`
}

// AttachEventHandlers subscribes the service to the backend push channels it
// consumes. The returned function detaches all of them.
func (s *Service) AttachEventHandlers(events *bridge.EventClient) func() {
	unsubs := []bridge.Unsubscribe{
		events.Subscribe(bridge.ChannelChatStream, s.handleChatStream),
		events.Subscribe(bridge.ChannelTerminalStarted, s.handleTerminalStarted),
		events.Subscribe(bridge.ChannelTerminalOutput, s.handleTerminalOutput),
		events.Subscribe(bridge.ChannelFileEvent, s.handleFileEvent),
		events.Subscribe(bridge.ChannelTaskCreated, s.taskEventHandler(TaskQueued)),
		events.Subscribe(bridge.ChannelTaskStarted, s.taskEventHandler(TaskRunning)),
		events.Subscribe(bridge.ChannelTaskCompleted, s.taskEventHandler(TaskCompleted)),
		events.Subscribe(bridge.ChannelTaskFailed, s.taskEventHandler(TaskFailed)),
		events.Subscribe(bridge.ChannelTaskCancelled, s.handleTaskCancelled),
	}

	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}

func (s *Service) handleChatStream(payload json.RawMessage) {
	var ev chatStreamEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		s.log.Warn().Err(err).Msg("discarding malformed chat stream event")
		return
	}
	if ev.MessageID == 0 {
		return
	}

	msgID := s.ids.OpaqueID(ev.MessageID)
	if _, ok := s.store.MessageByID(msgID); !ok {
		s.store.AddMessage(Message{
			ID:             msgID,
			ConversationID: s.ids.OpaqueID(ev.ConversationID),
			Role:           RoleAssistant,
			Streaming:      true,
		})
	}
	s.store.SetStreamingMessage(msgID)

	if ev.Delta != "" {
		s.store.AppendToStreamingMessage(ev.Delta)
	}
	if ev.Done {
		s.store.UpdateMessage(msgID, MessagePatch{Streaming: boolPtr(false)})
		s.store.SetStreamingMessage("")
	}
}

func (s *Service) handleTerminalOutput(payload json.RawMessage) {
	var ev terminalOutputEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		s.log.Warn().Err(err).Msg("discarding malformed terminal output event")
		return
	}
	s.store.UpdateTerminalOutput(TerminalOutput{
		ID:         ev.CommandID,
		Stdout:     ev.Stdout,
		Stderr:     ev.Stderr,
		ExitCode:   ev.ExitCode,
		DurationMs: ev.DurationMs,
	})
}

func (s *Service) handleTerminalStarted(payload json.RawMessage) {
	var ev terminalStartedEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		s.log.Warn().Err(err).Msg("discarding malformed terminal started event")
		return
	}
	if ev.CommandID == "" {
		return
	}
	s.store.AddTerminalCommand(TerminalCommand{
		ID:      ev.CommandID,
		Command: ev.Command,
		Cwd:     ev.Cwd,
	})
}

func (s *Service) handleFileEvent(payload json.RawMessage) {
	var ev fileEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		s.log.Warn().Err(err).Msg("discarding malformed file event")
		return
	}
	if ev.Path == "" {
		return
	}
	s.store.AddFileOperation(FileOperation{Kind: ev.Kind, Path: ev.Path})
}

// taskEventHandler maps one task lifecycle channel onto the tray. The channel
// decides the status; the payload carries the rest.
func (s *Service) taskEventHandler(status TaskStatus) bridge.Handler {
	return func(payload json.RawMessage) {
		var ev taskEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			s.log.Warn().Err(err).Msg("discarding malformed task event")
			return
		}
		if ev.ID == "" {
			return
		}
		task := BackgroundTask{
			ID:       ev.ID,
			Title:    ev.Name,
			Status:   status,
			Progress: ev.Progress,
		}
		if status == TaskCompleted {
			task.Progress = 100
		}
		if ev.Result != nil {
			task.Error = ev.Result.Error
		}
		s.store.UpsertBackgroundTask(task)
	}
}

func (s *Service) handleTaskCancelled(payload json.RawMessage) {
	var ev taskEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		s.log.Warn().Err(err).Msg("discarding malformed task event")
		return
	}
	s.store.RemoveBackgroundTask(ev.ID)
}

func boolPtr(b bool) *bool { return &b }
