package handlers

import (
	"workforce/services/chat-state/internal/domain/agent"
	"workforce/services/chat-state/internal/domain/chat"
)

// StateHandler serves the activity feeds, background tasks and layout state
// that hang off the store but are not chat or approval flows.
type StateHandler struct {
	store *chat.Store
}

// NewStateHandler creates a new state handler.
func NewStateHandler(store *chat.Store) *StateHandler {
	return &StateHandler{store: store}
}

// Store exposes the store for the event stream route.
func (h *StateHandler) Store() *chat.Store {
	return h.store
}

// ActivityView bundles the operation feeds into one payload.
type ActivityView struct {
	FileOperations   []chat.FileOperation   `json:"fileOperations"`
	TerminalCommands []chat.TerminalCommand `json:"terminalCommands"`
	ToolExecutions   []chat.ToolExecution   `json:"toolExecutions"`
	Screenshots      []chat.Screenshot      `json:"screenshots"`
	ActionLog        []chat.ActionLogEntry  `json:"actionLog"`
}

// Activity returns all operation feeds.
func (h *StateHandler) Activity() ActivityView {
	return ActivityView{
		FileOperations:   h.store.FileOperations(),
		TerminalCommands: h.store.TerminalCommands(),
		ToolExecutions:   h.store.ToolExecutions(),
		Screenshots:      h.store.Screenshots(),
		ActionLog:        h.store.ActionLog(),
	}
}

// TasksView bundles the task tray, plan and pinned context.
type TasksView struct {
	Tasks        []chat.BackgroundTask `json:"tasks"`
	Plan         *chat.PlanData        `json:"plan"`
	ContextItems []chat.ContextItem    `json:"contextItems"`
}

// Tasks returns the task tray view.
func (h *StateHandler) Tasks() TasksView {
	return TasksView{
		Tasks:        h.store.BackgroundTasks(),
		Plan:         h.store.Plan(),
		ContextItems: h.store.ContextItems(),
	}
}

// AddTask registers a long-running job in the tray.
func (h *StateHandler) AddTask(task chat.BackgroundTask) string {
	return h.store.AddBackgroundTask(task)
}

// UpdateTask merges a partial update into a tray task.
func (h *StateHandler) UpdateTask(id string, updates chat.BackgroundTaskUpdate) {
	h.store.UpdateBackgroundTask(id, updates)
}

// RemoveTask drops a task from the tray.
func (h *StateHandler) RemoveTask(id string) {
	h.store.RemoveBackgroundTask(id)
}

// AddContextItem pins an item into the working context.
func (h *StateHandler) AddContextItem(item chat.ContextItem) string {
	return h.store.AddContextItem(item)
}

// RemoveContextItem unpins a context item.
func (h *StateHandler) RemoveContextItem(id string) {
	h.store.RemoveContextItem(id)
}

// UIView is the layout and gauge state the shell renders.
type UIView struct {
	SidecarVisible bool                    `json:"sidecarVisible"`
	SidecarMode    chat.SidecarMode        `json:"sidecarMode"`
	FocusMode      bool                    `json:"focusMode"`
	TokenUsage     chat.TokenUsage         `json:"tokenUsage"`
	ActionTrail    []chat.ActionTrailEntry `json:"actionTrail"`
	Citations      []chat.Citation         `json:"citations"`
	IsStreaming    bool                    `json:"isStreaming"`
}

// UI returns the layout view.
func (h *StateHandler) UI() UIView {
	visible, mode, focus := h.store.Projection()
	return UIView{
		SidecarVisible: visible,
		SidecarMode:    mode,
		FocusMode:      focus,
		TokenUsage:     h.store.TokenUsage(),
		ActionTrail:    h.store.ActionTrail(),
		Citations:      h.store.Citations(),
		IsStreaming:    h.store.IsStreaming(),
	}
}

// SetSidecar updates panel visibility and, when mode is non-empty, the mode.
func (h *StateHandler) SetSidecar(visible bool, mode chat.SidecarMode) {
	if mode != "" {
		h.store.SetSidecarMode(mode)
	}
	h.store.SetSidecarVisible(visible)
}

// SetFocusMode toggles the distraction-free layout.
func (h *StateHandler) SetFocusMode(enabled bool) {
	h.store.SetFocusMode(enabled)
}

// StateView is the one-shot hydration payload for a connecting UI.
type StateView struct {
	Conversations        []chat.Conversation    `json:"conversations"`
	ActiveConversationID string                 `json:"activeConversationId"`
	Messages             []chat.Message         `json:"messages"`
	PendingApprovals     []chat.ApprovalRequest `json:"pendingApprovals"`
	Agents               []agent.Status         `json:"agents"`
	PrimaryAgent         *agent.Status          `json:"primaryAgent"`
	Activity             ActivityView           `json:"activity"`
	Tasks                TasksView              `json:"tasks"`
	UI                   UIView                 `json:"ui"`
}

// Snapshot returns the full UI projection.
func (h *StateHandler) Snapshot() StateView {
	return StateView{
		Conversations:        h.store.Conversations(),
		ActiveConversationID: h.store.ActiveConversationID(),
		Messages:             h.store.Messages(),
		PendingApprovals:     h.store.PendingApprovals(),
		Agents:               h.store.Agents(),
		PrimaryAgent:         h.store.PrimaryAgent(),
		Activity:             h.Activity(),
		Tasks:                h.Tasks(),
		UI:                   h.UI(),
	}
}
