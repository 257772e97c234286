// Package chat implements the unified client-side state store of the
// workforce desktop app: conversations, messages, operation logs, approvals
// and trust, background tasks, agent tracking and the UI projection slices.
// All state lives behind one mutex; every mutation is a synchronous method
// that runs to completion before any other can interleave.
package chat

import (
	"time"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Conversation is one chat thread. ID is a client-generated opaque
// identifier; the backend's numeric key is bridged via the idmap translator.
type Conversation struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Pinned      bool      `json:"pinned"`
	LastMessage string    `json:"lastMessage"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Attachment references a file attached to a message.
type Attachment struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Mime string `json:"mime,omitempty"`
}

// Message is one chat message. Pending marks an optimistic insert that the
// backend has not acknowledged yet; Error marks a failed send. The two are
// mutually exclusive: confirmation clears both, failure trades Pending for
// Error, retry trades back.
type Message struct {
	ID             string         `json:"id"`
	ConversationID string         `json:"conversationId"`
	Role           Role           `json:"role"`
	Content        string         `json:"content"`
	Timestamp      time.Time      `json:"timestamp"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	Attachments    []Attachment   `json:"attachments,omitempty"`
	Streaming      bool           `json:"streaming,omitempty"`
	Pending        bool           `json:"pending,omitempty"`
	Error          string         `json:"error,omitempty"`
}

// FileOperation is one append-only file access log entry.
type FileOperation struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"` // read, write, delete, move
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// TerminalCommand is created in a started state when a command launches and
// patched in place once the async completion event arrives.
type TerminalCommand struct {
	ID         string    `json:"id"`
	Command    string    `json:"command"`
	Cwd        string    `json:"cwd,omitempty"`
	Completed  bool      `json:"completed"`
	Stdout     string    `json:"stdout,omitempty"`
	Stderr     string    `json:"stderr,omitempty"`
	ExitCode   *int      `json:"exitCode,omitempty"`
	DurationMs int64     `json:"durationMs,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// TerminalOutput is the completion payload for a terminal command.
type TerminalOutput struct {
	ID         string `json:"id"`
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
	ExitCode   int    `json:"exitCode"`
	DurationMs int64  `json:"durationMs"`
}

// ToolExecution records one tool call made on the user's behalf.
type ToolExecution struct {
	ID        string         `json:"id"`
	Tool      string         `json:"tool"`
	Args      map[string]any `json:"args,omitempty"`
	Result    string         `json:"result,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Screenshot records one captured screen image.
type Screenshot struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Caption   string    `json:"caption,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ActionStatus is the lifecycle state of an action log entry.
type ActionStatus string

const (
	ActionPending ActionStatus = "pending"
	ActionRunning ActionStatus = "running"
	ActionSuccess ActionStatus = "success"
	ActionFailed  ActionStatus = "failed"
	ActionBlocked ActionStatus = "blocked"
)

// ActionLogEntry is one entry of the bounded, newest-first action log.
type ActionLogEntry struct {
	ID               string       `json:"id"`
	ActionID         string       `json:"actionId,omitempty"`
	WorkflowHash     string       `json:"workflowHash,omitempty"`
	Type             string       `json:"type"`
	Title            string       `json:"title"`
	Status           ActionStatus `json:"status"`
	RequiresApproval bool         `json:"requiresApproval,omitempty"`
	Scope            string       `json:"scope,omitempty"`
	Result           string       `json:"result,omitempty"`
	Error            string       `json:"error,omitempty"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

// ActionLogUpdate is a partial update applied to an action log entry.
type ActionLogUpdate struct {
	Status *ActionStatus `json:"status,omitempty"`
	Result *string       `json:"result,omitempty"`
	Error  *string       `json:"error,omitempty"`
	Title  *string       `json:"title,omitempty"`
}

// ApprovalStatus is the lifecycle state of an approval request.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// ApprovalRequest is a pending decision for a backend-flagged risky
// operation. Resolved requests are removed from the store, not archived.
type ApprovalRequest struct {
	ID              string         `json:"id"`
	Type            string         `json:"type"`
	Description     string         `json:"description"`
	RiskLevel       string         `json:"riskLevel"`
	Details         map[string]any `json:"details"`
	Status          ApprovalStatus `json:"status"`
	WorkflowHash    string         `json:"workflowHash,omitempty"`
	ActionID        string         `json:"actionId,omitempty"`
	Scope           string         `json:"scope,omitempty"`
	ActionSignature string         `json:"actionSignature,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	ApprovedAt      *time.Time     `json:"approvedAt,omitempty"`
	RejectedAt      *time.Time     `json:"rejectedAt,omitempty"`
	RejectionReason string         `json:"rejectionReason,omitempty"`
}

// TrustedWorkflow remembers approval decisions for one workflow fingerprint.
// ActionSignatures has set semantics: a signature appears at most once.
type TrustedWorkflow struct {
	Hash             string    `json:"hash"`
	Label            string    `json:"label,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	ActionSignatures []string  `json:"actionSignatures"`
}

// TaskStatus is the lifecycle state of a background task.
type TaskStatus string

const (
	TaskQueued    TaskStatus = "queued"
	TaskRunning   TaskStatus = "running"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

// BackgroundTask tracks one long-running backend job for the task tray.
type BackgroundTask struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Status    TaskStatus `json:"status"`
	Progress  float64    `json:"progress"`
	Error     string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// PlanStep is one step of the agent's published plan.
type PlanStep struct {
	ID     string       `json:"id"`
	Title  string       `json:"title"`
	Status ActionStatus `json:"status"`
}

// PlanData is the agent's current plan, if any.
type PlanData struct {
	ID    string     `json:"id"`
	Goal  string     `json:"goal"`
	Steps []PlanStep `json:"steps"`
}

// ContextItem is one item the user pinned into the model's working context.
type ContextItem struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"` // file, selection, url, note
	Label   string `json:"label"`
	Content string `json:"content,omitempty"`
}

// Citation is one source reference attached to an assistant answer.
type Citation struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	URL     string `json:"url,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// ActionTrailEntry is a transient status tick ("thinking", "searching")
// shown during agent activity. Entries with FadeAfter > 0 remove themselves.
type ActionTrailEntry struct {
	ID        string        `json:"id"`
	Text      string        `json:"text"`
	FadeAfter time.Duration `json:"-"`
	CreatedAt time.Time     `json:"createdAt"`
}

// TokenUsage is the context-window gauge. Percentage is derived from
// Current and Max and never set directly by callers.
type TokenUsage struct {
	Current    int     `json:"current"`
	Max        int     `json:"max"`
	Percentage float64 `json:"percentage"`
}

// TokenUsageUpdate is a partial update to the token gauge.
type TokenUsageUpdate struct {
	Current *int `json:"current,omitempty"`
	Max     *int `json:"max,omitempty"`
}

// SidecarMode selects what the auxiliary panel shows.
type SidecarMode string

const (
	SidecarCode     SidecarMode = "code"
	SidecarBrowser  SidecarMode = "browser"
	SidecarTerminal SidecarMode = "terminal"
	SidecarPreview  SidecarMode = "preview"
	SidecarData     SidecarMode = "data"
)
