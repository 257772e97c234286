package chat

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"workforce/services/chat-state/internal/domain/agent"
	"workforce/services/chat-state/internal/utils/idgen"
)

// actionLogCap bounds the action log; the oldest entries are dropped beyond
// it so memory stays flat regardless of session length.
const actionLogCap = 500

// EventKind tags a store change notification.
type EventKind string

const (
	EventConversations EventKind = "conversations"
	EventMessages      EventKind = "messages"
	EventOperations    EventKind = "operations"
	EventActionLog     EventKind = "action_log"
	EventApprovals     EventKind = "approvals"
	EventAgents        EventKind = "agents"
	EventTasks         EventKind = "tasks"
	EventProjection    EventKind = "projection"
)

// Event notifies subscribers that a slice of the store changed. ID, when
// set, is the entity the change concerns.
type Event struct {
	Kind EventKind `json:"kind"`
	ID   string    `json:"id,omitempty"`
}

// Store is the single source of truth for client-side chat state. All
// mutation methods are synchronous, never block on I/O and never fail on
// state they cannot find: updates of unknown ids degrade to no-ops, external
// payloads are normalized before they touch any invariant.
//
// Messages are held once, in messagesByConv; the flat messages slice is the
// cached view of the active conversation and shares the same pointers, so a
// patch through either is visible in both.
type Store struct {
	mu sync.Mutex

	conversations  []*Conversation
	activeConvID   string
	messages       []*Message
	messagesByConv map[string][]*Message

	streamingMessageID string
	isStreaming        bool

	fileOps      []FileOperation
	terminalCmds []*TerminalCommand
	toolExecs    []ToolExecution
	screenshots  []Screenshot
	actionLog    []*ActionLogEntry

	approvals        []*ApprovalRequest
	trustedWorkflows map[string]*TrustedWorkflow

	agents         []agent.Status
	primaryAgentID string

	tasks        []*BackgroundTask
	plan         *PlanData
	contextItems []ContextItem

	citations   []Citation
	actionTrail []ActionTrailEntry
	fadeTimers  map[string]*time.Timer
	tokenUsage  TokenUsage

	sidecarVisible bool
	sidecarMode    SidecarMode
	focusMode      bool

	subs   map[int]chan Event
	nextID int
	dirty  chan struct{}

	now func() time.Time
	log zerolog.Logger
}

// NewStore creates an empty store.
func NewStore(log zerolog.Logger) *Store {
	return &Store{
		messagesByConv:   make(map[string][]*Message),
		trustedWorkflows: make(map[string]*TrustedWorkflow),
		fadeTimers:       make(map[string]*time.Timer),
		subs:             make(map[int]chan Event),
		dirty:            make(chan struct{}, 1),
		sidecarMode:      SidecarCode,
		now:              time.Now,
		log:              log.With().Str("component", "chat-store").Logger(),
	}
}

// Subscribe registers a change listener. The returned channel is buffered;
// events are dropped, not blocked on, if the subscriber falls behind.
// Consumers re-read the slices they care about on each event, so a dropped
// event only delays a repaint.
func (s *Store) Subscribe() (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Event, 64)
	id := s.nextID
	s.nextID++
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
}

// Dirty exposes a level-triggered signal that persisted state changed.
func (s *Store) Dirty() <-chan struct{} {
	return s.dirty
}

// notifyLocked fans an event out to subscribers. Callers hold the lock;
// sends are non-blocking against the buffered channels.
func (s *Store) notifyLocked(kind EventKind, id string) {
	ev := Event{Kind: kind, ID: id}
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// markDirtyLocked flags that the persisted subset changed.
func (s *Store) markDirtyLocked() {
	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

func (s *Store) newID(prefix string) string {
	return idgen.MustNewID(prefix, 16)
}

// ---- read accessors -------------------------------------------------------

// Conversations returns a copy of the conversation list in display order.
func (s *Store) Conversations() []Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Conversation, len(s.conversations))
	for i, c := range s.conversations {
		out[i] = *c
	}
	return out
}

// ActiveConversationID returns the active conversation id, or "".
func (s *Store) ActiveConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeConvID
}

// Messages returns a copy of the flat active-conversation view.
func (s *Store) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyMessages(s.messages)
}

// MessagesFor returns a copy of the stored messages of one conversation.
func (s *Store) MessagesFor(conversationID string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyMessages(s.messagesByConv[conversationID])
}

func copyMessages(in []*Message) []Message {
	out := make([]Message, len(in))
	for i, m := range in {
		out[i] = *m
	}
	return out
}

// Agents returns a copy of the tracked agent list.
func (s *Store) Agents() []agent.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]agent.Status, len(s.agents))
	copy(out, s.agents)
	return out
}

// PrimaryAgent returns the agent most relevant for simple UI, or nil.
func (s *Store) PrimaryAgent() *agent.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.primaryAgentID == "" {
		return nil
	}
	for i := range s.agents {
		if s.agents[i].ID == s.primaryAgentID {
			cp := s.agents[i]
			return &cp
		}
	}
	return nil
}

// StreamingMessageID returns the current streaming target, or "".
func (s *Store) StreamingMessageID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streamingMessageID
}

// IsStreaming reports whether a stream is active application-wide.
func (s *Store) IsStreaming() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isStreaming
}
