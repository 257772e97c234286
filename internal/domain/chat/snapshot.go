package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"workforce/services/chat-state/internal/infrastructure/metrics"
	"workforce/services/chat-state/internal/infrastructure/persistence"
)

const snapshotKey = "chatstate"

// PersistedState is the durable subset of the store. Ephemeral fields
// (streaming flags, approvals, agent status, trail entries) are rebuilt
// from the backend after restart and never written to disk.
type PersistedState struct {
	Conversations        []Conversation              `json:"conversations"`
	ActiveConversationID string                      `json:"activeConversationId"`
	MessagesByConv       map[string][]Message        `json:"messagesByConversation"`
	TrustedWorkflows     map[string]*TrustedWorkflow `json:"trustedWorkflows"`
	SidecarVisible       bool                        `json:"sidecarVisible"`
	SidecarMode          SidecarMode                 `json:"sidecarMode"`
	FocusMode            bool                        `json:"focusMode"`
}

// Snapshot captures the durable subset of the store. Optimistic messages
// are persisted without their pending flag so a restart cannot resurrect
// an in-flight send.
func (s *Store) Snapshot() PersistedState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := PersistedState{
		ActiveConversationID: s.activeConvID,
		MessagesByConv:       make(map[string][]Message, len(s.messagesByConv)),
		TrustedWorkflows:     make(map[string]*TrustedWorkflow, len(s.trustedWorkflows)),
		SidecarVisible:       s.sidecarVisible,
		SidecarMode:          s.sidecarMode,
		FocusMode:            s.focusMode,
	}
	state.Conversations = make([]Conversation, len(s.conversations))
	for i, c := range s.conversations {
		state.Conversations[i] = *c
	}
	for convID, msgs := range s.messagesByConv {
		out := make([]Message, len(msgs))
		for i, m := range msgs {
			cp := *m
			cp.Pending = false
			cp.Streaming = false
			out[i] = cp
		}
		state.MessagesByConv[convID] = out
	}
	for hash, wf := range s.trustedWorkflows {
		cp := *wf
		cp.ActionSignatures = append([]string(nil), wf.ActionSignatures...)
		state.TrustedWorkflows[hash] = &cp
	}
	return state
}

// Restore replaces the durable subset with a previously persisted state.
// The flat message view is rebuilt sharing pointers with the per
// conversation map, same as live mutation paths.
func (s *Store) Restore(state PersistedState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations = make([]*Conversation, len(state.Conversations))
	for i := range state.Conversations {
		c := state.Conversations[i]
		s.conversations[i] = &c
	}
	s.messagesByConv = make(map[string][]*Message, len(state.MessagesByConv))
	for convID, msgs := range state.MessagesByConv {
		out := make([]*Message, len(msgs))
		for i := range msgs {
			m := msgs[i]
			out[i] = &m
		}
		s.messagesByConv[convID] = out
	}
	s.activeConvID = ""
	s.messages = nil
	if state.ActiveConversationID != "" {
		if _, ok := s.messagesByConv[state.ActiveConversationID]; ok {
			s.activeConvID = state.ActiveConversationID
			s.messages = append([]*Message(nil), s.messagesByConv[state.ActiveConversationID]...)
		}
	}
	if s.activeConvID == "" && len(s.conversations) > 0 {
		s.activeConvID = s.conversations[0].ID
		s.messages = append([]*Message(nil), s.messagesByConv[s.activeConvID]...)
	}

	s.trustedWorkflows = make(map[string]*TrustedWorkflow, len(state.TrustedWorkflows))
	for hash, wf := range state.TrustedWorkflows {
		if wf == nil {
			continue
		}
		cp := *wf
		s.trustedWorkflows[hash] = &cp
	}

	s.sidecarVisible = state.SidecarVisible
	if state.SidecarMode != "" {
		s.sidecarMode = state.SidecarMode
	}
	s.focusMode = state.FocusMode

	s.streamingMessageID = ""
	s.isStreaming = false

	s.notifyLocked(EventConversations, "")
	s.notifyLocked(EventMessages, "")
}

// Snapshotter periodically flushes the store's durable subset to disk.
// It wakes on the store's dirty signal, coalesces bursts through the
// flush interval, and writes one final snapshot on Stop.
type Snapshotter struct {
	store    *Store
	files    *persistence.FileStore
	interval time.Duration
	log      zerolog.Logger

	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewSnapshotter(store *Store, files *persistence.FileStore, interval time.Duration, log zerolog.Logger) *Snapshotter {
	return &Snapshotter{
		store:    store,
		files:    files,
		interval: interval,
		done:     make(chan struct{}),
		log:      log.With().Str("component", "snapshotter").Logger(),
	}
}

// RestoreFromDisk loads the last snapshot into the store. A missing
// snapshot is a clean first run; a corrupt one is logged and skipped so
// the app still starts.
func (p *Snapshotter) RestoreFromDisk() {
	var state PersistedState
	err := p.files.Load(snapshotKey, &state)
	switch {
	case err == nil:
		p.store.Restore(state)
		p.log.Info().
			Int("conversations", len(state.Conversations)).
			Msg("restored chat state from disk")
	case errors.Is(err, persistence.ErrKeyNotFound):
		p.log.Debug().Msg("no chat state snapshot on disk")
	default:
		p.log.Warn().Err(err).Msg("failed to restore chat state, starting empty")
	}
}

// Start launches the background flush loop. Safe to call more than once.
func (p *Snapshotter) Start() {
	p.startOnce.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		p.cancel = cancel
		go p.run(ctx)
	})
}

// Stop halts the loop and writes a final snapshot.
func (p *Snapshotter) Stop() {
	p.stopOnce.Do(func() {
		if p.cancel != nil {
			p.cancel()
			<-p.done
		}
		p.flush()
	})
}

func (p *Snapshotter) run(ctx context.Context) {
	defer close(p.done)
	p.log.Info().Dur("interval", p.interval).Msg("snapshotter started")

	for {
		select {
		case <-ctx.Done():
			p.log.Info().Msg("snapshotter stopped")
			return
		case <-p.store.Dirty():
		}

		// Coalesce rapid mutations into one write.
		select {
		case <-ctx.Done():
			p.log.Info().Msg("snapshotter stopped")
			return
		case <-time.After(p.interval):
		}

		p.flush()
	}
}

func (p *Snapshotter) flush() {
	start := time.Now()
	state := p.store.Snapshot()
	if err := p.files.Save(snapshotKey, state); err != nil {
		p.log.Error().Err(err).Msg("failed to persist chat state")
		return
	}
	metrics.SnapshotPersistDuration.Observe(time.Since(start).Seconds())
}
