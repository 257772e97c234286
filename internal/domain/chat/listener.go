package chat

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/rs/zerolog"

	"workforce/services/chat-state/internal/infrastructure/bridge"
)

// listenerActive guards against double registration: status events applied
// twice would defeat the store's duplicate suppression.
var listenerActive atomic.Bool

// AgentListener keeps the store's agent roster current: an initial full
// refresh over the command bridge, then incremental updates from the push
// socket. Failures are logged rather than returned; the roster heals on the
// next refresh.
type AgentListener struct {
	store  *Store
	bridge *bridge.Client
	events *bridge.EventClient
	unsub  bridge.Unsubscribe
	log    zerolog.Logger
}

// StartAgentListener bootstraps the roster and subscribes to status pushes.
// A second call while a listener is active returns nil.
func StartAgentListener(ctx context.Context, store *Store, bc *bridge.Client, events *bridge.EventClient, log zerolog.Logger) *AgentListener {
	if !listenerActive.CompareAndSwap(false, true) {
		return nil
	}

	l := &AgentListener{
		store:  store,
		bridge: bc,
		events: events,
		log:    log.With().Str("component", "agent-listener").Logger(),
	}

	if err := l.Refresh(ctx); err != nil {
		// The push subscription below still lands updates; the roster just
		// starts empty.
		l.log.Warn().Err(err).Msg("initial agent status refresh failed")
	}

	l.unsub = events.Subscribe(bridge.ChannelAgentStatus, func(payload json.RawMessage) {
		store.ApplyAgentUpdate(payload)
	})

	l.log.Info().Msg("agent listener registered")
	return l
}

// Refresh replaces the roster with a full snapshot from the backend.
func (l *AgentListener) Refresh(ctx context.Context) error {
	snapshots, err := l.bridge.RefreshAgentStatus(ctx)
	if err != nil {
		return err
	}
	l.store.SetAgentsFromSnapshot(snapshots)
	return nil
}

// Stop unsubscribes from status pushes and releases the registration guard.
func (l *AgentListener) Stop() {
	if l.unsub != nil {
		l.unsub()
	}
	listenerActive.Store(false)
}
