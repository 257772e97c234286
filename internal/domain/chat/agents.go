package chat

import (
	"encoding/json"

	"workforce/services/chat-state/internal/domain/agent"
	"workforce/services/chat-state/internal/infrastructure/metrics"
)

// SetAgentsFromSnapshot replaces the whole agent list from a bootstrap
// snapshot. The primary pointer prefers a running or paused agent, then the
// first agent, then none.
func (s *Store) SetAgentsFromSnapshot(snapshots []json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.agents = make([]agent.Status, 0, len(snapshots))
	for _, raw := range snapshots {
		s.agents = append(s.agents, agent.ParseSnapshot(raw))
	}

	s.primaryAgentID = ""
	for i := range s.agents {
		if s.agents[i].State == agent.StateRunning || s.agents[i].State == agent.StatePaused {
			s.primaryAgentID = s.agents[i].ID
			break
		}
	}
	if s.primaryAgentID == "" && len(s.agents) > 0 {
		s.primaryAgentID = s.agents[0].ID
	}

	s.notifyLocked(EventAgents, "")
}

// ApplyAgentUpdate merges one push-event payload into the tracked agent
// list. Payloads without a usable id are dropped. The primary pointer moves
// to the updated agent when it was unset, already pointed there, or the
// incoming state is running; running agents always take visibility priority.
func (s *Store) ApplyAgentUpdate(raw json.RawMessage) {
	id := agent.EventID(raw)
	if id == "" {
		metrics.AgentEvents.WithLabelValues("dropped").Inc()
		s.log.Warn().Msg("discarding agent event without id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.agents {
		if s.agents[i].ID == id {
			idx = i
			break
		}
	}

	var prev *agent.Status
	if idx >= 0 {
		prev = &s.agents[idx]
	}
	merged := agent.Merge(prev, raw)

	if idx >= 0 {
		s.agents[idx] = merged
	} else {
		s.agents = append(s.agents, merged)
		idx = len(s.agents) - 1
	}

	if s.primaryAgentID == "" ||
		s.primaryAgentID == id ||
		merged.State == agent.StateRunning {
		s.primaryAgentID = id
	}

	metrics.AgentEvents.WithLabelValues("merged").Inc()
	s.notifyLocked(EventAgents, id)
}
