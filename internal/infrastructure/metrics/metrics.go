// Package metrics provides Prometheus metrics for the chat-state service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MessagesAdded counts messages appended to the store by role.
	MessagesAdded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_state_messages_added_total",
			Help: "Total number of messages added to the chat store",
		},
		[]string{"role"},
	)

	// PendingMessages tracks optimistic messages awaiting confirmation.
	PendingMessages = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_state_pending_messages",
			Help: "Number of optimistic messages awaiting backend acknowledgment",
		},
	)

	// ActiveConversations tracks the number of conversations held in memory.
	ActiveConversations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_state_conversations",
			Help: "Number of conversations tracked by the chat store",
		},
	)

	// ApprovalsResolved counts approval resolutions by outcome.
	ApprovalsResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_state_approvals_resolved_total",
			Help: "Total number of approval requests resolved",
		},
		[]string{"resolution"},
	)

	// PendingApprovals tracks unresolved approval requests.
	PendingApprovals = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_state_pending_approvals",
			Help: "Number of approval requests awaiting a decision",
		},
	)

	// TrustedAutoApprovals counts approvals granted from the trust cache.
	TrustedAutoApprovals = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_state_trusted_auto_approvals_total",
			Help: "Total number of operations auto-approved from the trusted workflow cache",
		},
	)

	// AgentEvents counts agent status push events by outcome of the merge.
	AgentEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_state_agent_events_total",
			Help: "Total number of agent status events processed",
		},
		[]string{"outcome"},
	)

	// BridgeCommands counts backend command invocations.
	BridgeCommands = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_state_bridge_commands_total",
			Help: "Total number of backend commands invoked",
		},
		[]string{"command", "outcome"},
	)

	// BridgeRetries counts retried command attempts.
	BridgeRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_state_bridge_retries_total",
			Help: "Total number of backend command retry attempts",
		},
	)

	// SnapshotPersistDuration tracks how long snapshot writes take.
	SnapshotPersistDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chat_state_snapshot_persist_duration_seconds",
			Help:    "Duration of chat store snapshot writes",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
	)

	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_state_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chat_state_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

// RecordRequest records one completed HTTP request.
func RecordRequest(method, endpoint, status string, duration float64) {
	httpRequests.WithLabelValues(method, endpoint, status).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}
