// Package agent models the status of running agents and owns the ingress
// normalization of externally supplied status payloads. The push channel is
// not under this service's control, so every field is coerced defensively:
// malformed input falls back to the previous known value, never to an
// unchecked raw value, and the merge never fails.
package agent

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// State is the lifecycle state of an agent.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StatePaused    State = "paused"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

var validStates = map[State]bool{
	StateIdle:      true,
	StateRunning:   true,
	StatePaused:    true,
	StateCompleted: true,
	StateFailed:    true,
}

// ResourceUsage is the agent's reported resource consumption.
type ResourceUsage struct {
	CPU    float64 `json:"cpu"`
	Memory float64 `json:"memory"`
}

// Status is the normalized record for one agent.
type Status struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	State         State          `json:"status"`
	CurrentGoal   string         `json:"currentGoal,omitempty"`
	CurrentStep   string         `json:"currentStep,omitempty"`
	Progress      float64        `json:"progress"`
	ResourceUsage *ResourceUsage `json:"resourceUsage,omitempty"`
	StartedAt     *time.Time     `json:"startedAt,omitempty"`
	CompletedAt   *time.Time     `json:"completedAt,omitempty"`
	Error         string         `json:"error,omitempty"`
}

// EventID extracts the agent id from a raw payload without normalizing the
// rest. Returns "" if the payload has no usable id.
func EventID(raw json.RawMessage) string {
	var head struct {
		ID any `json:"id"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return ""
	}
	return coerceString(head.ID)
}

// Merge applies a partial update payload against the previous record for the
// same agent. prev may be nil for a newly seen agent, in which case defaults
// apply (state idle, progress 0). Unrecognized fields are ignored; payload
// keys are accepted in both camelCase and snake_case.
func Merge(prev *Status, raw json.RawMessage) Status {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		fields = nil
	}

	var next Status
	if prev != nil {
		next = *prev
	} else {
		next.State = StateIdle
	}

	if fields == nil {
		return next
	}

	if id := coerceString(fields["id"]); id != "" {
		next.ID = id
	}
	if name := coerceString(fields["name"]); name != "" {
		next.Name = name
	}
	if state, ok := coerceState(fields["status"]); ok {
		next.State = state
	}
	if goal, ok := pick(fields, "currentGoal", "current_goal"); ok {
		if s := coerceString(goal); s != "" {
			next.CurrentGoal = s
		}
	}
	if step, ok := pick(fields, "currentStep", "current_step"); ok {
		if s := coerceString(step); s != "" {
			next.CurrentStep = s
		}
	}
	if raw, ok := fields["progress"]; ok {
		if p, ok := coerceProgress(raw); ok {
			next.Progress = p
		}
	}
	if raw, ok := pick(fields, "resourceUsage", "resource_usage"); ok {
		if usage, ok := coerceResourceUsage(raw); ok {
			next.ResourceUsage = usage
		}
	}
	if raw, ok := pick(fields, "startedAt", "started_at"); ok {
		if ts, ok := coerceTimestamp(raw); ok {
			next.StartedAt = &ts
		}
	}
	if raw, ok := pick(fields, "completedAt", "completed_at"); ok {
		if ts, ok := coerceTimestamp(raw); ok {
			next.CompletedAt = &ts
		}
	}
	if errMsg := coerceString(fields["error"]); errMsg != "" {
		next.Error = errMsg
	}

	return next
}

func pick(fields map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := fields[k]; ok {
			return v, true
		}
	}
	return nil, false
}

func coerceString(v any) string {
	s, _ := v.(string)
	return s
}

func coerceState(v any) (State, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	state := State(strings.ToLower(strings.TrimSpace(s)))
	if !validStates[state] {
		return "", false
	}
	return state, true
}

// coerceProgress accepts numbers and numeric strings, clamped to [0, 100].
func coerceProgress(v any) (float64, bool) {
	var p float64
	switch val := v.(type) {
	case float64:
		p = val
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		p = parsed
	default:
		return 0, false
	}
	if p != p { // NaN
		return 0, false
	}
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return p, true
}

// coerceTimestamp accepts epoch numbers (seconds below the 13-digit
// millisecond threshold), numeric strings and RFC 3339 strings.
func coerceTimestamp(v any) (time.Time, bool) {
	switch val := v.(type) {
	case float64:
		return epochToTime(int64(val)), true
	case string:
		trimmed := strings.TrimSpace(val)
		if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return epochToTime(n), true
		}
		if ts, err := time.Parse(time.RFC3339, trimmed); err == nil {
			return ts, true
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

func epochToTime(n int64) time.Time {
	if n < 1_000_000_000_000 {
		n *= 1000 // bare seconds
	}
	return time.UnixMilli(n)
}

func coerceResourceUsage(v any) (*ResourceUsage, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	cpu, cpuOK := m["cpu"].(float64)
	mem, memOK := m["memory"].(float64)
	if !cpuOK || !memOK {
		return nil, false
	}
	return &ResourceUsage{CPU: cpu, Memory: mem}, true
}

// ParseSnapshot normalizes one entry of the bootstrap snapshot.
func ParseSnapshot(raw json.RawMessage) Status {
	return Merge(nil, raw)
}
