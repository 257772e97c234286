package agent

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeFreshAgentDefaults(t *testing.T) {
	got := Merge(nil, json.RawMessage(`{"id":"a1","name":"Research Agent"}`))

	assert.Equal(t, "a1", got.ID)
	assert.Equal(t, "Research Agent", got.Name)
	assert.Equal(t, StateIdle, got.State)
	assert.Zero(t, got.Progress)
	assert.Nil(t, got.StartedAt)
}

func TestMergeNormalizesState(t *testing.T) {
	tests := []struct {
		name  string
		input string
		prev  State
		want  State
	}{
		{"lowercases valid state", `{"status":"RUNNING"}`, StateIdle, StateRunning},
		{"unknown state keeps previous", `{"status":"bogus"}`, StatePaused, StatePaused},
		{"non-string state keeps previous", `{"status":42}`, StateRunning, StateRunning},
		{"missing state keeps previous", `{}`, StateCompleted, StateCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := &Status{ID: "a1", State: tt.prev}
			got := Merge(prev, json.RawMessage(tt.input))
			assert.Equal(t, tt.want, got.State)
		})
	}
}

func TestMergeClampsProgress(t *testing.T) {
	tests := []struct {
		name  string
		input string
		prev  float64
		want  float64
	}{
		{"plain number", `{"progress":55}`, 0, 55},
		{"numeric string", `{"progress":"72.5"}`, 0, 72.5},
		{"clamped above", `{"progress":250}`, 10, 100},
		{"clamped below", `{"progress":-5}`, 10, 0},
		{"garbage string keeps previous", `{"progress":"NaN%"}`, 33, 33},
		{"wrong type keeps previous", `{"progress":{"v":1}}`, 33, 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := &Status{ID: "a1", Progress: tt.prev}
			got := Merge(prev, json.RawMessage(tt.input))
			assert.Equal(t, tt.want, got.Progress)
		})
	}
}

func TestMergeTimestampEncodings(t *testing.T) {
	want := time.UnixMilli(1700000000000)

	tests := []struct {
		name  string
		input string
	}{
		{"epoch seconds", `{"started_at":1700000000}`},
		{"epoch milliseconds", `{"started_at":1700000000000}`},
		{"numeric string seconds", `{"startedAt":"1700000000"}`},
		{"iso string", `{"startedAt":"2023-11-14T22:13:20Z"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(nil, json.RawMessage(tt.input))
			require.NotNil(t, got.StartedAt)
			assert.True(t, got.StartedAt.Equal(want), "got %v want %v", got.StartedAt, want)
		})
	}
}

func TestMergeInvalidTimestampKeepsPrevious(t *testing.T) {
	prior := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	prev := &Status{ID: "a1", StartedAt: &prior}

	got := Merge(prev, json.RawMessage(`{"startedAt":"not-a-date"}`))
	require.NotNil(t, got.StartedAt)
	assert.True(t, got.StartedAt.Equal(prior))
}

func TestMergeGarbagePayloadLeavesRecordIntact(t *testing.T) {
	started := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	prev := &Status{
		ID:        "a1",
		Name:      "Main Agent",
		State:     StateRunning,
		Progress:  40,
		StartedAt: &started,
	}

	got := Merge(prev, json.RawMessage(`{"id":"a1","status":"bogus","progress":"NaN","startedAt":"not-a-date"}`))

	assert.Equal(t, StateRunning, got.State)
	assert.Equal(t, float64(40), got.Progress)
	require.NotNil(t, got.StartedAt)
	assert.True(t, got.StartedAt.Equal(started))
}

func TestMergeResourceUsage(t *testing.T) {
	prev := &Status{ID: "a1", ResourceUsage: &ResourceUsage{CPU: 10, Memory: 20}}

	got := Merge(prev, json.RawMessage(`{"resource_usage":{"cpu":55.5,"memory":1024}}`))
	require.NotNil(t, got.ResourceUsage)
	assert.Equal(t, 55.5, got.ResourceUsage.CPU)
	assert.Equal(t, float64(1024), got.ResourceUsage.Memory)

	// Malformed usage keeps the previous value.
	got = Merge(&got, json.RawMessage(`{"resourceUsage":"busy"}`))
	require.NotNil(t, got.ResourceUsage)
	assert.Equal(t, 55.5, got.ResourceUsage.CPU)

	got = Merge(&got, json.RawMessage(`{"resourceUsage":{"cpu":"high","memory":1}}`))
	assert.Equal(t, 55.5, got.ResourceUsage.CPU)
}

func TestMergeUnparseablePayload(t *testing.T) {
	prev := &Status{ID: "a1", State: StateRunning, Progress: 80}
	got := Merge(prev, json.RawMessage(`not json at all`))
	assert.Equal(t, *prev, got)
}

func TestMergeSnakeCaseStep(t *testing.T) {
	got := Merge(nil, json.RawMessage(`{"id":"main_agent","current_step":"Planning actions...","progress":30}`))
	assert.Equal(t, "Planning actions...", got.CurrentStep)
	assert.Equal(t, float64(30), got.Progress)
}

func TestEventID(t *testing.T) {
	assert.Equal(t, "a1", EventID(json.RawMessage(`{"id":"a1"}`)))
	assert.Equal(t, "", EventID(json.RawMessage(`{"id":7}`)))
	assert.Equal(t, "", EventID(json.RawMessage(`garbage`)))
}
