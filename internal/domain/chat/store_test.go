package chat

import (
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *Store {
	return NewStore(zerolog.Nop())
}

// withTickingClock replaces the store clock with one that advances a second
// per call, so timestamp ordering is deterministic.
func withTickingClock(s *Store) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	s.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
}

func TestOptimisticSendRoundTrip(t *testing.T) {
	s := newTestStore()
	s.EnsureActiveConversation()

	tempID := s.AddOptimisticMessage(Message{Role: RoleUser, Content: "hello"})
	require.NotEmpty(t, tempID)

	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].Pending)

	s.ConfirmOptimisticMessage(tempID, "real-1")

	msgs = s.Messages()
	require.Len(t, msgs, 1, "confirmation must not duplicate the message")
	assert.Equal(t, "real-1", msgs[0].ID)
	assert.False(t, msgs[0].Pending)
	assert.Empty(t, msgs[0].Error)
}

func TestConfirmPreservesPosition(t *testing.T) {
	s := newTestStore()
	s.EnsureActiveConversation()

	first := s.AddOptimisticMessage(Message{Role: RoleUser, Content: "one"})
	s.AddMessage(Message{Role: RoleAssistant, Content: "two"})

	s.ConfirmOptimisticMessage(first, "confirmed-1")

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "confirmed-1", msgs[0].ID)
	assert.Equal(t, "two", msgs[1].Content)
}

func TestFailedSendRetryCycle(t *testing.T) {
	s := newTestStore()
	s.EnsureActiveConversation()

	id := s.AddOptimisticMessage(Message{Role: RoleUser, Content: "hello"})
	s.FailOptimisticMessage(id, "bridge unreachable")

	msg, ok := s.MessageByID(id)
	require.True(t, ok)
	assert.False(t, msg.Pending)
	assert.Equal(t, "bridge unreachable", msg.Error)

	s.RetryFailedMessage(id)

	msg, ok = s.MessageByID(id)
	require.True(t, ok)
	assert.True(t, msg.Pending)
	assert.Empty(t, msg.Error)

	s.ConfirmOptimisticMessage(id, "real-2")
	msg, ok = s.MessageByID("real-2")
	require.True(t, ok)
	assert.False(t, msg.Pending)
}

func TestTogglePinned(t *testing.T) {
	s := newTestStore()
	withTickingClock(s)

	id := s.CreateConversation("pinning")

	s.TogglePinned(id)
	convs := s.Conversations()
	require.Len(t, convs, 1)
	assert.True(t, convs[0].Pinned)
	afterFirst := convs[0].UpdatedAt

	s.TogglePinned(id)
	convs = s.Conversations()
	assert.False(t, convs[0].Pinned)
	assert.True(t, convs[0].UpdatedAt.After(afterFirst))
}

func TestTrustedActionSetSemantics(t *testing.T) {
	s := newTestStore()

	s.RecordTrustedAction("wf-1", "shell:ls")
	s.RecordTrustedAction("wf-1", "shell:ls")
	s.RecordTrustedAction("wf-1", "file:read")

	wfs := s.TrustedWorkflows()
	require.Contains(t, wfs, "wf-1")
	assert.Equal(t, []string{"shell:ls", "file:read"}, wfs["wf-1"].ActionSignatures)

	assert.True(t, s.IsActionTrusted("wf-1", "shell:ls"))
	assert.False(t, s.IsActionTrusted("wf-1", "shell:rm"))
	assert.False(t, s.IsActionTrusted("wf-2", "shell:ls"))
}

func TestIsActionTrustedEmptyInputs(t *testing.T) {
	s := newTestStore()
	s.RecordTrustedAction("wf-1", "shell:ls")

	assert.False(t, s.IsActionTrusted("", "shell:ls"))
	assert.False(t, s.IsActionTrusted("wf-1", ""))
	assert.False(t, s.IsActionTrusted("", ""))
}

func TestApprovalResolutionLeavesOthers(t *testing.T) {
	s := newTestStore()

	first := s.AddApprovalRequest(ApprovalRequest{Type: "shell", Description: "run ls"})
	second := s.AddApprovalRequest(ApprovalRequest{Type: "file", Description: "write a.txt"})

	s.ApproveOperation(first)

	pending := s.PendingApprovals()
	require.Len(t, pending, 1)
	assert.Equal(t, second, pending[0].ID)

	s.RejectOperation(second, "too risky")
	assert.Empty(t, s.PendingApprovals())
}

func TestActionLogBounded(t *testing.T) {
	s := newTestStore()

	for i := 0; i < 600; i++ {
		s.AddActionLogEntry(ActionLogEntry{
			ID:    fmt.Sprintf("entry-%d", i),
			Title: fmt.Sprintf("action %d", i),
		})
	}

	log := s.ActionLog()
	require.Len(t, log, 500)
	assert.Equal(t, "entry-599", log[0].ID, "newest entry first")
	assert.Equal(t, "entry-100", log[499].ID, "oldest surviving entry last")
}

func TestDeleteActiveConversationReselects(t *testing.T) {
	s := newTestStore()

	c1 := s.CreateConversation("first")
	c2 := s.CreateConversation("second")
	s.SelectConversation(c1)
	s.AddMessage(Message{Role: RoleUser, Content: "in first"})

	s.DeleteConversation(c1)

	assert.Equal(t, c2, s.ActiveConversationID())
	assert.Empty(t, s.Messages())
}

func TestDeleteLastConversationClearsActive(t *testing.T) {
	s := newTestStore()

	id := s.CreateConversation("only")
	s.AddMessage(Message{Role: RoleUser, Content: "hi"})
	s.DeleteConversation(id)

	assert.Empty(t, s.ActiveConversationID())
	assert.Empty(t, s.Messages())
	assert.Empty(t, s.Conversations())
}

func TestDeleteInactiveConversationKeepsView(t *testing.T) {
	s := newTestStore()

	c1 := s.CreateConversation("first")
	c2 := s.CreateConversation("second")
	s.AddMessage(Message{Role: RoleUser, Content: "in second"})

	s.DeleteConversation(c1)

	assert.Equal(t, c2, s.ActiveConversationID())
	require.Len(t, s.Messages(), 1)
}

func TestEnsureActiveConversationNoClobber(t *testing.T) {
	s := newTestStore()

	id := s.EnsureActiveConversation()
	s.AddMessage(Message{Role: RoleUser, Content: "kept"})

	again := s.EnsureActiveConversation()
	assert.Equal(t, id, again)
	require.Len(t, s.Messages(), 1, "re-ensuring must not duplicate or drop messages")
}

func TestSelectConversationSwapsView(t *testing.T) {
	s := newTestStore()

	c1 := s.CreateConversation("first")
	s.AddMessage(Message{Role: RoleUser, Content: "m1"})
	c2 := s.CreateConversation("second")
	s.AddMessage(Message{Role: RoleUser, Content: "m2"})

	s.SelectConversation(c1)
	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "m1", msgs[0].Content)

	s.SelectConversation(c2)
	msgs = s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "m2", msgs[0].Content)
}

func TestStreamingAppendAfterSwitchingAway(t *testing.T) {
	s := newTestStore()

	c1 := s.CreateConversation("streamed")
	msgID := s.AddMessage(Message{Role: RoleAssistant, Content: "chunk1"})
	c2 := s.CreateConversation("viewer")

	s.SelectConversation(c1)
	s.SetStreamingMessage(msgID)
	s.SelectConversation(c2)

	s.AppendToStreamingMessage(" chunk2")

	msg, ok := s.MessageByID(msgID)
	require.True(t, ok)
	assert.Equal(t, "chunk1 chunk2", msg.Content, "stream keeps writing after switching away")
	assert.Empty(t, s.Messages(), "viewer conversation stays untouched")
}

func TestUpdateTokenUsage(t *testing.T) {
	s := newTestStore()

	cur, limit := 500, 2000
	s.UpdateTokenUsage(TokenUsageUpdate{Current: &cur, Max: &limit})
	usage := s.TokenUsage()
	assert.InDelta(t, 25.0, usage.Percentage, 0.001)

	zero := 0
	s.UpdateTokenUsage(TokenUsageUpdate{Max: &zero})
	assert.Zero(t, s.TokenUsage().Percentage)
}

func TestActionTrailFades(t *testing.T) {
	s := newTestStore()

	id := s.AddActionTrailEntry(ActionTrailEntry{Text: "thinking", FadeAfter: 20 * time.Millisecond})
	require.Len(t, s.ActionTrail(), 1)

	assert.Eventually(t, func() bool {
		return len(s.ActionTrail()) == 0
	}, time.Second, 5*time.Millisecond)

	// Removing after the fade already fired is a no-op.
	s.RemoveActionTrailEntry(id)
}

func TestActionTrailManualRemoveCancelsFade(t *testing.T) {
	s := newTestStore()

	id := s.AddActionTrailEntry(ActionTrailEntry{Text: "searching", FadeAfter: 50 * time.Millisecond})
	s.RemoveActionTrailEntry(id)
	assert.Empty(t, s.ActionTrail())

	s.mu.Lock()
	_, pending := s.fadeTimers[id]
	s.mu.Unlock()
	assert.False(t, pending, "fade timer must be cancelled on manual removal")
}

func TestBackgroundTaskLifecycle(t *testing.T) {
	s := newTestStore()

	id := s.AddBackgroundTask(BackgroundTask{Title: "indexing"})
	tasks := s.BackgroundTasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, TaskQueued, tasks[0].Status)

	running := TaskRunning
	progress := 140.0
	s.UpdateBackgroundTask(id, BackgroundTaskUpdate{Status: &running, Progress: &progress})

	tasks = s.BackgroundTasks()
	assert.Equal(t, TaskRunning, tasks[0].Status)
	assert.Equal(t, 100.0, tasks[0].Progress, "progress is clamped")

	s.RemoveBackgroundTask(id)
	assert.Empty(t, s.BackgroundTasks())
}

func TestPlanStepUpdate(t *testing.T) {
	s := newTestStore()

	s.SetPlan(&PlanData{
		ID:   "plan-1",
		Goal: "ship it",
		Steps: []PlanStep{
			{ID: "s1", Title: "draft", Status: ActionPending},
			{ID: "s2", Title: "review", Status: ActionPending},
		},
	})

	s.UpdatePlanStep("s2", ActionSuccess)

	plan := s.Plan()
	require.NotNil(t, plan)
	assert.Equal(t, ActionPending, plan.Steps[0].Status)
	assert.Equal(t, ActionSuccess, plan.Steps[1].Status)

	s.UpdatePlanStep("missing", ActionSuccess)
	s.SetPlan(nil)
	assert.Nil(t, s.Plan())
}

func TestSubscribeReceivesEvents(t *testing.T) {
	s := newTestStore()

	ch, cancel := s.Subscribe()
	defer cancel()

	s.CreateConversation("watched")

	select {
	case ev := <-ch:
		assert.Equal(t, EventConversations, ev.Kind)
	case <-time.After(time.Second):
		t.Fatal("expected a conversation event")
	}
}

func TestSnapshotStripsEphemeralFlags(t *testing.T) {
	s := newTestStore()
	s.EnsureActiveConversation()

	s.AddOptimisticMessage(Message{Role: RoleUser, Content: "in flight"})
	failed := s.AddOptimisticMessage(Message{Role: RoleUser, Content: "broken"})
	s.FailOptimisticMessage(failed, "boom")

	state := s.Snapshot()
	for _, msgs := range state.MessagesByConv {
		for _, m := range msgs {
			assert.False(t, m.Pending, "pending flag must not be persisted")
			assert.False(t, m.Streaming)
		}
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	s := newTestStore()

	c1 := s.CreateConversation("alpha")
	s.AddMessage(Message{Role: RoleUser, Content: "hello"})
	s.CreateConversation("beta")
	s.SelectConversation(c1)
	s.RecordTrustedAction("wf-1", "shell:ls")
	s.SetFocusMode(true)
	s.SetSidecarMode(SidecarTerminal)

	restored := newTestStore()
	restored.Restore(s.Snapshot())

	assert.Equal(t, c1, restored.ActiveConversationID())
	require.Len(t, restored.Conversations(), 2)
	require.Len(t, restored.Messages(), 1)
	assert.True(t, restored.IsActionTrusted("wf-1", "shell:ls"))

	visible, mode, focus := restored.Projection()
	assert.True(t, visible)
	assert.Equal(t, SidecarTerminal, mode)
	assert.True(t, focus)
}

func TestRestoreRebuildsSharedView(t *testing.T) {
	s := newTestStore()
	s.CreateConversation("alpha")
	msgID := s.AddMessage(Message{Role: RoleAssistant, Content: "before"})

	restored := newTestStore()
	restored.Restore(s.Snapshot())

	// Mutating through the map must be visible through the flat view.
	restored.SetStreamingMessage(msgID)
	restored.AppendToStreamingMessage(" after")

	msgs := restored.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "before after", msgs[0].Content)
}

func TestRestoreThenDeleteKeepsViewsAligned(t *testing.T) {
	s := newTestStore()
	s.CreateConversation("alpha")
	s.AddMessage(Message{Role: RoleUser, Content: "one"})
	middle := s.AddMessage(Message{Role: RoleAssistant, Content: "two"})
	s.AddMessage(Message{Role: RoleUser, Content: "three"})

	restored := newTestStore()
	restored.Restore(s.Snapshot())

	// Removing from the map list must not shift the flat view out from
	// under its own second pass.
	restored.DeleteMessage(middle)

	msgs := restored.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "one", msgs[0].Content)
	assert.Equal(t, "three", msgs[1].Content)
}

func TestRestoreUnknownActiveFallsBack(t *testing.T) {
	s := newTestStore()
	s.CreateConversation("alpha")
	state := s.Snapshot()
	state.ActiveConversationID = "conv_gone"

	restored := newTestStore()
	restored.Restore(state)

	require.Len(t, restored.Conversations(), 1)
	assert.Equal(t, restored.Conversations()[0].ID, restored.ActiveConversationID())
}
