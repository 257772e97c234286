package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workforce/services/chat-state/internal/config"
	"workforce/services/chat-state/internal/domain/chat"
	"workforce/services/chat-state/internal/infrastructure/bridge"
	"workforce/services/chat-state/internal/infrastructure/idmap"
	"workforce/services/chat-state/internal/infrastructure/persistence"
)

func newTestServer(t *testing.T) *HTTPServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/commands/send_chat_message":
			json.NewEncoder(w).Encode(map[string]int64{"conversation_id": 1, "message_id": 1})
		case "/commands/list_conversations":
			json.NewEncoder(w).Encode(map[string]any{"conversations": []any{}})
		case "/commands/mcp_list_tools":
			json.NewEncoder(w).Encode(map[string]any{"tools": []map[string]string{
				{"name": "search", "description": "full text search"},
			}})
		case "/commands/mcp_call_tool":
			json.NewEncoder(w).Encode(map[string]any{"matches": 3})
		default:
			json.NewEncoder(w).Encode(map[string]bool{"ok": true})
		}
	}))
	t.Cleanup(backend.Close)

	cfg := &config.Config{
		ServiceName:         "chat-state",
		Environment:         "test",
		HTTPPort:            0,
		ShutdownTimeout:     time.Second,
		BridgeBaseURL:       backend.URL,
		CommandTimeout:      2 * time.Second,
		HeavyCommandTimeout: 2 * time.Second,
		RetryMaxAttempts:    1,
		RetryBaseDelay:      time.Millisecond,
	}

	files, err := persistence.NewFileStore(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)

	store := chat.NewStore(zerolog.Nop())
	client := bridge.NewClient(cfg, zerolog.Nop())
	translator := idmap.NewTranslator(files, zerolog.Nop())
	service := chat.NewService(store, client, translator, zerolog.Nop())

	return New(cfg, zerolog.Nop(), service, nil, client)
}

func doJSON(t *testing.T, srv *HTTPServer, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/", "/healthz", "/readyz", "/metrics"} {
		rec := doJSON(t, srv, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
}

func TestConversationLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/v1/conversations", map[string]string{"title": "research"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		OK bool   `json:"ok"`
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	rec = doJSON(t, srv, http.MethodGet, "/v1/conversations", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Conversations []chat.Conversation `json:"conversations"`
		ActiveID      string              `json:"activeId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Conversations, 1)
	assert.Equal(t, "research", list.Conversations[0].Title)
	assert.Equal(t, created.ID, list.ActiveID)

	rec = doJSON(t, srv, http.MethodPatch, "/v1/conversations/"+created.ID, map[string]string{"title": "renamed"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/v1/conversations/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/v1/conversations", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Empty(t, list.Conversations)
}

func TestRenameRequiresTitle(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPatch, "/v1/conversations/whatever", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendAndListMessages(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/v1/messages", map[string]string{"content": "hello"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/v1/messages", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Messages []chat.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Messages, 1)
	assert.Equal(t, "hello", list.Messages[0].Content)
	assert.False(t, list.Messages[0].Pending)
}

func TestSendMessageRequiresContent(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/v1/messages", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApprovalFlow(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/v1/approvals", map[string]any{
		"type":            "shell",
		"description":     "run ls",
		"workflowHash":    "wf-1",
		"actionSignature": "shell:ls",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID           string `json:"id"`
		AutoApproved bool   `json:"autoApproved"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.False(t, created.AutoApproved)

	rec = doJSON(t, srv, http.MethodPost, "/v1/approvals/"+created.ID+"/resolve", map[string]any{
		"approved": true,
		"remember": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// The remembered signature now auto-approves.
	rec = doJSON(t, srv, http.MethodPost, "/v1/approvals", map[string]any{
		"type":            "shell",
		"description":     "run ls again",
		"workflowHash":    "wf-1",
		"actionSignature": "shell:ls",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, created.AutoApproved)
}

func TestResolveUnknownApproval(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/v1/approvals/nope/resolve", map[string]any{"approved": true})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUISidecarRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPut, "/v1/ui/sidecar", map[string]any{
		"visible": true,
		"mode":    "terminal",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var ui struct {
		SidecarVisible bool   `json:"sidecarVisible"`
		SidecarMode    string `json:"sidecarMode"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ui))
	assert.True(t, ui.SidecarVisible)
	assert.Equal(t, "terminal", ui.SidecarMode)
}

func TestStateSnapshot(t *testing.T) {
	srv := newTestServer(t)

	doJSON(t, srv, http.MethodPost, "/v1/messages", map[string]string{"content": "hydrate me"})

	rec := doJSON(t, srv, http.MethodGet, "/v1/state", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var state struct {
		Conversations []chat.Conversation `json:"conversations"`
		Messages      []chat.Message      `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	require.Len(t, state.Conversations, 1)
	require.Len(t, state.Messages, 1)
}

func TestAgentsEmptyRoster(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/v1/agents", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/v1/agents/primary", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMCPToolsPassthrough(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/v1/tools", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listing struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Len(t, listing.Tools, 1)
	assert.Equal(t, "search", listing.Tools[0].Name)

	rec = doJSON(t, srv, http.MethodPost, "/v1/tools/search/call", map[string]any{
		"arguments": map[string]string{"query": "release notes"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"matches":3`)
}

func TestGenerateMediaRequiresPrompt(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/v1/media/generate", map[string]string{"kind": "image"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEmployeeLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/v1/employees/emp-1/hire", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/v1/employees/emp-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestBackgroundTaskRoutes(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/v1/tasks", map[string]string{"title": "export archive"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	rec = doJSON(t, srv, http.MethodPatch, "/v1/tasks/"+created.ID, map[string]any{
		"status":   "running",
		"progress": 50,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/v1/tasks", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var view struct {
		Tasks []chat.BackgroundTask `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Tasks, 1)
	assert.Equal(t, chat.TaskRunning, view.Tasks[0].Status)
	assert.Equal(t, 50.0, view.Tasks[0].Progress)

	rec = doJSON(t, srv, http.MethodDelete, "/v1/tasks/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/v1/tasks", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Empty(t, view.Tasks)
}
