package bridge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workforce/services/chat-state/internal/config"
	"workforce/services/chat-state/internal/utils/platformerrors"
)

func newTestClient(t *testing.T, handler http.Handler, attempts int) *Client {
	t.Helper()

	backend := httptest.NewServer(handler)
	t.Cleanup(backend.Close)

	cfg := &config.Config{
		BridgeBaseURL:       backend.URL,
		CommandTimeout:      2 * time.Second,
		HeavyCommandTimeout: 2 * time.Second,
		RetryMaxAttempts:    attempts,
		RetryBaseDelay:      time.Millisecond,
	}
	return NewClient(cfg, zerolog.Nop())
}

func TestInvokeDecodesResponse(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/commands/send_chat_message", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]int64{"conversation_id": 3, "message_id": 7})
	}), 1)

	resp, err := client.SendChatMessage(context.Background(), SendChatMessageRequest{Content: "hi"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.ConversationID)
	assert.Equal(t, int64(7), resp.MessageID)
}

func TestInvokeClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int64
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "empty content"})
	}), 3)

	err := client.Invoke(context.Background(), CmdRefreshAgentStatus, nil, nil, withRetry())
	require.Error(t, err)
	assert.Equal(t, int64(1), calls.Load(), "4xx is permanent")

	pe := platformerrors.Get(err)
	require.NotNil(t, pe)
	assert.Equal(t, platformerrors.ErrorTypeValidation, pe.Type)
	assert.Contains(t, pe.Message, "empty content")
}

func TestInvokeServerErrorRetried(t *testing.T) {
	var calls atomic.Int64
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"agents": []any{}})
	}), 3)

	_, err := client.RefreshAgentStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), calls.Load(), "5xx is retried until it heals")
}

func TestInvokeNoRetryWithoutOption(t *testing.T) {
	var calls atomic.Int64
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}), 3)

	_, err := client.SendChatMessage(context.Background(), SendChatMessageRequest{Content: "hi"})
	require.Error(t, err)
	assert.Equal(t, int64(1), calls.Load(), "sends are never retried")
}

func TestInvokeMalformedResponse(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}), 3)

	_, err := client.RefreshAgentStatus(context.Background())
	require.Error(t, err)
	pe := platformerrors.Get(err)
	require.NotNil(t, pe)
	assert.Equal(t, platformerrors.ErrorTypeExternal, pe.Type)
}

func TestHeavyCommandGetsExtendedTimeout(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		json.NewEncoder(w).Encode(map[string]string{"url": "file:///tmp/out.png"})
	}))
	t.Cleanup(backend.Close)

	cfg := &config.Config{
		BridgeBaseURL:       backend.URL,
		CommandTimeout:      20 * time.Millisecond,
		HeavyCommandTimeout: 2 * time.Second,
		RetryMaxAttempts:    1,
		RetryBaseDelay:      time.Millisecond,
	}
	client := NewClient(cfg, zerolog.Nop())

	// The same backend latency kills a normal command but not a heavy one.
	err := client.Invoke(context.Background(), CmdListConversations, nil, nil)
	require.Error(t, err)

	result, err := client.GenerateMedia(context.Background(), "a lighthouse", "image")
	require.NoError(t, err)
	assert.Contains(t, string(result), "out.png")
}

func TestHeavyCommandsNotRetried(t *testing.T) {
	var calls atomic.Int64
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}), 3)

	_, err := client.GenerateMedia(context.Background(), "a lighthouse", "image")
	require.Error(t, err)
	assert.Equal(t, int64(1), calls.Load())

	_, err = client.RunOCR(context.Background(), "/tmp/scan.png")
	require.Error(t, err)
	assert.Equal(t, int64(2), calls.Load())

	_, err = client.ExecuteTemplate(context.Background(), "tpl-1", nil)
	require.Error(t, err)
	assert.Equal(t, int64(3), calls.Load())
}

func TestInvokeTimeout(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(backend.Close)

	cfg := &config.Config{
		BridgeBaseURL:       backend.URL,
		CommandTimeout:      20 * time.Millisecond,
		HeavyCommandTimeout: 20 * time.Millisecond,
		RetryMaxAttempts:    1,
		RetryBaseDelay:      time.Millisecond,
	}
	client := NewClient(cfg, zerolog.Nop())

	err := client.Invoke(context.Background(), CmdListConversations, nil, nil)
	require.Error(t, err)
	pe := platformerrors.Get(err)
	require.NotNil(t, pe)
	assert.Equal(t, platformerrors.ErrorTypeTimeout, pe.Type)
}
