package bridge

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"workforce/services/chat-state/internal/config"
)

// Channel names delivered over the push socket.
const (
	ChannelAgentStatus     = "agent:status:update"
	ChannelTerminalStarted = "terminal:started"
	ChannelTerminalOutput  = "terminal:output"
	ChannelFileEvent       = "file-event"
	ChannelChatStream      = "chat:stream"

	ChannelTaskCreated   = "task:created"
	ChannelTaskStarted   = "task:started"
	ChannelTaskCompleted = "task:completed"
	ChannelTaskFailed    = "task:failed"
	ChannelTaskCancelled = "task:cancelled"
)

// Handler receives the raw payload of one push event.
type Handler func(payload json.RawMessage)

// Unsubscribe removes a previously registered handler.
type Unsubscribe func()

// frame is the wire format of one push event.
type frame struct {
	Channel string          `json:"channel"`
	Payload json.RawMessage `json:"payload"`
}

// EventClient maintains the websocket subscription to the backend's push
// channel and fans events out to registered handlers. Handlers run on the
// read loop goroutine; they must not block.
type EventClient struct {
	url      string
	log      zerolog.Logger
	mu       sync.Mutex
	handlers map[string]map[int]Handler
	nextID   int
	done     chan struct{}
	wg       sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
}

// NewEventClient creates an event client for the configured socket URL.
func NewEventClient(cfg *config.Config, log zerolog.Logger) *EventClient {
	return &EventClient{
		url:      cfg.BridgeEventsURL,
		log:      log.With().Str("component", "bridge-events").Logger(),
		handlers: make(map[string]map[int]Handler),
		done:     make(chan struct{}),
	}
}

// Subscribe registers a handler for one channel and returns its unsubscribe
// handle. Safe to call before or after Start.
func (e *EventClient) Subscribe(channel string, h Handler) Unsubscribe {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.handlers[channel] == nil {
		e.handlers[channel] = make(map[int]Handler)
	}
	id := e.nextID
	e.nextID++
	e.handlers[channel][id] = h

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.handlers[channel], id)
	}
}

// Start begins the connect/read loop in the background. Safe to call more
// than once; only the first call starts the loop.
func (e *EventClient) Start(ctx context.Context) {
	e.startOnce.Do(func() {
		e.wg.Add(1)
		go e.run(ctx)
		e.log.Info().Str("url", e.url).Msg("event client started")
	})
}

// Stop shuts the event client down. Safe to call more than once.
func (e *EventClient) Stop() {
	e.stopOnce.Do(func() {
		close(e.done)
		e.wg.Wait()
		e.log.Info().Msg("event client stopped")
	})
}

func (e *EventClient) run(ctx context.Context) {
	defer e.wg.Done()

	delay := time.Second
	const maxDelay = 30 * time.Second

	for {
		select {
		case <-ctx.Done():
			return
		case <-e.done:
			return
		default:
		}

		if err := e.readLoop(ctx); err != nil {
			e.log.Warn().Err(err).Dur("retry_in", delay).Msg("event socket disconnected")
		}

		select {
		case <-ctx.Done():
			return
		case <-e.done:
			return
		case <-time.After(delay):
		}
		delay *= 2
		if delay > maxDelay {
			delay = maxDelay
		}
	}
}

func (e *EventClient) readLoop(ctx context.Context) error {
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, e.url, nil)
	cancel()
	if err != nil {
		return err
	}
	defer conn.Close()

	e.log.Info().Msg("event socket connected")

	// Close the connection when shutdown is requested so ReadMessage unblocks.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
		case <-e.done:
		case <-stop:
			return
		}
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			e.log.Warn().Err(err).Msg("discarding malformed event frame")
			continue
		}
		e.dispatch(f)
	}
}

func (e *EventClient) dispatch(f frame) {
	e.mu.Lock()
	handlers := make([]Handler, 0, len(e.handlers[f.Channel]))
	for _, h := range e.handlers[f.Channel] {
		handlers = append(handlers, h)
	}
	e.mu.Unlock()

	for _, h := range handlers {
		h(f.Payload)
	}
}
