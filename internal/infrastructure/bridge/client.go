// Package bridge implements the RPC boundary to the native desktop backend:
// request/response commands over HTTP and push events over a websocket.
package bridge

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"workforce/services/chat-state/internal/config"
	"workforce/services/chat-state/internal/infrastructure/metrics"
	"workforce/services/chat-state/internal/utils/platformerrors"
)

// commandError is the error envelope the backend returns for failed commands.
type commandError struct {
	Error string `json:"error"`
}

// Client invokes named commands on the native backend.
type Client struct {
	http         *resty.Client
	timeout      time.Duration
	heavyTimeout time.Duration
	maxAttempts  int
	baseDelay    time.Duration
	log          zerolog.Logger
}

// NewClient builds a command client from configuration.
func NewClient(cfg *config.Config, log zerolog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BridgeBaseURL).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:         httpClient,
		timeout:      cfg.CommandTimeout,
		heavyTimeout: cfg.HeavyCommandTimeout,
		maxAttempts:  cfg.RetryMaxAttempts,
		baseDelay:    cfg.RetryBaseDelay,
		log:          log.With().Str("component", "bridge-client").Logger(),
	}
}

// invokeOption tunes a single command invocation.
type invokeOption func(*invokeSettings)

type invokeSettings struct {
	heavy      bool
	idempotent bool
}

// withHeavyTimeout marks a long-running command (media generation, OCR,
// template execution) that gets the extended timeout.
func withHeavyTimeout() invokeOption {
	return func(s *invokeSettings) { s.heavy = true }
}

// withRetry enables exponential-backoff retries. Only idempotent,
// network-shaped commands may opt in.
func withRetry() invokeOption {
	return func(s *invokeSettings) { s.idempotent = true }
}

// Invoke fires a named command and decodes the JSON result into out (which
// may be nil for commands without a payload). The call is bounded by the
// command timeout; retryable commands back off exponentially and surface the
// last failure once attempts are exhausted.
func (c *Client) Invoke(ctx context.Context, command string, args any, out any, opts ...invokeOption) error {
	settings := invokeSettings{}
	for _, opt := range opts {
		opt(&settings)
	}

	timeout := c.timeout
	if settings.heavy {
		timeout = c.heavyTimeout
	}

	attempt := 0
	operation := func() error {
		if attempt > 0 {
			metrics.BridgeRetries.Inc()
			c.log.Debug().Str("command", command).Int("attempt", attempt+1).Msg("retrying command")
		}
		attempt++
		return c.invokeOnce(ctx, command, args, out, timeout)
	}

	var err error
	if settings.idempotent && c.maxAttempts > 1 {
		policy := backoff.NewExponentialBackOff()
		policy.InitialInterval = c.baseDelay
		policy.Multiplier = 2
		policy.MaxElapsedTime = 0
		err = backoff.Retry(
			operation,
			backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.maxAttempts-1)), ctx),
		)
	} else {
		err = operation()
	}

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.BridgeCommands.WithLabelValues(command, outcome).Inc()
	return err
}

func (c *Client) invokeOnce(ctx context.Context, command string, args any, out any, timeout time.Duration) error {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body := args
	if body == nil {
		body = struct{}{}
	}

	resp, err := c.http.R().
		SetContext(callCtx).
		SetBody(body).
		Post("/commands/" + command)
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return backoff.Permanent(platformerrors.Wrap(
				platformerrors.ErrorTypeTimeout, err,
				"failed to %s: timed out after %s", command, timeout,
			))
		}
		return platformerrors.Wrap(platformerrors.ErrorTypeExternal, err, "failed to %s", command)
	}

	if resp.IsError() {
		var ce commandError
		msg := resp.String()
		if json.Unmarshal(resp.Body(), &ce) == nil && ce.Error != "" {
			msg = ce.Error
		}
		pe := platformerrors.New(typeForStatus(resp.StatusCode()), "failed to %s: %s", command, msg)
		if resp.StatusCode() < 500 {
			// Client-side command errors will not heal on retry.
			return backoff.Permanent(pe)
		}
		return pe
	}

	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return backoff.Permanent(platformerrors.Wrap(
				platformerrors.ErrorTypeExternal, err,
				"failed to %s: malformed response", command,
			))
		}
	}
	return nil
}

func typeForStatus(status int) platformerrors.ErrorType {
	switch status {
	case 400:
		return platformerrors.ErrorTypeValidation
	case 401:
		return platformerrors.ErrorTypeUnauthorized
	case 403:
		return platformerrors.ErrorTypeForbidden
	case 404:
		return platformerrors.ErrorTypeNotFound
	case 409:
		return platformerrors.ErrorTypeConflict
	case 429:
		return platformerrors.ErrorTypeRateLimited
	default:
		return platformerrors.ErrorTypeExternal
	}
}
