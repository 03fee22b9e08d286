// Package client talks to a running pomobell server.
package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pomobell/internal/api"
	"pomobell/internal/core/model"
	"pomobell/internal/dto"
	"pomobell/internal/storage"
)

// StatusError is a non-2xx answer from the server.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Is maps server error codes back to the local sentinels.
func (e *StatusError) Is(target error) bool {
	switch e.Code {
	case api.CodeInvalidConfig:
		return target == model.ErrInvalidConfig
	case api.CodeNoStatus:
		return target == storage.ErrNoStatus
	}
	return false
}

// Client is a typed HTTP client for the pomobell API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a client for baseURL, for example "http://127.0.0.1:7425".
func New(baseURL string, opts ...Option) *Client {
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StartTimer starts an interval timer and returns its first status.
func (c *Client) StartTimer(ctx context.Context, command dto.TimerCommand) (*dto.Status, error) {
	var status *dto.Status
	if err := c.do(ctx, http.MethodPost, "/timer/start", command, &status); err != nil {
		return nil, err
	}
	return status, nil
}

// StartPomodoro starts a pomodoro cycle and returns its first status.
func (c *Client) StartPomodoro(ctx context.Context, command dto.PomodoroCommand) (*dto.Status, error) {
	var status *dto.Status
	if err := c.do(ctx, http.MethodPost, "/pomodoro/start", command, &status); err != nil {
		return nil, err
	}
	return status, nil
}

// ResetTimer stops whatever runs.
func (c *Client) ResetTimer(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/timer/reset", nil, nil)
}

// ResetPomodoro stops whatever runs.
func (c *Client) ResetPomodoro(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/pomodoro/reset", nil, nil)
}

// Status returns the live status, nil when nothing runs.
func (c *Client) Status(ctx context.Context) (*dto.Status, error) {
	var status *dto.Status
	if err := c.do(ctx, http.MethodGet, "/status", nil, &status); err != nil {
		return nil, err
	}
	return status, nil
}

// LastStatus returns the persisted status; the error matches
// storage.ErrNoStatus when none is stored.
func (c *Client) LastStatus(ctx context.Context) (*dto.Status, error) {
	var status *dto.Status
	if err := c.do(ctx, http.MethodGet, "/status/last", nil, &status); err != nil {
		return nil, err
	}
	return status, nil
}

// Health checks the server is up.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// Events reads the event stream and calls handle for each status event
// until ctx ends, the stream closes, or handle returns an error.
func (c *Client) Events(ctx context.Context, handle func(dto.Event) error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/events", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	// The stream is long lived, so the client timeout must not apply.
	streamClient := *c.httpClient
	streamClient.Timeout = 0

	resp, err := streamClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("open event stream: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}

	var eventName string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			eventName = ""
		case strings.HasPrefix(line, "event:"):
			eventName = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			if eventName == "ping" {
				continue
			}
			var event dto.Event
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if err := json.Unmarshal([]byte(data), &event); err != nil {
				return fmt.Errorf("decode event: %w", err)
			}
			if err := handle(event); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("read event stream: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	statusErr := &StatusError{StatusCode: resp.StatusCode}
	var body dto.Error
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		statusErr.Code = body.Code
		statusErr.Message = body.Error
	}
	return statusErr
}

// IsUnavailable reports whether err means the server could not be reached
// or is shutting down.
func IsUnavailable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code == api.CodeUnavailable
	}
	return err != nil
}
