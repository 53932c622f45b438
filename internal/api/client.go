// Package api is the HTTP client for the deskd backend. All calls go
// through a single pipeline that attaches the bearer token, defeats
// intermediary caching and normalizes error reporting.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

const (
	requestTimeout = 10 * time.Second
	bearerPrefix   = "Bearer "

	// fallbackErrorMessage is shown when the backend gives no
	// structured error field.
	fallbackErrorMessage = "An error occurred"
)

// TokenSource supplies the current bearer token. An empty string means
// the caller is anonymous and no Authorization header is sent.
type TokenSource interface {
	Token() string
}

// Notifier receives user-facing failure messages from the pipeline.
// Authentication failures (401/403) are never reported here; callers
// handle those explicitly.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

// Error is a failed API exchange. Status is zero for network and
// timeout failures, which are indistinguishable downstream. Message is
// the backend's structured error field and is empty when the backend
// gave none.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return e.UserMessage()
	}
	return fmt.Sprintf("%s (status %d)", e.UserMessage(), e.Status)
}

// UserMessage returns the backend-supplied message, or the generic
// fallback when the backend gave none.
func (e *Error) UserMessage() string {
	if e.Message == "" {
		return fallbackErrorMessage
	}
	return e.Message
}

// Message extracts the backend-supplied error message from err, or
// returns fallback when there is none (transport failures, empty
// bodies, non-API errors).
func Message(err error, fallback string) string {
	if apiErr, ok := err.(*Error); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// IsAuthError reports whether err is an API error with status 401 or 403.
func IsAuthError(err error) bool {
	apiErr, ok := err.(*Error)
	return ok && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden)
}

// Client represents an HTTP client for the deskd API
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	notify     Notifier
	logger     zerolog.Logger
}

// New creates a new API client
func New(baseURL string, tokens TokenSource, notify Notifier, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		tokens: tokens,
		notify: notify,
		logger: logger,
	}
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// do runs one request through the pipeline and decodes the response
// into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	reqURL, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("failed to build request URL: %w", err)
	}

	// Merge the cache-buster into caller-supplied parameters without
	// clobbering an existing one.
	merged := reqURL.Query()
	for key, values := range query {
		for _, v := range values {
			merged.Add(key, v)
		}
	}
	if merged.Get("_t") == "" {
		merged.Set("_t", strconv.FormatInt(time.Now().UnixMilli(), 10))
	}
	reqURL.RawQuery = merged.Encode()

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-Id", ulid.Make().String())

	// The Authorization header is derived from the current session at
	// call time, never from shared client defaults.
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", bearerPrefix+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("method", method).Str("path", path).Msg("Request failed")
		apiErr := &Error{Status: 0}
		c.notify.Notify(apiErr.UserMessage())
		return apiErr
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.failedResponse(method, path, resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// failedResponse derives the user-facing message for a non-2xx reply.
// 401/403 pass through silently so callers can react programmatically.
func (c *Client) failedResponse(method, path string, resp *http.Response) error {
	respBody, _ := io.ReadAll(resp.Body)
	var payload struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(respBody, &payload)

	apiErr := &Error{Status: resp.StatusCode, Message: payload.Error}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Str("message", apiErr.UserMessage()).
		Msg("API call failed")

	if !IsAuthError(apiErr) {
		c.notify.Notify(apiErr.UserMessage())
	}

	return apiErr
}
