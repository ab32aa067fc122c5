package apigw

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/theraflow/clientkit/pkg/kvstore"
)

// Storage keys holding the persisted session. The gateway reads the access
// token before every request and deletes all three keys on an auth failure.
// It never writes them — the session manager is the sole writer.
const (
	SessionKeyAccessToken  = "sessionAccessToken"
	SessionKeyRefreshToken = "sessionRefreshToken"
	SessionKeyUserBlob     = "sessionUserBlob"
)

// SessionKeys lists every storage key purged on an auth failure.
var SessionKeys = []string{SessionKeyAccessToken, SessionKeyRefreshToken, SessionKeyUserBlob}

const maxResponseBytes = 1 << 20

// Envelope is the backend's uniform JSON response shape.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Code    string          `json:"code,omitempty"`
}

// Client is the single chokepoint for every HTTP call the application
// makes. It attaches the stored bearer token to outgoing requests,
// classifies every failure into the *Error taxonomy, and purges the stored
// session when the backend rejects the credential.
type Client struct {
	http    *http.Client
	baseURL string
	store   kvstore.Store
	log     *slog.Logger
}

// Option configures a Client during construction.
type Option func(*Client)

// WithLogger sets the logger used for purge and transport diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client. The configured
// timeout is applied to the provided client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

// New creates a gateway client. The store is read for the bearer token on
// every request and purged on auth failures; pass the fail-soft wrapper so
// storage trouble never breaks a request.
func New(cfg Config, store kvstore.Store, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if store == nil {
		return nil, ErrMissingStore
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	c := &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		store:   store,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.http.Timeout = timeout

	return c, nil
}

// Get issues a GET request and decodes the envelope's data field into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do performs one backend call. A non-nil body is JSON-encoded; on success
// the envelope's data field is decoded into out when out is non-nil. Every
// failure returns a classified *Error and nothing else.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	req, err := c.buildRequest(ctx, method, path, body)
	if err != nil {
		return &Error{
			Kind:    KindClient,
			Message: fallbackMessage(KindClient, ""),
			cause:   err,
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// No response received: timeouts, DNS failures, refused
		// connections and cancelled contexts all land here.
		return &Error{
			Kind:    KindNetwork,
			Message: fallbackMessage(KindNetwork, ""),
			cause:   err,
		}
	}
	defer resp.Body.Close()

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))

	var envelope Envelope
	envelopeOK := readErr == nil && json.Unmarshal(raw, &envelope) == nil

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.classifyHTTP(ctx, resp.StatusCode, envelope, envelopeOK)
	}

	if !envelopeOK {
		return &Error{
			Kind:    KindUnknownHTTP,
			Status:  resp.StatusCode,
			Message: fallbackMessage(KindUnknownHTTP, ""),
			cause:   readErr,
		}
	}

	if !envelope.Success {
		return &Error{
			Kind:    KindUnknownHTTP,
			Status:  resp.StatusCode,
			Message: messageOr(envelope.Message, KindUnknownHTTP, ""),
		}
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return &Error{
				Kind:    KindUnknownHTTP,
				Status:  resp.StatusCode,
				Message: fallbackMessage(KindUnknownHTTP, ""),
				cause:   err,
			}
		}
	}

	return nil
}

func (c *Client) buildRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// The stored token is re-read on every call so the gateway always
	// sends the freshest credential; absence simply means an anonymous
	// request, never an error.
	if token, _ := c.store.Get(ctx, SessionKeyAccessToken); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

func (c *Client) classifyHTTP(ctx context.Context, status int, envelope Envelope, envelopeOK bool) *Error {
	var backendMsg string
	if envelopeOK {
		backendMsg = envelope.Message
	}

	switch {
	case status == http.StatusUnauthorized:
		code := authCodeFrom(envelope.Code)
		c.purgeSession(ctx, code)
		return &Error{
			Kind:     KindAuth,
			AuthCode: code,
			Status:   status,
			Message:  messageOr(backendMsg, KindAuth, code),
		}
	case status == http.StatusNotFound:
		return &Error{
			Kind:    KindNotFound,
			Status:  status,
			Message: messageOr(backendMsg, KindNotFound, ""),
		}
	case status >= 500:
		return &Error{
			Kind:    KindServer,
			Status:  status,
			Message: messageOr(backendMsg, KindServer, ""),
		}
	default:
		return &Error{
			Kind:    KindUnknownHTTP,
			Status:  status,
			Message: messageOr(backendMsg, KindUnknownHTTP, ""),
		}
	}
}

// purgeSession deletes the persisted session keys. Purging happens inside
// the gateway because many call sites across the UI invoke it directly;
// centralizing the side effect guarantees no call site can forget it. The
// session manager observes the purge lazily on its next storage read.
func (c *Client) purgeSession(ctx context.Context, code AuthCode) {
	c.log.InfoContext(ctx, "auth failure, purging stored session", "code", string(code))
	for _, key := range SessionKeys {
		_ = c.store.Remove(ctx, key)
	}
}

func authCodeFrom(code string) AuthCode {
	switch AuthCode(code) {
	case AuthCodeExpired, AuthCodeInvalid, AuthCodeUserMissing, AuthCodeDeactivated:
		return AuthCode(code)
	default:
		return AuthCodeUnknown
	}
}

func messageOr(backendMsg string, kind Kind, code AuthCode) string {
	if backendMsg != "" {
		return backendMsg
	}
	return fallbackMessage(kind, code)
}
