package apigw

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingBaseURL indicates the client was constructed without a backend URL.
	ErrMissingBaseURL = errors.New("apigw: missing base URL")

	// ErrMissingStore indicates the client was constructed without a token store.
	ErrMissingStore = errors.New("apigw: missing key/value store")
)

// Kind classifies every gateway failure into exactly one bucket. Screens
// render failures uniformly from the Kind and Message; they never inspect
// raw HTTP responses.
type Kind string

const (
	// KindNetwork — transport-level failure, no response received
	// (includes timeouts and cancelled contexts).
	KindNetwork Kind = "network"
	// KindAuth — HTTP 401; the stored session has been purged as a side
	// effect and is no longer usable.
	KindAuth Kind = "auth"
	// KindNotFound — HTTP 404.
	KindNotFound Kind = "not_found"
	// KindServer — HTTP 5xx.
	KindServer Kind = "server"
	// KindUnknownHTTP — any other unexpected HTTP status or response shape.
	KindUnknownHTTP Kind = "unknown_http"
	// KindClient — the request could not be built before transmission.
	KindClient Kind = "client"
)

// AuthCode sub-classifies a 401 using the backend's optional code field.
// The sub-code is informational only and selects a more specific message;
// every auth failure means the same thing to callers: the session is gone.
type AuthCode string

const (
	AuthCodeExpired     AuthCode = "TOKEN_EXPIRED"
	AuthCodeInvalid     AuthCode = "INVALID_TOKEN"
	AuthCodeUserMissing AuthCode = "USER_NOT_FOUND"
	AuthCodeDeactivated AuthCode = "ACCOUNT_DEACTIVATED"
	AuthCodeUnknown     AuthCode = "UNKNOWN"
)

// Error is the structured failure every gateway call returns. Message is
// human-readable: the backend-supplied message when present, a fixed
// per-kind fallback otherwise. Status carries the original HTTP status, or
// zero when no response was received.
type Error struct {
	Kind     Kind
	AuthCode AuthCode // set only when Kind == KindAuth
	Status   int
	Message  string
	cause    error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("apigw: %s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("apigw: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// IsAuthError reports whether the failure invalidated the stored session.
// Callers must treat a true result uniformly regardless of AuthCode.
func (e *Error) IsAuthError() bool {
	return e.Kind == KindAuth
}

// AsError extracts a classified *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// Fixed fallback messages used when the backend supplies none.
var kindFallbacks = map[Kind]string{
	KindNetwork:     "Unable to reach the server. Check your connection and try again.",
	KindNotFound:    "The requested resource was not found.",
	KindServer:      "The server encountered an error. Please try again later.",
	KindUnknownHTTP: "The server returned an unexpected response.",
	KindClient:      "The request could not be prepared.",
}

var authFallbacks = map[AuthCode]string{
	AuthCodeExpired:     "Your session has expired. Please sign in again.",
	AuthCodeInvalid:     "Your session is no longer valid. Please sign in again.",
	AuthCodeUserMissing: "This account no longer exists.",
	AuthCodeDeactivated: "This account has been deactivated.",
	AuthCodeUnknown:     "You are not authorized. Please sign in again.",
}

func fallbackMessage(kind Kind, code AuthCode) string {
	if kind == KindAuth {
		if msg, ok := authFallbacks[code]; ok {
			return msg
		}
		return authFallbacks[AuthCodeUnknown]
	}
	return kindFallbacks[kind]
}
