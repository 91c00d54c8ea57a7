package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// fallbackMessage is used when the server gives no usable error payload.
const fallbackMessage = "something went wrong, please try again"

// Error is the single error kind surfaced by the client. Every transport
// failure, decode failure and non-2xx response collapses to one of these;
// callers branch on Status, users see Message.
type Error struct {
	// Status is the HTTP status code, or 0 for transport-level failures.
	Status int
	// Message is the server's message field when present, else a fallback.
	Message string

	cause error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// Unwrap exposes the underlying transport error, when there is one.
func (e *Error) Unwrap() error { return e.cause }

// IsNotFound reports whether err is an API error with status 404.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsUnauthorized reports whether err is an API error with status 401.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// Message extracts the human-readable message from err. Non-API errors are
// reported with the fallback message so nothing internal leaks to users.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return fallbackMessage
}

// newStatusError builds an Error from a non-2xx response body. The backend
// wraps errors as {"message": "..."} but not consistently, so the body is
// also tried as a bare string before giving up.
func newStatusError(status int, body []byte) *Error {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if msg := strings.TrimSpace(envelope.Message); msg != "" {
			return &Error{Status: status, Message: msg}
		}
		if msg := strings.TrimSpace(envelope.Error); msg != "" {
			return &Error{Status: status, Message: msg}
		}
	}
	if msg := strings.TrimSpace(string(body)); msg != "" && !strings.HasPrefix(msg, "{") {
		return &Error{Status: status, Message: msg}
	}
	return &Error{Status: status, Message: fallbackMessage}
}

// newTransportError wraps a transport-level failure (connection refused,
// timeout, ...) without exposing the raw error text to users.
func newTransportError(err error) *Error {
	return &Error{Status: 0, Message: fallbackMessage, cause: err}
}
