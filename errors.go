// errors.go
// ---------
// This file defines the error taxonomy surfaced by the client. Every error
// the client returns is one of the types below, so callers can branch with
// errors.As instead of matching message strings.
//
// The hierarchy is shallow: APIError carries the HTTP status and the raw
// response body, and the concrete kinds (ValidationError, AuthenticationError,
// NotFoundError, ServerError) embed it. TimeoutError and NetworkError cover
// transport-level failures that never produced a status code.
package cognee

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIError is returned for any non-2xx response from the Cognee API.
// StatusCode is the HTTP status and Response holds the raw response body
// (possibly truncated for diagnostics).
type APIError struct {
	StatusCode int
	Message    string
	Response   []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("cognee: [%d] %s", e.StatusCode, e.Message)
}

// ValidationError is returned for 400 responses. Never retried.
type ValidationError struct {
	APIError
}

// Unwrap exposes the embedded APIError, so a single errors.As branch on
// *APIError matches every status-derived kind.
func (e *ValidationError) Unwrap() error { return &e.APIError }

// AuthenticationError is returned for 401 and 403 responses. Never retried.
type AuthenticationError struct {
	APIError
}

func (e *AuthenticationError) Unwrap() error { return &e.APIError }

// NotFoundError is returned for 404 responses. Never retried.
type NotFoundError struct {
	APIError
}

func (e *NotFoundError) Unwrap() error { return &e.APIError }

// ServerError is returned for 5xx responses once the retry budget is
// exhausted.
type ServerError struct {
	APIError
}

func (e *ServerError) Unwrap() error { return &e.APIError }

// TimeoutError is returned when a request deadline or connect timeout fired
// on every attempt.
type TimeoutError struct {
	Attempts int
	Err      error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("cognee: request timed out after %d attempts: %v", e.Attempts, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// NetworkError is returned for transport failures other than timeouts
// (connection refused, reset, DNS failure) once retries are exhausted.
type NetworkError struct {
	Attempts int
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("cognee: request failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DecodeError is returned when the server replied with a 2xx status but the
// body could not be decoded as the expected JSON. Preview holds the leading
// bytes of the raw body. Decode failures are never retried: resending the
// identical request cannot change the server's output.
type DecodeError struct {
	StatusCode int
	Preview    string
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cognee: invalid JSON response (status %d): %v; body preview: %q", e.StatusCode, e.Err, e.Preview)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// errorPreviewLen bounds how much of a raw body is kept on an error.
const errorPreviewLen = 200

// errorMessage extracts a human-readable message from an API error body.
// The server reports errors under "error", "detail" or "message" depending
// on the endpoint; fall back to the raw text.
func errorMessage(body []byte) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"error", "detail", "message"} {
			raw, ok := payload[key]
			if !ok {
				continue
			}
			var s string
			if err := json.Unmarshal(raw, &s); err == nil && s != "" {
				return s
			}
			return string(raw)
		}
	}
	return strings.TrimSpace(string(body))
}

// statusError builds the typed error for a non-2xx response.
func statusError(status int, body []byte) error {
	msg := errorMessage(body)
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d", status)
	}
	if len(msg) > errorPreviewLen {
		msg = msg[:errorPreviewLen]
	}
	if len(body) > errorPreviewLen {
		body = body[:errorPreviewLen]
	}
	base := APIError{StatusCode: status, Message: msg, Response: body}

	switch {
	case status == 400:
		return &ValidationError{base}
	case status == 401 || status == 403:
		return &AuthenticationError{base}
	case status == 404:
		return &NotFoundError{base}
	case status >= 500:
		return &ServerError{base}
	default:
		return &base
	}
}
