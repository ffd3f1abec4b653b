package cognee

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   any
	}{
		{"400 maps to ValidationError", 400, `{"detail":"bad input"}`, &ValidationError{}},
		{"401 maps to AuthenticationError", 401, `{"detail":"missing token"}`, &AuthenticationError{}},
		{"403 maps to AuthenticationError", 403, `{"detail":"forbidden"}`, &AuthenticationError{}},
		{"404 maps to NotFoundError", 404, `{"detail":"no such dataset"}`, &NotFoundError{}},
		{"500 maps to ServerError", 500, `{"error":"boom"}`, &ServerError{}},
		{"503 maps to ServerError", 503, "", &ServerError{}},
		{"409 falls back to APIError", 409, `{"message":"conflict"}`, &APIError{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := statusError(tt.status, []byte(tt.body))
			require.Error(t, err)

			switch want := tt.want.(type) {
			case *ValidationError:
				require.True(t, errors.As(err, &want))
				assert.Equal(t, tt.status, want.StatusCode)
			case *AuthenticationError:
				require.True(t, errors.As(err, &want))
				assert.Equal(t, tt.status, want.StatusCode)
			case *NotFoundError:
				require.True(t, errors.As(err, &want))
				assert.Equal(t, tt.status, want.StatusCode)
			case *ServerError:
				require.True(t, errors.As(err, &want))
				assert.Equal(t, tt.status, want.StatusCode)
			case *APIError:
				require.True(t, errors.As(err, &want))
				assert.Equal(t, tt.status, want.StatusCode)
			}
		})
	}
}

// Every concrete kind must also match as *APIError, so callers that only
// care about the status code need a single errors.As branch.
func TestStatusErrorMatchesBase(t *testing.T) {
	for _, status := range []int{400, 401, 403, 404, 409, 500, 502} {
		err := statusError(status, nil)
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr), "status %d", status)
		assert.Equal(t, status, apiErr.StatusCode)
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"error key", `{"error":"broken"}`, "broken"},
		{"detail key", `{"detail":"not found"}`, "not found"},
		{"message key", `{"message":"nope"}`, "nope"},
		{"error key wins over message", `{"error":"a","message":"b"}`, "a"},
		{"non-string detail kept raw", `{"detail":{"loc":["body"]}}`, `{"loc":["body"]}`},
		{"plain text body", "internal server error", "internal server error"},
		{"whitespace trimmed", "  oops \n", "oops"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorMessage([]byte(tt.body)))
		})
	}
}

func TestStatusErrorTruncatesLongBodies(t *testing.T) {
	body := []byte(strings.Repeat("x", 10_000))
	err := statusError(500, body)

	var srvErr *ServerError
	require.True(t, errors.As(err, &srvErr))
	assert.Len(t, srvErr.Message, errorPreviewLen)
	assert.Len(t, srvErr.Response, errorPreviewLen)
}

func TestStatusErrorEmptyBody(t *testing.T) {
	err := statusError(502, nil)
	assert.Contains(t, err.Error(), "HTTP 502")
}

func TestTransportErrorsUnwrap(t *testing.T) {
	inner := errors.New("connection refused")

	netErr := &NetworkError{Attempts: 3, Err: inner}
	assert.ErrorIs(t, netErr, inner)
	assert.Contains(t, netErr.Error(), "after 3 attempts")

	toErr := &TimeoutError{Attempts: 2, Err: inner}
	assert.ErrorIs(t, toErr, inner)
	assert.Contains(t, toErr.Error(), "timed out")

	decErr := &DecodeError{StatusCode: 200, Preview: "<html>", Err: inner}
	assert.ErrorIs(t, decErr, inner)
	assert.Contains(t, decErr.Error(), "<html>")
}
