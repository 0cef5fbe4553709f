package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Sentinel errors for the API failure kinds derived from response
// status codes. Callers classify with errors.Is.
var (
	// ErrAuthentication covers 401 and 403 responses.
	ErrAuthentication = errors.New("authentication failed")
	// ErrNotFound covers 404 responses.
	ErrNotFound = errors.New("resource not found")
	// ErrValidation covers 422 responses.
	ErrValidation = errors.New("validation failed")
	// ErrRateLimit covers 429 responses.
	ErrRateLimit = errors.New("rate limit exceeded")
)

// Error is the generic API failure for any non-2xx status without a
// dedicated sentinel. It carries the status code and the detail the
// server returned.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("api error: %s", e.Detail)
	}
	return fmt.Sprintf("api error: %d - %s", e.Status, e.Detail)
}

// statusError maps a non-2xx response to the error taxonomy.
func statusError(status int, body []byte) error {
	detail := errorDetail(body)

	var kind error
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = ErrAuthentication
	case http.StatusNotFound:
		kind = ErrNotFound
	case http.StatusUnprocessableEntity:
		kind = ErrValidation
	case http.StatusTooManyRequests:
		kind = ErrRateLimit
	default:
		return &Error{Status: status, Detail: detail}
	}

	if detail == "" {
		return kind
	}
	return errors.Wrap(kind, detail)
}

// errorDetail pulls the human-readable detail out of an error body,
// trying the JSON fields the server uses before falling back to the
// raw text.
func errorDetail(body []byte) string {
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Detail != "" {
			return payload.Detail
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return string(body)
}
