package gemini

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoImage is returned when a 200 response contains no usable image
// payload. The orchestrator treats it as model-specific and moves on to the
// next fallback candidate.
var ErrNoImage = errors.New("no image data in response")

// APIError is a non-success response from the generative API. StatusCode is
// the HTTP status (or the error code from the response envelope when the
// HTTP layer reported 200).
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("API error %d (%s): %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
}

// Fatal reports whether the error cannot be fixed by switching models:
// authentication failures and malformed requests fail the same way against
// every candidate.
func (e *APIError) Fatal() bool {
	switch e.StatusCode {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return true
	}
	return false
}

// Auth reports whether the error is an authentication failure.
func (e *APIError) Auth() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// RateLimited reports whether the server rejected the call for quota or
// overload reasons.
func (e *APIError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}
