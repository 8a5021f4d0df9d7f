package generate

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bananaforge/imagegen-mcp/internal/gemini"
)

// Kind classifies a pipeline failure. The orchestrator's fallback decision
// and the tool-call result both key off it.
type Kind int

const (
	// KindValidation is a bad parameter detected before any network call.
	KindValidation Kind = iota

	// KindAuth is an authentication failure. Fatal: no candidate model can
	// fix a bad key.
	KindAuth

	// KindBadRequest is a malformed request rejected by the API. Fatal for
	// the same reason.
	KindBadRequest

	// KindTimeout is a remote call exceeding the configured per-call bound.
	KindTimeout

	// KindRateLimited is a quota or overload rejection.
	KindRateLimited

	// KindModelUnavailable covers server-side errors and missing models.
	KindModelUnavailable

	// KindTransport is a connection-level failure before any HTTP status.
	KindTransport

	// KindDecode means a response carried no usable image payload.
	KindDecode

	// KindAllModelsExhausted means every fallback candidate failed with a
	// retryable error.
	KindAllModelsExhausted

	// KindIO is a filesystem failure after successful generation.
	KindIO
)

var kindNames = map[Kind]string{
	KindValidation:         "ValidationError",
	KindAuth:               "AuthError",
	KindBadRequest:         "BadRequestError",
	KindTimeout:            "Timeout",
	KindRateLimited:        "RateLimited",
	KindModelUnavailable:   "ModelUnavailable",
	KindTransport:          "TransportError",
	KindDecode:             "DecodeError",
	KindAllModelsExhausted: "AllModelsExhausted",
	KindIO:                 "IOError",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Retryable reports whether the failure is possibly transient or
// model-specific, so the orchestrator should move to the next candidate
// rather than abort.
func (k Kind) Retryable() bool {
	switch k {
	case KindTimeout, KindRateLimited, KindModelUnavailable, KindTransport, KindDecode:
		return true
	}
	return false
}

// Error is a classified pipeline failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// errorf builds an Error with a formatted message.
func errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// wrapErr builds an Error around an underlying cause.
func wrapErr(kind Kind, err error) *Error {
	return &Error{Kind: kind, Message: err.Error(), Err: err}
}

// Classify maps a raw client error onto the taxonomy.
func Classify(err error) Kind {
	var apiErr *gemini.APIError
	switch {
	case errors.Is(err, gemini.ErrNoImage):
		return KindDecode
	case errors.As(err, &apiErr):
		switch {
		case apiErr.Auth():
			return KindAuth
		case apiErr.StatusCode == http.StatusBadRequest:
			return KindBadRequest
		case apiErr.RateLimited():
			return KindRateLimited
		default:
			return KindModelUnavailable
		}
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	default:
		return KindTransport
	}
}
