package httpclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrClientClosed        = errors.New("http client is closed")
	ErrNilRequest          = errors.New("request is nil")
	ErrInterceptorNotFound = errors.New("interceptor not found")
	ErrBadScheme           = errors.New("unsupported url scheme")
)

// FailureKind classifies a rejected exchange.
type FailureKind uint8

const (
	// FailureStatus means the server answered with a status rejected by ValidateStatus.
	FailureStatus FailureKind = iota + 1
	// FailureNoResponse means the request was sent but no response came back.
	FailureNoResponse
	// FailureSetup means the request could not be built or sent.
	FailureSetup
)

func (k FailureKind) String() string {
	switch k {
	case FailureStatus:
		return "status"
	case FailureNoResponse:
		return "no_response"
	case FailureSetup:
		return "setup"
	default:
		return "unknown"
	}
}

// RequestError is the failure handed to rejected interceptors and, unless one
// of them recovers, returned to the caller.
//
// For FailureStatus the response body has been read (up to MaxErrorBody bytes)
// into Body, closed, and replaced on Response with an in-memory copy.
type RequestError struct {
	Kind       FailureKind
	Request    *http.Request
	Response   *http.Response
	StatusCode int
	Body       []byte
	Err        error
}

func (e *RequestError) Error() string {
	switch e.Kind {
	case FailureStatus:
		return fmt.Sprintf("%s: request failed with status code %d", e.target(), e.StatusCode)
	case FailureNoResponse:
		return fmt.Sprintf("%s: no response: %v", e.target(), e.Err)
	default:
		return fmt.Sprintf("request setup failed: %v", e.Err)
	}
}

func (e *RequestError) Unwrap() error { return e.Err }

func (e *RequestError) target() string {
	if e.Request == nil || e.Request.URL == nil {
		return "request"
	}
	return e.Request.Method + " " + e.Request.URL.Redacted()
}
