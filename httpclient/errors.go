package httpclient

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "github.com/kbukum/plughttp/errors"
)

// ErrClientClosed is wrapped by errors returned after Close.
var ErrClientClosed = errors.New("httpclient: client closed")

// Kind classifies client errors.
type Kind string

const (
	// KindInvalidConfig indicates a configuration rejected by New.
	KindInvalidConfig Kind = "invalid_config"
	// KindSecuritySetup indicates the TLS context could not be built.
	KindSecuritySetup Kind = "security_setup"
	// KindURLConfiguration indicates a missing or malformed request URI.
	KindURLConfiguration Kind = "url_configuration"
	// KindInvalidVerb indicates a method outside the supported set.
	KindInvalidVerb Kind = "invalid_verb"
	// KindTimeout indicates no response within the timeout.
	KindTimeout Kind = "timeout"
	// KindTransport indicates a connection or I/O failure.
	KindTransport Kind = "transport"
	// KindUnauthorized indicates HTTP 401.
	KindUnauthorized Kind = "unauthorized"
	// KindInvalidRequest indicates any other status >= 400.
	KindInvalidRequest Kind = "invalid_request"
	// KindDeserialization indicates the body could not be decoded.
	KindDeserialization Kind = "deserialization"
)

// Error is a classified client error. Response is set for
// KindUnauthorized and KindInvalidRequest.
type Error struct {
	Kind     Kind
	Message  string
	Response *Response
	Err      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Response != nil {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Kind, e.Response.StatusCode, msg)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Kind, msg)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode returns the response status, or 0 when there is none.
func (e *Error) StatusCode() int {
	if e.Response == nil {
		return 0
	}
	return e.Response.StatusCode
}

func newError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func newStatusError(resp *Response) *Error {
	if resp.StatusCode == http.StatusUnauthorized {
		return &Error{Kind: KindUnauthorized, Message: "Unauthorized request", Response: resp}
	}
	return &Error{Kind: KindInvalidRequest, Message: "Invalid request", Response: resp}
}

// KindOf returns the kind of err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsTimeout reports whether err is a timeout error.
func IsTimeout(err error) bool { return KindOf(err) == KindTimeout }

// IsTransport reports whether err is a transport error.
func IsTransport(err error) bool { return KindOf(err) == KindTransport }

// IsUnauthorized reports whether err is an HTTP 401 error.
func IsUnauthorized(err error) bool { return KindOf(err) == KindUnauthorized }

// IsInvalidRequest reports whether err is a non-401 HTTP error status.
func IsInvalidRequest(err error) bool { return KindOf(err) == KindInvalidRequest }

// IsDeserialization reports whether err is a decode failure.
func IsDeserialization(err error) bool { return KindOf(err) == KindDeserialization }

// ResponseOf returns the response carried by err, or nil.
func ResponseOf(err error) *Response {
	var e *Error
	if errors.As(err, &e) {
		return e.Response
	}
	return nil
}

// AppError maps the error onto the shared application error taxonomy.
// service names the upstream in user-facing messages.
func (e *Error) AppError(service string) *apperrors.AppError {
	var out *apperrors.AppError
	switch e.Kind {
	case KindUnauthorized:
		out = apperrors.Unauthorized("The upstream service rejected the credentials.")
	case KindTimeout:
		out = apperrors.Timeout(service)
	case KindTransport:
		out = apperrors.ConnectionFailed(service)
	case KindInvalidRequest:
		if e.StatusCode() == http.StatusNotFound {
			out = apperrors.NotFound("resource")
		} else {
			out = apperrors.ExternalServiceError(service, nil)
		}
	case KindDeserialization:
		out = apperrors.ExternalServiceError(service, nil)
	case KindInvalidConfig, KindURLConfiguration, KindInvalidVerb:
		out = apperrors.Validation(e.Error())
	default:
		out = apperrors.Internal(nil)
	}
	if code := e.StatusCode(); code > 0 {
		out = out.WithDetail("upstream_status", code)
	}
	return out.WithCause(e)
}
