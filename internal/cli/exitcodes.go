package cli

import (
	"errors"

	"github.com/kbukum/plughttp/httpclient"
)

// Process exit codes.
const (
	ExitSuccess = 0
	// ExitRequestFailed means the server answered with a status >= 400.
	ExitRequestFailed = 1
	// ExitResponseError means the response could not be read or extracted.
	ExitResponseError = 2
	ExitConfigError   = 3
	// ExitNetworkError covers timeouts and transport failures.
	ExitNetworkError = 4
	ExitUsageError   = 64
)

// usageError marks errors caused by bad arguments or flags.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// configError marks errors raised while loading configuration files.
type configError struct{ err error }

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// ExitCode maps an error returned by the root command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ue *usageError
	if errors.As(err, &ue) {
		return ExitUsageError
	}
	var ce *configError
	if errors.As(err, &ce) {
		return ExitConfigError
	}
	if errors.Is(err, ErrPathNotFound) || errors.Is(err, ErrNotJSON) {
		return ExitResponseError
	}
	switch httpclient.KindOf(err) {
	case httpclient.KindUnauthorized, httpclient.KindInvalidRequest:
		return ExitRequestFailed
	case httpclient.KindTimeout, httpclient.KindTransport:
		return ExitNetworkError
	case httpclient.KindInvalidConfig, httpclient.KindSecuritySetup:
		return ExitConfigError
	case httpclient.KindInvalidVerb, httpclient.KindURLConfiguration:
		return ExitUsageError
	case httpclient.KindDeserialization:
		return ExitResponseError
	}
	return ExitRequestFailed
}
