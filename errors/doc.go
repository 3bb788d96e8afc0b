// Package errors defines AppError, the error shape plugins hand back to
// their own callers, with machine-readable codes, an HTTP status hint and
// a retryable flag.
package errors
