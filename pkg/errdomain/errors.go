// Package errdomain provides coded domain errors shared across services.
// Construct errors at trust boundaries with New or Wrap so transports can
// translate codes without inspecting message strings.
package errdomain

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error for propagation policy and HTTP translation.
type Code string

const (
	// CodeInvalidInput marks malformed identities, addresses, amounts or
	// request structure. Never retried.
	CodeInvalidInput Code = "invalid_input"
	// CodeRateLimited marks an admission-control denial. Propagated as-is;
	// the caller owns backoff policy.
	CodeRateLimited Code = "rate_limited"
	// CodeResolutionFailed marks an identity lookup that failed after the
	// local retry budget was spent.
	CodeResolutionFailed Code = "resolution_failed"
	// CodeDispatchFailed marks a batch-transfer backend failure after the
	// transient-condition retry.
	CodeDispatchFailed Code = "dispatch_failed"
	// CodeLockTimeout marks a bounded lock acquisition that gave up waiting.
	CodeLockTimeout Code = "lock_timeout"
	// CodeInvariantViolation marks a broken domain invariant.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeUnauthorized marks a missing or invalid credential.
	CodeUnauthorized Code = "unauthorized"
	// CodeInternal marks unexpected infrastructure failures.
	CodeInternal Code = "internal"
)

// Error is a coded domain error. It implements errors.Unwrap so wrapped
// causes stay reachable with errors.Is/As.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a coded error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error. A nil err yields
// nil so call sites can wrap unconditionally.
func Wrap(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// CodeOf extracts the code from err, or CodeInternal when err carries none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

// ToHTTPStatus maps a code to the status the transport layer responds with.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidInput, CodeInvariantViolation:
		return http.StatusBadRequest
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeResolutionFailed, CodeDispatchFailed:
		return http.StatusBadGateway
	case CodeLockTimeout:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
