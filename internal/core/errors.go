// internal/core/errors.go
package core

// Error is the wire-level error carried through the API: a stable code,
// a human-readable message and an optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := "[" + e.Code + "] " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches two Errors by code, so a wrapped error still compares
// equal to its sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Code == t.Code
}

// WrapError copies the sentinel and attaches a cause. Sentinels are
// shared, so they must never be mutated in place.
func WrapError(base *Error, cause error) *Error {
	return &Error{Code: base.Code, Message: base.Message, Cause: cause}
}

// Predefined errors
var (
	// Upstream strategy API errors
	ErrUpstreamUnreachable = &Error{Code: "UPSTREAM_UNREACHABLE", Message: "strategy API unreachable"}
	ErrUpstreamStatus      = &Error{Code: "UPSTREAM_STATUS", Message: "strategy API returned an error status"}
	ErrDecodeFailed        = &Error{Code: "DECODE_FAILED", Message: "failed to decode strategy API response"}

	// Request errors
	ErrSymbolInvalid = &Error{Code: "SYMBOL_INVALID", Message: "symbol is empty or malformed"}
	ErrNotFound      = &Error{Code: "NOT_FOUND", Message: "resource not found"}
	ErrJobNotFound   = &Error{Code: "JOB_NOT_FOUND", Message: "job not found"}
	ErrUnauthorized  = &Error{Code: "UNAUTHORIZED", Message: "missing or invalid API key"}

	// Scanner errors
	ErrUniverseUnknown = &Error{Code: "UNIVERSE_UNKNOWN", Message: "unknown symbol universe"}

	// Storage errors
	ErrStoreFailed = &Error{Code: "STORE_FAILED", Message: "storage operation failed"}

	// Notifier errors
	ErrNotifierFailed = &Error{Code: "NOTIFIER_FAILED", Message: "notifier failed"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}
)
