package fault

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers and for HTTP mapping.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidInput
	KindConflict
	KindUnauthorized
	KindNotFound
	KindUpstream
	KindInconsistent
)

// Conflict codes surfaced to callers with a user-facing message.
const (
	CodeDateOverlap          = "DateOverlap"
	CodeBlocked              = "Blocked"
	CodeInsufficientSeats    = "InsufficientSeats"
	CodeDuplicateReservation = "DuplicateReservation"
	CodeCancellationWindow   = "CancellationWindowClosed"
	CodeDeparted             = "Departed"
	CodeTripCancelled        = "TripCancelled"
	CodeTooEarly             = "TooEarly"
	CodeCancelled            = "Cancelled"
	CodeNotConfirmed         = "NotConfirmed"
)

// Error is the typed error carried across the reservation and payment
// services.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Invalid rejects malformed input before any state mutation.
func Invalid(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// Conflictf builds an availability or capacity conflict with a stable code.
func Conflictf(code, format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Unauthorized rejects an actor that does not own the resource.
func Unauthorized(format string, args ...interface{}) *Error {
	return &Error{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing booking, trip or transaction id.
func NotFound(resource, id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %s not found", resource, id)}
}

// Upstream wraps a gateway failure; the order is left untouched and the
// caller should retry the whole call.
func Upstream(msg string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: msg, Err: err}
}

// Inconsistent flags a combined order with mismatched halves for manual
// reconciliation. It is never silently repaired.
func Inconsistent(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInconsistent, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind of err, or KindUnknown for untyped errors.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// CodeOf extracts the conflict code of err, if any.
func CodeOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}
