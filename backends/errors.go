package backends

import (
	"errors"
	"fmt"
)

// Kind classifies backend errors into a closed set of variants.
type Kind string

// Error kinds returned by storage backends
const (
	KindConfigInvalid      Kind = "ConfigInvalid"
	KindUnsupported        Kind = "Unsupported"
	KindNotFound           Kind = "NotFound"
	KindPreconditionFailed Kind = "PreconditionFailed"
	KindUnexpected         Kind = "Unexpected"
	KindTransport          Kind = "TransportFailure"
)

// Error is the error type returned by storage backends. It carries the
// operation and path it occurred on plus, for HTTP-level failures, the
// response status and raw body for diagnostics.
type Error struct {
	Kind       Kind
	Op         string
	Path       string
	StatusCode int
	Message    string
	Body       string
	Err        error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	s := fmt.Sprintf("%s: %s", e.Kind, msg)
	if e.Op != "" {
		s = fmt.Sprintf("%s %s: %s", e.Op, e.Path, s)
	}
	if e.StatusCode != 0 {
		s = fmt.Sprintf("%s (status %d)", s, e.StatusCode)
	}
	return s
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a backend error with the given kind, operation, path and message.
func NewError(kind Kind, op, path, message string) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Message: message}
}

// KindOf returns the Kind of err, or KindUnexpected if err is not a backend Error.
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindUnexpected
}

// IsNotFound reports whether err is a NotFound backend error.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsUnsupported reports whether err is an Unsupported backend error.
func IsUnsupported(err error) bool {
	return KindOf(err) == KindUnsupported
}

// IsConfigInvalid reports whether err is a ConfigInvalid backend error.
func IsConfigInvalid(err error) bool {
	return KindOf(err) == KindConfigInvalid
}
