package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown match or event type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrStreamClosed indicates the event stream has already been closed.
	ErrStreamClosed = errors.New("stream closed")

	// ErrSessionClosed indicates the search session has been torn down.
	ErrSessionClosed = errors.New("session closed")

	// ErrNoServer indicates no search server URL is configured.
	ErrNoServer = errors.New("no search server configured")
)

// StreamDisconnectedMessage is the fixed advisory shown when the connection
// drops without a structured error payload. The UI always needs a renderable
// message, never a raw transport error.
const StreamDisconnectedMessage = "Connection to the search server closed unexpectedly"

// ParseError indicates an event payload failed to decode. It is terminal for
// the stream and distinct from a transport fault.
type ParseError struct {
	// Payload names what was being decoded (event name or "match").
	Payload string

	// Err is the underlying decode error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s payload: %v", e.Payload, e.Err)
}

// Unwrap returns the underlying decode error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
