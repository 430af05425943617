package driven

import (
	"context"

	"github.com/custodia-labs/sercha-stream/internal/core/domain"
)

// StreamSource opens streaming search connections to the server.
// Implementations own the wire protocol (SSE framing, query-string
// encoding, authentication); core only sees decoded SearchEvents.
type StreamSource interface {
	// Open starts a streaming search. The returned stream delivers events
	// strictly in wire order. Cancelling ctx closes the stream.
	Open(ctx context.Context, req domain.StreamRequest) (EventStream, error)
}

// EventStream is one open streaming search connection.
type EventStream interface {
	// Events returns the channel of decoded events. The channel is closed
	// after a terminal event, a stream fault, or Close. Consumers must
	// check Err after the channel closes.
	Events() <-chan domain.SearchEvent

	// Err reports why the stream ended. It returns nil after a clean
	// terminal event or an explicit Close, a *domain.ParseError for a
	// malformed payload, and the transport error otherwise. Err must only
	// be called after Events is closed.
	Err() error

	// Close tears down the connection and all decoding state as one
	// atomic operation. It is idempotent and safe to call concurrently
	// with event delivery.
	Close() error
}
