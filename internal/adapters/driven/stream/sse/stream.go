package sse

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/custodia-labs/sercha-stream/internal/core/domain"
	"github.com/custodia-labs/sercha-stream/internal/core/ports/driven"
)

// maxFrameSize bounds one SSE frame. Match batches can be large but are
// chunked by the server well below this.
const maxFrameSize = 32 * 1024 * 1024

// Ensure stream implements the interface.
var _ driven.EventStream = (*stream)(nil)

// stream is one open SSE connection being decoded into SearchEvents.
type stream struct {
	body   io.ReadCloser
	cancel context.CancelFunc
	events chan domain.SearchEvent

	mu       sync.Mutex
	err      error
	finished bool

	closeOnce sync.Once
	closeErr  error
}

func newStream(body io.ReadCloser, cancel context.CancelFunc) *stream {
	return &stream{
		body:   body,
		cancel: cancel,
		events: make(chan domain.SearchEvent),
	}
}

// run reads SSE frames until the stream ends, delivering decoded events in
// wire order, then closes the event channel.
func (s *stream) run() {
	defer close(s.events)
	defer s.body.Close() //nolint:errcheck

	scanner := bufio.NewScanner(s.body)
	scanner.Buffer(make([]byte, 64*1024), maxFrameSize)

	var (
		eventName string
		data      bytes.Buffer
	)
	dispatch := func() bool {
		if eventName == "" && data.Len() == 0 {
			return true
		}
		name := eventName
		eventName = ""
		payload := data.Bytes()
		data = bytes.Buffer{}

		ev, err := domain.ParseEvent(name, payload)
		if err != nil {
			// A malformed payload is terminal; it must not be dropped.
			s.fail(err)
			return false
		}
		s.events <- ev
		if ev.Type.IsTerminal() {
			s.finish()
			return false
		}
		return true
	}

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if !dispatch() {
				return
			}
		case strings.HasPrefix(line, ":"):
			// Comment / keep-alive.
		case strings.HasPrefix(line, "event:"):
			eventName = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		default:
			// id:, retry:, and unknown fields are ignored.
		}
	}

	// The connection ended without a terminal event: either an explicit
	// Close (not a fault) or a transport failure.
	s.mu.Lock()
	finished := s.finished
	s.mu.Unlock()
	if finished {
		return
	}
	if err := scanner.Err(); err != nil {
		if !errors.Is(err, context.Canceled) {
			s.fail(err)
		}
		return
	}
	s.fail(io.ErrUnexpectedEOF)
}

// fail records why the stream ended. Explicit closes win over the
// transport error they provoke.
func (s *stream) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.finished {
		s.finished = true
		s.err = err
	}
}

// finish marks a clean end of stream.
func (s *stream) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finished = true
}

// Events implements driven.EventStream.
func (s *stream) Events() <-chan domain.SearchEvent {
	return s.events
}

// Err implements driven.EventStream.
func (s *stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close implements driven.EventStream. The connection close and the end of
// event decoding happen together: cancelling the request context unblocks
// the reader, and the drain below releases a run loop parked on delivery.
func (s *stream) Close() error {
	s.closeOnce.Do(func() {
		s.finish()
		s.cancel()
		s.closeErr = s.body.Close()
		// Drain so run can observe the closed connection and exit.
		go func() {
			for range s.events { //nolint:revive
			}
		}()
	})
	return s.closeErr
}
