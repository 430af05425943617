package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-stream/internal/core/domain"
	"github.com/custodia-labs/sercha-stream/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-stream/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-stream/internal/logger"
)

// Ensure StreamSearchService implements the interface.
var _ driving.StreamSearchService = (*StreamSearchService)(nil)

// StreamSearchService issues streaming searches against a StreamSource and
// folds each session's events into an aggregate snapshot. At most one
// session is active per service instance; a new search tears down the
// previous session before its stream opens.
type StreamSearchService struct {
	source driven.StreamSource

	mu     sync.Mutex
	active *session
}

// NewStreamSearchService creates a new streaming search service.
func NewStreamSearchService(source driven.StreamSource) *StreamSearchService {
	return &StreamSearchService{source: source}
}

// Search opens a stream for req and returns a live subscription.
func (s *StreamSearchService) Search(ctx context.Context, req domain.StreamRequest) (driving.SearchSubscription, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validating search request: %w", err)
	}
	req = req.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Tear down the previous session completely before opening the next
	// stream. Two sessions must never fold at the same time.
	if s.active != nil {
		if err := s.active.Close(); err != nil {
			logger.Warn("Closing previous search session: %v", err)
		}
		s.active = nil
	}

	stream, err := s.source.Open(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("opening search stream: %w", err)
	}

	sess := newSession(stream)
	s.active = sess
	logger.Debug("Search session %s opened for query %q", sess.id, req.Query)

	go sess.run()
	return sess, nil
}

// SearchCollect runs a streaming search to completion and returns the
// final snapshot.
func (s *StreamSearchService) SearchCollect(ctx context.Context, req domain.StreamRequest) (domain.AggregateResults, error) {
	sub, err := s.Search(ctx, req)
	if err != nil {
		return domain.AggregateResults{}, err
	}
	defer sub.Close() //nolint:errcheck

	for {
		select {
		case <-ctx.Done():
			return sub.Current(), ctx.Err()
		case _, ok := <-sub.Snapshots():
			if !ok {
				return sub.Current(), nil
			}
		}
	}
}

// session is one fold pipeline: it owns the snapshot for a single search
// and is the snapshot's only writer.
type session struct {
	id     string
	stream driven.EventStream

	mu      sync.RWMutex
	current domain.AggregateResults

	snapshots chan domain.AggregateResults
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// Ensure session implements the subscription interface.
var _ driving.SearchSubscription = (*session)(nil)

func newSession(stream driven.EventStream) *session {
	return &session{
		id:        uuid.NewString(),
		stream:    stream,
		current:   domain.EmptyAggregateResults(),
		snapshots: make(chan domain.AggregateResults, 1),
		done:      make(chan struct{}),
	}
}

// run folds events strictly in delivery order until the stream ends, then
// folds any stream fault and closes the snapshot channel. Even a stream
// that delivers nothing terminates with the documented empty snapshot
// already in place.
func (s *session) run() {
	for ev := range s.stream.Events() {
		s.fold(ev)
	}
	if err := s.stream.Err(); err != nil {
		logger.Warn("Search session %s stream fault: %v", s.id, err)
		s.fold(domain.StreamErrorEvent(err))
	}
	close(s.snapshots)
	close(s.done)
}

// fold advances the snapshot by one event and publishes the result.
func (s *session) fold(ev domain.SearchEvent) {
	s.mu.Lock()
	next := s.current.Fold(ev)
	s.current = next
	s.mu.Unlock()
	s.publish(next)
}

// publish conflates updates: a slow consumer always observes the most
// recent snapshot rather than stalling the fold loop.
func (s *session) publish(agg domain.AggregateResults) {
	select {
	case s.snapshots <- agg:
	default:
		select {
		case <-s.snapshots:
		default:
		}
		select {
		case s.snapshots <- agg:
		default:
		}
	}
}

// Snapshots implements driving.SearchSubscription.
func (s *session) Snapshots() <-chan domain.AggregateResults {
	return s.snapshots
}

// Current implements driving.SearchSubscription.
func (s *session) Current() domain.AggregateResults {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Close implements driving.SearchSubscription. The stream teardown and the
// end of event handling happen together: once Close returns, the fold loop
// has exited and no further snapshot is published.
func (s *session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.stream.Close()
		<-s.done
		logger.Debug("Search session %s closed", s.id)
	})
	return s.closeErr
}
