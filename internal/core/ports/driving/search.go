package driving

import (
	"context"

	"github.com/custodia-labs/sercha-stream/internal/core/domain"
)

// SearchSubscription is a live handle on one streaming search session.
// Snapshots delivers a fresh immutable snapshot after every folded event;
// consumers detect "no change" by identity. The channel is closed once the
// session reaches a terminal state or is torn down.
type SearchSubscription interface {
	// Snapshots returns the snapshot update channel.
	Snapshots() <-chan domain.AggregateResults

	// Current returns the latest folded snapshot. Safe to call at any
	// point, including after the session ended.
	Current() domain.AggregateResults

	// Close tears down the session: the underlying connection is closed
	// and all event handling detaches as one atomic operation.
	// Idempotent.
	Close() error
}

// StreamSearchService issues streaming searches.
type StreamSearchService interface {
	// Search opens a stream for req and returns a live subscription.
	// Issuing a new search on the same service tears down the previous
	// session first; two sessions never fold concurrently.
	Search(ctx context.Context, req domain.StreamRequest) (SearchSubscription, error)

	// SearchCollect runs a streaming search to completion and returns the
	// final snapshot. A stream fault is reported in the snapshot's error
	// state, not as a returned error.
	SearchCollect(ctx context.Context, req domain.StreamRequest) (domain.AggregateResults, error)
}
