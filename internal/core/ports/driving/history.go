package driving

import (
	"context"

	"github.com/custodia-labs/sercha-stream/internal/core/domain"
)

// HistoryService manages the recent-searches list.
type HistoryService interface {
	// Record stores a completed search described by its request and final
	// snapshot, and returns the stored entry.
	Record(ctx context.Context, req domain.StreamRequest, agg domain.AggregateResults) (domain.HistoryEntry, error)

	// Recent returns recent searches, newest first, deduplicated by query
	// text (the most recent occurrence wins), up to limit.
	Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error)

	// Clear removes all history.
	Clear(ctx context.Context) error
}
