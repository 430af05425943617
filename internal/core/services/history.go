package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-stream/internal/core/domain"
	"github.com/custodia-labs/sercha-stream/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-stream/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-stream/internal/logger"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService manages the recent-searches list.
type HistoryService struct {
	store driven.HistoryStore
}

// NewHistoryService creates a new history service.
func NewHistoryService(store driven.HistoryStore) *HistoryService {
	return &HistoryService{store: store}
}

// Record stores a completed search.
func (h *HistoryService) Record(ctx context.Context, req domain.StreamRequest, agg domain.AggregateResults) (domain.HistoryEntry, error) {
	entry := domain.HistoryEntry{
		ID:          uuid.NewString(),
		Query:       req.Query,
		PatternType: req.PatternType,
		MatchCount:  agg.Progress.MatchCount,
		DurationMs:  agg.Progress.DurationMs,
		State:       agg.State,
		CreatedAt:   time.Now().UTC(),
	}
	if err := entry.Validate(); err != nil {
		return domain.HistoryEntry{}, fmt.Errorf("validating history entry: %w", err)
	}
	if err := h.store.Save(ctx, entry); err != nil {
		return domain.HistoryEntry{}, fmt.Errorf("saving history entry: %w", err)
	}
	logger.Debug("Recorded search %q (%d matches)", entry.Query, entry.MatchCount)
	return entry, nil
}

// Recent returns recent searches, newest first, deduplicated by query.
func (h *HistoryService) Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	// Fetch more than requested so deduplication can still fill the limit.
	fetch := 0
	if limit > 0 {
		fetch = limit * 3
	}
	entries, err := h.store.List(ctx, fetch)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}

	seen := make(map[string]bool, len(entries))
	out := make([]domain.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if seen[e.Query] {
			continue
		}
		seen[e.Query] = true
		out = append(out, e)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// Clear removes all history.
func (h *HistoryService) Clear(ctx context.Context) error {
	if err := h.store.Clear(ctx); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}
