package driven

import (
	"context"

	"github.com/custodia-labs/sercha-stream/internal/core/domain"
)

// HistoryStore persists recent searches.
type HistoryStore interface {
	// Save records one completed search.
	Save(ctx context.Context, entry domain.HistoryEntry) error

	// List returns entries ordered newest first, up to limit.
	// limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]domain.HistoryEntry, error)

	// Delete removes one entry by ID.
	// Returns domain.ErrNotFound if the entry does not exist.
	Delete(ctx context.Context, id string) error

	// Clear removes all entries.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close() error
}
