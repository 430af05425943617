package domain

import "time"

// HistoryEntry records one completed search for the recent-searches list.
type HistoryEntry struct {
	// ID is a unique identifier (UUID).
	ID string

	// Query is the query text as submitted, without protocol tokens.
	Query string

	// PatternType is the pattern type the search ran with.
	PatternType PatternType

	// MatchCount is the final progress match count.
	MatchCount int

	// DurationMs is the final server-side duration.
	DurationMs int

	// State is the terminal state the search reached.
	State SearchState

	// CreatedAt is when the search was issued.
	CreatedAt time.Time
}

// Validate checks the entry is storable.
func (e HistoryEntry) Validate() error {
	if e.ID == "" || e.Query == "" {
		return ErrInvalidInput
	}
	return nil
}
