// Package tui provides an interactive terminal user interface for live
// streaming code search. It implements a driving adapter following
// hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/sercha-stream/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search runs streaming searches.
	Search driving.StreamSearchService

	// History exposes and records recent searches.
	History driving.HistoryService

	// Settings manages user preferences and change notifications.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Settings == nil {
		return ErrMissingSettingsService
	}
	// History is optional
	return nil
}
