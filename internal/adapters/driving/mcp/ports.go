package mcp

import (
	"github.com/custodia-labs/sercha-stream/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search runs streaming searches.
	Search driving.StreamSearchService

	// History exposes recent searches.
	History driving.HistoryService

	// Settings provides the request defaults.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	// History and Settings are optional
	return nil
}
