package driving

import "github.com/custodia-labs/sercha-stream/internal/core/domain"

// SettingsService manages user preferences.
type SettingsService interface {
	// Get returns the current settings with defaults applied.
	Get() domain.Settings

	// Update validates and persists new settings.
	Update(s domain.Settings) error

	// SetServer stores the server URL and access token.
	SetServer(url, token string) error

	// Subscribe registers a callback invoked after settings change,
	// including changes picked up from the config file on disk.
	// The returned stop function unregisters the callback.
	Subscribe(onChange func(domain.Settings)) (stop func())
}
