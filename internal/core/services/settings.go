package services

import (
	"fmt"
	"sync"

	"github.com/custodia-labs/sercha-stream/internal/core/domain"
	"github.com/custodia-labs/sercha-stream/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-stream/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-stream/internal/logger"
)

// Config keys used by the settings service.
const (
	keyServerURL     = "server.url"
	keyAccessToken   = "server.token"
	keyContextLines  = "search.context_lines"
	keyMaxMatches    = "search.max_matches"
	keyDisplayLimit  = "search.display_limit"
	keyPatternType   = "search.pattern_type"
	keyCaseSensitive = "search.case_sensitive"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// SettingsService manages user preferences backed by a ConfigStore.
// When the store also implements ConfigWatcher, settings changes made on
// disk are picked up live and fanned out to subscribers.
type SettingsService struct {
	config driven.ConfigStore

	mu        sync.Mutex
	nextSubID int
	subs      map[int]func(domain.Settings)
	stopWatch func()
}

// NewSettingsService creates a new settings service.
func NewSettingsService(config driven.ConfigStore) *SettingsService {
	return &SettingsService{
		config: config,
		subs:   make(map[int]func(domain.Settings)),
	}
}

// Get returns the current settings with defaults applied.
func (s *SettingsService) Get() domain.Settings {
	out := domain.DefaultSettings()
	out.ServerURL = s.config.GetString(keyServerURL)
	out.AccessToken = s.config.GetString(keyAccessToken)
	out.CaseSensitive = s.config.GetBool(keyCaseSensitive)

	if _, ok := s.config.Get(keyContextLines); ok {
		out.ContextLines = s.config.GetInt(keyContextLines)
	}
	if _, ok := s.config.Get(keyMaxMatches); ok {
		out.MaxMatchesPerFile = s.config.GetInt(keyMaxMatches)
	}
	if v := s.config.GetInt(keyDisplayLimit); v > 0 {
		out.DisplayLimit = v
	}
	if v := s.config.GetString(keyPatternType); v != "" {
		out.PatternType = domain.PatternType(v)
	}
	return out
}

// Update validates and persists new settings.
func (s *SettingsService) Update(settings domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("validating settings: %w", err)
	}

	pairs := []struct {
		key string
		val any
	}{
		{keyServerURL, settings.ServerURL},
		{keyAccessToken, settings.AccessToken},
		{keyContextLines, settings.ContextLines},
		{keyMaxMatches, settings.MaxMatchesPerFile},
		{keyDisplayLimit, settings.DisplayLimit},
		{keyPatternType, settings.PatternType.String()},
		{keyCaseSensitive, settings.CaseSensitive},
	}
	for _, p := range pairs {
		if err := s.config.Set(p.key, p.val); err != nil {
			return fmt.Errorf("storing %s: %w", p.key, err)
		}
	}

	s.notify(s.Get())
	return nil
}

// SetServer stores the server URL and access token.
func (s *SettingsService) SetServer(url, token string) error {
	if url == "" {
		return domain.ErrNoServer
	}
	if err := s.config.Set(keyServerURL, url); err != nil {
		return fmt.Errorf("storing server url: %w", err)
	}
	if err := s.config.Set(keyAccessToken, token); err != nil {
		return fmt.Errorf("storing access token: %w", err)
	}
	s.notify(s.Get())
	return nil
}

// Subscribe registers a callback for settings changes.
func (s *SettingsService) Subscribe(onChange func(domain.Settings)) (stop func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = onChange

	// Lazily attach the file watcher on first subscription.
	if s.stopWatch == nil {
		if watcher, ok := s.config.(driven.ConfigWatcher); ok {
			stopWatch, err := watcher.Watch(func() {
				s.notify(s.Get())
			})
			if err != nil {
				logger.Warn("Watching config file: %v", err)
			} else {
				s.stopWatch = stopWatch
			}
		}
	}

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *SettingsService) notify(settings domain.Settings) {
	s.mu.Lock()
	callbacks := make([]func(domain.Settings), 0, len(s.subs))
	for _, cb := range s.subs {
		callbacks = append(callbacks, cb)
	}
	s.mu.Unlock()

	for _, cb := range callbacks {
		cb(settings)
	}
}
