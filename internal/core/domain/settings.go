package domain

import "strings"

// Default display preferences.
const (
	// DefaultContextLines is the number of context lines around a match.
	DefaultContextLines = 1

	// DefaultMaxMatchesPerFile is the collapsed per-file match limit.
	// 0 means show all.
	DefaultMaxMatchesPerFile = 5
)

// Settings holds the user-configurable client preferences.
type Settings struct {
	// ServerURL is the base URL of the search server.
	ServerURL string

	// AccessToken authenticates against the server. May be empty for
	// anonymous-access servers.
	AccessToken string

	// ContextLines is the number of lines shown around each match.
	ContextLines int

	// MaxMatchesPerFile limits matches shown per file before "show more".
	// 0 means show all.
	MaxMatchesPerFile int

	// DisplayLimit is the streamed-results cap sent with each search.
	DisplayLimit int

	// PatternType is the default pattern type for new searches.
	PatternType PatternType

	// CaseSensitive makes searches case sensitive by default.
	CaseSensitive bool
}

// DefaultSettings returns settings with all defaults applied.
func DefaultSettings() Settings {
	return Settings{
		ContextLines:      DefaultContextLines,
		MaxMatchesPerFile: DefaultMaxMatchesPerFile,
		DisplayLimit:      DefaultDisplayLimit,
		PatternType:       PatternTypeStandard,
	}
}

// Validate checks the settings are usable for issuing searches.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.ServerURL) == "" {
		return ErrNoServer
	}
	if s.ContextLines < 0 || s.MaxMatchesPerFile < 0 || s.DisplayLimit < 0 {
		return ErrInvalidInput
	}
	if s.PatternType != "" && !s.PatternType.IsValid() {
		return ErrInvalidInput
	}
	return nil
}

// Request builds a StreamRequest for a query using these settings.
func (s Settings) Request(query string) StreamRequest {
	return StreamRequest{
		Query:         query,
		CaseSensitive: s.CaseSensitive,
		PatternType:   s.PatternType,
		DisplayLimit:  s.DisplayLimit,
		ChunkMatches:  true,
	}.Normalize()
}
