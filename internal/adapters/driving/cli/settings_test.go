package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-stream/internal/core/domain"
)

func TestSettingsShowCommand(t *testing.T) {
	setupTestServices(t, &mockSearchService{}, &mockHistoryService{}, newMockSettingsService())

	out, err := executeCommand("settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "URL: https://search.example.com")
	assert.Contains(t, out, "Token: ****1234")
	assert.NotContains(t, out, "sgp_test_token", "token is never shown in full")
	assert.Contains(t, out, "Pattern type: standard")
	assert.Contains(t, out, "Context lines: 1")
	assert.Contains(t, out, "Display limit: 1500")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsShowCommand_NoServer(t *testing.T) {
	settings := newMockSettingsService()
	settings.settings.ServerURL = ""
	settings.settings.AccessToken = ""
	setupTestServices(t, &mockSearchService{}, &mockHistoryService{}, settings)

	out, err := executeCommand("settings")

	require.NoError(t, err)
	assert.Contains(t, out, "URL: (not set)")
	assert.Contains(t, out, "No server configured.")
}

func TestSettingsShowCommand_ShowAllMatches(t *testing.T) {
	settings := newMockSettingsService()
	settings.settings.MaxMatchesPerFile = 0
	setupTestServices(t, &mockSearchService{}, &mockHistoryService{}, settings)

	out, err := executeCommand("settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Max matches per file: all")
}

func TestSettingsSetCommand(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		check func(t *testing.T, s domain.Settings)
	}{
		{
			name: "context lines", key: "context_lines", value: "3",
			check: func(t *testing.T, s domain.Settings) { assert.Equal(t, 3, s.ContextLines) },
		},
		{
			name: "max matches", key: "max_matches", value: "0",
			check: func(t *testing.T, s domain.Settings) { assert.Equal(t, 0, s.MaxMatchesPerFile) },
		},
		{
			name: "display limit", key: "display_limit", value: "500",
			check: func(t *testing.T, s domain.Settings) { assert.Equal(t, 500, s.DisplayLimit) },
		},
		{
			name: "pattern type", key: "pattern_type", value: "regexp",
			check: func(t *testing.T, s domain.Settings) { assert.Equal(t, domain.PatternTypeRegexp, s.PatternType) },
		},
		{
			name: "case sensitive", key: "case_sensitive", value: "true",
			check: func(t *testing.T, s domain.Settings) { assert.True(t, s.CaseSensitive) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := newMockSettingsService()
			setupTestServices(t, &mockSearchService{}, &mockHistoryService{}, settings)

			out, err := executeCommand("settings", "set", tt.key, tt.value)

			require.NoError(t, err)
			assert.Contains(t, out, "Set "+tt.key)
			require.Len(t, settings.updated, 1)
			tt.check(t, settings.updated[0])
		})
	}
}

func TestSettingsSetCommand_InvalidValue(t *testing.T) {
	setupTestServices(t, &mockSearchService{}, &mockHistoryService{}, newMockSettingsService())

	_, err := executeCommand("settings", "set", "context_lines", "lots")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid value for context_lines")
}

func TestSettingsSetCommand_UnknownKey(t *testing.T) {
	setupTestServices(t, &mockSearchService{}, &mockHistoryService{}, newMockSettingsService())

	_, err := executeCommand("settings", "set", "colour_scheme", "dark")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown setting "colour_scheme"`)
}

func TestSettingsSetCommand_NoServer(t *testing.T) {
	settings := newMockSettingsService()
	settings.err = domain.ErrNoServer
	setupTestServices(t, &mockSearchService{}, &mockHistoryService{}, settings)

	_, err := executeCommand("settings", "set", "context_lines", "2")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no server configured")
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "****", maskToken("ab"))
	assert.Equal(t, "****", maskToken("abcd"))
	assert.Equal(t, "****6789", maskToken("sgp_123456789"))
}
