package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-stream/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-stream/internal/core/domain"
)

// TestSettingsService_GetDefaults tests defaults on an empty store
func TestSettingsService_GetDefaults(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	s := svc.Get()

	assert.Equal(t, domain.DefaultContextLines, s.ContextLines)
	assert.Equal(t, domain.DefaultMaxMatchesPerFile, s.MaxMatchesPerFile)
	assert.Equal(t, domain.DefaultDisplayLimit, s.DisplayLimit)
	assert.Equal(t, domain.PatternTypeStandard, s.PatternType)
	assert.Empty(t, s.ServerURL)
}

// TestSettingsService_UpdateRoundTrip tests persisting and re-reading
func TestSettingsService_UpdateRoundTrip(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	in := domain.Settings{
		ServerURL:         "https://search.example.com",
		AccessToken:       "tok",
		ContextLines:      3,
		MaxMatchesPerFile: 0, // show all
		DisplayLimit:      500,
		PatternType:       domain.PatternTypeRegexp,
		CaseSensitive:     true,
	}
	require.NoError(t, svc.Update(in))

	out := svc.Get()
	assert.Equal(t, in, out)
}

// TestSettingsService_UpdateInvalid tests validation on update
func TestSettingsService_UpdateInvalid(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	err := svc.Update(domain.Settings{ContextLines: 1})
	assert.ErrorIs(t, err, domain.ErrNoServer)

	err = svc.Update(domain.Settings{ServerURL: "https://x", ContextLines: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestSettingsService_SetServer tests storing server credentials
func TestSettingsService_SetServer(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	require.NoError(t, svc.SetServer("https://search.example.com", "tok"))

	s := svc.Get()
	assert.Equal(t, "https://search.example.com", s.ServerURL)
	assert.Equal(t, "tok", s.AccessToken)

	assert.ErrorIs(t, svc.SetServer("", ""), domain.ErrNoServer)
}

// TestSettingsService_SubscribeNotifiesOnChange tests subscriber fan-out
func TestSettingsService_SubscribeNotifiesOnChange(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	var got []domain.Settings
	stop := svc.Subscribe(func(s domain.Settings) {
		got = append(got, s)
	})

	require.NoError(t, svc.SetServer("https://search.example.com", ""))
	require.Len(t, got, 1)
	assert.Equal(t, "https://search.example.com", got[0].ServerURL)

	stop()
	require.NoError(t, svc.SetServer("https://other.example.com", ""))
	assert.Len(t, got, 1)
}
