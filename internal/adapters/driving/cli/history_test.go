package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryCommand_ListsEntries(t *testing.T) {
	h := &mockHistoryService{}
	h.entries = append(h.entries,
		historyEntry("context.Context", 42, time.Hour),
		historyEntry("fmt.Errorf", 7, 2*time.Hour),
	)
	setupTestServices(t, &mockSearchService{}, h, newMockSettingsService())

	out, err := executeCommand("history")

	require.NoError(t, err)
	assert.Contains(t, out, "context.Context")
	assert.Contains(t, out, "(42 matches)")
	assert.Contains(t, out, "fmt.Errorf")
}

func TestHistoryCommand_Empty(t *testing.T) {
	setupTestServices(t, &mockSearchService{}, &mockHistoryService{}, newMockSettingsService())

	out, err := executeCommand("history")

	require.NoError(t, err)
	assert.Contains(t, out, "No search history.")
}

func TestHistoryCommand_Limit(t *testing.T) {
	h := &mockHistoryService{}
	for _, q := range []string{"one", "two", "three"} {
		h.entries = append(h.entries, historyEntry(q, 1, time.Minute))
	}
	setupTestServices(t, &mockSearchService{}, h, newMockSettingsService())

	out, err := executeCommand("history", "-n", "2")

	require.NoError(t, err)
	assert.Contains(t, out, "one")
	assert.Contains(t, out, "two")
	assert.NotContains(t, out, "three")
}

func TestHistoryCommand_ZeroMatchesOmitsCount(t *testing.T) {
	h := &mockHistoryService{}
	h.entries = append(h.entries, historyEntry("nothing", 0, time.Minute))
	setupTestServices(t, &mockSearchService{}, h, newMockSettingsService())

	out, err := executeCommand("history")

	require.NoError(t, err)
	assert.Contains(t, out, "nothing")
	assert.NotContains(t, out, "matches)")
}

func TestHistoryCommand_ServiceMissing(t *testing.T) {
	setupTestServices(t, &mockSearchService{}, nil, newMockSettingsService())
	historyService = nil

	_, err := executeCommand("history")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "history service not configured")
}

func TestHistoryClearCommand(t *testing.T) {
	h := &mockHistoryService{}
	h.entries = append(h.entries, historyEntry("q", 1, time.Minute))
	setupTestServices(t, &mockSearchService{}, h, newMockSettingsService())

	out, err := executeCommand("history", "clear")

	require.NoError(t, err)
	assert.True(t, h.cleared)
	assert.Contains(t, out, "Search history cleared.")
}
