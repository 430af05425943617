package history

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-stream/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-stream/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-stream/internal/core/domain"
)

type mockHistoryService struct {
	entries []domain.HistoryEntry
	err     error
}

func (m *mockHistoryService) Record(_ context.Context, _ domain.StreamRequest, _ domain.AggregateResults) (domain.HistoryEntry, error) {
	return domain.HistoryEntry{}, nil
}

func (m *mockHistoryService) Recent(_ context.Context, _ int) ([]domain.HistoryEntry, error) {
	return m.entries, m.err
}

func (m *mockHistoryService) Clear(_ context.Context) error {
	return nil
}

func testEntries() []domain.HistoryEntry {
	now := time.Now()
	return []domain.HistoryEntry{
		{ID: "1", Query: "context.Context", MatchCount: 42, State: domain.SearchStateComplete, CreatedAt: now},
		{ID: "2", Query: "fmt.Errorf wrapping", MatchCount: 7, State: domain.SearchStateComplete, CreatedAt: now.Add(-time.Hour)},
		{ID: "3", Query: "repo:golang/go Println", MatchCount: 0, State: domain.SearchStateError, CreatedAt: now.Add(-2 * time.Hour)},
	}
}

func newLoadedView(t *testing.T, svc *mockHistoryService) *View {
	t.Helper()
	v := NewView(svc, styles.DefaultStyles())
	v.SetDimensions(120, 40)

	cmd := v.Init()
	require.NotNil(t, cmd)
	v, _ = v.Update(cmd())
	return v
}

func TestView_LoadsEntries(t *testing.T) {
	v := newLoadedView(t, &mockHistoryService{entries: testEntries()})

	view := v.View()

	assert.Contains(t, view, "Recent Searches")
	assert.Contains(t, view, "context.Context")
	assert.Contains(t, view, "(42 matches)")
	assert.Contains(t, view, "[failed]")
}

func TestView_NilService(t *testing.T) {
	v := NewView(nil, styles.DefaultStyles())

	cmd := v.Init()
	require.NotNil(t, cmd)
	v, _ = v.Update(cmd())

	assert.Contains(t, v.View(), "No recent searches")
}

func TestView_LoadError(t *testing.T) {
	v := newLoadedView(t, &mockHistoryService{err: assert.AnError})

	assert.Contains(t, v.View(), "Failed to load history")
}

func TestView_Navigation(t *testing.T) {
	v := newLoadedView(t, &mockHistoryService{entries: testEntries()})

	require.NotNil(t, v.SelectedEntry())
	assert.Equal(t, "context.Context", v.SelectedEntry().Query)

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "fmt.Errorf wrapping", v.SelectedEntry().Query)

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "context.Context", v.SelectedEntry().Query)
}

func TestView_FuzzyFilter(t *testing.T) {
	v := newLoadedView(t, &mockHistoryService{entries: testEntries()})

	for _, r := range "errf" {
		v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	require.Len(t, v.filtered, 1)
	assert.Equal(t, "fmt.Errorf wrapping", v.SelectedEntry().Query)
}

func TestView_FilterBackspace(t *testing.T) {
	v := newLoadedView(t, &mockHistoryService{entries: testEntries()})

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'z'}})
	require.Empty(t, v.filtered)

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyBackspace})

	assert.Len(t, v.filtered, 3)
}

func TestView_EnterRerunsSelected(t *testing.T) {
	v := newLoadedView(t, &mockHistoryService{entries: testEntries()})

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyDown})
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	msg := cmd()
	submitted, ok := msg.(messages.QuerySubmitted)
	require.True(t, ok)
	assert.Equal(t, "fmt.Errorf wrapping", submitted.Query)
}

func TestView_EnterOnEmptyList(t *testing.T) {
	v := newLoadedView(t, &mockHistoryService{})

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Nil(t, v.SelectedEntry())
}

func TestView_Reset(t *testing.T) {
	v := newLoadedView(t, &mockHistoryService{entries: testEntries()})

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyDown})

	v.Reset()

	assert.Equal(t, "", v.filter)
	assert.Equal(t, 0, v.selected)
	assert.Len(t, v.filtered, 3)
}
