package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-stream/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-stream/internal/core/domain"
)

func TestNewBar(t *testing.T) {
	b := NewBar(styles.DefaultStyles())

	require.NotNil(t, b)
	assert.Equal(t, StateReady, b.State())
}

func TestNewBar_NilStyles(t *testing.T) {
	b := NewBar(nil)

	require.NotNil(t, b)
	assert.NotPanics(t, func() { _ = b.View() })
}

func TestBar_View_Ready(t *testing.T) {
	b := NewBar(styles.DefaultStyles())
	b.SetWidth(120)

	view := b.View()

	assert.Contains(t, view, "Ready")
	assert.Contains(t, view, "enter search")
}

func TestBar_View_Streaming(t *testing.T) {
	b := NewBar(styles.DefaultStyles())
	b.SetWidth(120)
	b.SetState(StateStreaming)
	repos := 12
	b.SetProgress(domain.Progress{MatchCount: 42, RepositoriesCount: &repos})

	view := b.View()

	assert.Contains(t, view, "Searching... 42 matches")
	assert.Contains(t, view, "in 12 repos")
	assert.Contains(t, view, "esc cancel")
}

func TestBar_View_Results(t *testing.T) {
	b := NewBar(styles.DefaultStyles())
	b.SetWidth(120)
	b.SetState(StateResults)
	b.SetProgress(domain.Progress{MatchCount: 7, DurationMs: 153})
	b.SetSkipped(2)

	view := b.View()

	assert.Contains(t, view, "7 matches in 153ms")
	assert.Contains(t, view, "(2 skipped)")
	assert.Contains(t, view, "n new search")
}

func TestBar_View_Error(t *testing.T) {
	b := NewBar(styles.DefaultStyles())
	b.SetWidth(120)
	b.SetError("stream disconnected")

	assert.Equal(t, StateError, b.State())
	assert.Contains(t, b.View(), "stream disconnected")
}

func TestBar_View_NarrowWidth(t *testing.T) {
	b := NewBar(styles.DefaultStyles())
	b.SetWidth(10)

	assert.NotPanics(t, func() { _ = b.View() })
}
