// Package status provides the status bar component for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sercha-stream/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-stream/internal/core/domain"
)

// State represents the current application state shown in the bar.
type State int

// Status bar states.
const (
	StateReady State = iota
	StateStreaming
	StateResults
	StateError
)

// Bar is the status bar component shown at the bottom of the screen.
type Bar struct {
	state    State
	styles   *styles.Styles
	width    int
	message  string
	progress domain.Progress
	skipped  int
}

// NewBar creates a new status bar.
func NewBar(s *styles.Styles) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &Bar{
		state:  StateReady,
		styles: s,
		width:  80,
	}
}

// View renders the status bar.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderRight()

	gap := b.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return b.styles.StatusBar.Render(left + strings.Repeat(" ", gap) + right)
}

// renderLeft renders the state and progress portion.
func (b *Bar) renderLeft() string {
	switch b.state {
	case StateStreaming:
		text := fmt.Sprintf("Searching... %d matches", b.progress.MatchCount)
		if b.progress.RepositoriesCount != nil {
			text += fmt.Sprintf(" in %d repos", *b.progress.RepositoriesCount)
		}
		return text
	case StateResults:
		text := fmt.Sprintf("%d matches in %dms", b.progress.MatchCount, b.progress.DurationMs)
		if b.skipped > 0 {
			text += fmt.Sprintf(" (%d skipped)", b.skipped)
		}
		return text
	case StateError:
		return b.styles.Error.Render("Error: " + b.message)
	case StateReady:
		return "Ready"
	default:
		return ""
	}
}

// renderRight renders the context-sensitive key hints.
func (b *Bar) renderRight() string {
	switch b.state {
	case StateStreaming:
		return "esc cancel • ctrl+c quit"
	case StateResults:
		return "n new search • m expand • ctrl+r history • ? help"
	default:
		return "enter search • ctrl+r history • ? help • ctrl+c quit"
	}
}

// SetState sets the bar state.
func (b *Bar) SetState(state State) {
	b.state = state
}

// State returns the current state.
func (b *Bar) State() State {
	return b.state
}

// SetProgress updates the streamed progress shown in the bar.
func (b *Bar) SetProgress(p domain.Progress) {
	b.progress = p
}

// SetSkipped sets the count of server-side skipped reasons.
func (b *Bar) SetSkipped(n int) {
	b.skipped = n
}

// SetError puts the bar into the error state with a message.
func (b *Bar) SetError(message string) {
	b.state = StateError
	b.message = message
}

// SetWidth sets the bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}
