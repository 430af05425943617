// Package history implements the recent searches view with fuzzy
// filtering and re-run support.
package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/custodia-labs/sercha-stream/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sercha-stream/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-stream/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-stream/internal/core/domain"
	"github.com/custodia-labs/sercha-stream/internal/core/ports/driving"
)

// loadLimit caps how many recent searches the view fetches.
const loadLimit = 100

// entrySource adapts history entries to the fuzzy matcher.
type entrySource []domain.HistoryEntry

func (s entrySource) String(i int) string { return s[i].Query }
func (s entrySource) Len() int            { return len(s) }

// View is the recent searches view.
type View struct {
	historySvc driving.HistoryService

	styles *styles.Styles
	keys   *keymap.KeyMap

	entries  []domain.HistoryEntry
	filtered []domain.HistoryEntry
	filter   string
	selected int
	loadErr  error

	width  int
	height int
}

// NewView creates the history view.
func NewView(historySvc driving.HistoryService, s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		historySvc: historySvc,
		styles:     s,
		keys:       keymap.DefaultKeyMap(),
		width:      80,
		height:     24,
	}
}

// Init loads recent searches.
func (v *View) Init() tea.Cmd {
	return v.load()
}

// load fetches recent searches from the history service.
func (v *View) load() tea.Cmd {
	if v.historySvc == nil {
		return func() tea.Msg {
			return messages.HistoryLoaded{Entries: nil}
		}
	}
	svc := v.historySvc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		entries, err := svc.Recent(ctx, loadLimit)
		return messages.HistoryLoaded{Entries: entries, Err: err}
	}
}

// Update handles messages for the history view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.HistoryLoaded:
		v.entries = msg.Entries
		v.loadErr = msg.Err
		v.applyFilter()
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

// handleKey handles navigation and filter editing.
func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keys.Up):
		if v.selected > 0 {
			v.selected--
		}
		return v, nil
	case keymap.Matches(keyStr, v.keys.Down):
		if v.selected < len(v.filtered)-1 {
			v.selected++
		}
		return v, nil
	case keymap.Matches(keyStr, v.keys.Select):
		if entry := v.SelectedEntry(); entry != nil {
			query := entry.Query
			return v, func() tea.Msg {
				return messages.QuerySubmitted{Query: query}
			}
		}
		return v, nil
	}

	// Everything else edits the fuzzy filter.
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyBackspace:
		if v.filter != "" {
			v.filter = v.filter[:len(v.filter)-1]
			v.applyFilter()
		}
	case tea.KeyRunes:
		if keyStr == "k" || keyStr == "j" {
			// Reserved for navigation above.
			return v, nil
		}
		v.filter += string(msg.Runes)
		v.applyFilter()
	default:
	}
	return v, nil
}

// applyFilter recomputes the filtered list from the current filter text.
func (v *View) applyFilter() {
	if v.filter == "" {
		v.filtered = v.entries
	} else {
		matches := fuzzy.FindFrom(v.filter, entrySource(v.entries))
		v.filtered = make([]domain.HistoryEntry, 0, len(matches))
		for _, m := range matches {
			v.filtered = append(v.filtered, v.entries[m.Index])
		}
	}
	if v.selected >= len(v.filtered) {
		v.selected = 0
	}
}

// View renders the history view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Recent Searches"))
	b.WriteString("\n\n")

	if v.loadErr != nil {
		b.WriteString(v.styles.Error.Render("Failed to load history: " + v.loadErr.Error()))
		return b.String()
	}

	filterLine := "Filter: " + v.filter
	if v.filter == "" {
		filterLine = v.styles.Muted.Render("Type to filter, enter to re-run, esc to go back")
	}
	b.WriteString(filterLine)
	b.WriteString("\n\n")

	if len(v.filtered) == 0 {
		b.WriteString(v.styles.Muted.Render("No recent searches"))
		return b.String()
	}

	visibleCount := v.height - 8
	if visibleCount < 1 {
		visibleCount = 1
	}
	start := 0
	if v.selected >= visibleCount {
		start = v.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(v.filtered) {
		end = len(v.filtered)
	}

	for i := start; i < end; i++ {
		b.WriteString(v.renderEntry(i, v.filtered[i]))
		b.WriteString("\n")
	}

	return b.String()
}

// renderEntry formats one history line.
func (v *View) renderEntry(index int, entry domain.HistoryEntry) string {
	when := entry.CreatedAt.Local().Format("2006-01-02 15:04")
	line := fmt.Sprintf("%s  %s  (%d matches)", when, entry.Query, entry.MatchCount)
	if entry.State == domain.SearchStateError {
		line += "  [failed]"
	}

	if index == v.selected {
		return v.styles.Selected.Render("> " + line)
	}
	return "  " + v.styles.Normal.Render(line)
}

// SelectedEntry returns the selected entry, or nil when the list is empty.
func (v *View) SelectedEntry() *domain.HistoryEntry {
	if len(v.filtered) == 0 || v.selected < 0 || v.selected >= len(v.filtered) {
		return nil
	}
	entry := v.filtered[v.selected]
	return &entry
}

// Reset clears the filter and selection, typically on view entry.
func (v *View) Reset() {
	v.filter = ""
	v.selected = 0
	v.applyFilter()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}
