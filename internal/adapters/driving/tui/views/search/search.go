// Package search implements the live search view: a query input and a
// result list that updates while the stream is open.
package search

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sercha-stream/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/sercha-stream/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/sercha-stream/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/sercha-stream/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sercha-stream/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-stream/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-stream/internal/core/domain"
	"github.com/custodia-labs/sercha-stream/internal/core/ports/driving"
)

// streamOpened is the internal message carrying a freshly opened
// subscription into Update.
type streamOpened struct {
	sub    driving.SearchSubscription
	cancel context.CancelFunc
	req    domain.StreamRequest
	query  string
}

// View is the live search view.
type View struct {
	searchSvc  driving.StreamSearchService
	historySvc driving.HistoryService

	input   *input.SearchInput
	results *list.ResultList
	status  *status.Bar
	styles  *styles.Styles
	keys    *keymap.KeyMap

	settings domain.Settings

	// sub is the active subscription; nil when no search is running.
	sub    driving.SearchSubscription
	cancel context.CancelFunc
	req    domain.StreamRequest

	browsing bool
	width    int
	height   int
}

// NewView creates the search view.
func NewView(searchSvc driving.StreamSearchService, historySvc driving.HistoryService, settings domain.Settings, s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	v := &View{
		searchSvc:  searchSvc,
		historySvc: historySvc,
		input:      input.NewSearchInput(s),
		results:    list.NewResultList(s),
		status:     status.NewBar(s),
		styles:     s,
		keys:       keymap.DefaultKeyMap(),
		settings:   settings,
		width:      80,
		height:     24,
	}
	v.results.SetDisplayLimits(settings.MaxMatchesPerFile, settings.ContextLines)
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKey(msg)

	case messages.QuerySubmitted:
		return v, v.startSearch(msg.Query)

	case streamOpened:
		v.closeSubscription()
		v.sub = msg.sub
		v.cancel = msg.cancel
		v.req = msg.req
		v.input.SetValue(msg.query)
		v.input.Blur()
		v.browsing = true
		v.results.Reset()
		v.status.SetState(status.StateStreaming)
		v.status.SetProgress(domain.Progress{})
		return v, waitForSnapshot(msg.sub)

	case messages.SnapshotArrived:
		v.applySnapshot(msg.Snapshot, false)
		if v.sub != nil {
			return v, waitForSnapshot(v.sub)
		}
		return v, nil

	case messages.StreamFinished:
		v.applySnapshot(msg.Final, true)
		cmd := v.recordSearch(msg.Final)
		v.closeSubscription()
		return v, cmd

	case messages.SettingsChanged:
		v.settings = msg.Settings
		v.results.SetDisplayLimits(msg.Settings.MaxMatchesPerFile, msg.Settings.ContextLines)
		return v, nil

	case messages.ErrorOccurred:
		v.status.SetError(msg.Err.Error())
		v.closeSubscription()
		return v, nil
	}

	if v.input.Focused() {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

// handleKey routes key presses between the input and the result list.
func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	if v.input.Focused() {
		switch keyStr {
		case "enter":
			query := v.input.Value()
			if query == "" {
				return v, nil
			}
			return v, v.startSearch(query)
		case "esc":
			if v.results.Count() > 0 {
				// Back to browsing the previous results.
				v.input.Blur()
				v.browsing = true
			}
			return v, nil
		default:
			var cmd tea.Cmd
			v.input, cmd = v.input.Update(msg)
			return v, cmd
		}
	}

	switch {
	case keymap.Matches(keyStr, v.keys.Up):
		v.results.MoveUp()
	case keymap.Matches(keyStr, v.keys.Down):
		v.results.MoveDown()
	case keymap.Matches(keyStr, v.keys.ShowMore):
		v.results.ToggleExpand()
	case keymap.Matches(keyStr, v.keys.NewSearch):
		v.browsing = false
		v.input.Reset()
		return v, v.input.Focus()
	case keymap.Matches(keyStr, v.keys.Back):
		if v.sub != nil {
			// Cancel the in-flight search and keep what arrived.
			v.closeSubscription()
			v.status.SetState(status.StateResults)
			return v, nil
		}
		v.browsing = false
		return v, v.input.Focus()
	}
	return v, nil
}

// startSearch opens a streaming search for query.
func (v *View) startSearch(query string) tea.Cmd {
	req := v.settings.Request(query)
	ctx, cancel := context.WithCancel(context.Background())

	svc := v.searchSvc
	open := func() tea.Msg {
		sub, err := svc.Search(ctx, req)
		if err != nil {
			cancel()
			return messages.ErrorOccurred{Err: err}
		}
		return streamOpened{sub: sub, cancel: cancel, req: req, query: query}
	}
	return tea.Batch(open, func() tea.Msg { return messages.SearchStarted{Query: query} })
}

// waitForSnapshot blocks on the subscription channel and re-arms itself
// from Update until the channel closes.
func waitForSnapshot(sub driving.SearchSubscription) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-sub.Snapshots()
		if !ok {
			return messages.StreamFinished{Final: sub.Current()}
		}
		return messages.SnapshotArrived{Snapshot: snap}
	}
}

// applySnapshot renders one folded snapshot into the components.
func (v *View) applySnapshot(snap domain.AggregateResults, final bool) {
	v.results.SetResults(snap.Results)
	v.status.SetProgress(snap.Progress)
	v.status.SetSkipped(len(snap.Progress.Skipped))

	switch {
	case snap.Error != nil:
		v.status.SetError(snap.Error.Message)
	case final:
		v.status.SetState(status.StateResults)
	default:
		v.status.SetState(status.StateStreaming)
	}
}

// recordSearch stores the finished search in history, best effort.
func (v *View) recordSearch(final domain.AggregateResults) tea.Cmd {
	if v.historySvc == nil || v.req.Query == "" {
		return nil
	}
	req := v.req
	svc := v.historySvc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		// Recording failures never interrupt the session.
		_, _ = svc.Record(ctx, req, final)
		return nil
	}
}

// View renders the search view.
func (v *View) View() string {
	v.input.SetWidth(v.width)
	v.results.SetDimensions(v.width, v.height-6)
	v.status.SetWidth(v.width)

	sections := []string{
		v.input.View(),
		"",
		v.results.View(),
	}
	body := lipgloss.JoinVertical(lipgloss.Left, sections...)

	bodyHeight := v.height - 1
	content := lipgloss.NewStyle().Height(bodyHeight).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, content, v.status.View())
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Searching reports whether a stream is currently open.
func (v *View) Searching() bool {
	return v.sub != nil
}

// Browsing reports whether the result list has focus.
func (v *View) Browsing() bool {
	return v.browsing
}

// Close tears down any open subscription.
func (v *View) Close() {
	v.closeSubscription()
}

func (v *View) closeSubscription() {
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	if v.sub != nil {
		_ = v.sub.Close()
		v.sub = nil
	}
}
