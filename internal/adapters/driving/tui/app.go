package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/sercha-stream/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sercha-stream/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-stream/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-stream/internal/adapters/driving/tui/views/history"
	"github.com/custodia-labs/sercha-stream/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/sercha-stream/internal/core/domain"
)

// App is the root Bubbletea model. It routes messages to the active view
// and owns cross-cutting concerns: global keys, window size, and live
// settings updates.
type App struct {
	ports  Ports
	styles *styles.Styles
	keys   *keymap.KeyMap

	currentView messages.ViewType
	searchView  *search.View
	historyView *history.View

	// settingsCh receives live settings updates from the subscription.
	settingsCh   chan domain.Settings
	stopSettings func()

	width  int
	height int
}

// NewApp creates the root model from the injected ports.
func NewApp(ports Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}

	s := styles.DefaultStyles()
	settings := ports.Settings.Get()

	app := &App{
		ports:       ports,
		styles:      s,
		keys:        keymap.DefaultKeyMap(),
		currentView: messages.ViewSearch,
		searchView:  search.NewView(ports.Search, ports.History, settings, s),
		historyView: history.NewView(ports.History, s),
		settingsCh:  make(chan domain.Settings, 8),
		width:       80,
		height:      24,
	}

	app.stopSettings = ports.Settings.Subscribe(func(updated domain.Settings) {
		// Drop updates rather than block the notifier.
		select {
		case app.settingsCh <- updated:
		default:
		}
	})

	return app, nil
}

// Init initialises the application.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("sercha-stream"),
		a.searchView.Init(),
		a.historyView.Init(),
		a.waitForSettings(),
	)
}

// waitForSettings blocks on the settings channel and re-arms from Update.
func (a *App) waitForSettings() tea.Cmd {
	ch := a.settingsCh
	return func() tea.Msg {
		updated, ok := <-ch
		if !ok {
			return nil
		}
		return messages.SettingsChanged{Settings: updated}
	}
}

// Update handles messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.searchView.SetDimensions(msg.Width, msg.Height)
		a.historyView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if model, cmd, handled := a.handleGlobalKey(msg); handled {
			return model, cmd
		}

	case messages.SettingsChanged:
		var cmd tea.Cmd
		a.searchView, cmd = a.searchView.Update(msg)
		return a, tea.Batch(cmd, a.waitForSettings())

	case messages.QuerySubmitted:
		// A re-run from history always lands on the search view.
		a.currentView = messages.ViewSearch
		var cmd tea.Cmd
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd

	case messages.HistoryLoaded:
		var cmd tea.Cmd
		a.historyView, cmd = a.historyView.Update(msg)
		return a, cmd

	case messages.Quit:
		return a, a.shutdown()
	}

	return a.routeToView(msg)
}

// handleGlobalKey handles keys that apply regardless of the active view.
func (a *App) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	keyStr := msg.String()

	if keymap.Matches(keyStr, a.keys.Quit) {
		return a, a.shutdown(), true
	}

	// Printable keys go to the search input while it is typing.
	typing := a.currentView == messages.ViewSearch && !a.searchView.Browsing()

	if keymap.Matches(keyStr, a.keys.History) {
		a.currentView = messages.ViewHistory
		a.historyView.Reset()
		return a, a.historyView.Init(), true
	}

	if keymap.Matches(keyStr, a.keys.Help) && !typing {
		a.currentView = messages.ViewHelp
		return a, nil, true
	}

	if keymap.Matches(keyStr, a.keys.Back) && a.currentView != messages.ViewSearch {
		a.currentView = messages.ViewSearch
		return a, nil, true
	}

	return nil, nil, false
}

// routeToView forwards a message to the views. Key presses go to the
// active view only; stream and lifecycle messages reach every view so an
// open search keeps folding while another view is shown.
func (a *App) routeToView(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, isKey := msg.(tea.KeyMsg); isKey {
		var cmd tea.Cmd
		switch a.currentView {
		case messages.ViewSearch:
			a.searchView, cmd = a.searchView.Update(msg)
		case messages.ViewHistory:
			a.historyView, cmd = a.historyView.Update(msg)
		case messages.ViewHelp:
			// Help is static.
		}
		return a, cmd
	}

	var searchCmd, historyCmd tea.Cmd
	a.searchView, searchCmd = a.searchView.Update(msg)
	a.historyView, historyCmd = a.historyView.Update(msg)
	return a, tea.Batch(searchCmd, historyCmd)
}

// shutdown tears down subscriptions and quits.
func (a *App) shutdown() tea.Cmd {
	if a.stopSettings != nil {
		a.stopSettings()
		a.stopSettings = nil
	}
	a.searchView.Close()
	return tea.Quit
}

// View renders the active view.
func (a *App) View() string {
	switch a.currentView {
	case messages.ViewHistory:
		return a.historyView.View()
	case messages.ViewHelp:
		return a.helpView()
	default:
		return a.searchView.View()
	}
}

// helpView renders the keybinding reference.
func (a *App) helpView() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")

	for _, row := range a.keys.FullHelp() {
		for _, binding := range row {
			b.WriteString("  " + a.renderBinding(binding) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(a.styles.Muted.Render("esc to go back"))
	return b.String()
}

func (a *App) renderBinding(binding key.Binding) string {
	h := binding.Help()
	return a.styles.Subtitle.Render(h.Key) + "  " + a.styles.Normal.Render(h.Desc)
}

// CurrentView returns the active view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}
