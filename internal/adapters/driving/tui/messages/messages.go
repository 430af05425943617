// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/sercha-stream/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewSearch is the live search input and results view.
	ViewSearch ViewType = iota
	// ViewHistory is the recent searches view.
	ViewHistory
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewSearch:
		return "search"
	case ViewHistory:
		return "history"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// SearchStarted signals a streaming search was opened.
type SearchStarted struct {
	Query string
}

// SnapshotArrived carries one folded snapshot from the live stream.
// Delivered repeatedly while a search is running.
type SnapshotArrived struct {
	Snapshot domain.AggregateResults
}

// StreamFinished signals the snapshot channel closed: the stream reached
// a terminal state or was torn down. Final carries the last snapshot.
type StreamFinished struct {
	Final domain.AggregateResults
}

// QuerySubmitted asks the app to run a search, for example when a history
// entry is re-run.
type QuerySubmitted struct {
	Query string
}

// HistoryLoaded carries the recent searches list.
type HistoryLoaded struct {
	Entries []domain.HistoryEntry
	Err     error
}

// SettingsChanged carries live settings updates, including edits made to
// the config file while the TUI is running.
type SettingsChanged struct {
	Settings domain.Settings
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
