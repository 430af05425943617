package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// EventType identifies the variant of a SearchEvent.
type EventType string

// Event types delivered by the streaming search protocol.
// Done and Error are terminal; everything else may repeat in any order.
const (
	// EventTypeMatches carries a batch of new or refined matches.
	EventTypeMatches EventType = "matches"

	// EventTypeProgress carries a full replacement of search progress.
	EventTypeProgress EventType = "progress"

	// EventTypeFilters carries a full recomputation of dynamic filters.
	EventTypeFilters EventType = "filters"

	// EventTypeAlert carries a user-facing alert about the query.
	EventTypeAlert EventType = "alert"

	// EventTypeError carries a structured server-side search error.
	EventTypeError EventType = "error"

	// EventTypeDone signals successful completion of the stream.
	EventTypeDone EventType = "done"
)

// IsValid returns true if the event type is recognised.
func (t EventType) IsValid() bool {
	switch t {
	case EventTypeMatches, EventTypeProgress, EventTypeFilters,
		EventTypeAlert, EventTypeError, EventTypeDone:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if no further events follow this one.
func (t EventType) IsTerminal() bool {
	return t == EventTypeDone || t == EventTypeError
}

// String returns the string representation.
func (t EventType) String() string {
	return string(t)
}

// SearchEvent is one event from the search stream. Type determines which
// payload field is populated; the others are zero.
type SearchEvent struct {
	Type EventType

	// Matches is set for EventTypeMatches.
	Matches []SearchMatch

	// Progress is set for EventTypeProgress.
	Progress *Progress

	// Filters is set for EventTypeFilters.
	Filters []Filter

	// Alert is set for EventTypeAlert.
	Alert *Alert

	// Error is set for EventTypeError.
	Error *ErrorLike
}

// ErrorLike is a structured, renderable error from the server.
type ErrorLike struct {
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *ErrorLike) Error() string {
	if e.Name != "" {
		return e.Name + ": " + e.Message
	}
	return e.Message
}

// Filter is one dynamic filter proposal computed over the result stream.
// A filters event carries the complete recomputed set, not a delta.
type Filter struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Count    int    `json:"count"`
	LimitHit bool   `json:"limitHit"`
	Kind     string `json:"kind"`
}

// ProposedQuery is an alternative query suggested by an alert.
type ProposedQuery struct {
	Description string `json:"description,omitempty"`
	Query       string `json:"query"`
}

// Alert is a user-facing notice about the query, such as a syntax
// suggestion or a partial-results warning.
type Alert struct {
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	ProposedQueries []ProposedQuery `json:"proposedQueries,omitempty"`
}

// ParseEvent decodes a named event payload into a SearchEvent. The event
// name comes from the stream framing; data is the raw JSON payload. A
// decode failure returns a ParseError and is terminal for the stream.
func ParseEvent(name string, data []byte) (SearchEvent, error) {
	typ := EventType(name)
	switch typ {
	case EventTypeMatches:
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return SearchEvent{}, &ParseError{Payload: name, Err: err}
		}
		matches := make([]SearchMatch, 0, len(raw))
		for _, r := range raw {
			m, err := UnmarshalMatch(r)
			if err != nil {
				return SearchEvent{}, err
			}
			matches = append(matches, m)
		}
		return SearchEvent{Type: typ, Matches: matches}, nil

	case EventTypeProgress:
		var p Progress
		if err := json.Unmarshal(data, &p); err != nil {
			return SearchEvent{}, &ParseError{Payload: name, Err: err}
		}
		return SearchEvent{Type: typ, Progress: &p}, nil

	case EventTypeFilters:
		var f []Filter
		if err := json.Unmarshal(data, &f); err != nil {
			return SearchEvent{}, &ParseError{Payload: name, Err: err}
		}
		return SearchEvent{Type: typ, Filters: f}, nil

	case EventTypeAlert:
		var a Alert
		if err := json.Unmarshal(data, &a); err != nil {
			return SearchEvent{}, &ParseError{Payload: name, Err: err}
		}
		return SearchEvent{Type: typ, Alert: &a}, nil

	case EventTypeError:
		var e ErrorLike
		if err := json.Unmarshal(data, &e); err != nil {
			return SearchEvent{}, &ParseError{Payload: name, Err: err}
		}
		return SearchEvent{Type: typ, Error: &e}, nil

	case EventTypeDone:
		return SearchEvent{Type: typ}, nil

	default:
		return SearchEvent{}, &ParseError{
			Payload: name,
			Err:     fmt.Errorf("%w: event type %q", ErrUnsupportedType, name),
		}
	}
}

// StreamErrorEvent wraps a transport or parse failure as a terminal error
// event so the fold pipeline has a single event vocabulary. A failure
// without a renderable message becomes the fixed disconnect advisory.
func StreamErrorEvent(err error) SearchEvent {
	msg := StreamDisconnectedMessage
	var el *ErrorLike
	if errors.As(err, &el) {
		return SearchEvent{Type: EventTypeError, Error: el}
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		msg = pe.Error()
	}
	return SearchEvent{Type: EventTypeError, Error: &ErrorLike{Message: msg}}
}
