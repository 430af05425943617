package domain

// SearchState is the lifecycle state of an aggregated search.
type SearchState string

// Search states.
const (
	// SearchStateLoading means the stream is open and events are expected.
	SearchStateLoading SearchState = "loading"

	// SearchStateError means the stream or the search itself failed.
	// Accumulated results remain renderable.
	SearchStateError SearchState = "error"

	// SearchStateComplete means the stream finished successfully.
	SearchStateComplete SearchState = "complete"
)

// String returns the string representation.
func (s SearchState) String() string {
	return string(s)
}

// AggregateResults is the folded snapshot of a streaming search. It is
// replaced wholesale on every fold step so consumers can detect change by
// identity; nested slices must be treated as immutable between folds.
type AggregateResults struct {
	State    SearchState
	Results  []SearchMatch
	Filters  []Filter
	Alert    *Alert
	Progress Progress
	Error    *ErrorLike
}

// EmptyAggregateResults is the documented default snapshot: what a consumer
// observes before any event arrives, including when the stream closes
// without delivering anything.
func EmptyAggregateResults() AggregateResults {
	return AggregateResults{
		State:    SearchStateLoading,
		Results:  []SearchMatch{},
		Filters:  []Filter{},
		Progress: Progress{Skipped: []Skipped{}},
	}
}

// Fold applies one event to the snapshot and returns the next snapshot.
// It is a pure reducer: the same ordered event sequence always produces
// the same result, and the receiver is never modified in place.
//
// Per-event semantics:
//
//   - matches: append the batch to Results. Matches are additive and never
//     deduplicated here; the server may refine a match incrementally.
//   - progress: replace Progress wholesale.
//   - filters: replace Filters wholesale (a full recomputation, not a delta).
//   - alert: replace Alert; the last alert wins.
//   - error: capture the error, prepend a synthesised Skipped entry so the
//     most recent failure is most visible, and move to the error state.
//     Accumulated Results are kept.
//   - done: move to the complete state; everything else stays as last folded.
func (a AggregateResults) Fold(ev SearchEvent) AggregateResults {
	next := a
	switch ev.Type {
	case EventTypeMatches:
		results := make([]SearchMatch, 0, len(a.Results)+len(ev.Matches))
		results = append(results, a.Results...)
		results = append(results, ev.Matches...)
		next.Results = results

	case EventTypeProgress:
		next.Progress = *ev.Progress

	case EventTypeFilters:
		next.Filters = ev.Filters

	case EventTypeAlert:
		next.Alert = ev.Alert

	case EventTypeError:
		next.Error = ev.Error
		next.State = SearchStateError
		skipped := make([]Skipped, 0, len(a.Progress.Skipped)+1)
		skipped = append(skipped, Skipped{
			Reason:   SkipReasonError,
			Title:    "Error loading results",
			Message:  ev.Error.Message,
			Severity: SeverityError,
		})
		skipped = append(skipped, a.Progress.Skipped...)
		next.Progress.Skipped = skipped

	case EventTypeDone:
		next.State = SearchStateComplete
	}
	return next
}

// FoldAll folds an ordered event sequence over the empty snapshot.
func FoldAll(events []SearchEvent) AggregateResults {
	agg := EmptyAggregateResults()
	for _, ev := range events {
		agg = agg.Fold(ev)
	}
	return agg
}
