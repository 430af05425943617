// Package domain defines the core business entities for Sercha Stream.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SearchMatch: A streamed search result (content, path, symbol, ...)
//   - SearchEvent: One event from the streaming search protocol
//   - AggregateResults: The folded snapshot of an in-flight search
//   - MatchItem / MatchGroup: Display grouping of line-level matches
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
