package domain

import "strings"

// ProtocolVersion is the streaming search protocol version sent as `v`.
const ProtocolVersion = "V3"

// DefaultDisplayLimit is the default cap on results the server streams.
const DefaultDisplayLimit = 1500

// PatternType selects how the query pattern is interpreted.
type PatternType string

// Pattern types accepted by the search server.
const (
	PatternTypeStandard   PatternType = "standard"
	PatternTypeLiteral    PatternType = "literal"
	PatternTypeRegexp     PatternType = "regexp"
	PatternTypeStructural PatternType = "structural"
	PatternTypeKeyword    PatternType = "keyword"
)

// IsValid returns true if the pattern type is recognised.
func (p PatternType) IsValid() bool {
	switch p {
	case PatternTypeStandard, PatternTypeLiteral, PatternTypeRegexp,
		PatternTypeStructural, PatternTypeKeyword:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p PatternType) String() string {
	return string(p)
}

// SearchMode selects the server-side query understanding mode.
type SearchMode string

// Search modes.
const (
	// SearchModePrecise interprets the query exactly as written.
	SearchModePrecise SearchMode = "precise"

	// SearchModeSmart lets the server try query variations.
	SearchModeSmart SearchMode = "smart"
)

// String returns the string representation.
func (m SearchMode) String() string {
	return string(m)
}

// StreamRequest describes one streaming search to open. The zero value is
// not usable; Query must be set. Normalize fills protocol defaults.
type StreamRequest struct {
	// Query is the search query text.
	Query string

	// CaseSensitive appends the literal case filter token to the query.
	CaseSensitive bool

	// Version is the protocol version; defaults to ProtocolVersion.
	Version string

	// PatternType is sent as `t` when set.
	PatternType PatternType

	// Mode is sent as `sm` when set.
	Mode SearchMode

	// DisplayLimit caps streamed results; defaults to DefaultDisplayLimit.
	DisplayLimit int

	// ChunkMatches requests the chunk-match result shape (`cm`).
	ChunkMatches bool

	// Trace requests a server-side trace.
	Trace string

	// MaxLineLen truncates returned lines server-side when positive.
	MaxLineLen int

	// FeatureOverrides are repeated `feat` tokens.
	FeatureOverrides []string

	// ZoektSearchOpts passes backend-specific search options through.
	ZoektSearchOpts string
}

// Normalize returns a copy with protocol defaults applied.
func (r StreamRequest) Normalize() StreamRequest {
	if r.Version == "" {
		r.Version = ProtocolVersion
	}
	if r.DisplayLimit <= 0 {
		r.DisplayLimit = DefaultDisplayLimit
	}
	return r
}

// EffectiveQuery returns the query text with the case-sensitivity filter
// token appended when requested.
func (r StreamRequest) EffectiveQuery() string {
	q := r.Query
	if r.CaseSensitive && !strings.Contains(q, "case:") {
		q += " case:yes"
	}
	return q
}

// Validate checks the request is well formed.
func (r StreamRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return ErrInvalidInput
	}
	if r.PatternType != "" && !r.PatternType.IsValid() {
		return ErrInvalidInput
	}
	return nil
}
