package domain

// Severity classifies how serious a skipped reason is.
type Severity string

// Skipped severities.
const (
	// SeverityInfo is informational, such as a display limit being reached.
	SeverityInfo Severity = "info"

	// SeverityWarn indicates results may be incomplete.
	SeverityWarn Severity = "warn"

	// SeverityError indicates part of the search failed outright.
	SeverityError Severity = "error"
)

// SkipReason identifies why some portion of the search was omitted.
type SkipReason string

// Skip reasons reported by the server or synthesised by the client.
const (
	// SkipReasonDocumentMatchLimit means the per-document match limit was hit.
	SkipReasonDocumentMatchLimit SkipReason = "document-match-limit"

	// SkipReasonShardMatchLimit means a shard stopped early after enough matches.
	SkipReasonShardMatchLimit SkipReason = "shard-match-limit"

	// SkipReasonDisplayLimit means more results exist than were streamed.
	SkipReasonDisplayLimit SkipReason = "display"

	// SkipReasonShardTimeout means a shard did not respond in time.
	SkipReasonShardTimeout SkipReason = "shard-timedout"

	// SkipReasonRepoCloning means a repository is not cloned yet.
	SkipReasonRepoCloning SkipReason = "repository-cloning"

	// SkipReasonRepoMissing means a repository could not be found.
	SkipReasonRepoMissing SkipReason = "repository-missing"

	// SkipReasonExcludedFork means forked repositories were excluded.
	SkipReasonExcludedFork SkipReason = "excluded-fork"

	// SkipReasonExcludedArchive means archived repositories were excluded.
	SkipReasonExcludedArchive SkipReason = "excluded-archive"

	// SkipReasonError is synthesised by the client when the stream errors.
	SkipReasonError SkipReason = "error"
)

// Skipped describes one reason data was omitted from the results.
type Skipped struct {
	Reason   SkipReason `json:"reason"`
	Title    string     `json:"title"`
	Message  string     `json:"message"`
	Severity Severity   `json:"severity"`

	// Suggested proposes a query change that would lift the limit.
	Suggested *SkippedSuggestion `json:"suggested,omitempty"`
}

// SkippedSuggestion proposes a query modification to recover skipped data.
type SkippedSuggestion struct {
	Title           string `json:"title"`
	QueryExpression string `json:"queryExpression"`
}

// Progress is the server's running account of an in-flight search.
// A progress event replaces the previous Progress wholesale; fields are
// never merged across events.
type Progress struct {
	// MatchCount is the number of matches found so far.
	MatchCount int `json:"matchCount"`

	// DurationMs is the elapsed server-side search time.
	DurationMs int `json:"durationMs"`

	// RepositoriesCount is the number of repositories searched, when known.
	RepositoriesCount *int `json:"repositoriesCount,omitempty"`

	// Skipped lists why data was omitted, in the order reported.
	Skipped []Skipped `json:"skipped"`

	// Trace is a link to the server-side trace, when tracing was requested.
	Trace string `json:"trace,omitempty"`

	// Done is set on the final progress event of a stream.
	Done bool `json:"done,omitempty"`
}
