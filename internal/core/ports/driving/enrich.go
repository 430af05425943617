package driving

import (
	"context"

	"github.com/custodia-labs/sercha-stream/internal/core/domain"
)

// EnrichService fills in code-host metadata missing from streamed results.
type EnrichService interface {
	// EnrichRepos looks up metadata for repository matches that streamed
	// without stars or descriptions, mutating the matches in place.
	// Lookups are best-effort: failures are logged and skipped. Returns
	// the number of matches enriched.
	EnrichRepos(ctx context.Context, results []domain.SearchMatch) int
}
