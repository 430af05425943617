package services

import (
	"context"
	"errors"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/sercha-stream/internal/core/domain"
	"github.com/custodia-labs/sercha-stream/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-stream/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-stream/internal/logger"
)

// enrichConcurrency bounds parallel code-host lookups.
const enrichConcurrency = 4

// Ensure EnrichService implements the interface.
var _ driving.EnrichService = (*EnrichService)(nil)

// EnrichService fills in repository metadata from a code host.
// The metadata source is optional; without one, EnrichRepos is a no-op.
type EnrichService struct {
	metadata driven.RepoMetadataSource
}

// NewEnrichService creates a new enrichment service.
// metadata may be nil.
func NewEnrichService(metadata driven.RepoMetadataSource) *EnrichService {
	return &EnrichService{metadata: metadata}
}

// EnrichRepos looks up metadata for repository matches that streamed
// without stars or descriptions. Each match is owned by exactly one
// lookup, so concurrent mutation is safe.
func (e *EnrichService) EnrichRepos(ctx context.Context, results []domain.SearchMatch) int {
	if e.metadata == nil {
		return 0
	}

	var enriched atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)

	for _, m := range results {
		repo, ok := m.(*domain.RepoMatch)
		if !ok || (repo.RepoStars > 0 && repo.Description != "") {
			continue
		}
		if ctx.Err() != nil {
			break
		}

		g.Go(func() error {
			meta, err := e.metadata.Lookup(ctx, repo.Repository)
			if err != nil {
				// Best-effort: a failed lookup leaves the match as streamed.
				if !errors.Is(err, domain.ErrNotFound) {
					logger.Debug("Repo metadata lookup for %s: %v", repo.Repository, err)
				}
				return nil
			}

			if repo.RepoStars == 0 {
				repo.RepoStars = meta.Stars
			}
			if repo.Description == "" {
				repo.Description = meta.Description
			}
			repo.Fork = repo.Fork || meta.Fork
			repo.Archived = repo.Archived || meta.Archived
			enriched.Add(1)
			return nil
		})
	}
	g.Wait() //nolint:errcheck

	n := int(enriched.Load())
	if n > 0 {
		logger.Debug("Enriched %d repository matches", n)
	}
	return n
}
