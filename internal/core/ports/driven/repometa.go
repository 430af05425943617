package driven

import "context"

// RepoMetadata is code-host metadata for one repository.
type RepoMetadata struct {
	// Stars is the star/favourite count.
	Stars int

	// Description is the repository description.
	Description string

	// Fork is true for forked repositories.
	Fork bool

	// Archived is true for archived repositories.
	Archived bool
}

// RepoMetadataSource looks up repository metadata from a code host.
// Used to enrich streamed repository results that arrive without stars
// or descriptions. Implementations should be treated as slow and
// rate-limited; lookups are best-effort.
type RepoMetadataSource interface {
	// Lookup fetches metadata for a repository name such as
	// "github.com/owner/name". Returns domain.ErrNotFound when the host
	// does not know the repository or the name is not resolvable on it.
	Lookup(ctx context.Context, repoName string) (RepoMetadata, error)
}
