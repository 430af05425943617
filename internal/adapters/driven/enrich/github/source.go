package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/sercha-stream/internal/core/domain"
	"github.com/custodia-labs/sercha-stream/internal/core/ports/driven"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// repoNameHost is the repository name prefix this source can resolve.
const repoNameHost = "github.com/"

// Ensure MetadataSource implements the interface.
var _ driven.RepoMetadataSource = (*MetadataSource)(nil)

// MetadataSource looks up repository metadata via the GitHub API.
type MetadataSource struct {
	gh          *gh.Client
	rateLimiter *RateLimiter
}

// NewMetadataSource creates a metadata source. An empty token produces an
// unauthenticated client, which GitHub rate-limits far more aggressively.
func NewMetadataSource(token string) *MetadataSource {
	httpClient := &http.Client{Timeout: DefaultTimeout}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
		httpClient.Timeout = DefaultTimeout
	}

	return &MetadataSource{
		gh:          gh.NewClient(httpClient),
		rateLimiter: NewRateLimiter(token != ""),
	}
}

// Lookup fetches metadata for names of the form "github.com/owner/name".
// Any other host resolves to domain.ErrNotFound.
func (s *MetadataSource) Lookup(ctx context.Context, repoName string) (driven.RepoMetadata, error) {
	owner, name, err := splitRepoName(repoName)
	if err != nil {
		return driven.RepoMetadata{}, err
	}

	if err := s.rateLimiter.Wait(ctx); err != nil {
		return driven.RepoMetadata{}, fmt.Errorf("rate limit wait: %w", err)
	}

	repo, resp, err := s.gh.Repositories.Get(ctx, owner, name)
	if resp != nil {
		s.rateLimiter.UpdateFromResponse(resp.Response)
	}
	if err != nil {
		var ghErr *gh.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound {
			return driven.RepoMetadata{}, domain.ErrNotFound
		}
		return driven.RepoMetadata{}, fmt.Errorf("fetching repository %s: %w", repoName, err)
	}

	return driven.RepoMetadata{
		Stars:       repo.GetStargazersCount(),
		Description: repo.GetDescription(),
		Fork:        repo.GetFork(),
		Archived:    repo.GetArchived(),
	}, nil
}

// splitRepoName parses "github.com/owner/name" into owner and name.
func splitRepoName(repoName string) (owner, name string, err error) {
	if !strings.HasPrefix(repoName, repoNameHost) {
		return "", "", domain.ErrNotFound
	}

	rest := strings.TrimPrefix(repoName, repoNameHost)
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", domain.ErrNotFound
	}
	return parts[0], parts[1], nil
}
