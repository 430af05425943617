// Package github provides a RepoMetadataSource backed by the GitHub API.
// It resolves "github.com/owner/name" repository names to stars,
// descriptions, and fork/archive flags for enriching streamed repository
// results.
package github
