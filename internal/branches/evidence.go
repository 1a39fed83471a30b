package branches

import (
	"context"

	"github.com/temirov/branchsweep/internal/gitrepo"
)

// RemoteURLReader reads the URL configured for a remote.
type RemoteURLReader interface {
	GetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, error)
}

// PullRequestEvidenceResolver derives owner/name from the remote URL and asks
// a MergeEvidenceQuery for a merged pull request with the branch as its head.
type PullRequestEvidenceResolver struct {
	remotes    RemoteURLReader
	remoteName string
	query      MergeEvidenceQuery
}

// NewPullRequestEvidenceResolver constructs a resolver. A nil query behaves as unavailable.
func NewPullRequestEvidenceResolver(remotes RemoteURLReader, remoteName string, query MergeEvidenceQuery) *PullRequestEvidenceResolver {
	if query == nil {
		query = UnavailableEvidenceQuery{}
	}
	return &PullRequestEvidenceResolver{remotes: remotes, remoteName: remoteName, query: query}
}

// Resolve implements EvidenceResolver. Unparseable remote URLs and failed
// queries are returned as errors; a missing match is not an error.
func (resolver *PullRequestEvidenceResolver) Resolve(executionContext context.Context, branch string, repositoryPath string, identity string) (*MergeEvidence, error) {
	if !resolver.query.Available() {
		return nil, nil
	}

	remoteURL, remoteError := resolver.remotes.GetRemoteURL(executionContext, repositoryPath, resolver.remoteName)
	if remoteError != nil {
		return nil, remoteError
	}

	parsedRemote, parseError := gitrepo.ParseRemoteURL(remoteURL)
	if parseError != nil {
		return nil, parseError
	}

	return resolver.query.FindMergedPullRequest(executionContext, parsedRemote.Identifier(), branch, identity)
}
