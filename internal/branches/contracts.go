package branches

import "context"

// RemoteExistenceOracle reports whether a branch exists on the remote.
// Failures are reported as false.
type RemoteExistenceOracle interface {
	Exists(executionContext context.Context, branch string, repositoryPath string) bool
}

// EvidenceResolver finds merge evidence for a branch authored by identity.
// A nil result with a nil error means no evidence.
type EvidenceResolver interface {
	Resolve(executionContext context.Context, branch string, repositoryPath string, identity string) (*MergeEvidence, error)
}

// MergeEvidenceQuery searches a code-review system for a merged pull request.
// Unavailable queries answer every lookup with no evidence.
type MergeEvidenceQuery interface {
	Available() bool
	FindMergedPullRequest(executionContext context.Context, repositoryIdentifier string, branch string, author string) (*MergeEvidence, error)
}

// LoginResolver returns the login of the authenticated code-review user.
type LoginResolver interface {
	ResolveAuthenticatedLogin(executionContext context.Context) (string, error)
}

// BranchEnumerator lists the local branches eligible for classification.
type BranchEnumerator interface {
	ListBranches(executionContext context.Context, repositoryPath string) ([]string, error)
}

// IdentitySource resolves the author identity for a repository.
type IdentitySource interface {
	ResolveIdentity(executionContext context.Context, repositoryPath string) (string, error)
}

// BranchDeleter force-deletes a local branch.
type BranchDeleter interface {
	Delete(executionContext context.Context, branch string, repositoryPath string) error
}

// Asker solicits a response for one candidate. Implementations re-prompt on
// invalid input themselves and only return one of the Response values.
type Asker interface {
	Ask(executionContext context.Context, candidate Candidate) (Response, error)
}

// RepositoryDiscoverer locates repositories beneath root directories.
type RepositoryDiscoverer interface {
	DiscoverRepositories(roots []string) ([]string, error)
}

// GitRepositoryManager is the subset of gitrepo.RepositoryManager used by this package.
type GitRepositoryManager interface {
	IsRepository(executionContext context.Context, repositoryPath string) bool
	ListLocalBranches(executionContext context.Context, repositoryPath string) ([]string, error)
	RemoteBranchExists(executionContext context.Context, repositoryPath string, remoteName string, branchName string) (bool, error)
	DeleteLocalBranch(executionContext context.Context, repositoryPath string, branchName string) error
	GetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, error)
	GetConfigurationValue(executionContext context.Context, repositoryPath string, key string) (string, error)
}
